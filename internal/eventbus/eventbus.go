// Package eventbus abstracts outbound event publishing. Services publish
// watermill messages to a topic; the production backend forwards them to
// NATS, while tests and single-process deployments use watermill's
// in-memory gochannel pub/sub.
package eventbus

import (
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventBus is the publishing contract used by services.
type EventBus interface {
	Publish(topic string, msg *message.Message) error
	Close() error
}

// Noop is an EventBus that drops everything. Used when no NATS URL is
// configured and in tests that do not assert on events.
type Noop struct{}

func (Noop) Publish(string, *message.Message) error { return nil }
func (Noop) Close() error                           { return nil }
