package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats.go"
)

// natsEnvelope is the wire form of a watermill message on a NATS subject.
type natsEnvelope struct {
	UUID     string            `json:"uuid"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Payload  json.RawMessage   `json:"payload"`
}

// NATSBus publishes watermill messages as JSON envelopes on NATS subjects.
type NATSBus struct {
	conn *nats.Conn
}

// NewNATSBus connects to the given NATS URL.
func NewNATSBus(url string) (*NATSBus, error) {
	conn, err := nats.Connect(url, nats.Name("match-sync"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSBus{conn: conn}, nil
}

// Publish sends the message to the topic as a JSON envelope.
func (b *NATSBus) Publish(topic string, msg *message.Message) error {
	env := natsEnvelope{
		UUID:     msg.UUID,
		Metadata: msg.Metadata,
		Payload:  json.RawMessage(msg.Payload),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	if err := b.conn.Publish(topic, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Close drains the connection so queued publishes flush before shutdown.
func (b *NATSBus) Close() error {
	if err := b.conn.Drain(); err != nil {
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	return nil
}
