package eventbus

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ChannelBus is an in-process EventBus backed by watermill's gochannel
// pub/sub. Subscribe is exposed so tests can observe published events.
type ChannelBus struct {
	pubsub *gochannel.GoChannel
}

// NewChannelBus creates an in-process bus.
func NewChannelBus() *ChannelBus {
	return &ChannelBus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{}),
	}
}

func (b *ChannelBus) Publish(topic string, msg *message.Message) error {
	return b.pubsub.Publish(topic, msg)
}

// Subscribe returns a channel of messages published to the topic.
func (b *ChannelBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

func (b *ChannelBus) Close() error {
	return b.pubsub.Close()
}
