package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const localTopic = "prep.events"

// LocalBus is the in-process bus used when no NATS server is reachable.
type LocalBus struct {
	pubSub *gochannel.GoChannel
}

func NewLocalBus() *LocalBus {
	return &LocalBus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewStdLogger(false, false),
		),
	}
}

func (b *LocalBus) Publish(ctx context.Context, event Event) error {
	data, err := Marshal(event)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("event_type", event.EventType())
	msg.SetContext(ctx)

	if err := b.pubSub.Publish(localTopic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventType(), err)
	}
	return nil
}

// Subscribe delivers events until ctx is cancelled. Every subscriber sees every event.
func (b *LocalBus) Subscribe(ctx context.Context, _ string, handler Handler) error {
	messages, err := b.pubSub.Subscribe(ctx, localTopic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", localTopic, err)
	}

	go func() {
		for msg := range messages {
			event, err := Unmarshal(msg.Payload)
			if err != nil {
				// malformed payloads are never going to succeed
				msg.Ack()
				continue
			}
			if err := handler(msg.Context(), event); err != nil {
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *LocalBus) Close() error {
	return b.pubSub.Close()
}
