package service

import (
	"context"

	"interview-prep-be/internal/pkg/logger"
	"interview-prep-be/pkg/events"

	"github.com/google/uuid"
)

// EventDelivery pushes a serialized event to every connection of a user.
// Typically implemented by the WebSocket Hub.
type EventDelivery interface {
	SendToUser(ctx context.Context, userID uuid.UUID, message []byte)
}

type TopicEventService struct {
	subscriber  events.Subscriber
	delivery    EventDelivery
	durableName string
	logger      logger.ILogger
}

func NewTopicEventService(sub events.Subscriber, delivery EventDelivery, durableName string, log logger.ILogger) *TopicEventService {
	return &TopicEventService{
		subscriber:  sub,
		delivery:    delivery,
		durableName: durableName,
		logger:      log,
	}
}

// Start registers the relay on the bus. Delivery keeps running until ctx is done.
func (s *TopicEventService) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, s.durableName, s.handleEvent); err != nil {
		s.logger.Error("TopicEventService", "Failed to start event relay", map[string]interface{}{"error": err})
		return err
	}
	s.logger.Info("TopicEventService", "Event relay started", map[string]interface{}{"durable": s.durableName})
	return nil
}

func (s *TopicEventService) handleEvent(ctx context.Context, event events.Event) error {
	ownerID, ok := events.OwnerOf(event)
	if !ok {
		s.logger.Warn("TopicEventService", "Dropping event without owner", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	payload, err := events.Marshal(event)
	if err != nil {
		// not retryable
		s.logger.Error("TopicEventService", "Failed to encode event", map[string]interface{}{"error": err})
		return nil
	}

	s.delivery.SendToUser(ctx, ownerID, payload)
	s.logger.Debug("TopicEventService", "Event relayed", map[string]interface{}{
		"type":     event.EventType(),
		"owner_id": ownerID,
	})
	return nil
}
