package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicCreated     = "TOPIC_CREATED"
	ContentGenerated = "CONTENT_GENERATED"
)

func NewTopicCreated(topicID, ownerID uuid.UUID, slug string) BaseEvent {
	return BaseEvent{
		Type: TopicCreated,
		Data: map[string]interface{}{
			"topic_id": topicID.String(),
			"owner_id": ownerID.String(),
			"slug":     slug,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func NewContentGenerated(topicID, ownerID, versionID uuid.UUID) BaseEvent {
	return BaseEvent{
		Type: ContentGenerated,
		Data: map[string]interface{}{
			"topic_id":   topicID.String(),
			"owner_id":   ownerID.String(),
			"version_id": versionID.String(),
		},
		OccurredAt: time.Now().UTC(),
	}
}

// OwnerOf returns the owner id carried in the payload, if any.
func OwnerOf(event Event) (uuid.UUID, bool) {
	raw, ok := event.Payload()["owner_id"].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
