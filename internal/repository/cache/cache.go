package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Cache stores serialized read models. Misses and backend failures look the same to callers.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

func TopicDetailKey(ownerID, topicID uuid.UUID) string {
	return fmt.Sprintf("prep:topic:%s:%s", ownerID, topicID)
}

func TopicListKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("prep:topics:%s", ownerID)
}
