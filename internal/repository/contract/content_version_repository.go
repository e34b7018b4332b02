package contract

import (
	"context"

	"interview-prep-be/internal/entity"
	"interview-prep-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ContentVersionRepository only appends; versions are never updated.
type ContentVersionRepository interface {
	Create(ctx context.Context, version *entity.ContentVersion) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContentVersion, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContentVersion, error)
}

type CurrentVersionRepository interface {
	// Upsert inserts or replaces the pointer for pointer.TopicId.
	Upsert(ctx context.Context, pointer *entity.CurrentVersion) error
	FindByTopicID(ctx context.Context, topicID uuid.UUID) (*entity.CurrentVersion, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CurrentVersion, error)
}
