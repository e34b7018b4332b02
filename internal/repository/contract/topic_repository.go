package contract

import (
	"context"

	"interview-prep-be/internal/entity"
	"interview-prep-be/internal/repository/specification"
)

type TopicRepository interface {
	// Create returns an error wrapping ErrDuplicate when (owner_id, slug) is taken.
	Create(ctx context.Context, topic *entity.Topic) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Topic, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Topic, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
