package contract

import (
	"context"

	"interview-prep-be/internal/entity"
	"interview-prep-be/internal/repository/specification"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
}

type DocumentSessionRepository interface {
	Create(ctx context.Context, session *entity.DocumentSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentSession, error)
}
