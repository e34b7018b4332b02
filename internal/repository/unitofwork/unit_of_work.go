package unitofwork

import (
	"context"

	"interview-prep-be/internal/repository/contract"
)

// UnitOfWork hands out repositories bound to one optional transaction.
// Without Begin every repository call runs in its own implicit transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	TopicRepository() contract.TopicRepository
	ContentVersionRepository() contract.ContentVersionRepository
	CurrentVersionRepository() contract.CurrentVersionRepository
	DocumentRepository() contract.DocumentRepository
	DocumentSessionRepository() contract.DocumentSessionRepository
}
