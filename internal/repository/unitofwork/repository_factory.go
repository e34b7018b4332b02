package unitofwork

import "context"

// RepositoryFactory is what services hold; each call site gets a fresh unit.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
