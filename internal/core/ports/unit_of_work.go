package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary. Repositories obtained from it after
// Begin run inside the transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// BeginSnapshot starts a read-only repeatable-read transaction, so every
	// read sees the same committed state.
	BeginSnapshot(ctx context.Context) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	QuoteRepository() QuoteRepository
	VATPeriodRepository() VATPeriodRepository
	ExpenseLedger() ExpenseLedger
}
