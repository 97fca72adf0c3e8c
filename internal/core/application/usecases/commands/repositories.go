// Package commands contains the write operations of the service. Every
// command is validated at construction; every handler runs in one unit of
// work and publishes the aggregate's events only after commit.
package commands

import (
	"context"

	"empi/internal/core/ports"
)

// Unit of work views. Handlers depend on the narrowest one they need; the
// composition root adapts the persistence unit of work to each.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	SnapshotTxManager interface {
		TxManager
		BeginSnapshot(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	QuoteRepoFactory interface {
		QuoteRepository() ports.QuoteRepository
	}

	VATPeriodRepoFactory interface {
		VATPeriodRepository() ports.VATPeriodRepository
	}

	ExpenseLedgerFactory interface {
		ExpenseLedger() ports.ExpenseLedger
	}

	// OrderUoW is used by commands that touch orders only.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// NegotiationUoW spans an order and its proposals.
	NegotiationUoW interface {
		TxManager
		OrderRepoFactory
		QuoteRepoFactory
	}

	NegotiationUoWFactory interface {
		Create() NegotiationUoW
	}

	ExpenseWriterFactory interface {
		ExpenseWriter() ports.ExpenseWriter
	}

	// CompletionUoW completes an order and books it into the open VAT
	// period in the same transaction.
	CompletionUoW interface {
		TxManager
		OrderRepoFactory
		VATPeriodRepoFactory
	}

	CompletionUoWFactory interface {
		Create() CompletionUoW
	}

	// ExpenseUoW records an expense and books its input VAT.
	ExpenseUoW interface {
		TxManager
		ExpenseWriterFactory
		VATPeriodRepoFactory
	}

	ExpenseUoWFactory interface {
		Create() ExpenseUoW
	}

	// AccountingUoW reads orders and expenses and writes VAT periods.
	AccountingUoW interface {
		SnapshotTxManager
		OrderRepoFactory
		VATPeriodRepoFactory
		ExpenseLedgerFactory
	}

	AccountingUoWFactory interface {
		Create() AccountingUoW
	}
)
