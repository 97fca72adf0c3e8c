package ports

import (
	"context"
	"time"

	"empi/internal/core/domain/model/expense"
	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/vat"
)

// VATPeriodRepository persists VAT periods. (year, month) is unique.
type VATPeriodRepository interface {
	Add(ctx context.Context, period *vat.Period) error

	// Update is conditional on period.Version(), like OrderRepository.Update.
	Update(ctx context.Context, period *vat.Period) error

	Get(ctx context.Context, id kernel.UUID) (*vat.Period, error)

	// FindByKey returns nil when the period does not exist yet.
	FindByKey(ctx context.Context, key vat.Key) (*vat.Period, error)

	// List returns periods newest first.
	List(ctx context.Context, includeArchived bool) ([]*vat.Period, error)
}

// ExpenseLedger is the read side of the external expense ledger.
type ExpenseLedger interface {
	// ListDeductions returns expenses incurred in [from, to).
	ListDeductions(ctx context.Context, from, to time.Time) ([]vat.Deduction, error)
}

// ExpenseWriter appends entries to the expense ledger.
type ExpenseWriter interface {
	Add(ctx context.Context, e *expense.Expense) error
}
