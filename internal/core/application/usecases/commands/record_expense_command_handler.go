package commands

import (
	"context"

	"empi/internal/core/domain/services"
	"empi/internal/core/ports"
	"empi/internal/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
)

// RecordExpenseCommandHandler stores an expense and books its input VAT
// into the open period holding it, in one transaction. Expenses dated into a
// closed period change only the ledger; reconciliation picks them up.
type RecordExpenseCommandHandler struct {
	uowFactory ExpenseUoWFactory
	accountant services.VATAccountant
	clock      ports.Clock
	newBackOff func() backoff.BackOff
}

// NewRecordExpenseCommandHandler retries conflicts with DefaultConflictBackOff.
func NewRecordExpenseCommandHandler(
	uowFactory ExpenseUoWFactory,
	accountant services.VATAccountant,
	clock ports.Clock,
) RecordExpenseCommandHandler {
	if clock == nil {
		clock = ports.SystemClock()
	}
	return RecordExpenseCommandHandler{
		uowFactory: uowFactory,
		accountant: accountant,
		clock:      clock,
		newBackOff: DefaultConflictBackOff,
	}
}

// WithBackOff replaces the retry policy. Used by tests.
func (h RecordExpenseCommandHandler) WithBackOff(newBackOff func() backoff.BackOff) RecordExpenseCommandHandler {
	h.newBackOff = newBackOff
	return h
}

// ExpenseResult reports whether the expense changed an open period.
type ExpenseResult struct {
	Booked bool
}

// Handle records the expense.
func (h *RecordExpenseCommandHandler) Handle(ctx context.Context, cmd RecordExpenseCommand) (ExpenseResult, error) {
	if err := cmd.Validate(); err != nil {
		return ExpenseResult{}, err
	}

	var res ExpenseResult
	err := retryOnConflict(ctx, h.newBackOff, func() error {
		var err error
		res, err = h.record(ctx, cmd)
		return err
	}, func(int, error) {
		metrics.ConflictRetriesTotal.WithLabelValues("record_expense").Inc()
	})
	if err != nil {
		return ExpenseResult{}, err
	}
	return res, nil
}

func (h *RecordExpenseCommandHandler) record(ctx context.Context, cmd RecordExpenseCommand) (ExpenseResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ExpenseResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	e := cmd.Expense()
	if err := uow.ExpenseWriter().Add(ctx, e); err != nil {
		return ExpenseResult{}, err
	}

	periodRepo := uow.VATPeriodRepository()
	period, err := periodRepo.FindByKey(ctx, h.accountant.TargetKey(e.IncurredAt()))
	if err != nil {
		return ExpenseResult{}, err
	}
	booked, err := h.accountant.DeductExpense(period, e, h.clock.Now())
	if err != nil {
		return ExpenseResult{}, err
	}
	if booked {
		if err = periodRepo.Update(ctx, period); err != nil {
			return ExpenseResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return ExpenseResult{}, err
	}
	return ExpenseResult{Booked: booked}, nil
}
