package commands

import (
	"errors"

	"empi/internal/core/domain/model/expense"
	"empi/internal/core/domain/model/kernel"
	"empi/internal/pkg/errs"
	"empi/internal/pkg/guard"
)

var ErrRecordExpenseCommandIsNotConstructed = errors.New(
	"RecordExpenseCommand must be created via NewRecordExpenseCommand constructor",
)

// RecordExpenseCommand appends one expense to the ledger. Only admins
// record expenses.
type RecordExpenseCommand struct { //nolint:recvcheck //using for validation
	expense *expense.Expense
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewRecordExpenseCommand(e *expense.Expense, actor kernel.Actor) (RecordExpenseCommand, error) {
	if err := e.Validate(); err != nil {
		return RecordExpenseCommand{}, errs.NewValueIsInvalidErrorWithCause("expense", err)
	}
	if actor.Role != kernel.RoleAdmin {
		return RecordExpenseCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"actor", errors.New("only admins record expenses"),
		)
	}
	return RecordExpenseCommand{expense: e, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c RecordExpenseCommand) Validate() error {
	return c.guard.Validate(ErrRecordExpenseCommandIsNotConstructed)
}

func (c RecordExpenseCommand) Expense() *expense.Expense {
	return c.expense
}

func (c RecordExpenseCommand) Actor() kernel.Actor {
	return c.actor
}
