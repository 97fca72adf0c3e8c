// Package expense models entries of the external expense ledger. The core
// only reads them; deductible expenses feed input VAT.
package expense

import (
	"errors"
	"strings"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/pkg/errs"
)

var ErrExpenseIsNotConstructed = errors.New("expense must be created via NewExpense")

type Expense struct {
	id          kernel.UUID
	description string
	amount      kernel.Money
	vat         kernel.Money
	deductible  bool
	incurredAt  time.Time

	isConstructed bool
}

func NewExpense(
	id kernel.UUID,
	description string,
	amount, vat kernel.Money,
	deductible bool,
	incurredAt time.Time,
) (*Expense, error) {
	e := &Expense{
		id:            id,
		description:   strings.TrimSpace(description),
		amount:        amount,
		vat:           vat,
		deductible:    deductible,
		incurredAt:    incurredAt,
		isConstructed: true,
	}

	var errList []error
	errList = append(errList,
		id.Validate(),
		amount.ValidateNonNegative("amount"),
		vat.ValidateNonNegative("vat"),
	)
	if e.description == "" {
		errList = append(errList, errs.NewValueIsRequiredError("description"))
	}
	if incurredAt.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("incurredAt"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Expense) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrExpenseIsNotConstructed
	}
	return nil
}

func (e *Expense) ID() kernel.UUID {
	return e.id
}

func (e *Expense) Description() string {
	return e.description
}

func (e *Expense) Amount() kernel.Money {
	return e.amount
}

func (e *Expense) VAT() kernel.Money {
	return e.vat
}

func (e *Expense) Deductible() bool {
	return e.deductible
}

func (e *Expense) IncurredAt() time.Time {
	return e.incurredAt
}
