package services

import (
	"fmt"
	"slices"
	"time"

	"empi/internal/core/domain/model/expense"
	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/vat"
	"empi/internal/pkg/errs"
)

// ClosePolicy decides what happens to a still-active previous period when
// the next one is opened.
type ClosePolicy string

const (
	CloseBySubmitting ClosePolicy = "submit"
	CloseByArchiving  ClosePolicy = "archive"
)

// ParseClosePolicy accepts "submit" or "archive".
func ParseClosePolicy(s string) (ClosePolicy, error) {
	switch p := ClosePolicy(s); p {
	case CloseBySubmitting, CloseByArchiving:
		return p, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("closePolicy", fmt.Errorf("%q is not submit or archive", s))
	}
}

func (p ClosePolicy) status() vat.Status {
	if p == CloseByArchiving {
		return vat.Archived
	}
	return vat.Submitted
}

// Ledger is a consistent read of every source row VAT is derived from.
type Ledger struct {
	Revenue    []vat.Revenue
	Deductions []vat.Deduction
}

// RolloverResult describes what a rollover changed.
type RolloverResult struct {
	Target  *vat.Period
	Created bool
	// Closed lists the earlier periods this rollover closed, oldest first.
	Closed []*vat.Period
	// Changed lists every period that must be persisted.
	Changed []*vat.Period
}

// VATAccountant derives period aggregates from a ledger. It never reads
// storage itself; callers load the periods and the ledger and persist
// whatever comes back in Changed.
type VATAccountant struct {
	loc    *time.Location
	policy ClosePolicy
}

// NewVATAccountant keys periods by calendar month in loc.
func NewVATAccountant(loc *time.Location, policy ClosePolicy) (VATAccountant, error) {
	if loc == nil {
		return VATAccountant{}, errs.NewValueIsRequiredError("location")
	}
	if _, err := ParseClosePolicy(string(policy)); err != nil {
		return VATAccountant{}, err
	}
	return VATAccountant{loc: loc, policy: policy}, nil
}

// Location is the accounting time zone.
func (a VATAccountant) Location() *time.Location {
	return a.loc
}

// TargetKey is the period whose window contains now.
func (a VATAccountant) TargetKey(now time.Time) vat.Key {
	return vat.KeyAt(now, a.loc)
}

// Rollover opens or refreshes the period containing now. Every earlier
// period that is still active, however far back, is recomputed one last time
// and closed per policy. Periods that are not active are left untouched, so
// repeating a rollover changes nothing but the recomputation timestamp.
func (a VATAccountant) Rollover(
	now time.Time,
	target *vat.Period,
	earlier []*vat.Period,
	newID kernel.UUID,
	ledger Ledger,
) (RolloverResult, error) {
	key := a.TargetKey(now)
	var res RolloverResult

	for _, p := range earlier {
		if !p.Key().Before(key) {
			return res, errs.NewValueIsInvalidErrorWithCause(
				"earlier", fmt.Errorf("period %s does not precede %s", p.Key(), key),
			)
		}
	}
	if target != nil && target.Key() != key {
		return res, errs.NewValueIsInvalidErrorWithCause(
			"target", fmt.Errorf("period %s is not %s", target.Key(), key),
		)
	}

	stale := make([]*vat.Period, 0, len(earlier))
	for _, p := range earlier {
		if p.IsActive() {
			stale = append(stale, p)
		}
	}
	slices.SortFunc(stale, func(x, y *vat.Period) int {
		switch {
		case x.Key().Before(y.Key()):
			return -1
		case y.Key().Before(x.Key()):
			return 1
		default:
			return 0
		}
	})
	for _, p := range stale {
		if err := a.recompute(p, ledger, now); err != nil {
			return res, err
		}
		if err := p.MoveTo(a.policy.status(), now); err != nil {
			return res, err
		}
		res.Closed = append(res.Closed, p)
		res.Changed = append(res.Changed, p)
	}

	if target == nil {
		created, err := vat.NewPeriod(newID, key, a.loc, now)
		if err != nil {
			return res, err
		}
		target = created
		res.Created = true
	}
	res.Target = target

	if target.IsActive() {
		if err := a.recompute(target, ledger, now); err != nil {
			return res, err
		}
		res.Changed = append(res.Changed, target)
	}
	return res, nil
}

// RecognizeOrder books a just-completed order into p, the period holding its
// completion instant. It reports false and changes nothing when there is no
// such period yet or it is no longer active; the next rollover or reconcile
// derives the order from the ledger instead.
func (a VATAccountant) RecognizeOrder(p *vat.Period, o *order.Order, now time.Time) (bool, error) {
	if !o.RecognizesRevenue() {
		return false, errs.NewValueIsInvalidErrorWithCause(
			"order", fmt.Errorf("order %s is not completed", o.Number()),
		)
	}
	completedAt := *o.CompletedAt()
	if p == nil || !p.IsActive() {
		return false, nil
	}
	if p.Key() != a.TargetKey(completedAt) {
		return false, errs.NewValueIsInvalidErrorWithCause(
			"period", fmt.Errorf("period %s does not hold %s", p.Key(), completedAt),
		)
	}
	err := p.RecognizeOrder(vat.Revenue{VAT: o.VAT(), Total: o.Total(), RecognizedAt: completedAt}, now)
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeductExpense books a newly recorded expense into p the way RecognizeOrder
// books revenue. Non-deductible expenses never change a period.
func (a VATAccountant) DeductExpense(p *vat.Period, e *expense.Expense, now time.Time) (bool, error) {
	if err := e.Validate(); err != nil {
		return false, err
	}
	if p == nil || !p.IsActive() || !e.Deductible() {
		return false, nil
	}
	if p.Key() != a.TargetKey(e.IncurredAt()) {
		return false, errs.NewValueIsInvalidErrorWithCause(
			"period", fmt.Errorf("period %s does not hold %s", p.Key(), e.IncurredAt()),
		)
	}
	err := p.DeductExpense(vat.Deduction{VAT: e.VAT(), Deductible: true, IncurredAt: e.IncurredAt()}, now)
	if err != nil {
		return false, err
	}
	return true, nil
}

// Reconcile recomputes every non-archived period from the ledger and returns
// the periods it changed.
func (a VATAccountant) Reconcile(periods []*vat.Period, ledger Ledger, now time.Time) ([]*vat.Period, error) {
	changed := make([]*vat.Period, 0, len(periods))
	for _, p := range periods {
		if p.IsArchived() {
			continue
		}
		if err := a.recompute(p, ledger, now); err != nil {
			return nil, err
		}
		changed = append(changed, p)
	}
	return changed, nil
}

func (a VATAccountant) recompute(p *vat.Period, ledger Ledger, now time.Time) error {
	return p.Recompute(vat.Aggregate(p.Window(), ledger.Revenue, ledger.Deductions), now)
}
