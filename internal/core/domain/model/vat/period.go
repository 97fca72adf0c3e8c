package vat

import (
	"errors"
	"fmt"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/pkg/errs"
)

var ErrPeriodIsNotConstructed = errors.New("period must be created via NewPeriod or RestorePeriod")

// Period is the VAT accounting aggregate for one (month, year).
type Period struct {
	id     kernel.UUID
	key    Key
	window Window
	status Status
	totals Totals

	lastComputedAt *time.Time
	submittedAt    *time.Time
	paidAt         *time.Time
	archivedAt     *time.Time
	createdAt      time.Time
	version        int64

	isConstructed bool
}

// NewPeriod opens an active period with zero aggregates.
func NewPeriod(id kernel.UUID, key Key, loc *time.Location, now time.Time) (*Period, error) {
	if err := errors.Join(id.Validate(), key.Validate()); err != nil {
		return nil, err
	}
	return &Period{
		id:     id,
		key:    key,
		window: WindowFor(key, loc),
		status: Active,
		totals: Totals{
			OutputVAT:    kernel.ZeroMoney(),
			InputVAT:     kernel.ZeroMoney(),
			RevenueTotal: kernel.ZeroMoney(),
		},
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// Snapshot is the persisted state of a period. VATPayable and RawDifference
// are derived and only carried for storage.
type Snapshot struct {
	ID             kernel.UUID
	Key            Key
	Window         Window
	Status         Status
	Totals         Totals
	VATPayable     kernel.Money
	RawDifference  kernel.Money
	LastComputedAt *time.Time
	SubmittedAt    *time.Time
	PaidAt         *time.Time
	ArchivedAt     *time.Time
	CreatedAt      time.Time
	Version        int64
}

func RestorePeriod(s Snapshot) (*Period, error) {
	var errList []error
	errList = append(errList, s.ID.Validate(), s.Key.Validate(), s.Status.Validate())
	if !s.Window.Start.Before(s.Window.End) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"window", fmt.Errorf("window start %s is not before end %s", s.Window.Start, s.Window.End),
		))
	}
	if !s.VATPayable.Equal(s.Totals.Payable()) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"vatPayable", fmt.Errorf("stored %s differs from derived %s", s.VATPayable, s.Totals.Payable()),
		))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &Period{
		id:             s.ID,
		key:            s.Key,
		window:         s.Window,
		status:         s.Status,
		totals:         s.Totals,
		lastComputedAt: s.LastComputedAt,
		submittedAt:    s.SubmittedAt,
		paidAt:         s.PaidAt,
		archivedAt:     s.ArchivedAt,
		createdAt:      s.CreatedAt,
		version:        s.Version,
		isConstructed:  true,
	}, nil
}

func (p *Period) Snapshot() Snapshot {
	return Snapshot{
		ID:             p.id,
		Key:            p.key,
		Window:         p.window,
		Status:         p.status,
		Totals:         p.totals,
		VATPayable:     p.totals.Payable(),
		RawDifference:  p.totals.RawDifference(),
		LastComputedAt: p.lastComputedAt,
		SubmittedAt:    p.submittedAt,
		PaidAt:         p.paidAt,
		ArchivedAt:     p.archivedAt,
		CreatedAt:      p.createdAt,
		Version:        p.version,
	}
}

func (p *Period) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPeriodIsNotConstructed
	}
	return nil
}

func (p *Period) ID() kernel.UUID {
	return p.id
}

func (p *Period) Key() Key {
	return p.key
}

func (p *Period) Window() Window {
	return p.window
}

func (p *Period) Status() Status {
	return p.status
}

func (p *Period) Totals() Totals {
	return p.totals
}

func (p *Period) VATPayable() kernel.Money {
	return p.totals.Payable()
}

func (p *Period) RawDifference() kernel.Money {
	return p.totals.RawDifference()
}

func (p *Period) LastComputedAt() *time.Time {
	return p.lastComputedAt
}

func (p *Period) Version() int64 {
	return p.version
}

// IncrementVersion is called by the repository after a conditional update.
func (p *Period) IncrementVersion() {
	p.version++
}

func (p *Period) IsActive() bool {
	return p.status == Active
}

func (p *Period) IsArchived() bool {
	return p.status == Archived
}

func (p *Period) requireMutable() error {
	if p.status == Archived {
		return errs.NewInvalidTransitionErrorWithCause(
			p.status.String(), p.status.String(), fmt.Errorf("period %s is archived", p.key),
		)
	}
	return nil
}

// RecognizeOrder adds one completed order to an active period.
func (p *Period) RecognizeOrder(r Revenue, now time.Time) error {
	if err := p.requireActive(); err != nil {
		return err
	}
	if !p.window.Contains(r.RecognizedAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"recognizedAt", fmt.Errorf("%s is outside period %s", r.RecognizedAt, p.key),
		)
	}
	p.totals.OutputVAT = p.totals.OutputVAT.Add(r.VAT)
	p.totals.RevenueTotal = p.totals.RevenueTotal.Add(r.Total)
	p.totals.OrderCount++
	p.lastComputedAt = &now
	return nil
}

// DeductExpense adds one expense to an active period. Non-deductible
// expenses are ignored.
func (p *Period) DeductExpense(d Deduction, now time.Time) error {
	if err := p.requireActive(); err != nil {
		return err
	}
	if !p.window.Contains(d.IncurredAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"incurredAt", fmt.Errorf("%s is outside period %s", d.IncurredAt, p.key),
		)
	}
	if !d.Deductible {
		return nil
	}
	p.totals.InputVAT = p.totals.InputVAT.Add(d.VAT)
	p.totals.ExpenseCount++
	p.lastComputedAt = &now
	return nil
}

func (p *Period) requireActive() error {
	if p.status != Active {
		return errs.NewInvalidTransitionErrorWithCause(
			p.status.String(), p.status.String(), fmt.Errorf("period %s is no longer active", p.key),
		)
	}
	return nil
}

// Recompute replaces the aggregates with totals derived from source data.
// Any non-archived period may be recomputed.
func (p *Period) Recompute(t Totals, now time.Time) error {
	if err := p.requireMutable(); err != nil {
		return err
	}
	p.totals = t
	p.lastComputedAt = &now
	return nil
}

// MoveTo advances the period status. Moving backwards or staying put fails.
func (p *Period) MoveTo(to Status, now time.Time) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if !p.status.CanMoveTo(to) {
		return errs.NewInvalidTransitionError(p.status.String(), to.String())
	}

	switch to {
	case Submitted:
		p.submittedAt = &now
	case Paid:
		p.paidAt = &now
	case Archived:
		p.archivedAt = &now
	}
	p.status = to
	return nil
}

func (p *Period) Submit(now time.Time) error {
	return p.MoveTo(Submitted, now)
}

func (p *Period) MarkPaid(now time.Time) error {
	return p.MoveTo(Paid, now)
}

func (p *Period) Archive(now time.Time) error {
	return p.MoveTo(Archived, now)
}
