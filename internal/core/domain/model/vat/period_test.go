package vat_test

import (
	"testing"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/vat"
	"empi/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march = vat.Key{Year: 2025, Month: time.March}

func newPeriod(t *testing.T) *vat.Period {
	t.Helper()
	p, err := vat.NewPeriod(kernel.NewUUID(), march, lagos, time.Date(2025, time.March, 1, 0, 0, 0, 0, lagos))
	require.NoError(t, err)
	return p
}

func inMarch(day int) time.Time {
	if day > vat.CutoffDay {
		return time.Date(2025, time.February, day, 10, 0, 0, 0, lagos)
	}
	return time.Date(2025, time.March, day, 10, 0, 0, 0, lagos)
}

func TestStatus_CanMoveTo(t *testing.T) {
	assert.True(t, vat.Active.CanMoveTo(vat.Submitted))
	assert.True(t, vat.Active.CanMoveTo(vat.Archived))
	assert.True(t, vat.Submitted.CanMoveTo(vat.Paid))
	assert.False(t, vat.Paid.CanMoveTo(vat.Submitted))
	assert.False(t, vat.Submitted.CanMoveTo(vat.Submitted))
	assert.False(t, vat.Archived.CanMoveTo(vat.Active))
	assert.False(t, vat.Status("closed").CanMoveTo(vat.Archived))
}

func TestPeriod_PayableIsClamped(t *testing.T) {
	p := newPeriod(t)
	require.NoError(t, p.RecognizeOrder(vat.Revenue{
		VAT: kernel.MoneyFromInt(100), Total: kernel.MoneyFromInt(1433), RecognizedAt: inMarch(3),
	}, inMarch(3)))
	require.NoError(t, p.DeductExpense(vat.Deduction{
		VAT: kernel.MoneyFromInt(250), Deductible: true, IncurredAt: inMarch(4),
	}, inMarch(4)))

	assert.True(t, p.VATPayable().IsZero())
	assert.Equal(t, "-150.00", p.RawDifference().String())
}

func TestPeriod_IncrementalEqualsRecompute(t *testing.T) {
	revenue := []vat.Revenue{
		{VAT: kernel.MoneyFromInt(10125), Total: kernel.MoneyFromInt(145125), RecognizedAt: inMarch(25)},
		{VAT: kernel.MoneyFromInt(1500), Total: kernel.MoneyFromInt(21500), RecognizedAt: inMarch(2)},
		{VAT: kernel.MoneyFromInt(3375), Total: kernel.MoneyFromInt(48375), RecognizedAt: inMarch(21)},
	}
	deductions := []vat.Deduction{
		{VAT: kernel.MoneyFromInt(750), Deductible: true, IncurredAt: inMarch(10)},
		{VAT: kernel.MoneyFromInt(900), Deductible: false, IncurredAt: inMarch(11)},
	}

	incremental := newPeriod(t)
	for _, r := range revenue {
		require.NoError(t, incremental.RecognizeOrder(r, r.RecognizedAt))
	}
	for _, d := range deductions {
		require.NoError(t, incremental.DeductExpense(d, d.IncurredAt))
	}

	recomputed := newPeriod(t)
	require.NoError(t, recomputed.Recompute(vat.Aggregate(recomputed.Window(), revenue, deductions), inMarch(21)))

	a, b := incremental.Totals(), recomputed.Totals()
	assert.True(t, a.OutputVAT.Equal(b.OutputVAT))
	assert.True(t, a.InputVAT.Equal(b.InputVAT))
	assert.True(t, a.RevenueTotal.Equal(b.RevenueTotal))
	assert.Equal(t, a.OrderCount, b.OrderCount)
	assert.Equal(t, a.ExpenseCount, b.ExpenseCount)
	assert.Equal(t, "14250.00", b.Payable().String())
}

func TestAggregate_IgnoresEntriesOutsideTheWindow(t *testing.T) {
	w := vat.WindowFor(march, lagos)

	totals := vat.Aggregate(w, []vat.Revenue{
		{VAT: kernel.MoneyFromInt(10), RecognizedAt: w.End},
		{VAT: kernel.MoneyFromInt(20), RecognizedAt: w.Start.Add(-time.Nanosecond)},
		{VAT: kernel.MoneyFromInt(30), RecognizedAt: w.Start},
	}, nil)

	assert.Equal(t, "30.00", totals.OutputVAT.String())
	assert.Equal(t, 1, totals.OrderCount)
}

func TestPeriod_RecognizeOrderOutsideWindow(t *testing.T) {
	p := newPeriod(t)

	err := p.RecognizeOrder(vat.Revenue{VAT: kernel.MoneyFromInt(1), RecognizedAt: p.Window().End}, inMarch(1))

	require.Error(t, err)
	assert.Equal(t, 0, p.Totals().OrderCount)
}

func TestPeriod_StatusIsForwardOnly(t *testing.T) {
	p := newPeriod(t)
	at := inMarch(21)

	require.NoError(t, p.Submit(at))
	require.ErrorIs(t, p.RecognizeOrder(vat.Revenue{RecognizedAt: inMarch(5)}, at), errs.ErrInvalidTransition)
	require.NoError(t, p.Recompute(vat.Totals{}, at))

	require.ErrorIs(t, p.MoveTo(vat.Active, at), errs.ErrInvalidTransition)
	require.NoError(t, p.Archive(at))
	assert.True(t, p.IsArchived())
	require.ErrorIs(t, p.MarkPaid(at), errs.ErrInvalidTransition)
	require.ErrorIs(t, p.Recompute(vat.Totals{}, at), errs.ErrInvalidTransition)

	s := p.Snapshot()
	assert.NotNil(t, s.SubmittedAt)
	assert.Nil(t, s.PaidAt)
	assert.NotNil(t, s.ArchivedAt)
}

func TestRestorePeriod(t *testing.T) {
	p := newPeriod(t)
	require.NoError(t, p.RecognizeOrder(vat.Revenue{
		VAT: kernel.MoneyFromInt(75), Total: kernel.MoneyFromInt(1075), RecognizedAt: inMarch(5),
	}, inMarch(5)))

	restored, err := vat.RestorePeriod(p.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, "75.00", restored.VATPayable().String())

	s := p.Snapshot()
	s.VATPayable = kernel.MoneyFromInt(1)
	_, err = vat.RestorePeriod(s)
	require.Error(t, err)
}
