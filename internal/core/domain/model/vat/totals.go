package vat

import (
	"time"

	"empi/internal/core/domain/model/kernel"
)

// Revenue is the part of a completed order that VAT accounting reads.
type Revenue struct {
	VAT          kernel.Money
	Total        kernel.Money
	RecognizedAt time.Time
}

// Deduction is the part of an expense that VAT accounting reads.
type Deduction struct {
	VAT        kernel.Money
	Deductible bool
	IncurredAt time.Time
}

// Totals are the aggregates of one period.
type Totals struct {
	OutputVAT    kernel.Money
	InputVAT     kernel.Money
	RevenueTotal kernel.Money
	OrderCount   int
	ExpenseCount int
}

// Payable is max(0, output - input).
func (t Totals) Payable() kernel.Money {
	return t.RawDifference().ClampZero()
}

// RawDifference is output - input, unclamped.
func (t Totals) RawDifference() kernel.Money {
	return t.OutputVAT.Sub(t.InputVAT)
}

// Aggregate sums the revenue and deductions falling inside w. Entries
// outside the window and non-deductible expenses are ignored, so callers may
// pass a superset.
func Aggregate(w Window, revenue []Revenue, deductions []Deduction) Totals {
	t := Totals{
		OutputVAT:    kernel.ZeroMoney(),
		InputVAT:     kernel.ZeroMoney(),
		RevenueTotal: kernel.ZeroMoney(),
	}
	for _, r := range revenue {
		if !w.Contains(r.RecognizedAt) {
			continue
		}
		t.OutputVAT = t.OutputVAT.Add(r.VAT)
		t.RevenueTotal = t.RevenueTotal.Add(r.Total)
		t.OrderCount++
	}
	for _, d := range deductions {
		if !d.Deductible || !w.Contains(d.IncurredAt) {
			continue
		}
		t.InputVAT = t.InputVAT.Add(d.VAT)
		t.ExpenseCount++
	}
	return t
}
