package queries

import (
	"database/sql"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/vat"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VATPeriodResponse is the read model of one VAT period.
type VATPeriodResponse struct {
	ID             kernel.UUID
	Year           int
	Month          time.Month
	WindowStart    time.Time
	WindowEnd      time.Time
	Status         string
	OutputVAT      kernel.Money
	InputVAT       kernel.Money
	RevenueTotal   kernel.Money
	OrderCount     int
	ExpenseCount   int
	VATPayable     kernel.Money
	RawDifference  kernel.Money
	LastComputedAt *time.Time
	SubmittedAt    *time.Time
	PaidAt         *time.Time
	ArchivedAt     *time.Time
	Version        int64
}

const vatPeriodColumns = `
	id,
	year,
	month,
	window_start,
	window_end,
	status,
	output_vat,
	input_vat,
	revenue_total,
	order_count,
	expense_count,
	vat_payable,
	raw_difference,
	last_computed_at,
	submitted_at,
	paid_at,
	archived_at,
	version`

func scanVATPeriod(rows *sql.Rows) (VATPeriodResponse, error) {
	var (
		resp                                                VATPeriodResponse
		id                                                  uuid.UUID
		month                                               int
		outputVAT, inputVAT, revenueTotal, payable, rawDiff decimal.Decimal
	)
	err := rows.Scan(
		&id,
		&resp.Year,
		&month,
		&resp.WindowStart,
		&resp.WindowEnd,
		&resp.Status,
		&outputVAT,
		&inputVAT,
		&revenueTotal,
		&resp.OrderCount,
		&resp.ExpenseCount,
		&payable,
		&rawDiff,
		&resp.LastComputedAt,
		&resp.SubmittedAt,
		&resp.PaidAt,
		&resp.ArchivedAt,
		&resp.Version,
	)
	if err != nil {
		return VATPeriodResponse{}, err
	}

	periodID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return VATPeriodResponse{}, err
	}
	resp.ID = periodID
	resp.Month = time.Month(month)
	resp.OutputVAT = kernel.NewMoney(outputVAT)
	resp.InputVAT = kernel.NewMoney(inputVAT)
	resp.RevenueTotal = kernel.NewMoney(revenueTotal)
	resp.VATPayable = kernel.NewMoney(payable)
	resp.RawDifference = kernel.NewMoney(rawDiff)
	return resp, nil
}

// NewVATPeriodResponse flattens an aggregate returned by a command.
func NewVATPeriodResponse(p *vat.Period) VATPeriodResponse {
	s := p.Snapshot()
	return VATPeriodResponse{
		ID:             s.ID,
		Year:           s.Key.Year,
		Month:          s.Key.Month,
		WindowStart:    s.Window.Start,
		WindowEnd:      s.Window.End,
		Status:         s.Status.String(),
		OutputVAT:      s.Totals.OutputVAT,
		InputVAT:       s.Totals.InputVAT,
		RevenueTotal:   s.Totals.RevenueTotal,
		OrderCount:     s.Totals.OrderCount,
		ExpenseCount:   s.Totals.ExpenseCount,
		VATPayable:     s.VATPayable,
		RawDifference:  s.RawDifference,
		LastComputedAt: s.LastComputedAt,
		SubmittedAt:    s.SubmittedAt,
		PaidAt:         s.PaidAt,
		ArchivedAt:     s.ArchivedAt,
		Version:        s.Version,
	}
}
