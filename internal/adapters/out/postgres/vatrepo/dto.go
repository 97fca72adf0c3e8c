// Package vatrepo persists monthly VAT periods.
package vatrepo

import (
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/vat"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodDTO is the vat_periods table. (year, month) is unique.
type PeriodDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Year           int             `gorm:"not null;uniqueIndex:vat_periods_year_month"`
	Month          int             `gorm:"not null;uniqueIndex:vat_periods_year_month"`
	WindowStart    time.Time       `gorm:"not null"`
	WindowEnd      time.Time       `gorm:"not null"`
	Status         string          `gorm:"size:16;not null;index"`
	OutputVAT      decimal.Decimal `gorm:"column:output_vat;type:numeric(14,2);not null"`
	InputVAT       decimal.Decimal `gorm:"column:input_vat;type:numeric(14,2);not null"`
	RevenueTotal   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	OrderCount     int             `gorm:"not null"`
	ExpenseCount   int             `gorm:"not null"`
	VATPayable     decimal.Decimal `gorm:"column:vat_payable;type:numeric(14,2);not null"`
	RawDifference  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	LastComputedAt *time.Time
	SubmittedAt    *time.Time
	PaidAt         *time.Time
	ArchivedAt     *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime:false;not null"`
	Version        int64     `gorm:"not null;default:0"`
}

func (PeriodDTO) TableName() string {
	return "vat_periods"
}

func fromDomain(p *vat.Period) PeriodDTO {
	s := p.Snapshot()
	return PeriodDTO{
		ID:             s.ID.Bytes(),
		Year:           s.Key.Year,
		Month:          int(s.Key.Month),
		WindowStart:    s.Window.Start,
		WindowEnd:      s.Window.End,
		Status:         s.Status.String(),
		OutputVAT:      s.Totals.OutputVAT.Decimal(),
		InputVAT:       s.Totals.InputVAT.Decimal(),
		RevenueTotal:   s.Totals.RevenueTotal.Decimal(),
		OrderCount:     s.Totals.OrderCount,
		ExpenseCount:   s.Totals.ExpenseCount,
		VATPayable:     s.VATPayable.Decimal(),
		RawDifference:  s.RawDifference.Decimal(),
		LastComputedAt: s.LastComputedAt,
		SubmittedAt:    s.SubmittedAt,
		PaidAt:         s.PaidAt,
		ArchivedAt:     s.ArchivedAt,
		CreatedAt:      s.CreatedAt,
		Version:        s.Version,
	}
}

func toDomain(dto PeriodDTO) (*vat.Period, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	key, err := vat.NewKey(dto.Year, time.Month(dto.Month))
	if err != nil {
		return nil, err
	}
	status, err := vat.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return vat.RestorePeriod(vat.Snapshot{
		ID:     id,
		Key:    key,
		Window: vat.Window{Start: dto.WindowStart, End: dto.WindowEnd},
		Status: status,
		Totals: vat.Totals{
			OutputVAT:    kernel.NewMoney(dto.OutputVAT),
			InputVAT:     kernel.NewMoney(dto.InputVAT),
			RevenueTotal: kernel.NewMoney(dto.RevenueTotal),
			OrderCount:   dto.OrderCount,
			ExpenseCount: dto.ExpenseCount,
		},
		VATPayable:     kernel.NewMoney(dto.VATPayable),
		RawDifference:  kernel.NewMoney(dto.RawDifference),
		LastComputedAt: dto.LastComputedAt,
		SubmittedAt:    dto.SubmittedAt,
		PaidAt:         dto.PaidAt,
		ArchivedAt:     dto.ArchivedAt,
		CreatedAt:      dto.CreatedAt,
		Version:        dto.Version,
	})
}
