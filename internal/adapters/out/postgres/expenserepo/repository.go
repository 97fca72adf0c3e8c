// Package expenserepo reads the expense ledger shared with the finance
// tooling. The service only adds rows through the CLI seeding path; VAT
// accounting reads deductions.
package expenserepo

import (
	"context"
	"time"

	"empi/internal/core/domain/model/expense"
	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/vat"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseDTO is the expenses table.
type ExpenseDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Description string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	VAT         decimal.Decimal `gorm:"column:vat;type:numeric(14,2);not null"`
	Deductible  bool            `gorm:"not null;default:false"`
	IncurredAt  time.Time       `gorm:"not null;index"`
}

func (ExpenseDTO) TableName() string {
	return "expenses"
}

// GormExpenseLedger implements ports.ExpenseLedger using GORM.
type GormExpenseLedger struct {
	db *gorm.DB
}

func NewGormExpenseLedger(db *gorm.DB) *GormExpenseLedger {
	return &GormExpenseLedger{db: db}
}

func (l *GormExpenseLedger) Add(ctx context.Context, e *expense.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	dto := ExpenseDTO{
		ID:          e.ID().Bytes(),
		Description: e.Description(),
		Amount:      e.Amount().Decimal(),
		VAT:         e.VAT().Decimal(),
		Deductible:  e.Deductible(),
		IncurredAt:  e.IncurredAt(),
	}
	return l.db.WithContext(ctx).Create(&dto).Error
}

func (l *GormExpenseLedger) ListDeductions(ctx context.Context, from, to time.Time) ([]vat.Deduction, error) {
	var dtos []ExpenseDTO
	err := l.db.WithContext(ctx).
		Where("incurred_at >= ? AND incurred_at < ?", from, to).
		Order("incurred_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	deductions := make([]vat.Deduction, 0, len(dtos))
	for _, dto := range dtos {
		deductions = append(deductions, vat.Deduction{
			VAT:        kernel.NewMoney(dto.VAT),
			Deductible: dto.Deductible,
			IncurredAt: dto.IncurredAt,
		})
	}
	return deductions, nil
}
