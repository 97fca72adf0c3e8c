// Package quoterepo persists quote proposals of custom orders.
package quoterepo

import (
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/pricing"
	"empi/internal/core/domain/model/quote"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteDTO is the quotes table. At most one row per order has IsFinal set;
// the partial unique index created by Migrate enforces it.
type QuoteDTO struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderNumber          string          `gorm:"size:64;not null;index"`
	SenderRole           string          `gorm:"size:16;not null"`
	Quantity             int             `gorm:"not null"`
	UnitPrice            decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DiscountPercent      decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	Subtotal             decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DiscountAmount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	VAT                  decimal.Decimal `gorm:"column:vat;type:numeric(14,2);not null"`
	Total                decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ProposedDeliveryDate *time.Time
	Message              string
	IsFinal              bool      `gorm:"not null;default:false"`
	CreatedAt            time.Time `gorm:"autoCreateTime:false;not null"`
}

func (QuoteDTO) TableName() string {
	return "quotes"
}

func fromDomain(p *quote.Proposal) QuoteDTO {
	s := p.Snapshot()
	return QuoteDTO{
		ID:                   s.ID.Bytes(),
		OrderNumber:          s.OrderNumber.String(),
		SenderRole:           string(s.SenderRole),
		Quantity:             s.Quantity,
		UnitPrice:            s.UnitPrice.Decimal(),
		DiscountPercent:      s.Discount.Decimal(),
		Subtotal:             s.Breakdown.Subtotal.Decimal(),
		DiscountAmount:       s.Breakdown.DiscountAmount.Decimal(),
		VAT:                  s.Breakdown.VAT.Decimal(),
		Total:                s.Breakdown.Total.Decimal(),
		ProposedDeliveryDate: s.ProposedDeliveryDate,
		Message:              s.Message,
		IsFinal:              s.IsFinal,
		CreatedAt:            s.CreatedAt,
	}
}

func toDomain(dto QuoteDTO) (*quote.Proposal, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	discount, err := pricing.NewDiscountPercent(dto.DiscountPercent)
	if err != nil {
		return nil, err
	}
	breakdown, err := pricing.RestoreBreakdown(
		kernel.NewMoney(dto.Subtotal),
		kernel.NewMoney(dto.DiscountAmount),
		kernel.NewMoney(dto.VAT),
		kernel.NewMoney(dto.Total),
	)
	if err != nil {
		return nil, err
	}

	return quote.RestoreProposal(quote.Snapshot{
		ID:                   id,
		OrderNumber:          order.Number(dto.OrderNumber),
		SenderRole:           kernel.Role(dto.SenderRole),
		Quantity:             dto.Quantity,
		UnitPrice:            kernel.NewMoney(dto.UnitPrice),
		Discount:             discount,
		Breakdown:            breakdown,
		ProposedDeliveryDate: dto.ProposedDeliveryDate,
		Message:              dto.Message,
		IsFinal:              dto.IsFinal,
		CreatedAt:            dto.CreatedAt,
	})
}
