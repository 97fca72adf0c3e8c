// Package orderrepo persists Order aggregates. Regular line items are kept
// in a JSON column; the custom payload and every derived amount are plain
// columns so accounting and listings can query them directly.
package orderrepo

import (
	"encoding/json"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO is the orders table.
type OrderDTO struct {
	Number    string     `gorm:"column:order_number;primaryKey;size:64"`
	Origin    string     `gorm:"size:16;not null;index"`
	Status    string     `gorm:"size:16;not null;index"`
	Handler   string     `gorm:"size:16;not null;index"`
	HandoffAt *time.Time

	BuyerName  string `gorm:"not null"`
	BuyerEmail string
	BuyerPhone string

	Items           datatypes.JSON
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	Description     string
	Quantity        int
	UnitPrice       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	AcceptedQuoteID *uuid.UUID      `gorm:"type:uuid"`
	QuoteCount      int

	Subtotal       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	VAT            decimal.Decimal `gorm:"column:vat;type:numeric(14,2);not null"`
	Total          decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	PaymentProofRef        string
	PaymentProofUploadedAt *time.Time
	PaymentVerified        bool
	PaymentVerifiedAt      *time.Time
	PaymentVerifiedBy      string

	TimerStartedAt     *time.Time
	DeadlineAt         *time.Time `gorm:"index"`
	TimerDurationDays  int
	TimerDurationHours int
	DeadlineNotifiedAt *time.Time

	StatusNote  string
	CompletedAt *time.Time `gorm:"index"`
	CancelledAt *time.Time

	IsActive  bool `gorm:"not null;default:true;index"`
	DeletedAt *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime:false;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null"`
	Version   int64     `gorm:"not null;default:0"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one element of the items JSON column.
type LineItemDTO struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Mode       string          `json:"mode"`
	RentalDays int             `json:"rentalDays,omitempty"`
}

func fromDomain(o *order.Order) (OrderDTO, error) {
	s := o.Snapshot()
	dto := OrderDTO{
		Number:                 s.Number.String(),
		Origin:                 s.Origin.String(),
		Status:                 s.Status.String(),
		Handler:                s.Handler.String(),
		HandoffAt:              s.HandoffAt,
		BuyerName:              s.Buyer.Name,
		BuyerEmail:             s.Buyer.Email,
		BuyerPhone:             s.Buyer.Phone,
		Subtotal:               s.Breakdown.Subtotal.Decimal(),
		DiscountAmount:         s.Breakdown.DiscountAmount.Decimal(),
		VAT:                    s.Breakdown.VAT.Decimal(),
		Total:                  s.Breakdown.Total.Decimal(),
		PaymentProofRef:        s.Payment.ProofRef,
		PaymentProofUploadedAt: s.Payment.ProofUploadedAt,
		PaymentVerified:        s.Payment.Verified,
		PaymentVerifiedAt:      s.Payment.VerifiedAt,
		PaymentVerifiedBy:      s.Payment.VerifiedBy,
		StatusNote:             s.StatusNote,
		CompletedAt:            s.CompletedAt,
		CancelledAt:            s.CancelledAt,
		IsActive:               s.IsActive,
		DeletedAt:              s.DeletedAt,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
		Version:                s.Version,
	}

	switch p := s.Payload.(type) {
	case *order.RegularPayload:
		items := make([]LineItemDTO, 0, len(p.Items()))
		for _, li := range p.Items() {
			items = append(items, LineItemDTO{
				Name:       li.Name,
				Quantity:   li.Quantity,
				UnitPrice:  li.UnitPrice.Decimal(),
				Mode:       string(li.Mode),
				RentalDays: li.RentalDays,
			})
		}
		raw, err := json.Marshal(items)
		if err != nil {
			return OrderDTO{}, err
		}
		dto.Items = datatypes.JSON(raw)
		dto.DiscountPercent = p.Discount().Decimal()
	case *order.CustomPayload:
		dto.Description = p.Description()
		dto.Quantity = p.Quantity()
		dto.UnitPrice = p.UnitPrice().Decimal()
		dto.DiscountPercent = p.Discount().Decimal()
		dto.QuoteCount = p.QuoteCount()
		if id := p.AcceptedQuoteID(); id != nil {
			raw := id.Bytes()
			dto.AcceptedQuoteID = &raw
		}
	}

	if t := s.Timer; t != nil {
		started, deadline := t.StartedAt(), t.Deadline()
		dto.TimerStartedAt = &started
		dto.DeadlineAt = &deadline
		dto.TimerDurationDays = t.Days()
		dto.TimerDurationHours = t.Hours()
		dto.DeadlineNotifiedAt = t.NotifiedAt()
	}

	return dto, nil
}

// ToDomain rehydrates a row, checking every stored invariant. The read side
// uses it so query results never disagree with what commands would load.
func ToDomain(dto OrderDTO) (*order.Order, error) {
	origin, err := order.ParseOrigin(dto.Origin)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	handler, err := order.ParseHandler(dto.Handler)
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

	var payload order.Payload
	switch origin {
	case order.Regular:
		payload, err = regularPayload(dto.Items, discount)
	case order.Custom:
		payload, err = customPayload(dto, discount)
	}
	if err != nil {
		return nil, err
	}

	var timer *order.Timer
	if dto.TimerStartedAt != nil && dto.DeadlineAt != nil {
		t, timerErr := order.RestoreTimer(*dto.TimerStartedAt, *dto.DeadlineAt, dto.TimerDurationDays, dto.TimerDurationHours, dto.DeadlineNotifiedAt)
		if timerErr != nil {
			return nil, timerErr
		}
		timer = &t
	}

	return order.RestoreOrder(order.Snapshot{
		Number:    order.Number(dto.Number),
		Origin:    origin,
		Status:    status,
		Handler:   handler,
		HandoffAt: dto.HandoffAt,
		Buyer: order.Buyer{
			Name:  dto.BuyerName,
			Email: dto.BuyerEmail,
			Phone: dto.BuyerPhone,
		},
		Payload:   payload,
		Breakdown: breakdown,
		Payment: order.Payment{
			ProofRef:        dto.PaymentProofRef,
			ProofUploadedAt: dto.PaymentProofUploadedAt,
			Verified:        dto.PaymentVerified,
			VerifiedAt:      dto.PaymentVerifiedAt,
			VerifiedBy:      dto.PaymentVerifiedBy,
		},
		Timer:       timer,
		StatusNote:  dto.StatusNote,
		CompletedAt: dto.CompletedAt,
		CancelledAt: dto.CancelledAt,
		IsActive:    dto.IsActive,
		DeletedAt:   dto.DeletedAt,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
		Version:     dto.Version,
	})
}

func regularPayload(raw datatypes.JSON, discount pricing.DiscountPercent) (*order.RegularPayload, error) {
	var dtos []LineItemDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, err
	}
	items := make([]order.LineItem, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, order.LineItem{
			Name:       d.Name,
			Quantity:   d.Quantity,
			UnitPrice:  kernel.NewMoney(d.UnitPrice),
			Mode:       order.Mode(d.Mode),
			RentalDays: d.RentalDays,
		})
	}
	return order.NewRegularPayload(items, discount)
}

func customPayload(dto OrderDTO, discount pricing.DiscountPercent) (*order.CustomPayload, error) {
	var accepted *kernel.UUID
	if dto.AcceptedQuoteID != nil {
		id, err := kernel.UUIDFromBytes(dto.AcceptedQuoteID[:])
		if err != nil {
			return nil, err
		}
		accepted = &id
	}
	return order.RestoreCustomPayload(
		dto.Description,
		dto.Quantity,
		kernel.NewMoney(dto.UnitPrice),
		discount,
		accepted,
		dto.QuoteCount,
	)
}
