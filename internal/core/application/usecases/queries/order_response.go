// Package queries contains the read operations of the service. Handlers read
// straight from the database and return response structs; they never
// mutate and never go through a unit of work.
package queries

import (
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// LineItemResponse is one line of a regular order.
type LineItemResponse struct {
	Name       string
	Quantity   int
	UnitPrice  kernel.Money
	Mode       string
	RentalDays int
}

// OrderResponse is the read model of an order, shared by queries and by
// command responses.
type OrderResponse struct {
	Number    string
	Origin    string
	Status    string
	Handler   string
	HandoffAt *time.Time

	BuyerName  string
	BuyerEmail string
	BuyerPhone string

	// Regular orders.
	Items []LineItemResponse

	// Custom orders.
	Description     string
	Quantity        int
	UnitPrice       kernel.Money
	AcceptedQuoteID string
	QuoteCount      int

	DiscountPercent decimal.Decimal
	Subtotal        kernel.Money
	DiscountAmount  kernel.Money
	VAT             kernel.Money
	Total           kernel.Money

	PaymentProofRef        string
	PaymentProofUploadedAt *time.Time
	PaymentVerified        bool
	PaymentVerifiedAt      *time.Time
	PaymentVerifiedBy      string

	TimerStartedAt *time.Time
	DeadlineAt     *time.Time
	TimerDays      int
	TimerHours     int

	StatusNote  string
	CompletedAt *time.Time
	CancelledAt *time.Time
	IsActive    bool
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
}

// NewOrderResponse flattens an aggregate.
func NewOrderResponse(o *order.Order) OrderResponse {
	b := o.Breakdown()
	p := o.Payment()
	resp := OrderResponse{
		Number:                 o.Number().String(),
		Origin:                 o.Origin().String(),
		Status:                 o.Status().String(),
		Handler:                o.Handler().String(),
		HandoffAt:              o.HandoffAt(),
		BuyerName:              o.Buyer().Name,
		BuyerEmail:             o.Buyer().Email,
		BuyerPhone:             o.Buyer().Phone,
		Subtotal:               b.Subtotal,
		DiscountAmount:         b.DiscountAmount,
		VAT:                    b.VAT,
		Total:                  b.Total,
		PaymentProofRef:        p.ProofRef,
		PaymentProofUploadedAt: p.ProofUploadedAt,
		PaymentVerified:        p.Verified,
		PaymentVerifiedAt:      p.VerifiedAt,
		PaymentVerifiedBy:      p.VerifiedBy,
		StatusNote:             o.StatusNote(),
		CompletedAt:            o.CompletedAt(),
		CancelledAt:            o.CancelledAt(),
		IsActive:               o.IsActive(),
		DeletedAt:              o.DeletedAt(),
		CreatedAt:              o.CreatedAt(),
		UpdatedAt:              o.UpdatedAt(),
		Version:                o.Version(),
	}

	if rp := o.RegularPayload(); rp != nil {
		resp.DiscountPercent = rp.Discount().Decimal()
		resp.Items = make([]LineItemResponse, 0, len(rp.Items()))
		for _, li := range rp.Items() {
			resp.Items = append(resp.Items, LineItemResponse{
				Name:       li.Name,
				Quantity:   li.Quantity,
				UnitPrice:  li.UnitPrice,
				Mode:       string(li.Mode),
				RentalDays: li.RentalDays,
			})
		}
	}
	if cp := o.CustomPayload(); cp != nil {
		resp.DiscountPercent = cp.Discount().Decimal()
		resp.Description = cp.Description()
		resp.Quantity = cp.Quantity()
		resp.UnitPrice = cp.UnitPrice()
		resp.QuoteCount = cp.QuoteCount()
		if id := cp.AcceptedQuoteID(); id != nil {
			resp.AcceptedQuoteID = id.String()
		}
	}
	if t := o.Timer(); t != nil {
		started, deadline := t.StartedAt(), t.Deadline()
		resp.TimerStartedAt = &started
		resp.DeadlineAt = &deadline
		resp.TimerDays = t.Days()
		resp.TimerHours = t.Hours()
	}
	return resp
}
