package http

import (
	"time"

	"empi/internal/core/application/usecases/commands"
	"empi/internal/core/application/usecases/queries"
	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/pricing"
	"empi/internal/core/domain/model/quote"
	"empi/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

type Buyer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type LineItem struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unitPrice"`
	Mode       string `json:"mode"`
	RentalDays int    `json:"rentalDays,omitempty"`
}

type NewRegularOrder struct {
	Buyer           Buyer      `json:"buyer"`
	Items           []LineItem `json:"items"`
	DiscountPercent string     `json:"discountPercent,omitempty"`
}

type NewCustomOrder struct {
	Buyer       Buyer  `json:"buyer"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

type NewQuote struct {
	Quantity             int        `json:"quantity"`
	UnitPrice            string     `json:"unitPrice"`
	DiscountPercent      string     `json:"discountPercent,omitempty"`
	ProposedDeliveryDate *time.Time `json:"proposedDeliveryDate,omitempty"`
	Message              string     `json:"message,omitempty"`
}

type Approval struct {
	Override bool `json:"override"`
}

type DeadlineTimer struct {
	Days     int  `json:"days"`
	Hours    int  `json:"hours"`
	Override bool `json:"override"`
}

type Reason struct {
	Reason string `json:"reason"`
}

type PeriodStatus struct {
	Status string `json:"status"`
}

type Payment struct {
	ProofRef        string     `json:"proofRef,omitempty"`
	ProofUploadedAt *time.Time `json:"proofUploadedAt,omitempty"`
	Verified        bool       `json:"verified"`
	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
	VerifiedBy      string     `json:"verifiedBy,omitempty"`
}

type Timer struct {
	StartedAt time.Time `json:"startedAt"`
	Deadline  time.Time `json:"deadline"`
	Days      int       `json:"days"`
	Hours     int       `json:"hours"`
}

type Order struct {
	Number          string     `json:"number"`
	Origin          string     `json:"origin"`
	Status          string     `json:"status"`
	Handler         string     `json:"handler"`
	HandoffAt       *time.Time `json:"handoffAt,omitempty"`
	Buyer           Buyer      `json:"buyer"`
	Items           []LineItem `json:"items,omitempty"`
	Description     string     `json:"description,omitempty"`
	Quantity        int        `json:"quantity,omitempty"`
	UnitPrice       string     `json:"unitPrice,omitempty"`
	AcceptedQuoteID string     `json:"acceptedQuoteId,omitempty"`
	QuoteCount      int        `json:"quoteCount,omitempty"`
	DiscountPercent string     `json:"discountPercent"`
	Subtotal        string     `json:"subtotal"`
	DiscountAmount  string     `json:"discountAmount"`
	VAT             string     `json:"vat"`
	Total           string     `json:"total"`
	Payment         Payment    `json:"payment"`
	Timer           *Timer     `json:"timer,omitempty"`
	StatusNote      string     `json:"statusNote,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	IsActive        bool       `json:"isActive"`
	DeletedAt       *time.Time `json:"deletedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Version         int64      `json:"version"`
}

type OrderResult struct {
	Order    Order    `json:"order"`
	Warnings []string `json:"warnings,omitempty"`
}

type Quote struct {
	ID                   string     `json:"id"`
	OrderNumber          string     `json:"orderNumber"`
	SenderRole           string     `json:"senderRole"`
	Quantity             int        `json:"quantity"`
	UnitPrice            string     `json:"unitPrice"`
	DiscountPercent      string     `json:"discountPercent"`
	Subtotal             string     `json:"subtotal"`
	DiscountAmount       string     `json:"discountAmount"`
	VAT                  string     `json:"vat"`
	Total                string     `json:"total"`
	ProposedDeliveryDate *time.Time `json:"proposedDeliveryDate,omitempty"`
	Message              string     `json:"message,omitempty"`
	IsFinal              bool       `json:"isFinal"`
	CreatedAt            time.Time  `json:"createdAt"`
}

type QuoteResult struct {
	Quote    Quote    `json:"quote"`
	Order    Order    `json:"order"`
	Warnings []string `json:"warnings,omitempty"`
}

type VATPeriod struct {
	ID             string     `json:"id"`
	Year           int        `json:"year"`
	Month          int        `json:"month"`
	WindowStart    time.Time  `json:"windowStart"`
	WindowEnd      time.Time  `json:"windowEnd"`
	Status         string     `json:"status"`
	OutputVAT      string     `json:"outputVat"`
	InputVAT       string     `json:"inputVat"`
	RevenueTotal   string     `json:"revenueTotal"`
	OrderCount     int        `json:"orderCount"`
	ExpenseCount   int        `json:"expenseCount"`
	VATPayable     string     `json:"vatPayable"`
	RawDifference  string     `json:"rawDifference"`
	LastComputedAt *time.Time `json:"lastComputedAt,omitempty"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
	PaidAt         *time.Time `json:"paidAt,omitempty"`
	ArchivedAt     *time.Time `json:"archivedAt,omitempty"`
	Version        int64      `json:"version"`
}

type Rollover struct {
	Target  VATPeriod   `json:"target"`
	Created bool        `json:"created"`
	Closed  []VATPeriod `json:"closed,omitempty"`
}

func (b Buyer) toDomain() (order.Buyer, error) {
	return order.NewBuyer(b.Name, b.Email, b.Phone)
}

func (li LineItem) toDomain() (order.LineItem, error) {
	price, err := kernel.MoneyFromString(li.UnitPrice)
	if err != nil {
		return order.LineItem{}, err
	}
	return order.LineItem{
		Name:       li.Name,
		Quantity:   li.Quantity,
		UnitPrice:  price,
		Mode:       order.Mode(li.Mode),
		RentalDays: li.RentalDays,
	}, nil
}

// parseDiscount treats an empty value as no discount.
func parseDiscount(s string) (pricing.DiscountPercent, error) {
	if s == "" {
		return pricing.NoDiscount(), nil
	}
	pct, err := decimal.NewFromString(s)
	if err != nil {
		return pricing.DiscountPercent{}, errs.NewValueIsInvalidErrorWithCause("discountPercent", err)
	}
	return pricing.NewDiscountPercent(pct)
}

func (q NewQuote) toTerms() (quote.Terms, error) {
	price, err := kernel.MoneyFromString(q.UnitPrice)
	if err != nil {
		return quote.Terms{}, err
	}
	discount, err := parseDiscount(q.DiscountPercent)
	if err != nil {
		return quote.Terms{}, err
	}
	return quote.Terms{
		Quantity:             q.Quantity,
		UnitPrice:            price,
		Discount:             discount,
		ProposedDeliveryDate: q.ProposedDeliveryDate,
		Message:              q.Message,
	}, nil
}

func percent(d decimal.Decimal) string {
	return d.String()
}

func toOrder(r queries.OrderResponse) Order {
	resp := Order{
		Number:    r.Number,
		Origin:    r.Origin,
		Status:    r.Status,
		Handler:   r.Handler,
		HandoffAt: r.HandoffAt,
		Buyer: Buyer{
			Name:  r.BuyerName,
			Email: r.BuyerEmail,
			Phone: r.BuyerPhone,
		},
		Description:     r.Description,
		Quantity:        r.Quantity,
		AcceptedQuoteID: r.AcceptedQuoteID,
		QuoteCount:      r.QuoteCount,
		DiscountPercent: percent(r.DiscountPercent),
		Subtotal:        r.Subtotal.String(),
		DiscountAmount:  r.DiscountAmount.String(),
		VAT:             r.VAT.String(),
		Total:           r.Total.String(),
		Payment: Payment{
			ProofRef:        r.PaymentProofRef,
			ProofUploadedAt: r.PaymentProofUploadedAt,
			Verified:        r.PaymentVerified,
			VerifiedAt:      r.PaymentVerifiedAt,
			VerifiedBy:      r.PaymentVerifiedBy,
		},
		StatusNote:  r.StatusNote,
		CompletedAt: r.CompletedAt,
		CancelledAt: r.CancelledAt,
		IsActive:    r.IsActive,
		DeletedAt:   r.DeletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}

	if r.Origin == order.Custom.String() {
		resp.UnitPrice = r.UnitPrice.String()
	}
	for _, li := range r.Items {
		resp.Items = append(resp.Items, LineItem{
			Name:       li.Name,
			Quantity:   li.Quantity,
			UnitPrice:  li.UnitPrice.String(),
			Mode:       li.Mode,
			RentalDays: li.RentalDays,
		})
	}
	if r.TimerStartedAt != nil && r.DeadlineAt != nil {
		resp.Timer = &Timer{
			StartedAt: *r.TimerStartedAt,
			Deadline:  *r.DeadlineAt,
			Days:      r.TimerDays,
			Hours:     r.TimerHours,
		}
	}
	return resp
}

func toOrderResult(res commands.OrderResult) OrderResult {
	return OrderResult{
		Order:    toOrder(queries.NewOrderResponse(res.Order)),
		Warnings: res.Warnings,
	}
}

func toQuote(r queries.QuoteResponse) Quote {
	return Quote{
		ID:                   r.ID.String(),
		OrderNumber:          r.OrderNumber,
		SenderRole:           r.SenderRole,
		Quantity:             r.Quantity,
		UnitPrice:            r.UnitPrice.String(),
		DiscountPercent:      percent(r.DiscountPercent),
		Subtotal:             r.Subtotal.String(),
		DiscountAmount:       r.DiscountAmount.String(),
		VAT:                  r.VAT.String(),
		Total:                r.Total.String(),
		ProposedDeliveryDate: r.ProposedDeliveryDate,
		Message:              r.Message,
		IsFinal:              r.IsFinal,
		CreatedAt:            r.CreatedAt,
	}
}

func toQuoteResult(res commands.QuoteResult) QuoteResult {
	return QuoteResult{
		Quote:    toQuote(queries.NewQuoteResponse(res.Proposal)),
		Order:    toOrder(queries.NewOrderResponse(res.Order)),
		Warnings: res.Warnings,
	}
}

func toVATPeriod(r queries.VATPeriodResponse) VATPeriod {
	return VATPeriod{
		ID:             r.ID.String(),
		Year:           r.Year,
		Month:          int(r.Month),
		WindowStart:    r.WindowStart,
		WindowEnd:      r.WindowEnd,
		Status:         r.Status,
		OutputVAT:      r.OutputVAT.String(),
		InputVAT:       r.InputVAT.String(),
		RevenueTotal:   r.RevenueTotal.String(),
		OrderCount:     r.OrderCount,
		ExpenseCount:   r.ExpenseCount,
		VATPayable:     r.VATPayable.String(),
		RawDifference:  r.RawDifference.String(),
		LastComputedAt: r.LastComputedAt,
		SubmittedAt:    r.SubmittedAt,
		PaidAt:         r.PaidAt,
		ArchivedAt:     r.ArchivedAt,
		Version:        r.Version,
	}
}
