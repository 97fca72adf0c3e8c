package queries

import (
	"errors"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/quote"
	"empi/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrListQuotesQueryIsNotConstructed = errors.New("ListQuotesQuery must be created via NewListQuotesQuery constructor")

// ListQuotesQuery lists the proposals of one visible order, oldest first.
//
//nolint:recvcheck //using for validation
type ListQuotesQuery struct {
	number order.Number

	guard guard.ConstructorGuard
}

func NewListQuotesQuery(number string) (ListQuotesQuery, error) {
	n, err := order.ParseNumber(number)
	if err != nil {
		return ListQuotesQuery{}, err
	}
	return ListQuotesQuery{number: n, guard: guard.NewConstructorGuard()}, nil
}

func (q ListQuotesQuery) Validate() error {
	return q.guard.Validate(ErrListQuotesQueryIsNotConstructed)
}

type QuoteResponse struct {
	ID                   kernel.UUID
	OrderNumber          string
	SenderRole           string
	Quantity             int
	UnitPrice            kernel.Money
	DiscountPercent      decimal.Decimal
	Subtotal             kernel.Money
	DiscountAmount       kernel.Money
	VAT                  kernel.Money
	Total                kernel.Money
	ProposedDeliveryDate *time.Time
	Message              string
	IsFinal              bool
	CreatedAt            time.Time
}

// NewQuoteResponse flattens a proposal returned by a command.
func NewQuoteResponse(p *quote.Proposal) QuoteResponse {
	s := p.Snapshot()
	return QuoteResponse{
		ID:                   s.ID,
		OrderNumber:          s.OrderNumber.String(),
		SenderRole:           s.SenderRole.String(),
		Quantity:             s.Quantity,
		UnitPrice:            s.UnitPrice,
		DiscountPercent:      s.Discount.Decimal(),
		Subtotal:             s.Breakdown.Subtotal,
		DiscountAmount:       s.Breakdown.DiscountAmount,
		VAT:                  s.Breakdown.VAT,
		Total:                s.Breakdown.Total,
		ProposedDeliveryDate: s.ProposedDeliveryDate,
		Message:              s.Message,
		IsFinal:              s.IsFinal,
		CreatedAt:            s.CreatedAt,
	}
}
