package queries

import (
	"context"
	"time"

	"empi/internal/adapters/out/postgres/orderrepo"
	"empi/internal/core/domain/model/kernel"
	"empi/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListQuotesQueryHandler struct {
	db *gorm.DB
}

func NewListQuotesQueryHandler(db *gorm.DB) ListQuotesQueryHandler {
	return ListQuotesQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound when the order is unknown or
// soft-deleted, so proposals of hidden orders stay hidden.
func (h ListQuotesQueryHandler) Handle(ctx context.Context, query ListQuotesQuery) ([]QuoteResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var visible int64
	err := h.db.WithContext(ctx).
		Model(&orderrepo.OrderDTO{}).
		Scopes(orderrepo.Visible).
		Where("order_number = ?", query.number.String()).
		Count(&visible).Error
	if err != nil {
		return nil, err
	}
	if visible == 0 {
		return nil, errs.NewObjectNotFoundError("orderNumber", query.number.String())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			sender_role,
			quantity,
			unit_price,
			discount_percent,
			subtotal,
			discount_amount,
			vat,
			total,
			proposed_delivery_date,
			message,
			is_final,
			created_at
		FROM quotes
		WHERE order_number = ?
		ORDER BY created_at, id
	`, query.number.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := make([]QuoteResponse, 0)
	for rows.Next() {
		var (
			resp                                            QuoteResponse
			id                                              uuid.UUID
			unitPrice, subtotal, discountAmount, vat, total decimal.Decimal
			proposedDeliveryDate                            *time.Time
		)
		err = rows.Scan(
			&id,
			&resp.OrderNumber,
			&resp.SenderRole,
			&resp.Quantity,
			&unitPrice,
			&resp.DiscountPercent,
			&subtotal,
			&discountAmount,
			&vat,
			&total,
			&proposedDeliveryDate,
			&resp.Message,
			&resp.IsFinal,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		quoteID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = quoteID
		resp.UnitPrice = kernel.NewMoney(unitPrice)
		resp.Subtotal = kernel.NewMoney(subtotal)
		resp.DiscountAmount = kernel.NewMoney(discountAmount)
		resp.VAT = kernel.NewMoney(vat)
		resp.Total = kernel.NewMoney(total)
		resp.ProposedDeliveryDate = proposedDeliveryDate
		quotes = append(quotes, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return quotes, nil
}
