package queries

import (
	"context"
	"errors"

	"empi/internal/adapters/out/postgres/orderrepo"
	"empi/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns the order or errs.ErrObjectNotFound, also for soft-deleted
// orders.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	var dto orderrepo.OrderDTO
	err := h.db.WithContext(ctx).
		Scopes(orderrepo.Visible).
		Take(&dto, "order_number = ?", query.Number().String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, errs.NewObjectNotFoundError("orderNumber", query.Number().String())
		}
		return OrderResponse{}, err
	}

	o, err := orderrepo.ToDomain(dto)
	if err != nil {
		return OrderResponse{}, err
	}
	return NewOrderResponse(o), nil
}
