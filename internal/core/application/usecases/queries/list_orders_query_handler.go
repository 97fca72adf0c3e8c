package queries

import (
	"context"

	"empi/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx).Scopes(orderrepo.Visible)
	if query.status != nil {
		db = db.Where("status = ?", query.status.String())
	}
	if query.handler != nil {
		db = db.Where("handler = ?", query.handler.String())
	}
	if query.origin != nil {
		db = db.Where("origin = ?", query.origin.String())
	}

	var dtos []orderrepo.OrderDTO
	err := db.Order("created_at DESC, order_number").
		Limit(query.limit).
		Offset(query.offset).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]OrderResponse, 0, len(dtos))
	for _, dto := range dtos {
		o, err := orderrepo.ToDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, NewOrderResponse(o))
	}
	return orders, nil
}
