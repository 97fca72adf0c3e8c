package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/vat"
	"empi/internal/core/ports"
	"empi/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Visible hides soft-deleted orders. Shared with the read-side queries so
// both apply the same rule.
func Visible(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts a new order. A duplicate number is reported as invalid input.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewValueIsInvalidErrorWithCause("orderNumber",
				fmt.Errorf("order %s already exists", dto.Number))
		}
		return err
	}
	return nil
}

// Update writes every column except the identity, guarded by the version
// the aggregate was loaded at.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	expected := dto.Version
	dto.Version = expected + 1

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("order_number = ? AND version = ?", dto.Number, expected).
		Select("*").
		Omit("order_number", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderDTO{}).
			Where("order_number = ?", dto.Number).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", dto.Number)
		}
		return errs.NewConcurrentModificationError("order", dto.Number, expected)
	}

	aggregate.IncrementVersion()
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, number order.Number) (*order.Order, error) {
	return r.get(ctx, number, r.db.WithContext(ctx).Scopes(Visible))
}

func (r *GormOrderRepository) GetIncludingDeleted(ctx context.Context, number order.Number) (*order.Order, error) {
	return r.get(ctx, number, r.db.WithContext(ctx))
}

func (r *GormOrderRepository) get(_ context.Context, number order.Number, db *gorm.DB) (*order.Order, error) {
	if err := number.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.First(&dto, "order_number = ?", number.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", number.String())
		}
		return nil, err
	}

	return ToDomain(dto)
}

// List returns orders newest first.
func (r *GormOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	db := r.db.WithContext(ctx)
	if !filter.IncludeDeleted {
		db = db.Scopes(Visible)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", filter.Status.String())
	}
	if filter.Handler != nil {
		db = db.Where("handler = ?", filter.Handler.String())
	}
	if filter.Origin != nil {
		db = db.Where("origin = ?", filter.Origin.String())
	}
	if filter.Limit > 0 {
		db = db.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		db = db.Offset(filter.Offset)
	}

	var dtos []OrderDTO
	if err := db.Order("created_at DESC, order_number").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormOrderRepository) ListOverdue(ctx context.Context, now time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Scopes(Visible).
		Where("origin = ? AND status = ? AND deadline_at < ? AND deadline_notified_at IS NULL",
			order.Custom.String(), order.InProgress.String(), now).
		Order("deadline_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

type revenueRow struct {
	VAT         decimal.Decimal
	Total       decimal.Decimal
	CompletedAt time.Time
}

// ListRevenue ignores the visibility filter: a soft-deleted order that was
// completed still counts toward its period.
func (r *GormOrderRepository) ListRevenue(ctx context.Context, from, to time.Time) ([]vat.Revenue, error) {
	var rows []revenueRow
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Select("vat, total, completed_at").
		Where("status = ? AND completed_at >= ? AND completed_at < ?", order.Completed.String(), from, to).
		Order("completed_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	revenue := make([]vat.Revenue, 0, len(rows))
	for _, row := range rows {
		revenue = append(revenue, vat.Revenue{
			VAT:          kernel.NewMoney(row.VAT),
			Total:        kernel.NewMoney(row.Total),
			RecognizedAt: row.CompletedAt,
		})
	}
	return revenue, nil
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := ToDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
