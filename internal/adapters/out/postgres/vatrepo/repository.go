package vatrepo

import (
	"context"
	"errors"
	"fmt"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/vat"
	"empi/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormVATPeriodRepository implements ports.VATPeriodRepository using GORM.
type GormVATPeriodRepository struct {
	db *gorm.DB
}

func NewGormVATPeriodRepository(db *gorm.DB) *GormVATPeriodRepository {
	return &GormVATPeriodRepository{db: db}
}

// Add inserts a period. Losing a creation race on (year, month) is a
// concurrent modification: the caller re-reads and finds the winner's row.
func (r *GormVATPeriodRepository) Add(ctx context.Context, period *vat.Period) error {
	if err := period.Validate(); err != nil {
		return err
	}

	dto := fromDomain(period)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConcurrentModificationError("vatPeriod", period.Key().String(), 0)
		}
		return err
	}
	return nil
}

func (r *GormVATPeriodRepository) Update(ctx context.Context, period *vat.Period) error {
	if err := period.Validate(); err != nil {
		return err
	}

	dto := fromDomain(period)
	expected := dto.Version
	dto.Version = expected + 1

	result := r.db.WithContext(ctx).
		Model(&PeriodDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select("*").
		Omit("id", "year", "month", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&PeriodDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("vatPeriod", dto.ID.String())
		}
		return errs.NewConcurrentModificationError("vatPeriod", period.Key().String(), expected)
	}

	period.IncrementVersion()
	return nil
}

func (r *GormVATPeriodRepository) Get(ctx context.Context, id kernel.UUID) (*vat.Period, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PeriodDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("vatPeriod", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormVATPeriodRepository) FindByKey(ctx context.Context, key vat.Key) (*vat.Period, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	var dtos []PeriodDTO
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", key.Year, int(key.Month)).
		Limit(1).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, nil //nolint:nilnil // a missing period is created by rollover
	}
	return toDomain(dtos[0])
}

func (r *GormVATPeriodRepository) List(ctx context.Context, includeArchived bool) ([]*vat.Period, error) {
	db := r.db.WithContext(ctx)
	if !includeArchived {
		db = db.Where("status <> ?", vat.Archived.String())
	}

	var dtos []PeriodDTO
	if err := db.Order("year DESC, month DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	periods := make([]*vat.Period, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, fmt.Errorf("vat period %d-%02d: %w", dto.Year, dto.Month, err)
		}
		periods = append(periods, p)
	}
	return periods, nil
}
