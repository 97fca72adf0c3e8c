package quoterepo

import (
	"context"
	"errors"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/quote"
	"empi/internal/pkg/errs"

	"gorm.io/gorm"
)

// FinalQuoteIndex backs the at-most-one-final-proposal rule.
const FinalQuoteIndex = "quotes_one_final_per_order"

// Migrate creates the quotes table and its partial unique index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&QuoteDTO{}); err != nil {
		return err
	}
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS " + FinalQuoteIndex + " ON quotes (order_number) WHERE is_final",
	).Error
}

// GormQuoteRepository implements ports.QuoteRepository using GORM.
type GormQuoteRepository struct {
	db *gorm.DB
}

func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

func (r *GormQuoteRepository) Add(ctx context.Context, proposal *quote.Proposal) error {
	if err := proposal.Validate(); err != nil {
		return err
	}
	dto := fromDomain(proposal)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// UpdateFinal writes the final flag only. A second final proposal for the
// same order violates the partial index and surfaces as a concurrent
// modification.
func (r *GormQuoteRepository) UpdateFinal(ctx context.Context, proposal *quote.Proposal) error {
	if err := proposal.Validate(); err != nil {
		return err
	}

	dto := fromDomain(proposal)
	result := r.db.WithContext(ctx).
		Model(&QuoteDTO{}).
		Where("id = ?", dto.ID).
		Update("is_final", dto.IsFinal)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.NewConcurrentModificationError("quote", dto.OrderNumber, 0)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("quote", dto.ID.String())
	}
	return nil
}

func (r *GormQuoteRepository) Get(ctx context.Context, id kernel.UUID) (*quote.Proposal, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto QuoteDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("quote", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormQuoteRepository) FindFinal(ctx context.Context, number order.Number) (*quote.Proposal, error) {
	var dtos []QuoteDTO
	err := r.db.WithContext(ctx).
		Where("order_number = ? AND is_final", number.String()).
		Limit(1).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, nil //nolint:nilnil // absence is not an error here
	}
	return toDomain(dtos[0])
}

func (r *GormQuoteRepository) ListByOrder(ctx context.Context, number order.Number) ([]*quote.Proposal, error) {
	var dtos []QuoteDTO
	err := r.db.WithContext(ctx).
		Where("order_number = ?", number.String()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	proposals := make([]*quote.Proposal, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}
