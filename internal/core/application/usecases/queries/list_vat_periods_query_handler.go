package queries

import (
	"context"

	"empi/internal/core/domain/model/vat"

	"gorm.io/gorm"
)

type ListVATPeriodsQueryHandler struct {
	db *gorm.DB
}

func NewListVATPeriodsQueryHandler(db *gorm.DB) ListVATPeriodsQueryHandler {
	return ListVATPeriodsQueryHandler{db: db}
}

func (h ListVATPeriodsQueryHandler) Handle(ctx context.Context, query ListVATPeriodsQuery) ([]VATPeriodResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT`+vatPeriodColumns+`
		FROM vat_periods
		WHERE ? OR status <> ?
		ORDER BY year DESC, month DESC
	`, query.includeArchived, vat.Archived.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := make([]VATPeriodResponse, 0)
	for rows.Next() {
		p, scanErr := scanVATPeriod(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		periods = append(periods, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return periods, nil
}
