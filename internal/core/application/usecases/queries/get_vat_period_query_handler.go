package queries

import (
	"context"

	"empi/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetVATPeriodQueryHandler struct {
	db *gorm.DB
}

func NewGetVATPeriodQueryHandler(db *gorm.DB) GetVATPeriodQueryHandler {
	return GetVATPeriodQueryHandler{db: db}
}

func (h GetVATPeriodQueryHandler) Handle(ctx context.Context, query GetVATPeriodQuery) (VATPeriodResponse, error) {
	if err := query.Validate(); err != nil {
		return VATPeriodResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT`+vatPeriodColumns+`
		FROM vat_periods
		WHERE id = ?
	`, query.id.Bytes()).Rows()
	if err != nil {
		return VATPeriodResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return VATPeriodResponse{}, err
		}
		return VATPeriodResponse{}, errs.NewObjectNotFoundError("vatPeriod", query.id.String())
	}
	return scanVATPeriod(rows)
}
