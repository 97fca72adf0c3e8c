package postgres

import (
	"empi/internal/adapters/out/postgres/evidencerepo"
	"empi/internal/adapters/out/postgres/expenserepo"
	"empi/internal/adapters/out/postgres/orderrepo"
	"empi/internal/adapters/out/postgres/quoterepo"
	"empi/internal/adapters/out/postgres/vatrepo"

	"gorm.io/gorm"
)

// Migrate creates or alters every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&vatrepo.PeriodDTO{},
		&expenserepo.ExpenseDTO{},
		&evidencerepo.EvidenceDTO{},
	); err != nil {
		return err
	}
	return quoterepo.Migrate(db)
}
