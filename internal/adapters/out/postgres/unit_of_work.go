// Package postgres provides the GORM-based unit of work.
//
// A unit of work wraps one database transaction. Repositories obtained from
// it after Begin or BeginSnapshot run inside that transaction; before Begin
// they use the plain connection.
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Domain events are not tracked here: handlers pull them from the aggregate
// after Commit returns.
package postgres

import (
	"context"
	"database/sql"

	"empi/internal/adapters/out/postgres/expenserepo"
	"empi/internal/adapters/out/postgres/orderrepo"
	"empi/internal/adapters/out/postgres/quoterepo"
	"empi/internal/adapters/out/postgres/vatrepo"
	"empi/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory hands out one fresh GormUnitOfWork per operation.
// Instances are not safe for concurrent use; the factory is.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm returns the concrete type so callers can reach adapter-only
// methods such as Expenses.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork implements ports.UnitOfWork.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts a read-committed transaction. A second Begin on an open
// unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	return uow.begin(ctx)
}

// BeginSnapshot starts a read-only repeatable-read transaction, so every
// read sees the database as of its first statement.
func (uow *GormUnitOfWork) BeginSnapshot(ctx context.Context) error {
	return uow.begin(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
}

func (uow *GormUnitOfWork) begin(ctx context.Context, opts ...*sql.TxOptions) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin(opts...)
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	return nil
}

// Commit finalizes the transaction. The unit of work can be reused after.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. Handlers defer it unconditionally, so
// calling it after Commit returns gorm.ErrInvalidTransaction and is ignored.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

func (uow *GormUnitOfWork) QuoteRepository() ports.QuoteRepository {
	return quoterepo.NewGormQuoteRepository(uow.conn())
}

func (uow *GormUnitOfWork) VATPeriodRepository() ports.VATPeriodRepository {
	return vatrepo.NewGormVATPeriodRepository(uow.conn())
}

func (uow *GormUnitOfWork) ExpenseLedger() ports.ExpenseLedger {
	return expenserepo.NewGormExpenseLedger(uow.conn())
}

// ExpenseWriter is not part of ports.UnitOfWork; only expense recording
// writes to the ledger.
func (uow *GormUnitOfWork) ExpenseWriter() ports.ExpenseWriter {
	return expenserepo.NewGormExpenseLedger(uow.conn())
}
