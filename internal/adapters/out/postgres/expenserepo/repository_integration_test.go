package expenserepo_test

import (
	"context"
	"testing"
	"time"

	"empi/internal/adapters/out/postgres"
	"empi/internal/adapters/out/postgres/evidencerepo"
	"empi/internal/adapters/out/postgres/expenserepo"
	"empi/internal/core/domain/model/expense"
	"empi/internal/core/domain/model/kernel"
	"empi/internal/pkg/errs"
	"empi/internal/pkg/testdb"

	"github.com/stretchr/testify/suite"
)

var base = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

// LedgerIntegrationTestSuite covers the expense ledger and the payment
// evidence store, the two tables the service reads and writes outside the
// order aggregate.
type LedgerIntegrationTestSuite struct {
	suite.Suite
	database *testdb.Database
}

func (suite *LedgerIntegrationTestSuite) SetupSuite() {
	database, err := testdb.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.Require().NoError(postgres.Migrate(database.DB))
}

func (suite *LedgerIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate("expenses", "payment_evidence"))
}

func (suite *LedgerIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *LedgerIntegrationTestSuite) TestListDeductions_HalfOpenWindow() {
	ctx := suite.T().Context()
	ledger := expenserepo.NewGormExpenseLedger(suite.database.DB)
	suite.Require().NoError(ledger.Add(ctx, suite.expense("fabric", 50, true, base)))
	suite.Require().NoError(ledger.Add(ctx, suite.expense("lunch", 20, false, base.Add(time.Hour))))
	suite.Require().NoError(ledger.Add(ctx, suite.expense("thread", 5, true, base.Add(24*time.Hour))))

	got, err := ledger.ListDeductions(ctx, base, base.Add(24*time.Hour))

	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.Equal("50.00", got[0].VAT.String())
	suite.True(got[0].Deductible)
	suite.False(got[1].Deductible)
}

func (suite *LedgerIntegrationTestSuite) TestEvidenceStore_PutThenGet() {
	ctx := suite.T().Context()
	store := evidencerepo.NewGormEvidenceStore(suite.database.DB)

	ref, err := store.Put(ctx, "EMPI-1", "image/png", []byte("png-bytes"))
	suite.Require().NoError(err)
	suite.Contains(ref, evidencerepo.RefScheme)

	got, err := store.Get(ctx, ref)
	suite.Require().NoError(err)
	suite.Equal("EMPI-1", got.OrderNumber)
	suite.Equal([]byte("png-bytes"), got.Blob)
	suite.Len(got.SHA256, 64)
}

func (suite *LedgerIntegrationTestSuite) TestEvidenceStore_RejectsEmptyAndBadRefs() {
	ctx := suite.T().Context()
	store := evidencerepo.NewGormEvidenceStore(suite.database.DB)

	_, err := store.Put(ctx, "EMPI-1", "image/png", nil)
	suite.Require().ErrorIs(err, errs.ErrValueIsRequired)

	_, err = store.Get(ctx, "s3://bucket/key")
	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)

	_, err = store.Get(ctx, evidencerepo.RefScheme+kernel.NewUUID().String())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *LedgerIntegrationTestSuite) expense(desc string, vatNaira int64, deductible bool, at time.Time) *expense.Expense {
	e, err := expense.NewExpense(kernel.NewUUID(), desc, kernel.MoneyFromInt(vatNaira*10), kernel.MoneyFromInt(vatNaira), deductible, at)
	suite.Require().NoError(err)
	return e
}

func TestLedgerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerIntegrationTestSuite))
}
