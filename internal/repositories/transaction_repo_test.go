package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"salonstock/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var transactionRowColumns = []string{
	"id", "tenant_id", "warehouse_id", "product_id", "product_name", "brand", "type", "amount", "notes", "created_at",
}

type TransactionRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     TransactionRepository
	tenantID uuid.UUID
	ctx      context.Context
}

func (suite *TransactionRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewTransactionRepository(mock)
	suite.tenantID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *TransactionRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestTransactionRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionRepoTestSuite))
}

func (suite *TransactionRepoTestSuite) TestCreate() {
	warehouseID := uuid.New()
	txn := &models.Transaction{
		ID: uuid.New(), TenantID: suite.tenantID, WarehouseID: &warehouseID, ProductID: uuid.New(),
		ProductName: "Shampoo", Brand: "Lumen", Type: models.TransactionOut, Amount: 2, CreatedAt: time.Now(),
	}
	suite.mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(txn.ID, suite.tenantID, txn.WarehouseID, txn.ProductID, "Shampoo", "Lumen", "out", 2, "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	suite.NoError(suite.repo.Create(suite.ctx, txn))
}

func (suite *TransactionRepoTestSuite) TestList_AllFilters() {
	warehouseID, productID := uuid.New(), uuid.New()
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	at := from.AddDate(0, 0, 3)

	suite.mock.ExpectQuery(regexp.QuoteMeta(
		`WHERE tenant_id = $1 AND warehouse_id = $2 AND product_id = $3 AND created_at >= $4 AND created_at < $5 ORDER BY created_at DESC`)).
		WithArgs(suite.tenantID, warehouseID, productID, from, to).
		WillReturnRows(pgxmock.NewRows(transactionRowColumns).
			AddRow(uuid.New(), suite.tenantID, &warehouseID, productID, "Shampoo", "Lumen", "in", 6, "delivery", at))

	txns, err := suite.repo.List(suite.ctx, models.WarehouseScope(suite.tenantID, warehouseID),
		models.TransactionFilter{From: &from, To: &to, ProductID: &productID}, true)
	suite.Require().NoError(err)
	suite.Require().Len(txns, 1)
	suite.Equal(models.TransactionIn, txns[0].Type)
	suite.Equal(6, txns[0].Signed())
	suite.Equal("delivery", txns[0].Notes)
}

func (suite *TransactionRepoTestSuite) TestList_ArgumentsNumberedWithoutWarehouse() {
	productID := uuid.New()
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectQuery(regexp.QuoteMeta(
		`WHERE tenant_id = $1 AND product_id = $2 AND created_at < $3 ORDER BY created_at ASC`)).
		WithArgs(suite.tenantID, productID, to).
		WillReturnRows(pgxmock.NewRows(transactionRowColumns))

	txns, err := suite.repo.List(suite.ctx, models.TenantScope(suite.tenantID),
		models.TransactionFilter{To: &to, ProductID: &productID}, false)
	suite.NoError(err)
	suite.Empty(txns)
}

func (suite *TransactionRepoTestSuite) TestDelete_Missing() {
	id := uuid.New()
	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM transactions WHERE tenant_id = $1 AND id = $2`)).
		WithArgs(suite.tenantID, id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.ctx, suite.tenantID, id)
	suite.ErrorIs(err, models.ErrNotFound)
}

func (suite *TransactionRepoTestSuite) TestDeleteByProduct() {
	productID := uuid.New()
	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM transactions WHERE tenant_id = $1 AND product_id = $2`)).
		WithArgs(suite.tenantID, productID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	suite.NoError(suite.repo.DeleteByProduct(suite.ctx, suite.tenantID, productID))
}
