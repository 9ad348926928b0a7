package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var productRowColumns = []string{
	"id", "tenant_id", "warehouse_id", "name", "brand", "variant", "quantity",
	"image_ref", "low_stock_threshold", "notes", "created_at", "updated_at",
}

type ProductRepoTestSuite struct {
	suite.Suite
	mock        pgxmock.PgxPoolIface
	repo        ProductRepository
	tenantID    uuid.UUID
	warehouseID uuid.UUID
	ctx         context.Context
}

func (suite *ProductRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewProductRepository(mock)
	suite.tenantID = uuid.New()
	suite.warehouseID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *ProductRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestProductRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}

func (suite *ProductRepoTestSuite) productRow(rows *pgxmock.Rows, name string, quantity, threshold int) *pgxmock.Rows {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	warehouseID := suite.warehouseID
	return rows.AddRow(uuid.New(), suite.tenantID, &warehouseID, name, "Lumen", "250ml", quantity, "", threshold, "", now, now)
}

func (suite *ProductRepoTestSuite) TestCreate() {
	product := &models.Product{
		ID: uuid.New(), TenantID: suite.tenantID, WarehouseID: &suite.warehouseID, Name: "Shampoo", Quantity: 4, LowStockThreshold: 5,
	}
	suite.mock.ExpectExec(`INSERT INTO products`).
		WithArgs(product.ID, suite.tenantID, product.WarehouseID, "Shampoo", "", "", 4, "", 5, "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	suite.NoError(suite.repo.Create(suite.ctx, product))
}

func (suite *ProductRepoTestSuite) TestGetByID() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE tenant_id = $1 AND id = $2`)).
		WithArgs(suite.tenantID, pgxmock.AnyArg()).
		WillReturnRows(suite.productRow(pgxmock.NewRows(productRowColumns), "Conditioner", 9, 3))

	product, err := suite.repo.GetByID(suite.ctx, suite.tenantID, uuid.New())
	suite.Require().NoError(err)
	suite.Equal("Conditioner", product.Name)
	suite.Equal(9, product.Quantity)
	suite.Require().NotNil(product.WarehouseID)
	suite.Equal(suite.warehouseID, *product.WarehouseID)
}

func (suite *ProductRepoTestSuite) TestList_WarehouseScope() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE tenant_id = $1 AND warehouse_id = $2 ORDER BY name ASC`)).
		WithArgs(suite.tenantID, suite.warehouseID).
		WillReturnRows(suite.productRow(suite.productRow(pgxmock.NewRows(productRowColumns), "Argan Oil", 2, 5), "Balm", 8, 5))

	products, err := suite.repo.List(suite.ctx, models.WarehouseScope(suite.tenantID, suite.warehouseID))
	suite.Require().NoError(err)
	suite.Require().Len(products, 2)
	suite.Equal("Argan Oil", products[0].Name)
}

func (suite *ProductRepoTestSuite) TestList_TenantScope() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE tenant_id = $1 ORDER BY name ASC`)).
		WithArgs(suite.tenantID).
		WillReturnRows(pgxmock.NewRows(productRowColumns))

	products, err := suite.repo.List(suite.ctx, models.TenantScope(suite.tenantID))
	suite.NoError(err)
	suite.Empty(products)
}

func (suite *ProductRepoTestSuite) TestListLowStock() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`AND warehouse_id = $2 AND quantity <= low_stock_threshold ORDER BY name ASC`)).
		WithArgs(suite.tenantID, suite.warehouseID).
		WillReturnRows(suite.productRow(pgxmock.NewRows(productRowColumns), "Gel", 1, 5))

	products, err := suite.repo.ListLowStock(suite.ctx, models.WarehouseScope(suite.tenantID, suite.warehouseID))
	suite.Require().NoError(err)
	suite.Require().Len(products, 1)
	suite.True(products[0].IsLowStock())
}

func (suite *ProductRepoTestSuite) TestUpdateQuantity() {
	id := uuid.New()
	suite.mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET quantity = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`)).
		WithArgs(12, suite.tenantID, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	suite.NoError(suite.repo.UpdateQuantity(suite.ctx, suite.tenantID, id, 12))
}

func (suite *ProductRepoTestSuite) TestUpdateQuantity_OtherTenant() {
	otherTenant, id := uuid.New(), uuid.New()
	suite.mock.ExpectExec(`UPDATE products SET quantity`).
		WithArgs(1, otherTenant, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateQuantity(suite.ctx, otherTenant, id, 1)
	suite.ErrorIs(err, models.ErrNotFound)
}

func (suite *ProductRepoTestSuite) TestUpdateDetails_LeavesQuantity() {
	product := &models.Product{ID: uuid.New(), TenantID: suite.tenantID, Name: "Mask", Quantity: 99, LowStockThreshold: 2}
	suite.mock.ExpectExec(`SET name = \$1, brand = \$2, variant = \$3, low_stock_threshold = \$4, notes = \$5`).
		WithArgs("Mask", "", "", 2, "", suite.tenantID, product.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	suite.NoError(suite.repo.UpdateDetails(suite.ctx, product))
}

func (suite *ProductRepoTestSuite) TestListTenantIDs() {
	a, b := uuid.New(), uuid.New()
	suite.mock.ExpectQuery(`SELECT DISTINCT tenant_id FROM products`).
		WillReturnRows(pgxmock.NewRows([]string{"tenant_id"}).AddRow(a).AddRow(b))

	ids, err := suite.repo.ListTenantIDs(suite.ctx)
	suite.NoError(err)
	suite.Equal([]uuid.UUID{a, b}, ids)
}

func (suite *ProductRepoTestSuite) TestList_ConnectionLost() {
	suite.mock.ExpectQuery(`FROM products`).
		WithArgs(suite.tenantID).
		WillReturnError(&pgconn.PgError{Code: "08006"})

	_, err := suite.repo.List(suite.ctx, models.TenantScope(suite.tenantID))
	suite.Equal(KindUnavailable, KindOf(err))
}

func TestUnconfiguredStore(t *testing.T) {
	repo := NewProductRepository(Unconfigured())
	ctx := context.Background()

	_, err := repo.List(ctx, models.TenantScope(uuid.New()))
	assert.Equal(t, KindNotConfigured, KindOf(err))

	_, err = repo.GetByID(ctx, uuid.New(), uuid.New())
	assert.Equal(t, KindNotConfigured, KindOf(err))
	assert.False(t, errors.Is(err, models.ErrNotFound))

	err = NewWarehouseRepository(Unconfigured()).Probe(ctx)
	assert.Equal(t, KindNotConfigured, KindOf(err))
}
