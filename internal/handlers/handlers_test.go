package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salonstock/internal/caching"
	"salonstock/internal/common"
	"salonstock/internal/models"
	"salonstock/internal/repositories"
	"salonstock/internal/services"
	"salonstock/testhelpers"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type HandlersTestSuite struct {
	suite.Suite
	store    *testhelpers.Store
	echo     *echo.Echo
	tenantID uuid.UUID
	exports  *ExportHandlers
	health   map[string]HealthCheck
}

func (suite *HandlersTestSuite) SetupTest() {
	suite.store = testhelpers.NewStore()
	suite.tenantID = uuid.New()
	suite.health = map[string]HealthCheck{}
	logger := zerolog.Nop()

	resolver := services.NewScopeResolver(suite.store.Warehouses(), caching.NewMemoryCacheService(), services.WarehouseDefaults{}, logger)
	guard := services.NewLocalGuard()
	warehouseSvc := services.NewWarehouseService(suite.store.Warehouses(), resolver, guard, logger)
	stockSvc := services.NewStockService(suite.store.Products(), suite.store.Transactions(), suite.store.Warehouses(),
		resolver, guard, services.CreateRollback, logger)
	ledgerSvc := services.NewLedgerQueryService(suite.store.Products(), suite.store.Transactions())
	productSvc := services.NewProductService(suite.store.Products(), nil, logger)

	session := NewSessionHandlers(resolver, warehouseSvc)
	warehouses := NewWarehouseHandlers(warehouseSvc, stockSvc, resolver)
	products := NewProductHandlers(productSvc, stockSvc, ledgerSvc, resolver)
	transactions := NewTransactionHandlers(ledgerSvc, stockSvc, resolver)
	suite.exports = NewExportHandlers(services.NewExportService(ledgerSvc), resolver)
	health := NewHealthHandlers(suite.health, resolver, "test")

	e := echo.New()
	e.Validator = common.NewRequestValidator()
	e.HTTPErrorHandler = common.ErrorHandler(logger)
	e.GET("/health", health.HealthCheck)

	v1 := e.Group("/v1", suite.withTenant)
	v1.POST("/session", session.StartSession)
	v1.GET("/warehouses", warehouses.ListWarehouses)
	v1.POST("/warehouses", warehouses.CreateWarehouse)
	v1.DELETE("/warehouses/:id", warehouses.DeleteWarehouse)
	v1.POST("/warehouses/:id/select", warehouses.SelectWarehouse)
	v1.GET("/products", products.ListProducts)
	v1.POST("/products", products.CreateProduct)
	v1.GET("/products/low-stock", products.ListLowStock)
	v1.GET("/products/:id", products.GetProduct)
	v1.PUT("/products/:id", products.UpdateProduct)
	v1.DELETE("/products/:id", products.DeleteProduct)
	v1.POST("/products/:id/stock", products.AdjustStock)
	v1.GET("/transactions", transactions.ListTransactions)
	v1.DELETE("/transactions/:id", transactions.DeleteTransaction)
	v1.GET("/export/transactions", suite.exports.ExportTransactions)
	suite.echo = e
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (suite *HandlersTestSuite) withTenant(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.SetRequest(c.Request().WithContext(common.WithTenant(c.Request().Context(), suite.tenantID, uuid.New())))
		return next(c)
	}
}

func (suite *HandlersTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *HandlersTestSuite) decode(rec *httptest.ResponseRecorder, dst interface{}) {
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func (suite *HandlersTestSuite) assertError(rec *httptest.ResponseRecorder, status int, code string) common.ErrorResponse {
	suite.Require().Equal(status, rec.Code, rec.Body.String())
	var resp common.ErrorResponse
	suite.decode(rec, &resp)
	suite.Equal(code, resp.Error.Code)
	return resp
}

func (suite *HandlersTestSuite) startSession() SessionResponse {
	rec := suite.do(http.MethodPost, "/v1/session", "")
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp SessionResponse
	suite.decode(rec, &resp)
	return resp
}

func (suite *HandlersTestSuite) createProduct(name string, quantity int) *models.Product {
	rec := suite.do(http.MethodPost, "/v1/products", `{"name":"`+name+`","initial_quantity":`+itoa(quantity)+`}`)
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var resp StockMutationResponse
	suite.decode(rec, &resp)
	suite.Empty(resp.Warning)
	return resp.Product
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func (suite *HandlersTestSuite) TestStartSession_ProvisionsOnce() {
	first := suite.startSession()
	suite.True(first.Capabilities.Warehouses)
	suite.Require().NotNil(first.ActiveWarehouse)
	suite.Equal("Main Warehouse", first.ActiveWarehouse.Name)
	suite.True(first.ActiveWarehouse.IsDefault)
	suite.Len(first.Warehouses, 1)

	second := suite.startSession()
	suite.Equal(first.ActiveWarehouse.ID, second.ActiveWarehouse.ID)
	suite.Equal(1, suite.store.Calls("warehouses.Create"))
}

func (suite *HandlersTestSuite) TestProductsRequireAWarehouse() {
	rec := suite.do(http.MethodGet, "/v1/products", "")
	suite.assertError(rec, http.StatusConflict, "NO_WAREHOUSE")
}

func (suite *HandlersTestSuite) TestCreateProduct() {
	session := suite.startSession()

	product := suite.createProduct("Shampoo", 5)
	suite.Equal(5, product.Quantity)
	suite.Equal(models.DefaultLowStockThreshold, product.LowStockThreshold)
	suite.Require().NotNil(product.WarehouseID)
	suite.Equal(session.ActiveWarehouse.ID, *product.WarehouseID)

	ledger := suite.store.Ledger(product.ID)
	suite.Require().Len(ledger, 1)
	suite.Equal(models.InitialStockNote, ledger[0].Notes)
}

func (suite *HandlersTestSuite) TestCreateProduct_Validation() {
	suite.startSession()

	rec := suite.do(http.MethodPost, "/v1/products", `{"initial_quantity":3}`)
	resp := suite.assertError(rec, http.StatusBadRequest, "VALIDATION_ERROR")
	suite.Contains(resp.Error.Details, "name")

	rec = suite.do(http.MethodPost, "/v1/products", `{"name":"Gel","initial_quantity":-1}`)
	suite.assertError(rec, http.StatusBadRequest, "VALIDATION_ERROR")

	rec = suite.do(http.MethodPost, "/v1/products", `{"name":`)
	suite.assertError(rec, http.StatusBadRequest, "VALIDATION_ERROR")
	suite.Equal(0, suite.store.Calls("products.Create"))
}

func (suite *HandlersTestSuite) TestCreateProduct_LedgerFailure() {
	suite.startSession()
	suite.store.Fail("transactions.Create", repositories.KindUnavailable)

	rec := suite.do(http.MethodPost, "/v1/products", `{"name":"Shampoo","initial_quantity":5}`)
	resp := suite.assertError(rec, http.StatusBadGateway, "ROLLED_BACK")
	suite.Equal("rolled_back", resp.Error.Details["outcome"])

	_, products, _ := suite.store.Counts()
	suite.Equal(0, products)
}

func (suite *HandlersTestSuite) TestAdjustStock_ClampsAndRejectsEmpty() {
	suite.startSession()
	product := suite.createProduct("Conditioner", 5)
	path := "/v1/products/" + product.ID.String() + "/stock"

	rec := suite.do(http.MethodPost, path, `{"direction":"out","amount":8}`)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp StockMutationResponse
	suite.decode(rec, &resp)
	suite.Equal(0, resp.Product.Quantity)
	suite.Require().NotNil(resp.Transaction)
	suite.Equal(5, resp.Transaction.Amount)
	suite.NotEmpty(resp.Warning)

	rec = suite.do(http.MethodPost, path, `{"direction":"out","amount":1}`)
	suite.assertError(rec, http.StatusConflict, "NO_STOCK")

	rec = suite.do(http.MethodPost, path, `{"direction":"in","amount":3,"notes":"delivery"}`)
	suite.Require().Equal(http.StatusOK, rec.Code)
	resp = StockMutationResponse{}
	suite.decode(rec, &resp)
	suite.Equal(3, resp.Product.Quantity)
	suite.Empty(resp.Warning)
}

func (suite *HandlersTestSuite) TestAdjustStock_Validation() {
	suite.startSession()
	product := suite.createProduct("Conditioner", 5)
	path := "/v1/products/" + product.ID.String() + "/stock"

	rec := suite.do(http.MethodPost, path, `{"direction":"sideways","amount":1}`)
	resp := suite.assertError(rec, http.StatusBadRequest, "VALIDATION_ERROR")
	suite.Contains(resp.Error.Details, "direction")

	rec = suite.do(http.MethodPost, path, `{"direction":"in","amount":0}`)
	suite.assertError(rec, http.StatusBadRequest, "VALIDATION_ERROR")

	rec = suite.do(http.MethodPost, "/v1/products/not-a-uuid/stock", `{"direction":"in","amount":1}`)
	resp = suite.assertError(rec, http.StatusBadRequest, "VALIDATION_ERROR")
	suite.Contains(resp.Error.Details, "id")

	rec = suite.do(http.MethodPost, "/v1/products/"+uuid.NewString()+"/stock", `{"direction":"in","amount":1}`)
	suite.assertError(rec, http.StatusNotFound, "NOT_FOUND")
}

func (suite *HandlersTestSuite) TestAdjustStock_LedgerFailureReportsRollback() {
	suite.startSession()
	product := suite.createProduct("Toner", 4)
	suite.store.Fail("transactions.Create", repositories.KindUnavailable)

	rec := suite.do(http.MethodPost, "/v1/products/"+product.ID.String()+"/stock", `{"direction":"in","amount":2}`)
	resp := suite.assertError(rec, http.StatusBadGateway, "ROLLED_BACK")
	suite.Equal("rolled_back", resp.Error.Details["outcome"])
	suite.Equal(4, suite.store.Product(product.ID).Quantity)
}

func (suite *HandlersTestSuite) TestAdjustStock_RestoreFailureReportsInconsistent() {
	suite.startSession()
	product := suite.createProduct("Toner", 4)
	suite.store.Fail("transactions.Create", repositories.KindUnavailable)
	suite.store.FailAfter("products.UpdateQuantity", 1, repositories.KindUnavailable)

	rec := suite.do(http.MethodPost, "/v1/products/"+product.ID.String()+"/stock", `{"direction":"in","amount":2}`)
	resp := suite.assertError(rec, http.StatusInternalServerError, "INCONSISTENT")
	suite.Equal("inconsistent", resp.Error.Details["outcome"])
}

func (suite *HandlersTestSuite) TestUpdateProduct_LeavesQuantity() {
	suite.startSession()
	product := suite.createProduct("Mask", 6)

	rec := suite.do(http.MethodPut, "/v1/products/"+product.ID.String(), `{"name":"Hair Mask","quantity":100}`)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Product
	suite.decode(rec, &updated)
	suite.Equal("Hair Mask", updated.Name)
	suite.Equal(6, updated.Quantity)
}

func (suite *HandlersTestSuite) TestListProducts() {
	suite.startSession()
	suite.createProduct("Wax", 1)
	suite.createProduct("Balm", 20)

	rec := suite.do(http.MethodGet, "/v1/products", "")
	suite.Require().Equal(http.StatusOK, rec.Code)
	var all struct {
		Products []*models.Product `json:"products"`
	}
	suite.decode(rec, &all)
	suite.Require().Len(all.Products, 2)
	suite.Equal("Balm", all.Products[0].Name)

	rec = suite.do(http.MethodGet, "/v1/products/low-stock", "")
	suite.Require().Equal(http.StatusOK, rec.Code)
	var low struct {
		Products []*models.Product `json:"products"`
	}
	suite.decode(rec, &low)
	suite.Require().Len(low.Products, 1)
	suite.Equal("Wax", low.Products[0].Name)

	rec = suite.do(http.MethodGet, "/v1/products?low_stock=maybe", "")
	suite.assertError(rec, http.StatusBadRequest, "VALIDATION_ERROR")

	rec = suite.do(http.MethodGet, "/v1/products?warehouse_id="+uuid.NewString(), "")
	suite.assertError(rec, http.StatusNotFound, "NOT_FOUND")
}

func (suite *HandlersTestSuite) TestDeleteTransaction_ReversesQuantity() {
	suite.startSession()
	product := suite.createProduct("Spray", 3)
	rec := suite.do(http.MethodPost, "/v1/products/"+product.ID.String()+"/stock", `{"direction":"in","amount":4}`)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var adjusted StockMutationResponse
	suite.decode(rec, &adjusted)

	rec = suite.do(http.MethodDelete, "/v1/transactions/"+adjusted.Transaction.ID.String(), "")
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp StockMutationResponse
	suite.decode(rec, &resp)
	suite.Equal(3, resp.Product.Quantity)

	rec = suite.do(http.MethodGet, "/v1/transactions?product_id="+product.ID.String(), "")
	suite.Require().Equal(http.StatusOK, rec.Code)
	var list struct {
		Transactions []*models.Transaction `json:"transactions"`
	}
	suite.decode(rec, &list)
	suite.Len(list.Transactions, 1)
}

func (suite *HandlersTestSuite) TestListTransactions_Validation() {
	suite.startSession()

	rec := suite.do(http.MethodGet, "/v1/transactions?from=yesterday", "")
	suite.assertError(rec, http.StatusBadRequest, "VALIDATION_ERROR")

	rec = suite.do(http.MethodGet, "/v1/transactions?from=2025-03-10&to=2025-03-01", "")
	resp := suite.assertError(rec, http.StatusBadRequest, "VALIDATION_ERROR")
	suite.Contains(resp.Error.Details, "to")
}

func (suite *HandlersTestSuite) TestDeleteProduct() {
	suite.startSession()
	product := suite.createProduct("Oil", 2)

	rec := suite.do(http.MethodDelete, "/v1/products/"+product.ID.String(), "")
	suite.Equal(http.StatusNoContent, rec.Code)
	suite.Nil(suite.store.Product(product.ID))
	suite.Empty(suite.store.Ledger(product.ID))

	rec = suite.do(http.MethodGet, "/v1/products/"+product.ID.String(), "")
	suite.assertError(rec, http.StatusNotFound, "NOT_FOUND")
}

func (suite *HandlersTestSuite) TestDeleteWarehouse() {
	session := suite.startSession()
	rec := suite.do(http.MethodPost, "/v1/warehouses", `{"name":"Backroom"}`)
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var backroom models.Warehouse
	suite.decode(rec, &backroom)
	suite.False(backroom.IsDefault)

	rec = suite.do(http.MethodDelete, "/v1/warehouses/"+session.ActiveWarehouse.ID.String(), "")
	suite.assertError(rec, http.StatusConflict, "DEFAULT_WAREHOUSE")

	rec = suite.do(http.MethodDelete, "/v1/warehouses/"+backroom.ID.String(), "")
	suite.Equal(http.StatusNoContent, rec.Code)
	suite.Nil(suite.store.Warehouse(backroom.ID))
}

func (suite *HandlersTestSuite) TestExportTransactions_Headers() {
	suite.startSession()
	suite.exports.now = func() time.Time { return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC) }

	rec := suite.do(http.MethodGet, "/v1/export/transactions?period=month&format=csv", "")
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	suite.Equal(`attachment; filename="transactions-2025-03.csv"`, rec.Header().Get(echo.HeaderContentDisposition))
	suite.Equal("text/csv; charset=utf-8", rec.Header().Get(echo.HeaderContentType))

	records, err := csv.NewReader(rec.Body).ReadAll()
	suite.Require().NoError(err)
	suite.Require().NotEmpty(records)
	suite.Equal("Date", records[0][0])

	rec = suite.do(http.MethodGet, "/v1/export/transactions?period=week", "")
	suite.assertError(rec, http.StatusBadRequest, "VALIDATION_ERROR")

	rec = suite.do(http.MethodGet, "/v1/export/transactions?period=day&format=pdf", "")
	suite.assertError(rec, http.StatusBadRequest, "VALIDATION_ERROR")
}

func (suite *HandlersTestSuite) TestHealthCheck() {
	suite.health["database"] = func(ctx context.Context) error { return nil }

	rec := suite.do(http.MethodGet, "/health", "")
	suite.Require().Equal(http.StatusOK, rec.Code)
	var healthy HealthStatus
	suite.decode(rec, &healthy)
	suite.Equal("healthy", healthy.Status)
	suite.True(healthy.Warehouses)

	suite.health["redis"] = func(ctx context.Context) error { return errors.New("connection refused") }
	rec = suite.do(http.MethodGet, "/health", "")
	suite.Require().Equal(http.StatusServiceUnavailable, rec.Code)
	var degraded HealthStatus
	suite.decode(rec, &degraded)
	suite.Equal("degraded", degraded.Status)
	suite.Equal(map[string]string{"database": "healthy", "redis": "unhealthy"}, degraded.Services)
}

func TestTenantRequired(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = common.ErrorHandler(zerolog.Nop())
	store := testhelpers.NewStore()
	resolver := services.NewScopeResolver(store.Warehouses(), caching.NewMemoryCacheService(), services.WarehouseDefaults{}, zerolog.Nop())
	e.POST("/session", NewSessionHandlers(resolver, nil).StartSession)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, store.Calls("warehouses.List"))
}

func TestToAPIError(t *testing.T) {
	unavailable := &repositories.StoreError{Op: "list products", Kind: repositories.KindUnavailable, Err: errors.New("dial tcp")}

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		outcome string
	}{
		{"validation", models.Invalid("adjust stock", "amount must be positive"), http.StatusBadRequest, "VALIDATION_ERROR", "no_change"},
		{"not found", models.Rejected("adjust stock", models.ErrNotFound), http.StatusNotFound, "NOT_FOUND", "no_change"},
		{"busy", models.Rejected("adjust stock", models.ErrBusy), http.StatusConflict, "BUSY", "no_change"},
		{"no stock", models.Rejected("adjust stock", models.ErrNoStock), http.StatusConflict, "NO_STOCK", "no_change"},
		{"default warehouse", models.ErrDefaultWarehouse, http.StatusConflict, "DEFAULT_WAREHOUSE", ""},
		{"last warehouse", models.ErrLastWarehouse, http.StatusConflict, "LAST_WAREHOUSE", ""},
		{"single mode", models.ErrWarehousesUnavailable, http.StatusConflict, "WAREHOUSES_UNAVAILABLE", ""},
		{"no warehouse", services.ErrNoWarehouse, http.StatusConflict, "NO_WAREHOUSE", ""},
		{"rolled back", &models.MutationError{Op: "delete product", Outcome: models.OutcomeRolledBack, Err: unavailable}, http.StatusBadGateway, "ROLLED_BACK", "rolled_back"},
		{"inconsistent", &models.MutationError{Op: "delete product", Outcome: models.OutcomeInconsistent, Err: unavailable, RollbackErr: unavailable}, http.StatusInternalServerError, "INCONSISTENT", "inconsistent"},
		{"store unavailable", unavailable, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", ""},
		{"store not configured", &repositories.StoreError{Op: "list", Kind: repositories.KindNotConfigured, Err: errors.New("no database")}, http.StatusServiceUnavailable, "STORE_NOT_CONFIGURED", ""},
		{"relation missing", &repositories.StoreError{Op: "list", Kind: repositories.KindRelationMissing, Err: errors.New("42P01")}, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", ""},
		{"permission denied", &repositories.StoreError{Op: "list", Kind: repositories.KindPermissionDenied, Err: errors.New("42501")}, http.StatusForbidden, "PERMISSION_DENIED", ""},
		{"conflict", &repositories.StoreError{Op: "create", Kind: repositories.KindConflict, Err: errors.New("23505")}, http.StatusConflict, "CONFLICT", ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "SERVER_ERROR", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var apiErr *common.APIError
			require.ErrorAs(t, toAPIError(tt.err), &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.outcome, apiErr.Details["outcome"])
		})
	}

	assert.NoError(t, toAPIError(nil))

	var apiErr *common.APIError
	require.ErrorAs(t, toAPIError(errors.New("pq: secret internals")), &apiErr)
	assert.Equal(t, "operation could not be completed", apiErr.Message)

	passthrough := common.ValidationError("id", "bad")
	assert.Same(t, passthrough, toAPIError(passthrough))
}
