package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"salonstock/internal/models"
	"salonstock/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL and applies the schema. The
// test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, connString, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.ApplySchema(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to apply schema: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestTenant returns a fresh tenant id and removes its rows when the test ends.
func SetupTestTenant(t *testing.T, db *TestDB) uuid.UUID {
	t.Helper()

	tenantID := uuid.New()
	t.Cleanup(func() {
		ctx := context.Background()
		for _, table := range []string{"transactions", "products", "warehouses"} {
			if _, err := db.Pool.Exec(ctx, "DELETE FROM "+table+" WHERE tenant_id = $1", tenantID); err != nil {
				t.Logf("cleanup %s: %v", table, err)
			}
		}
	})
	return tenantID
}

// SetupTestWarehouse creates a warehouse for the tenant.
func SetupTestWarehouse(t *testing.T, db *TestDB, tenantID uuid.UUID, isDefault bool) *models.Warehouse {
	t.Helper()

	warehouse := &models.Warehouse{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      "Test Warehouse",
		Color:     "#6366F1",
		IsDefault: isDefault,
		CreatedAt: time.Now(),
	}
	query := `
		INSERT INTO warehouses (id, tenant_id, name, description, color, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := db.Pool.Exec(context.Background(), query, warehouse.ID, warehouse.TenantID, warehouse.Name,
		warehouse.Description, warehouse.Color, warehouse.IsDefault, warehouse.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test warehouse: %v", err)
	}
	return warehouse
}

// SetupTestProduct creates a product with the given quantity in the warehouse.
func SetupTestProduct(t *testing.T, db *TestDB, tenantID, warehouseID uuid.UUID, quantity int) *models.Product {
	t.Helper()

	now := time.Now()
	product := &models.Product{
		ID:                uuid.New(),
		TenantID:          tenantID,
		WarehouseID:       &warehouseID,
		Name:              "Test Shampoo",
		Brand:             "Test Brand",
		Quantity:          quantity,
		LowStockThreshold: models.DefaultLowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	query := `
		INSERT INTO products (id, tenant_id, warehouse_id, name, brand, variant, quantity, image_ref, low_stock_threshold, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		product.ID, product.TenantID, product.WarehouseID, product.Name, product.Brand, product.Variant,
		product.Quantity, product.ImageRef, product.LowStockThreshold, product.Notes, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return product
}

func timePtr(t time.Time) *time.Time {
	return &t
}
