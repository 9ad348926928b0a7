package repositories

import (
	"context"
	"fmt"

	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)
	UpdateDetails(ctx context.Context, product *models.Product) error
	UpdateQuantity(ctx context.Context, tenantID, id uuid.UUID, quantity int) error
	UpdateImage(ctx context.Context, tenantID, id uuid.UUID, imageRef string) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error
	List(ctx context.Context, scope models.Scope) ([]*models.Product, error)
	ListLowStock(ctx context.Context, scope models.Scope) ([]*models.Product, error)
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

type productRepo struct {
	db Database
}

func NewProductRepository(db Database) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, tenant_id, warehouse_id, name, brand, variant, quantity, image_ref, low_stock_threshold, notes, created_at, updated_at`

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, tenant_id, warehouse_id, name, brand, variant, quantity, image_ref, low_stock_threshold, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.TenantID, product.WarehouseID, product.Name, product.Brand, product.Variant,
		product.Quantity, product.ImageRef, product.LowStockThreshold, product.Notes, product.CreatedAt, product.UpdatedAt)
	return wrap("create product", err)
}

func (r *productRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2`
	product, err := scanProduct(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, wrap("get product", err)
	}
	return product, nil
}

// UpdateDetails writes the descriptive fields only; quantity is owned by the stock engine.
func (r *productRepo) UpdateDetails(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, brand = $2, variant = $3, low_stock_threshold = $4, notes = $5, updated_at = NOW()
		WHERE tenant_id = $6 AND id = $7
	`
	tag, err := r.db.Exec(ctx, query, product.Name, product.Brand, product.Variant, product.LowStockThreshold, product.Notes, product.TenantID, product.ID)
	if err != nil {
		return wrap("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("update product")
	}
	return nil
}

func (r *productRepo) UpdateQuantity(ctx context.Context, tenantID, id uuid.UUID, quantity int) error {
	query := `UPDATE products SET quantity = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, quantity, tenantID, id)
	if err != nil {
		return wrap("update product quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("update product quantity")
	}
	return nil
}

func (r *productRepo) UpdateImage(ctx context.Context, tenantID, id uuid.UUID, imageRef string) error {
	query := `UPDATE products SET image_ref = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, imageRef, tenantID, id)
	if err != nil {
		return wrap("update product image", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("update product image")
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM products WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return wrap("delete product", err)
}

func (r *productRepo) DeleteByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error {
	query := `DELETE FROM products WHERE tenant_id = $1 AND warehouse_id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, warehouseID)
	return wrap("delete warehouse products", err)
}

// List returns the products in scope ordered by name.
func (r *productRepo) List(ctx context.Context, scope models.Scope) ([]*models.Product, error) {
	query, args := scopedProductQuery(scope, "")
	return r.list(ctx, "list products", query, args...)
}

func (r *productRepo) ListLowStock(ctx context.Context, scope models.Scope) ([]*models.Product, error) {
	query, args := scopedProductQuery(scope, " AND quantity <= low_stock_threshold")
	return r.list(ctx, "list low stock products", query, args...)
}

func (r *productRepo) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT tenant_id FROM products`)
	if err != nil {
		return nil, wrap("list tenants", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, wrap("list tenants", err)
		}
		ids = append(ids, id)
	}
	return ids, wrap("list tenants", rows.Err())
}

func (r *productRepo) list(ctx context.Context, op, query string, args ...interface{}) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		products = append(products, product)
	}
	return products, wrap(op, rows.Err())
}

func scopedProductQuery(scope models.Scope, extra string) (string, []interface{}) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1`
	args := []interface{}{scope.TenantID}
	if scope.WarehouseID != nil {
		args = append(args, *scope.WarehouseID)
		query += fmt.Sprintf(` AND warehouse_id = $%d`, len(args))
	}
	query += extra + ` ORDER BY name ASC`
	return query, args
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.TenantID, &p.WarehouseID, &p.Name, &p.Brand, &p.Variant, &p.Quantity,
		&p.ImageRef, &p.LowStockThreshold, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
