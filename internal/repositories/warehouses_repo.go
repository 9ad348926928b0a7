package repositories

import (
	"context"
	"errors"

	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type WarehouseRepository interface {
	// Probe checks that the warehouses relation exists and is readable.
	Probe(ctx context.Context) error
	Create(ctx context.Context, warehouse *models.Warehouse) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Warehouse, error)
	Update(ctx context.Context, warehouse *models.Warehouse) error
	SetDefault(ctx context.Context, tenantID, id uuid.UUID, isDefault bool) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Warehouse, error)
}

type warehouseRepo struct {
	db Database
}

func NewWarehouseRepository(db Database) WarehouseRepository {
	return &warehouseRepo{db: db}
}

const warehouseColumns = `id, tenant_id, name, description, color, is_default, created_at`

func (r *warehouseRepo) Probe(ctx context.Context) error {
	var one int
	err := r.db.QueryRow(ctx, `SELECT 1 FROM warehouses LIMIT 1`).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		// an empty relation still exists
		return nil
	}
	return wrap("probe warehouses", err)
}

func (r *warehouseRepo) Create(ctx context.Context, warehouse *models.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, tenant_id, name, description, color, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, warehouse.ID, warehouse.TenantID, warehouse.Name, warehouse.Description, warehouse.Color, warehouse.IsDefault, warehouse.CreatedAt)
	return wrap("create warehouse", err)
}

func (r *warehouseRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE tenant_id = $1 AND id = $2`
	warehouse, err := scanWarehouse(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, wrap("get warehouse", err)
	}
	return warehouse, nil
}

func (r *warehouseRepo) Update(ctx context.Context, warehouse *models.Warehouse) error {
	query := `
		UPDATE warehouses
		SET name = $1, description = $2, color = $3
		WHERE tenant_id = $4 AND id = $5
	`
	tag, err := r.db.Exec(ctx, query, warehouse.Name, warehouse.Description, warehouse.Color, warehouse.TenantID, warehouse.ID)
	if err != nil {
		return wrap("update warehouse", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("update warehouse")
	}
	return nil
}

func (r *warehouseRepo) SetDefault(ctx context.Context, tenantID, id uuid.UUID, isDefault bool) error {
	query := `UPDATE warehouses SET is_default = $1 WHERE tenant_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, isDefault, tenantID, id)
	if err != nil {
		return wrap("set default warehouse", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("set default warehouse")
	}
	return nil
}

func (r *warehouseRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM warehouses WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return wrap("delete warehouse", err)
}

// List returns the tenant's warehouses in creation order.
func (r *warehouseRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE tenant_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, wrap("list warehouses", err)
	}
	defer rows.Close()

	var warehouses []*models.Warehouse
	for rows.Next() {
		warehouse, err := scanWarehouse(rows)
		if err != nil {
			return nil, wrap("list warehouses", err)
		}
		warehouses = append(warehouses, warehouse)
	}
	return warehouses, wrap("list warehouses", rows.Err())
}

func scanWarehouse(row pgx.Row) (*models.Warehouse, error) {
	w := &models.Warehouse{}
	if err := row.Scan(&w.ID, &w.TenantID, &w.Name, &w.Description, &w.Color, &w.IsDefault, &w.CreatedAt); err != nil {
		return nil, err
	}
	return w, nil
}
