package repositories

import (
	"context"
	"fmt"

	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Transaction, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteByProduct(ctx context.Context, tenantID, productID uuid.UUID) error
	DeleteByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error
	// List returns ledger entries in scope matching filter, newest first when newestFirst is set.
	List(ctx context.Context, scope models.Scope, filter models.TransactionFilter, newestFirst bool) ([]*models.Transaction, error)
}

type transactionRepo struct {
	db Database
}

func NewTransactionRepository(db Database) TransactionRepository {
	return &transactionRepo{db: db}
}

const transactionColumns = `id, tenant_id, warehouse_id, product_id, product_name, brand, type, amount, notes, created_at`

func (r *transactionRepo) Create(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, tenant_id, warehouse_id, product_id, product_name, brand, type, amount, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query, txn.ID, txn.TenantID, txn.WarehouseID, txn.ProductID, txn.ProductName, txn.Brand,
		string(txn.Type), txn.Amount, txn.Notes, txn.CreatedAt)
	return wrap("create transaction", err)
}

func (r *transactionRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE tenant_id = $1 AND id = $2`
	txn, err := scanTransaction(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, wrap("get transaction", err)
	}
	return txn, nil
}

func (r *transactionRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM transactions WHERE tenant_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return wrap("delete transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("delete transaction")
	}
	return nil
}

func (r *transactionRepo) DeleteByProduct(ctx context.Context, tenantID, productID uuid.UUID) error {
	query := `DELETE FROM transactions WHERE tenant_id = $1 AND product_id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, productID)
	return wrap("delete product transactions", err)
}

func (r *transactionRepo) DeleteByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error {
	query := `DELETE FROM transactions WHERE tenant_id = $1 AND warehouse_id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, warehouseID)
	return wrap("delete warehouse transactions", err)
}

func (r *transactionRepo) List(ctx context.Context, scope models.Scope, filter models.TransactionFilter, newestFirst bool) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE tenant_id = $1`
	args := []interface{}{scope.TenantID}

	if scope.WarehouseID != nil {
		args = append(args, *scope.WarehouseID)
		query += fmt.Sprintf(` AND warehouse_id = $%d`, len(args))
	}
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		query += fmt.Sprintf(` AND product_id = $%d`, len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(` AND created_at < $%d`, len(args))
	}

	if newestFirst {
		query += ` ORDER BY created_at DESC`
	} else {
		query += ` ORDER BY created_at ASC`
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list transactions", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, wrap("list transactions", err)
		}
		txns = append(txns, txn)
	}
	return txns, wrap("list transactions", rows.Err())
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	t := &models.Transaction{}
	var txnType string
	err := row.Scan(&t.ID, &t.TenantID, &t.WarehouseID, &t.ProductID, &t.ProductName, &t.Brand, &txnType, &t.Amount, &t.Notes, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Type = models.TransactionType(txnType)
	return t, nil
}
