package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType is the direction of a stock movement.
type TransactionType string

const (
	TransactionIn  TransactionType = "in"
	TransactionOut TransactionType = "out"
)

// Valid reports whether t is a known direction.
func (t TransactionType) Valid() bool {
	return t == TransactionIn || t == TransactionOut
}

// InitialStockNote is the note written on the synthetic entry that seeds a product's baseline.
const InitialStockNote = "initial stock"

// Transaction is an immutable ledger entry. Product name and brand are
// captured at write time and never re-joined.
type Transaction struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	TenantID    uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	WarehouseID *uuid.UUID      `json:"warehouse_id" db:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	Brand       string          `json:"brand" db:"brand"`
	Type        TransactionType `json:"type" db:"type"`
	Amount      int             `json:"amount" db:"amount"`
	Notes       string          `json:"notes" db:"notes"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// Signed returns the amount with the sign of its direction.
func (t *Transaction) Signed() int {
	if t.Type == TransactionOut {
		return -t.Amount
	}
	return t.Amount
}

// StockAdjustment is the payload for the Adjust Stock mutation.
type StockAdjustment struct {
	ProductID   uuid.UUID       `json:"-"`
	Direction   TransactionType `json:"direction" validate:"required,oneof=in out"`
	Amount      int             `json:"amount" validate:"required,gt=0"`
	Notes       string          `json:"notes" validate:"max=1000"`
	BackdatedAt *time.Time      `json:"backdated_at,omitempty"`
}

// TransactionFilter narrows a ledger read. Zero values mean "no bound".
type TransactionFilter struct {
	From      *time.Time // inclusive
	To        *time.Time // exclusive
	ProductID *uuid.UUID
}
