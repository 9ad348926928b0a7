package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLowStockThreshold is applied when a product is created without a threshold.
const DefaultLowStockThreshold = 5

type Product struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	TenantID          uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	WarehouseID       *uuid.UUID `json:"warehouse_id" db:"warehouse_id"` // nil in single implicit warehouse mode
	Name              string     `json:"name" db:"name"`
	Brand             string     `json:"brand" db:"brand"`
	Variant           string     `json:"variant" db:"variant"`
	Quantity          int        `json:"quantity" db:"quantity"`
	ImageRef          string     `json:"image_ref" db:"image_ref"` // object key in image storage
	ImageURL          string     `json:"image_url,omitempty" db:"-"`
	LowStockThreshold int        `json:"low_stock_threshold" db:"low_stock_threshold"`
	Notes             string     `json:"notes" db:"notes"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether the on-hand quantity is at or below the product threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// CreateProductInput is the payload for the Create Product mutation.
type CreateProductInput struct {
	Name              string     `json:"name" validate:"required,max=200"`
	Brand             string     `json:"brand" validate:"max=120"`
	Variant           string     `json:"variant" validate:"max=120"`
	InitialQuantity   int        `json:"initial_quantity" validate:"gte=0"`
	LowStockThreshold *int       `json:"low_stock_threshold,omitempty" validate:"omitempty,gte=0"`
	Notes             string     `json:"notes" validate:"max=1000"`
	BackdatedAt       *time.Time `json:"backdated_at,omitempty"` // timestamp for the initial stock entry
}

// ProductUpdate carries editable product details. Quantity is deliberately absent:
// it changes only through stock mutations.
type ProductUpdate struct {
	Name              *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Brand             *string `json:"brand,omitempty" validate:"omitempty,max=120"`
	Variant           *string `json:"variant,omitempty" validate:"omitempty,max=120"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty" validate:"omitempty,gte=0"`
	Notes             *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
