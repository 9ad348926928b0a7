package models

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a named inventory partition belonging to a tenant.
// Exactly one warehouse per tenant carries IsDefault.
type Warehouse struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Color       string    `json:"color" db:"color"`
	IsDefault   bool      `json:"is_default" db:"is_default"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// WarehouseUpdate carries the editable warehouse fields; nil fields are left untouched.
type WarehouseUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// Capabilities describes what the backing store supports for this deployment.
type Capabilities struct {
	Warehouses bool `json:"warehouses"` // false = single implicit warehouse mode
}
