package models

import "github.com/google/uuid"

// Scope identifies the tenant partition a read or write applies to.
// A nil WarehouseID means no warehouse filter: either the store runs in
// single implicit warehouse mode or the caller wants every warehouse.
type Scope struct {
	TenantID    uuid.UUID
	WarehouseID *uuid.UUID
}

// TenantScope returns an unfiltered scope for the tenant.
func TenantScope(tenantID uuid.UUID) Scope {
	return Scope{TenantID: tenantID}
}

// WarehouseScope returns a scope filtered to one warehouse.
func WarehouseScope(tenantID, warehouseID uuid.UUID) Scope {
	id := warehouseID
	return Scope{TenantID: tenantID, WarehouseID: &id}
}
