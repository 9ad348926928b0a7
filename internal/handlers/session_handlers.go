package handlers

import (
	"net/http"

	"salonstock/internal/models"
	"salonstock/internal/services"

	"github.com/labstack/echo/v4"
)

type SessionHandlers struct {
	resolver   services.ScopeResolver
	warehouses services.WarehouseService
}

func NewSessionHandlers(resolver services.ScopeResolver, warehouses services.WarehouseService) *SessionHandlers {
	return &SessionHandlers{resolver: resolver, warehouses: warehouses}
}

type SessionResponse struct {
	Capabilities    models.Capabilities `json:"capabilities"`
	ActiveWarehouse *models.Warehouse   `json:"active_warehouse"`
	Warehouses      []*models.Warehouse `json:"warehouses"`
}

// StartSession provisions the default warehouse on first use and reports the
// active scope. Safe to call on every app start.
func (h *SessionHandlers) StartSession(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	if _, err := h.resolver.EnsureWarehouseExists(ctx, tenantID); err != nil {
		return toAPIError(err)
	}
	active, err := h.resolver.ResolveActiveWarehouse(ctx, tenantID)
	if err != nil {
		return toAPIError(err)
	}
	warehouses, err := h.warehouses.List(ctx, tenantID)
	if err != nil {
		return toAPIError(err)
	}
	return c.JSON(http.StatusOK, SessionResponse{
		Capabilities:    h.resolver.Capabilities(),
		ActiveWarehouse: active,
		Warehouses:      warehouses,
	})
}
