package handlers

import (
	"net/http"

	"salonstock/internal/common"
	"salonstock/internal/models"
	"salonstock/internal/services"

	"github.com/labstack/echo/v4"
)

// WarehouseHandlers handles warehouse-related HTTP requests
type WarehouseHandlers struct {
	warehouseService services.WarehouseService
	stockService     services.StockService
	resolver         services.ScopeResolver
}

func NewWarehouseHandlers(warehouseService services.WarehouseService, stockService services.StockService, resolver services.ScopeResolver) *WarehouseHandlers {
	return &WarehouseHandlers{
		warehouseService: warehouseService,
		stockService:     stockService,
		resolver:         resolver,
	}
}

func (h *WarehouseHandlers) ListWarehouses(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	warehouses, err := h.warehouseService.List(c.Request().Context(), tenantID)
	if err != nil {
		return toAPIError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"warehouses": warehouses,
	})
}

// CreateWarehouseRequest represents the warehouse creation request payload
type CreateWarehouseRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

func (h *WarehouseHandlers) CreateWarehouse(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	var req CreateWarehouseRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		return err
	}
	warehouse := &models.Warehouse{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}
	if err := h.warehouseService.Create(c.Request().Context(), tenantID, warehouse); err != nil {
		return toAPIError(err)
	}
	return c.JSON(http.StatusCreated, warehouse)
}

func (h *WarehouseHandlers) GetWarehouse(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	warehouse, err := h.warehouseService.GetByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return toAPIError(err)
	}
	return c.JSON(http.StatusOK, warehouse)
}

func (h *WarehouseHandlers) UpdateWarehouse(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.WarehouseUpdate
	if err := common.BindAndValidate(c, &req); err != nil {
		return err
	}
	warehouse, err := h.warehouseService.Update(c.Request().Context(), tenantID, id, &req)
	if err != nil {
		return toAPIError(err)
	}
	return c.JSON(http.StatusOK, warehouse)
}

func (h *WarehouseHandlers) SetDefaultWarehouse(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	warehouse, err := h.warehouseService.SetDefault(c.Request().Context(), tenantID, id)
	if err != nil {
		return toAPIError(err)
	}
	return c.JSON(http.StatusOK, warehouse)
}

// SelectWarehouse makes the warehouse the tenant's active scope.
func (h *WarehouseHandlers) SelectWarehouse(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	warehouse, err := h.resolver.SelectWarehouse(c.Request().Context(), tenantID, id)
	if err != nil {
		return toAPIError(err)
	}
	return c.JSON(http.StatusOK, warehouse)
}

// DeleteWarehouse removes the warehouse with all its products and transactions.
func (h *WarehouseHandlers) DeleteWarehouse(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.stockService.DeleteWarehouse(c.Request().Context(), tenantID, id); err != nil {
		return toAPIError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
