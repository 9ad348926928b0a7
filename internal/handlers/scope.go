package handlers

import (
	"salonstock/internal/common"
	"salonstock/internal/models"
	"salonstock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func tenantFrom(c echo.Context) (uuid.UUID, error) {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, common.UnauthorizedError()
	}
	return tenantID, nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := common.ParseUUID(c.Param(name), name)
	if err != nil {
		return uuid.Nil, common.ValidationError(name, err.Error())
	}
	return id, nil
}

// scopeFrom uses the warehouse_id query parameter when present, else the
// tenant's active warehouse.
func scopeFrom(c echo.Context, resolver services.ScopeResolver) (models.Scope, error) {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return models.Scope{}, err
	}
	requested, err := common.ParseOptionalUUID(c.QueryParam("warehouse_id"), "warehouse_id")
	if err != nil {
		return models.Scope{}, common.ValidationError("warehouse_id", err.Error())
	}
	scope, err := resolver.Scope(c.Request().Context(), tenantID, requested)
	if err != nil {
		return models.Scope{}, toAPIError(err)
	}
	return scope, nil
}
