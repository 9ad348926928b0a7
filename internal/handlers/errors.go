package handlers

import (
	"errors"
	"net/http"

	"salonstock/internal/common"
	"salonstock/internal/models"
	"salonstock/internal/repositories"
	"salonstock/internal/services"
)

// toAPIError maps service and store errors onto the response envelope. The
// outcome detail tells clients whether anything was written.
func toAPIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	details := map[string]string{}
	var mutErr *models.MutationError
	if errors.As(err, &mutErr) {
		details["outcome"] = mutErr.Outcome.String()
		switch mutErr.Outcome {
		case models.OutcomeInconsistent:
			return common.NewAPIError(http.StatusInternalServerError, "INCONSISTENT", mutErr.Error(), details)
		case models.OutcomeRolledBack:
			return common.NewAPIError(http.StatusBadGateway, "ROLLED_BACK", mutErr.Error(), details)
		}
	}

	status, code := http.StatusInternalServerError, "SERVER_ERROR"
	switch {
	case errors.Is(err, models.ErrValidation):
		status, code = http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, models.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, models.ErrBusy):
		status, code = http.StatusConflict, "BUSY"
	case errors.Is(err, models.ErrNoStock):
		status, code = http.StatusConflict, "NO_STOCK"
	case errors.Is(err, models.ErrDefaultWarehouse):
		status, code = http.StatusConflict, "DEFAULT_WAREHOUSE"
	case errors.Is(err, models.ErrLastWarehouse):
		status, code = http.StatusConflict, "LAST_WAREHOUSE"
	case errors.Is(err, models.ErrWarehousesUnavailable):
		status, code = http.StatusConflict, "WAREHOUSES_UNAVAILABLE"
	case errors.Is(err, services.ErrNoWarehouse):
		status, code = http.StatusConflict, "NO_WAREHOUSE"
	default:
		switch repositories.KindOf(err) {
		case repositories.KindNotConfigured:
			status, code = http.StatusServiceUnavailable, "STORE_NOT_CONFIGURED"
		case repositories.KindUnavailable, repositories.KindRelationMissing:
			status, code = http.StatusServiceUnavailable, "STORE_UNAVAILABLE"
		case repositories.KindPermissionDenied:
			status, code = http.StatusForbidden, "PERMISSION_DENIED"
		case repositories.KindConflict:
			status, code = http.StatusConflict, "CONFLICT"
		}
	}
	if len(details) == 0 {
		details = nil
	}
	message := err.Error()
	if code == "SERVER_ERROR" && mutErr == nil {
		message = "operation could not be completed"
	}
	return common.NewAPIError(status, code, message, details)
}
