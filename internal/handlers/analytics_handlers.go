package handlers

import (
	"net/http"
	"time"

	"salonstock/internal/analytics"
	"salonstock/internal/common"
	"salonstock/internal/services"

	"github.com/labstack/echo/v4"
)

type AnalyticsHandlers struct {
	analytics *analytics.Service
	resolver  services.ScopeResolver
	now       func() time.Time
}

func NewAnalyticsHandlers(analyticsSvc *analytics.Service, resolver services.ScopeResolver) *AnalyticsHandlers {
	return &AnalyticsHandlers{analytics: analyticsSvc, resolver: resolver, now: time.Now}
}

// InventoryReport serves the monthly report; month is YYYY-MM and defaults to
// the current month.
func (h *AnalyticsHandlers) InventoryReport(c echo.Context) error {
	scope, err := scopeFrom(c, h.resolver)
	if err != nil {
		return err
	}
	now := h.now()
	month := now
	if raw := c.QueryParam("month"); raw != "" {
		month, err = time.ParseInLocation("2006-01", raw, now.Location())
		if err != nil {
			return common.ValidationError("month", "must be YYYY-MM")
		}
	}
	report, err := h.analytics.MonthlyReport(c.Request().Context(), scope, month, now)
	if err != nil {
		return toAPIError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// Reconciliation lists products whose quantity disagrees with their ledger.
func (h *AnalyticsHandlers) Reconciliation(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	drifts, err := h.analytics.ReconcileTenant(c.Request().Context(), tenantID)
	if err != nil {
		return toAPIError(err)
	}
	if drifts == nil {
		drifts = []analytics.Drift{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"consistent": len(drifts) == 0,
		"drifts":     drifts,
	})
}
