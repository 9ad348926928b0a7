package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"salonstock/internal/common"
	"salonstock/internal/models"
	"salonstock/internal/services"

	"github.com/labstack/echo/v4"
)

type ExportHandlers struct {
	exports  services.ExportService
	resolver services.ScopeResolver
	now      func() time.Time
}

func NewExportHandlers(exports services.ExportService, resolver services.ScopeResolver) *ExportHandlers {
	return &ExportHandlers{exports: exports, resolver: resolver, now: time.Now}
}

// ExportTransactions takes period=day|month, date and format=csv|xlsx.
func (h *ExportHandlers) ExportTransactions(c echo.Context) error {
	return h.export(c, "transactions", h.exports.Transactions)
}

func (h *ExportHandlers) ExportProducts(c echo.Context) error {
	return h.export(c, "products", h.exports.Products)
}

type exportFunc func(ctx context.Context, scope models.Scope, period services.Period, format services.ExportFormat, w io.Writer) error

func (h *ExportHandlers) export(c echo.Context, name string, run exportFunc) error {
	scope, err := scopeFrom(c, h.resolver)
	if err != nil {
		return err
	}
	now := h.now()
	date := c.QueryParam("date")
	if date == "" {
		date = now.Format("2006-01-02")
	}
	period, err := services.ParsePeriod(c.QueryParam("period"), date, now.Location())
	if err != nil {
		return common.ValidationError("period", err.Error())
	}
	format, err := services.ParseExportFormat(c.QueryParam("format"))
	if err != nil {
		return common.ValidationError("format", err.Error())
	}

	// rendered fully before any byte reaches the client
	var buf bytes.Buffer
	if err := run(c.Request().Context(), scope, period, format, &buf); err != nil {
		return toAPIError(err)
	}
	filename := fmt.Sprintf("%s-%s.%s", name, period.Label(), format)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}
