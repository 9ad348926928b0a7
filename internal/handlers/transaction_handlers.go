package handlers

import (
	"net/http"
	"time"

	"salonstock/internal/common"
	"salonstock/internal/models"
	"salonstock/internal/services"

	"github.com/labstack/echo/v4"
)

type TransactionHandlers struct {
	ledger       services.LedgerQueryService
	stockService services.StockService
	resolver     services.ScopeResolver
}

func NewTransactionHandlers(ledger services.LedgerQueryService, stockService services.StockService, resolver services.ScopeResolver) *TransactionHandlers {
	return &TransactionHandlers{ledger: ledger, stockService: stockService, resolver: resolver}
}

// ListTransactions returns the scope's ledger newest first. from is inclusive;
// to is inclusive of the whole day when given as a date.
func (h *TransactionHandlers) ListTransactions(c echo.Context) error {
	scope, err := scopeFrom(c, h.resolver)
	if err != nil {
		return err
	}
	from, err := common.ParseOptionalDate(c.QueryParam("from"), "from", time.Local)
	if err != nil {
		return common.ValidationError("from", err.Error())
	}
	to, err := common.ParseOptionalDate(c.QueryParam("to"), "to", time.Local)
	if err != nil {
		return common.ValidationError("to", err.Error())
	}
	if to != nil && len(c.QueryParam("to")) == len("2006-01-02") {
		end := to.AddDate(0, 0, 1)
		to = &end
	}
	if err := common.ValidateDateRange(from, to); err != nil {
		return common.ValidationError("to", err.Error())
	}
	productID, err := common.ParseOptionalUUID(c.QueryParam("product_id"), "product_id")
	if err != nil {
		return common.ValidationError("product_id", err.Error())
	}

	txns, err := h.ledger.ListTransactions(c.Request().Context(), scope, models.TransactionFilter{From: from, To: to, ProductID: productID})
	if err != nil {
		return toAPIError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"transactions": txns,
	})
}

// DeleteTransaction removes the entry and reverses its effect on the product quantity.
func (h *TransactionHandlers) DeleteTransaction(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.stockService.DeleteTransaction(c.Request().Context(), tenantID, id)
	if err != nil {
		return toAPIError(err)
	}
	return c.JSON(http.StatusOK, StockMutationResponse{Product: product})
}
