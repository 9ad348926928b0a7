package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"salonstock/internal/common"
	"salonstock/internal/models"
	"salonstock/internal/services"

	"github.com/labstack/echo/v4"
)

// ProductHandlers handles HTTP requests for products and stock movements
type ProductHandlers struct {
	productService services.ProductService
	stockService   services.StockService
	ledger         services.LedgerQueryService
	resolver       services.ScopeResolver
}

func NewProductHandlers(productService services.ProductService, stockService services.StockService, ledger services.LedgerQueryService, resolver services.ScopeResolver) *ProductHandlers {
	return &ProductHandlers{
		productService: productService,
		stockService:   stockService,
		ledger:         ledger,
		resolver:       resolver,
	}
}

// StockMutationResponse is returned by every stock mutation. Warning is set
// when the mutation partially succeeded.
type StockMutationResponse struct {
	Product     *models.Product     `json:"product"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
	Warning     string              `json:"warning,omitempty"`
}

// ListProducts returns the products of the scope ordered by name; low_stock=true
// narrows to products at or below their threshold.
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	scope, err := scopeFrom(c, h.resolver)
	if err != nil {
		return err
	}
	lowOnly := false
	if raw := c.QueryParam("low_stock"); raw != "" {
		if lowOnly, err = strconv.ParseBool(raw); err != nil {
			return common.ValidationError("low_stock", "must be true or false")
		}
	}
	return h.listProducts(c, scope, lowOnly)
}

// ListLowStock is ListProducts with low_stock=true.
func (h *ProductHandlers) ListLowStock(c echo.Context) error {
	scope, err := scopeFrom(c, h.resolver)
	if err != nil {
		return err
	}
	return h.listProducts(c, scope, true)
}

func (h *ProductHandlers) listProducts(c echo.Context, scope models.Scope, lowOnly bool) error {
	ctx := c.Request().Context()
	var err error
	var products []*models.Product
	if lowOnly {
		products, err = h.ledger.ListLowStock(ctx, scope)
	} else {
		products, err = h.ledger.ListProducts(ctx, scope)
	}
	if err != nil {
		return toAPIError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": h.productService.WithImageURLs(ctx, products),
	})
}

func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	scope, err := scopeFrom(c, h.resolver)
	if err != nil {
		return err
	}
	var req models.CreateProductInput
	if err := common.BindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.stockService.CreateProduct(c.Request().Context(), scope, &req)
	if err != nil && models.OutcomeOf(err) != models.OutcomePartial {
		return toAPIError(err)
	}
	resp := StockMutationResponse{Product: product}
	if err != nil {
		resp.Warning = err.Error()
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *ProductHandlers) GetProduct(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.productService.GetByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return toAPIError(err)
	}
	return c.JSON(http.StatusOK, product)
}

// UpdateProduct edits product details; quantity is not accepted here.
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.ProductUpdate
	if err := common.BindAndValidate(c, &req); err != nil {
		return err
	}
	product, err := h.productService.UpdateDetails(c.Request().Context(), tenantID, id, &req)
	if err != nil {
		return toAPIError(err)
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct removes the product and its whole ledger.
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.stockService.DeleteProduct(c.Request().Context(), tenantID, id); err != nil {
		return toAPIError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdjustStock records a stock-in or stock-out. Withdrawals larger than the
// quantity on hand are recorded at the quantity on hand.
func (h *ProductHandlers) AdjustStock(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.StockAdjustment
	if err := common.BindAndValidate(c, &req); err != nil {
		return err
	}
	req.ProductID = id

	product, txn, err := h.stockService.AdjustStock(c.Request().Context(), tenantID, &req)
	if err != nil {
		return toAPIError(err)
	}
	resp := StockMutationResponse{Product: product, Transaction: txn}
	if txn.Amount != req.Amount {
		resp.Warning = "withdrawal limited to the quantity on hand"
	}
	return c.JSON(http.StatusOK, resp)
}

// UploadImage accepts a multipart "image" field.
func (h *ProductHandlers) UploadImage(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return common.ValidationError("image", "image file is required")
		}
		return common.ValidationError("image", "invalid multipart form")
	}
	src, err := file.Open()
	if err != nil {
		return common.ValidationError("image", "cannot read uploaded file")
	}
	defer src.Close()

	product, err := h.productService.UploadImage(c.Request().Context(), tenantID, id, file.Filename, src, file.Size)
	if err != nil {
		return toAPIError(err)
	}
	return c.JSON(http.StatusOK, product)
}
