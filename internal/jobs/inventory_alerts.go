package jobs

import (
	"context"

	"salonstock/internal/models"
	"salonstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type InventoryAlertService struct {
	productRepo repositories.ProductRepository
	logger      zerolog.Logger
}

type InventoryAlert struct {
	TenantID     uuid.UUID  `json:"tenant_id"`
	WarehouseID  *uuid.UUID `json:"warehouse_id"`
	ProductID    uuid.UUID  `json:"product_id"`
	ProductName  string     `json:"product_name"`
	CurrentStock int        `json:"current_stock"`
	Threshold    int        `json:"threshold"`
}

func NewInventoryAlertService(productRepo repositories.ProductRepository, logger zerolog.Logger) *InventoryAlertService {
	return &InventoryAlertService{
		productRepo: productRepo,
		logger:      logger.With().Str("job", "low-stock").Logger(),
	}
}

// CheckLowStock lists products at or below their own threshold.
func (a *InventoryAlertService) CheckLowStock(ctx context.Context, scope models.Scope) ([]InventoryAlert, error) {
	products, err := a.productRepo.ListLowStock(ctx, scope)
	if err != nil {
		return nil, err
	}
	alerts := make([]InventoryAlert, 0, len(products))
	for _, p := range products {
		alerts = append(alerts, InventoryAlert{
			TenantID:     p.TenantID,
			WarehouseID:  p.WarehouseID,
			ProductID:    p.ID,
			ProductName:  p.Name,
			CurrentStock: p.Quantity,
			Threshold:    p.LowStockThreshold,
		})
	}
	return alerts, nil
}

func (a *InventoryAlertService) LogLowStockAlerts(alerts []InventoryAlert) {
	for _, alert := range alerts {
		event := a.logger.Warn().
			Str("tenant_id", alert.TenantID.String()).
			Str("product_id", alert.ProductID.String()).
			Str("product", alert.ProductName).
			Int("quantity", alert.CurrentStock).
			Int("threshold", alert.Threshold)
		if alert.WarehouseID != nil {
			event = event.Str("warehouse_id", alert.WarehouseID.String())
		}
		event.Msg("low stock")
	}
}

// ScheduledLowStockCheck walks every tenant that owns products. A failing
// tenant is logged and skipped.
func (a *InventoryAlertService) ScheduledLowStockCheck(ctx context.Context) error {
	tenants, err := a.productRepo.ListTenantIDs(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("listing tenants failed")
		return err
	}
	var total int
	for _, tenantID := range tenants {
		alerts, err := a.CheckLowStock(ctx, models.TenantScope(tenantID))
		if err != nil {
			a.logger.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("low stock check failed")
			continue
		}
		a.LogLowStockAlerts(alerts)
		total += len(alerts)
	}
	a.logger.Info().Int("tenants", len(tenants)).Int("alerts", total).Msg("low stock check completed")
	return nil
}
