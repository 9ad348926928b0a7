package analytics

import (
	"context"
	"fmt"
	"time"

	"salonstock/internal/models"
	"salonstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProductReport is one product's line in the monthly inventory report.
type ProductReport struct {
	Product               *models.Product  `json:"product"`
	OpeningQty            int              `json:"opening_qty"`
	NetChange             int              `json:"net_change"` // since the month start, up to now
	StockIn               int              `json:"stock_in"`   // within the month
	StockOut              int              `json:"stock_out"`  // within the month
	Trend                 ConsumptionTrend `json:"trend"`      // report month against the month before
	Turnover              Turnover         `json:"turnover"`
	AvgMonthlyConsumption float64          `json:"avg_monthly_consumption"`
	LowStock              bool             `json:"low_stock"`
}

type ReportTotals struct {
	Products int `json:"products"`
	LowStock int `json:"low_stock"`
	StockIn  int `json:"stock_in"`
	StockOut int `json:"stock_out"`
}

// InventoryReport is recomputed from the ledger and the snapshot on every call.
type InventoryReport struct {
	TenantID       uuid.UUID         `json:"tenant_id"`
	WarehouseID    *uuid.UUID        `json:"warehouse_id"`
	Month          string            `json:"month"` // YYYY-MM
	GeneratedAt    time.Time         `json:"generated_at"`
	Products       []ProductReport   `json:"products"`
	TopConsumption []ConsumptionRank `json:"top_consumption"`
	Totals         ReportTotals      `json:"totals"`
}

// Service loads ledger snapshots and runs the reconstruction functions over them.
type Service struct {
	productRepo     repositories.ProductRepository
	transactionRepo repositories.TransactionRepository
	logger          zerolog.Logger
}

func NewService(productRepo repositories.ProductRepository, transactionRepo repositories.TransactionRepository, logger zerolog.Logger) *Service {
	return &Service{
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		logger:          logger.With().Str("component", "analytics").Logger(),
	}
}

// MonthlyReport builds the report for the calendar month containing month.
// History is read unscoped so products moved between warehouses keep their past.
func (s *Service) MonthlyReport(ctx context.Context, scope models.Scope, month, now time.Time) (*InventoryReport, error) {
	products, err := s.productRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	history, err := s.transactionRepo.List(ctx, models.TenantScope(scope.TenantID), models.TransactionFilter{}, false)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return BuildReport(scope, products, history, month, now), nil
}

// BuildReport is the pure part of MonthlyReport.
func BuildReport(scope models.Scope, products []*models.Product, history []*models.Transaction, month, now time.Time) *InventoryReport {
	start, end := MonthWindow(month)
	opening := ComputeOpeningStock(products, history, start)

	type flow struct{ in, out int }
	flows := make(map[uuid.UUID]flow, len(products))
	var scoped []*models.Transaction
	for _, t := range history {
		if scope.WarehouseID != nil && (t.WarehouseID == nil || *t.WarehouseID != *scope.WarehouseID) {
			continue
		}
		scoped = append(scoped, t)
		if !inWindow(t.CreatedAt, start, end) {
			continue
		}
		f := flows[t.ProductID]
		if t.Type == models.TransactionIn {
			f.in += t.Amount
		} else {
			f.out += t.Amount
		}
		flows[t.ProductID] = f
	}

	report := &InventoryReport{
		TenantID:       scope.TenantID,
		WarehouseID:    scope.WarehouseID,
		Month:          start.Format("2006-01"),
		GeneratedAt:    now,
		Products:       make([]ProductReport, 0, len(products)),
		TopConsumption: RankConsumption(scoped, products, start, end, TopConsumptionLimit),
	}
	for i, p := range products {
		avg := AverageMonthlyConsumption(p.ID, history, now)
		f := flows[p.ID]
		line := ProductReport{
			Product:               p,
			OpeningQty:            opening[i].OpeningQty,
			NetChange:             opening[i].NetChange,
			StockIn:               f.in,
			StockOut:              f.out,
			Trend:                 ComputeConsumptionTrend(history, p.ID, start),
			Turnover:              TurnoverFor(p.Quantity, avg),
			AvgMonthlyConsumption: avg,
			LowStock:              p.IsLowStock(),
		}
		report.Products = append(report.Products, line)
		report.Totals.StockIn += f.in
		report.Totals.StockOut += f.out
		if line.LowStock {
			report.Totals.LowStock++
		}
	}
	report.Totals.Products = len(products)
	return report
}

// ReconcileTenant compares every product of the tenant against its ledger.
func (s *Service) ReconcileTenant(ctx context.Context, tenantID uuid.UUID) ([]Drift, error) {
	scope := models.TenantScope(tenantID)
	products, err := s.productRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	history, err := s.transactionRepo.List(ctx, scope, models.TransactionFilter{}, false)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	drifts := Reconcile(products, history)
	if len(drifts) > 0 {
		s.logger.Warn().Str("tenant_id", tenantID.String()).Int("drifted_products", len(drifts)).Msg("ledger drift detected")
	}
	return drifts, nil
}
