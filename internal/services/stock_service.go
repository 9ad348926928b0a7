package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonstock/internal/models"
	"salonstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CreateFailurePolicy decides what Create Product does when the initial
// stock entry cannot be written after the product row was.
type CreateFailurePolicy string

const (
	// CreateRollback deletes the product again so the ledger stays whole.
	CreateRollback CreateFailurePolicy = "rollback"
	// CreateTolerate keeps the product and reports OutcomePartial.
	CreateTolerate CreateFailurePolicy = "tolerate"
)

// ParseCreateFailurePolicy accepts "rollback" or "tolerate"; empty means rollback.
func ParseCreateFailurePolicy(s string) (CreateFailurePolicy, error) {
	switch CreateFailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CreateRollback:
		return CreateRollback, nil
	case CreateTolerate:
		return CreateTolerate, nil
	default:
		return "", fmt.Errorf("unknown create failure policy %q", s)
	}
}

// StockService is the only code path that changes Product.quantity or the ledger.
// Every method returns a *models.MutationError when it does not fully succeed.
type StockService interface {
	CreateProduct(ctx context.Context, scope models.Scope, input *models.CreateProductInput) (*models.Product, error)
	AdjustStock(ctx context.Context, tenantID uuid.UUID, adj *models.StockAdjustment) (*models.Product, *models.Transaction, error)
	DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID) error
	DeleteTransaction(ctx context.Context, tenantID, transactionID uuid.UUID) (*models.Product, error)
	DeleteWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error
}

type stockService struct {
	productRepo     repositories.ProductRepository
	transactionRepo repositories.TransactionRepository
	warehouseRepo   repositories.WarehouseRepository
	resolver        ScopeResolver
	guard           MutationGuard
	policy          CreateFailurePolicy
	logger          zerolog.Logger
	now             func() time.Time
}

func NewStockService(
	productRepo repositories.ProductRepository,
	transactionRepo repositories.TransactionRepository,
	warehouseRepo repositories.WarehouseRepository,
	resolver ScopeResolver,
	guard MutationGuard,
	policy CreateFailurePolicy,
	logger zerolog.Logger,
) StockService {
	if policy == "" {
		policy = CreateRollback
	}
	return &stockService{
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		warehouseRepo:   warehouseRepo,
		resolver:        resolver,
		guard:           guard,
		policy:          policy,
		logger:          logger.With().Str("component", "stock_service").Logger(),
		now:             time.Now,
	}
}

// ApplyMovement returns the new quantity and the amount the ledger may record.
// Withdrawals are clamped to what is on hand.
func ApplyMovement(current int, direction models.TransactionType, amount int) (newQuantity, effective int) {
	if direction == models.TransactionIn {
		return current + amount, amount
	}
	effective = min(amount, current)
	return current - effective, effective
}

// ReverseMovement returns the quantity after txn is removed from history, floored at zero.
func ReverseMovement(current int, txn *models.Transaction) int {
	return max(0, current-txn.Signed())
}

func (s *stockService) CreateProduct(ctx context.Context, scope models.Scope, input *models.CreateProductInput) (*models.Product, error) {
	const op = "create product"
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, models.Invalid(op, "product name is required")
	}
	if input.InitialQuantity < 0 {
		return nil, models.Invalid(op, "initial quantity cannot be negative")
	}
	threshold := models.DefaultLowStockThreshold
	if input.LowStockThreshold != nil {
		if *input.LowStockThreshold < 0 {
			return nil, models.Invalid(op, "low stock threshold cannot be negative")
		}
		threshold = *input.LowStockThreshold
	}

	release, err := s.guard.Acquire(ctx, scope.TenantID)
	if err != nil {
		return nil, models.Rejected(op, err)
	}
	defer release()

	now := s.now()
	product := &models.Product{
		ID:                uuid.New(),
		TenantID:          scope.TenantID,
		WarehouseID:       scope.WarehouseID,
		Name:              name,
		Brand:             strings.TrimSpace(input.Brand),
		Variant:           strings.TrimSpace(input.Variant),
		Quantity:          input.InitialQuantity,
		LowStockThreshold: threshold,
		Notes:             input.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, &models.MutationError{Op: op, Outcome: models.OutcomeNoChange, Err: err}
	}
	if product.Quantity == 0 {
		return product, nil
	}

	seed := &models.Transaction{
		ID:          uuid.New(),
		TenantID:    product.TenantID,
		WarehouseID: product.WarehouseID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Brand:       product.Brand,
		Type:        models.TransactionIn,
		Amount:      product.Quantity,
		Notes:       models.InitialStockNote,
		CreatedAt:   stamp(input.BackdatedAt, now),
	}
	if err := s.transactionRepo.Create(ctx, seed); err != nil {
		log := s.logger.With().Str("tenant_id", product.TenantID.String()).Str("product_id", product.ID.String()).Logger()
		if s.policy == CreateTolerate {
			log.Warn().Err(err).Msg("initial stock entry not written; product kept without a backing ledger entry")
			return product, &models.MutationError{Op: op, Outcome: models.OutcomePartial, Err: err}
		}
		if rbErr := s.productRepo.Delete(ctx, product.TenantID, product.ID); rbErr != nil {
			log.Error().Err(err).AnErr("rollback_error", rbErr).Msg("initial stock entry failed and product rollback failed; manual reconciliation required")
			return nil, &models.MutationError{Op: op, Outcome: models.OutcomeInconsistent, Err: err, RollbackErr: rbErr}
		}
		log.Warn().Err(err).Msg("initial stock entry failed; product creation rolled back")
		return nil, &models.MutationError{Op: op, Outcome: models.OutcomeRolledBack, Err: err}
	}
	return product, nil
}

func (s *stockService) AdjustStock(ctx context.Context, tenantID uuid.UUID, adj *models.StockAdjustment) (*models.Product, *models.Transaction, error) {
	const op = "adjust stock"
	if !adj.Direction.Valid() {
		return nil, nil, models.Invalid(op, "direction must be %q or %q", models.TransactionIn, models.TransactionOut)
	}
	if adj.Amount <= 0 {
		return nil, nil, models.Invalid(op, "amount must be greater than 0")
	}

	release, err := s.guard.Acquire(ctx, tenantID)
	if err != nil {
		return nil, nil, models.Rejected(op, err)
	}
	defer release()

	product, err := s.productRepo.GetByID(ctx, tenantID, adj.ProductID)
	if err != nil {
		return nil, nil, models.Rejected(op, err)
	}
	previous := product.Quantity
	newQuantity, effective := ApplyMovement(previous, adj.Direction, adj.Amount)
	if effective == 0 {
		return nil, nil, models.Rejected(op, models.ErrNoStock)
	}

	if err := s.productRepo.UpdateQuantity(ctx, tenantID, product.ID, newQuantity); err != nil {
		return nil, nil, &models.MutationError{Op: op, Outcome: models.OutcomeNoChange, Err: err}
	}

	txn := &models.Transaction{
		ID:          uuid.New(),
		TenantID:    tenantID,
		WarehouseID: product.WarehouseID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Brand:       product.Brand,
		Type:        adj.Direction,
		Amount:      effective,
		Notes:       adj.Notes,
		CreatedAt:   stamp(adj.BackdatedAt, s.now()),
	}
	if err := s.transactionRepo.Create(ctx, txn); err != nil {
		return nil, nil, s.restoreQuantity(ctx, op, product, previous, err)
	}

	product.Quantity = newQuantity
	return product, txn, nil
}

func (s *stockService) DeleteTransaction(ctx context.Context, tenantID, transactionID uuid.UUID) (*models.Product, error) {
	const op = "delete transaction"
	release, err := s.guard.Acquire(ctx, tenantID)
	if err != nil {
		return nil, models.Rejected(op, err)
	}
	defer release()

	txn, err := s.transactionRepo.GetByID(ctx, tenantID, transactionID)
	if err != nil {
		return nil, models.Rejected(op, err)
	}
	product, err := s.productRepo.GetByID(ctx, tenantID, txn.ProductID)
	if errors.Is(err, models.ErrNotFound) {
		// orphaned entry: nothing to compensate
		if err := s.transactionRepo.Delete(ctx, tenantID, txn.ID); err != nil {
			return nil, &models.MutationError{Op: op, Outcome: models.OutcomeNoChange, Err: err}
		}
		return nil, nil
	}
	if err != nil {
		return nil, models.Rejected(op, err)
	}

	previous := product.Quantity
	compensated := ReverseMovement(previous, txn)
	if err := s.productRepo.UpdateQuantity(ctx, tenantID, product.ID, compensated); err != nil {
		return nil, &models.MutationError{Op: op, Outcome: models.OutcomeNoChange, Err: err}
	}
	if err := s.transactionRepo.Delete(ctx, tenantID, txn.ID); err != nil {
		return nil, s.restoreQuantity(ctx, op, product, previous, err)
	}

	product.Quantity = compensated
	return product, nil
}

// restoreQuantity writes back the pre-mutation quantity after a failed second write.
func (s *stockService) restoreQuantity(ctx context.Context, op string, product *models.Product, previous int, cause error) error {
	log := s.logger.With().Str("op", op).Str("tenant_id", product.TenantID.String()).Str("product_id", product.ID.String()).Logger()
	if err := s.productRepo.UpdateQuantity(ctx, product.TenantID, product.ID, previous); err != nil {
		log.Error().Err(cause).AnErr("rollback_error", err).Int("expected_quantity", previous).
			Msg("quantity rollback failed; manual reconciliation required")
		return &models.MutationError{Op: op, Outcome: models.OutcomeInconsistent, Err: cause, RollbackErr: err}
	}
	log.Warn().Err(cause).Msg("ledger write failed; quantity rolled back")
	return &models.MutationError{Op: op, Outcome: models.OutcomeRolledBack, Err: cause}
}

func (s *stockService) DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID) error {
	const op = "delete product"
	release, err := s.guard.Acquire(ctx, tenantID)
	if err != nil {
		return models.Rejected(op, err)
	}
	defer release()

	product, err := s.productRepo.GetByID(ctx, tenantID, productID)
	if err != nil {
		return models.Rejected(op, err)
	}
	history, err := s.transactionRepo.List(ctx, models.TenantScope(tenantID), models.TransactionFilter{ProductID: &product.ID}, false)
	if err != nil {
		return models.Rejected(op, err)
	}

	if err := s.transactionRepo.DeleteByProduct(ctx, tenantID, product.ID); err != nil {
		return &models.MutationError{Op: op, Outcome: models.OutcomeNoChange, Err: err}
	}
	if err := s.productRepo.Delete(ctx, tenantID, product.ID); err != nil {
		return s.restore(ctx, op, tenantID, nil, history, err)
	}
	s.logger.Info().Str("tenant_id", tenantID.String()).Str("product_id", product.ID.String()).
		Int("transactions", len(history)).Msg("product deleted")
	return nil
}

func (s *stockService) DeleteWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error {
	const op = "delete warehouse"
	if !s.resolver.Capabilities().Warehouses {
		return models.Rejected(op, models.ErrWarehousesUnavailable)
	}
	release, err := s.guard.Acquire(ctx, tenantID)
	if err != nil {
		return models.Rejected(op, err)
	}
	defer release()

	warehouses, err := s.warehouseRepo.List(ctx, tenantID)
	if err != nil {
		return models.Rejected(op, err)
	}
	var target *models.Warehouse
	for _, w := range warehouses {
		if w.ID == warehouseID {
			target = w
			break
		}
	}
	switch {
	case target == nil:
		return models.Rejected(op, models.ErrNotFound)
	case target.IsDefault:
		return models.Rejected(op, models.ErrDefaultWarehouse)
	case len(warehouses) < 2:
		return models.Rejected(op, models.ErrLastWarehouse)
	}

	scope := models.WarehouseScope(tenantID, target.ID)
	products, err := s.productRepo.List(ctx, scope)
	if err != nil {
		return models.Rejected(op, err)
	}
	history, err := s.transactionRepo.List(ctx, scope, models.TransactionFilter{}, false)
	if err != nil {
		return models.Rejected(op, err)
	}

	if err := s.transactionRepo.DeleteByWarehouse(ctx, tenantID, target.ID); err != nil {
		return &models.MutationError{Op: op, Outcome: models.OutcomeNoChange, Err: err}
	}
	if err := s.productRepo.DeleteByWarehouse(ctx, tenantID, target.ID); err != nil {
		return s.restore(ctx, op, tenantID, nil, history, err)
	}
	if err := s.warehouseRepo.Delete(ctx, tenantID, target.ID); err != nil {
		return s.restore(ctx, op, tenantID, products, history, err)
	}

	if err := s.resolver.ReassignAfterDelete(ctx, tenantID, target.ID); err != nil {
		s.logger.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("reassigning active warehouse failed")
	}
	s.logger.Info().Str("tenant_id", tenantID.String()).Str("warehouse_id", target.ID.String()).
		Int("products", len(products)).Int("transactions", len(history)).Msg("warehouse deleted")
	return nil
}

// restore re-inserts snapshotted rows after a failed cascade, products first.
func (s *stockService) restore(ctx context.Context, op string, tenantID uuid.UUID, products []*models.Product, history []*models.Transaction, cause error) error {
	var errs []error
	for _, p := range products {
		if err := s.productRepo.Create(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("product %s: %w", p.ID, err))
		}
	}
	for _, t := range history {
		if err := s.transactionRepo.Create(ctx, t); err != nil {
			errs = append(errs, fmt.Errorf("transaction %s: %w", t.ID, err))
		}
	}
	if rbErr := errors.Join(errs...); rbErr != nil {
		s.logger.Error().Err(cause).AnErr("rollback_error", rbErr).Str("op", op).Str("tenant_id", tenantID.String()).
			Msg("cascade rollback failed; manual reconciliation required")
		return &models.MutationError{Op: op, Outcome: models.OutcomeInconsistent, Err: cause, RollbackErr: rbErr}
	}
	s.logger.Warn().Err(cause).Str("op", op).Str("tenant_id", tenantID.String()).Msg("cascade delete rolled back")
	return &models.MutationError{Op: op, Outcome: models.OutcomeRolledBack, Err: cause}
}

func stamp(backdated *time.Time, now time.Time) time.Time {
	if backdated != nil && !backdated.IsZero() {
		return *backdated
	}
	return now
}
