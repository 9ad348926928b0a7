package services

import (
	"context"
	"strings"
	"time"

	"salonstock/internal/models"
	"salonstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type WarehouseService interface {
	Create(ctx context.Context, tenantID uuid.UUID, warehouse *models.Warehouse) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Warehouse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, update *models.WarehouseUpdate) (*models.Warehouse, error)
	// SetDefault moves the default flag; the previous default is restored if the move fails.
	SetDefault(ctx context.Context, tenantID, id uuid.UUID) (*models.Warehouse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Warehouse, error)
}

type warehouseService struct {
	warehouseRepo repositories.WarehouseRepository
	resolver      ScopeResolver
	guard         MutationGuard
	logger        zerolog.Logger
	now           func() time.Time
}

func NewWarehouseService(warehouseRepo repositories.WarehouseRepository, resolver ScopeResolver, guard MutationGuard, logger zerolog.Logger) WarehouseService {
	return &warehouseService{
		warehouseRepo: warehouseRepo,
		resolver:      resolver,
		guard:         guard,
		logger:        logger.With().Str("component", "warehouse_service").Logger(),
		now:           time.Now,
	}
}

func (s *warehouseService) Create(ctx context.Context, tenantID uuid.UUID, warehouse *models.Warehouse) error {
	const op = "create warehouse"
	if !s.resolver.Capabilities().Warehouses {
		return models.Rejected(op, models.ErrWarehousesUnavailable)
	}
	warehouse.Name = strings.TrimSpace(warehouse.Name)
	if warehouse.Name == "" {
		return models.Invalid(op, "warehouse name is required")
	}

	existing, err := s.warehouseRepo.List(ctx, tenantID)
	if err != nil {
		return models.Rejected(op, err)
	}

	warehouse.ID = uuid.New()
	warehouse.TenantID = tenantID
	warehouse.CreatedAt = s.now()
	warehouse.IsDefault = len(existing) == 0
	if err := s.warehouseRepo.Create(ctx, warehouse); err != nil {
		return &models.MutationError{Op: op, Outcome: models.OutcomeNoChange, Err: err}
	}
	return nil
}

func (s *warehouseService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Warehouse, error) {
	if !s.resolver.Capabilities().Warehouses {
		return nil, models.ErrWarehousesUnavailable
	}
	return s.warehouseRepo.GetByID(ctx, tenantID, id)
}

func (s *warehouseService) Update(ctx context.Context, tenantID, id uuid.UUID, update *models.WarehouseUpdate) (*models.Warehouse, error) {
	const op = "update warehouse"
	if !s.resolver.Capabilities().Warehouses {
		return nil, models.Rejected(op, models.ErrWarehousesUnavailable)
	}
	warehouse, err := s.warehouseRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, models.Rejected(op, err)
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, models.Invalid(op, "warehouse name cannot be empty")
		}
		warehouse.Name = name
	}
	if update.Description != nil {
		warehouse.Description = *update.Description
	}
	if update.Color != nil {
		warehouse.Color = *update.Color
	}
	if err := s.warehouseRepo.Update(ctx, warehouse); err != nil {
		return nil, &models.MutationError{Op: op, Outcome: models.OutcomeNoChange, Err: err}
	}
	return warehouse, nil
}

func (s *warehouseService) SetDefault(ctx context.Context, tenantID, id uuid.UUID) (*models.Warehouse, error) {
	const op = "set default warehouse"
	if !s.resolver.Capabilities().Warehouses {
		return nil, models.Rejected(op, models.ErrWarehousesUnavailable)
	}
	release, err := s.guard.Acquire(ctx, tenantID)
	if err != nil {
		return nil, models.Rejected(op, err)
	}
	defer release()

	warehouses, err := s.warehouseRepo.List(ctx, tenantID)
	if err != nil {
		return nil, models.Rejected(op, err)
	}
	var target *models.Warehouse
	var previous []*models.Warehouse
	for _, w := range warehouses {
		if w.ID == id {
			target = w
		} else if w.IsDefault {
			previous = append(previous, w)
		}
	}
	if target == nil {
		return nil, models.Rejected(op, models.ErrNotFound)
	}
	if target.IsDefault && len(previous) == 0 {
		return target, nil
	}

	var cleared []*models.Warehouse
	for _, w := range previous {
		if err := s.warehouseRepo.SetDefault(ctx, tenantID, w.ID, false); err != nil {
			return nil, s.restoreDefaults(ctx, op, tenantID, cleared, err)
		}
		cleared = append(cleared, w)
	}
	if err := s.warehouseRepo.SetDefault(ctx, tenantID, target.ID, true); err != nil {
		return nil, s.restoreDefaults(ctx, op, tenantID, cleared, err)
	}
	target.IsDefault = true
	return target, nil
}

// restoreDefaults puts the default flag back on the warehouses that lost it.
func (s *warehouseService) restoreDefaults(ctx context.Context, op string, tenantID uuid.UUID, cleared []*models.Warehouse, cause error) error {
	if len(cleared) == 0 {
		return &models.MutationError{Op: op, Outcome: models.OutcomeNoChange, Err: cause}
	}
	for _, w := range cleared {
		if err := s.warehouseRepo.SetDefault(ctx, tenantID, w.ID, true); err != nil {
			s.logger.Error().Err(err).Str("tenant_id", tenantID.String()).Str("warehouse_id", w.ID.String()).
				Msg("restoring default warehouse failed; manual reconciliation required")
			return &models.MutationError{Op: op, Outcome: models.OutcomeInconsistent, Err: cause, RollbackErr: err}
		}
	}
	s.logger.Warn().Err(cause).Str("tenant_id", tenantID.String()).Msg("default warehouse change rolled back")
	return &models.MutationError{Op: op, Outcome: models.OutcomeRolledBack, Err: cause}
}

func (s *warehouseService) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Warehouse, error) {
	if !s.resolver.Capabilities().Warehouses {
		return []*models.Warehouse{}, nil
	}
	return s.warehouseRepo.List(ctx, tenantID)
}
