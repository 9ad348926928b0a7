package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"salonstock/internal/caching"
	"salonstock/internal/models"
	"salonstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WarehouseDefaults describes the warehouse provisioned for a tenant with none.
type WarehouseDefaults struct {
	Name  string
	Color string
}

// ErrNoWarehouse is returned when a tenant has no warehouse yet; the session bootstrap creates one.
var ErrNoWarehouse = errors.New("tenant has no warehouse; start a session first")

// ScopeResolver decides which warehouse partition a tenant's reads and writes apply to.
type ScopeResolver interface {
	// DetectCapabilities probes the store once at startup.
	DetectCapabilities(ctx context.Context) models.Capabilities
	Capabilities() models.Capabilities
	// EnsureWarehouseExists provisions the default warehouse for a tenant with none.
	// It is the only implicit write in the system and is idempotent.
	EnsureWarehouseExists(ctx context.Context, tenantID uuid.UUID) (*models.Warehouse, error)
	// ResolveActiveWarehouse returns nil in single implicit warehouse mode.
	ResolveActiveWarehouse(ctx context.Context, tenantID uuid.UUID) (*models.Warehouse, error)
	SelectWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (*models.Warehouse, error)
	// Scope builds the read/write scope, honoring an explicit warehouse when requested.
	Scope(ctx context.Context, tenantID uuid.UUID, requested *uuid.UUID) (models.Scope, error)
	// ReassignAfterDelete moves the persisted selection off a deleted warehouse.
	ReassignAfterDelete(ctx context.Context, tenantID, deletedID uuid.UUID) error
}

type scopeResolver struct {
	warehouseRepo repositories.WarehouseRepository
	cache         caching.CacheService
	defaults      WarehouseDefaults
	logger        zerolog.Logger
	now           func() time.Time

	mu   sync.RWMutex
	caps models.Capabilities
}

func NewScopeResolver(warehouseRepo repositories.WarehouseRepository, cache caching.CacheService, defaults WarehouseDefaults, logger zerolog.Logger) ScopeResolver {
	if defaults.Name == "" {
		defaults.Name = "Main Warehouse"
	}
	if defaults.Color == "" {
		defaults.Color = "#6366F1"
	}
	return &scopeResolver{
		warehouseRepo: warehouseRepo,
		cache:         cache,
		defaults:      defaults,
		logger:        logger.With().Str("component", "scope_resolver").Logger(),
		now:           time.Now,
		caps:          models.Capabilities{Warehouses: true},
	}
}

func (s *scopeResolver) DetectCapabilities(ctx context.Context) models.Capabilities {
	err := s.warehouseRepo.Probe(ctx)
	switch {
	case err == nil:
		s.setWarehouses(true)
	case repositories.KindOf(err) == repositories.KindRelationMissing:
		s.logger.Warn().Err(err).Msg("warehouses relation missing, running in single implicit warehouse mode")
		s.setWarehouses(false)
	default:
		// cannot tell; keep warehouses on and let the individual calls fail
		s.logger.Warn().Err(err).Msg("warehouse capability probe failed")
	}
	return s.Capabilities()
}

func (s *scopeResolver) Capabilities() models.Capabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.caps
}

func (s *scopeResolver) setWarehouses(enabled bool) {
	s.mu.Lock()
	s.caps.Warehouses = enabled
	s.mu.Unlock()
}

// degraded flips to single implicit warehouse mode when err says the relation is gone.
func (s *scopeResolver) degraded(err error) bool {
	if repositories.KindOf(err) != repositories.KindRelationMissing {
		return false
	}
	if s.Capabilities().Warehouses {
		s.logger.Warn().Err(err).Msg("warehouses relation disappeared, degrading to single implicit warehouse mode")
		s.setWarehouses(false)
	}
	return true
}

func (s *scopeResolver) EnsureWarehouseExists(ctx context.Context, tenantID uuid.UUID) (*models.Warehouse, error) {
	if !s.Capabilities().Warehouses {
		return nil, nil
	}
	warehouses, err := s.warehouseRepo.List(ctx, tenantID)
	if err != nil {
		if s.degraded(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(warehouses) > 0 {
		return pickWarehouse(warehouses, nil), nil
	}

	warehouse := &models.Warehouse{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      s.defaults.Name,
		Color:     s.defaults.Color,
		IsDefault: true,
		CreatedAt: s.now(),
	}
	if err := s.warehouseRepo.Create(ctx, warehouse); err != nil {
		if s.degraded(err) {
			return nil, nil
		}
		if repositories.KindOf(err) == repositories.KindConflict {
			return s.provisionedConcurrently(ctx, tenantID, err)
		}
		return nil, fmt.Errorf("provision default warehouse: %w", err)
	}
	s.logger.Info().Str("tenant_id", tenantID.String()).Str("warehouse_id", warehouse.ID.String()).Msg("provisioned default warehouse")
	s.persist(ctx, tenantID, warehouse.ID)
	return warehouse, nil
}

// provisionedConcurrently returns the default warehouse another session created
// between our list and our insert.
func (s *scopeResolver) provisionedConcurrently(ctx context.Context, tenantID uuid.UUID, cause error) (*models.Warehouse, error) {
	warehouses, err := s.warehouseRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("provision default warehouse: %w", err)
	}
	if len(warehouses) == 0 {
		return nil, fmt.Errorf("provision default warehouse: %w", cause)
	}
	s.logger.Debug().Str("tenant_id", tenantID.String()).Msg("default warehouse already provisioned")
	return pickWarehouse(warehouses, nil), nil
}

func (s *scopeResolver) ResolveActiveWarehouse(ctx context.Context, tenantID uuid.UUID) (*models.Warehouse, error) {
	if !s.Capabilities().Warehouses {
		return nil, nil
	}
	warehouses, err := s.warehouseRepo.List(ctx, tenantID)
	if err != nil {
		if s.degraded(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(warehouses) == 0 {
		return nil, ErrNoWarehouse
	}

	selected, err := s.cache.GetActiveWarehouse(ctx, tenantID)
	if err != nil {
		s.logger.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("reading persisted warehouse selection failed")
		selected = nil
	}
	active := pickWarehouse(warehouses, selected)
	if selected == nil || *selected != active.ID {
		s.persist(ctx, tenantID, active.ID)
	}
	return active, nil
}

func (s *scopeResolver) SelectWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (*models.Warehouse, error) {
	if !s.Capabilities().Warehouses {
		return nil, models.ErrWarehousesUnavailable
	}
	warehouse, err := s.warehouseRepo.GetByID(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	s.persist(ctx, tenantID, warehouse.ID)
	return warehouse, nil
}

func (s *scopeResolver) Scope(ctx context.Context, tenantID uuid.UUID, requested *uuid.UUID) (models.Scope, error) {
	if !s.Capabilities().Warehouses {
		return models.TenantScope(tenantID), nil
	}
	if requested != nil {
		warehouse, err := s.warehouseRepo.GetByID(ctx, tenantID, *requested)
		if err != nil {
			if s.degraded(err) {
				return models.TenantScope(tenantID), nil
			}
			return models.Scope{}, err
		}
		return models.WarehouseScope(tenantID, warehouse.ID), nil
	}
	active, err := s.ResolveActiveWarehouse(ctx, tenantID)
	if err != nil {
		return models.Scope{}, err
	}
	if active == nil {
		return models.TenantScope(tenantID), nil
	}
	return models.WarehouseScope(tenantID, active.ID), nil
}

func (s *scopeResolver) ReassignAfterDelete(ctx context.Context, tenantID, deletedID uuid.UUID) error {
	selected, err := s.cache.GetActiveWarehouse(ctx, tenantID)
	if err != nil {
		return err
	}
	if selected != nil && *selected != deletedID {
		return nil
	}
	warehouses, err := s.warehouseRepo.List(ctx, tenantID)
	if err != nil {
		return err
	}
	if len(warehouses) == 0 {
		return s.cache.ClearActiveWarehouse(ctx, tenantID)
	}
	return s.cache.SetActiveWarehouse(ctx, tenantID, pickWarehouse(warehouses, nil).ID)
}

func (s *scopeResolver) persist(ctx context.Context, tenantID, warehouseID uuid.UUID) {
	if err := s.cache.SetActiveWarehouse(ctx, tenantID, warehouseID); err != nil {
		s.logger.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("persisting warehouse selection failed")
	}
}

// pickWarehouse applies the selection order: persisted selection, then the
// default flag, then the first warehouse in creation order. warehouses must be non-empty.
func pickWarehouse(warehouses []*models.Warehouse, selected *uuid.UUID) *models.Warehouse {
	if selected != nil {
		for _, w := range warehouses {
			if w.ID == *selected {
				return w
			}
		}
	}
	for _, w := range warehouses {
		if w.IsDefault {
			return w
		}
	}
	return warehouses[0]
}
