package caching

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// memoryCacheService keeps selections in process memory. Used when no redis
// address is configured; selections then do not survive a restart.
type memoryCacheService struct {
	mu        sync.RWMutex
	selection map[uuid.UUID]uuid.UUID
}

func NewMemoryCacheService() CacheService {
	return &memoryCacheService{selection: make(map[uuid.UUID]uuid.UUID)}
}

func (m *memoryCacheService) GetActiveWarehouse(ctx context.Context, tenantID uuid.UUID) (*uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.selection[tenantID]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (m *memoryCacheService) SetActiveWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection[tenantID] = warehouseID
	return nil
}

func (m *memoryCacheService) ClearActiveWarehouse(ctx context.Context, tenantID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.selection, tenantID)
	return nil
}

func (m *memoryCacheService) Ping(ctx context.Context) error { return nil }
