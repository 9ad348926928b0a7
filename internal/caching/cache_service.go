package caching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SelectionTTL bounds how long an unused active-warehouse selection is remembered.
const SelectionTTL = 90 * 24 * time.Hour

type CacheService interface {
	// Active warehouse selection, advisory only.
	GetActiveWarehouse(ctx context.Context, tenantID uuid.UUID) (*uuid.UUID, error)
	SetActiveWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error
	ClearActiveWarehouse(ctx context.Context, tenantID uuid.UUID) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisClient builds the shared go-redis client. Addresses given as
// redis:// or rediss:// URLs are reduced to host:port.
func NewRedisClient(addr, password string, db int, logger zerolog.Logger) *redis.Client {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		logger.Warn().Err(pingErr).Str("addr", parsedAddr).Msg("redis ping failed on initialization")
	} else {
		logger.Debug().Str("addr", parsedAddr).Msg("redis connection established")
	}
	return client
}

func NewRedisCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func activeWarehouseKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("salonstock:active_warehouse:%s", tenantID.String())
}

func (r *redisCacheService) GetActiveWarehouse(ctx context.Context, tenantID uuid.UUID) (*uuid.UUID, error) {
	val, err := r.client.Get(ctx, activeWarehouseKey(tenantID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // nothing selected yet
		}
		return nil, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		// unreadable selection is treated as no selection
		return nil, nil
	}
	return &id, nil
}

func (r *redisCacheService) SetActiveWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error {
	return r.client.Set(ctx, activeWarehouseKey(tenantID), warehouseID.String(), SelectionTTL).Err()
}

func (r *redisCacheService) ClearActiveWarehouse(ctx context.Context, tenantID uuid.UUID) error {
	return r.client.Del(ctx, activeWarehouseKey(tenantID)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
