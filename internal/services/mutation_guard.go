package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"salonstock/internal/models"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MutationGuard keeps at most one stock mutation in flight per tenant.
// Acquire never waits: a busy tenant gets models.ErrBusy.
type MutationGuard interface {
	Acquire(ctx context.Context, tenantID uuid.UUID) (release func(), err error)
}

type localGuard struct {
	mu   sync.Mutex
	busy map[uuid.UUID]struct{}
}

// NewLocalGuard returns an in-process guard.
func NewLocalGuard() MutationGuard {
	return &localGuard{busy: make(map[uuid.UUID]struct{})}
}

func (g *localGuard) Acquire(_ context.Context, tenantID uuid.UUID) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.busy[tenantID]; ok {
		return nil, models.ErrBusy
	}
	g.busy[tenantID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, tenantID)
			g.mu.Unlock()
		})
	}, nil
}

type redisGuard struct {
	local  MutationGuard
	locker *redislock.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisGuard layers a cross-process redis lock on top of the in-process guard.
// When redis is unreachable the mutation proceeds under the local guard only.
func NewRedisGuard(locker *redislock.Client, ttl time.Duration, logger zerolog.Logger) MutationGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisGuard{
		local:  NewLocalGuard(),
		locker: locker,
		ttl:    ttl,
		logger: logger.With().Str("component", "mutation_guard").Logger(),
	}
}

func mutationLockKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("salonstock:mutation:%s", tenantID)
}

func (g *redisGuard) Acquire(ctx context.Context, tenantID uuid.UUID) (func(), error) {
	releaseLocal, err := g.local.Acquire(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	lock, err := g.locker.Obtain(ctx, mutationLockKey(tenantID), g.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		releaseLocal()
		return nil, models.ErrBusy
	}
	if err != nil {
		g.logger.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("redis lock unavailable, proceeding with in-process guard only")
		return releaseLocal, nil
	}

	return func() {
		// ctx may already be cancelled by the time the mutation returns
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			g.logger.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("releasing redis mutation lock failed")
		}
		releaseLocal()
	}, nil
}
