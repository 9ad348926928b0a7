package repositories

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"salonstock/internal/models"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"no rows", pgx.ErrNoRows, KindNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), KindNotFound},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, KindRelationMissing},
		{"insufficient privilege", &pgconn.PgError{Code: "42501"}, KindPermissionDenied},
		{"unique violation", &pgconn.PgError{Code: "23505"}, KindConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, KindConflict},
		{"connection failure", &pgconn.PgError{Code: "08006"}, KindUnavailable},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, KindUnavailable},
		{"syntax error", &pgconn.PgError{Code: "42601"}, KindUnknown},
		{"deadline", context.DeadlineExceeded, KindUnavailable},
		{"network", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, KindUnavailable},
		{"other", errors.New("boom"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	assert.NoError(t, wrap("noop", nil))

	err := wrap("get product", pgx.ErrNoRows)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, "get product: no rows in result set", err.Error())

	// rewrapping keeps the original kind under the outer op
	rewrapped := wrap("list warehouses", &StoreError{Op: "query", Kind: KindNotConfigured, Err: errNotConfigured})
	var se *StoreError
	assert.ErrorAs(t, rewrapped, &se)
	assert.Equal(t, "list warehouses", se.Op)
	assert.Equal(t, KindNotConfigured, se.Kind)

	conflict := wrap("create", &pgconn.PgError{Code: "23505"})
	assert.False(t, errors.Is(conflict, models.ErrNotFound))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("outer: %w", &StoreError{Kind: KindConflict, Err: errors.New("x")})))
	assert.Equal(t, "relation_missing", KindRelationMissing.String())
}
