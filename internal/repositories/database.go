package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of pgxpool.Pool the repositories use. pgxmock pools satisfy it too.
type Database interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

var errNotConfigured = errors.New("ledger store is not configured (DATABASE_URL is empty)")

// Unconfigured returns a Database that fails every call with KindNotConfigured,
// so a process started without store credentials short-circuits instead of panicking.
func Unconfigured() Database {
	return unconfigured{}
}

type unconfigured struct{}

func (unconfigured) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, &StoreError{Op: "exec", Kind: KindNotConfigured, Err: errNotConfigured}
}

func (unconfigured) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, &StoreError{Op: "query", Kind: KindNotConfigured, Err: errNotConfigured}
}

func (unconfigured) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return errRow{err: &StoreError{Op: "query", Kind: KindNotConfigured, Err: errNotConfigured}}
}

type errRow struct{ err error }

func (r errRow) Scan(dest ...interface{}) error { return r.err }
