package repositories

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"salonstock/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a storage failure independently of the driver's error shape.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindRelationMissing
	KindPermissionDenied
	KindConflict
	KindUnavailable
	KindNotConfigured
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindRelationMissing:
		return "relation_missing"
	case KindPermissionDenied:
		return "permission_denied"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	case KindNotConfigured:
		return "not_configured"
	default:
		return "unknown"
	}
}

// StoreError is the only error shape returned by the repositories.
type StoreError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is lets callers test a not-found store error against models.ErrNotFound.
func (e *StoreError) Is(target error) bool {
	return target == models.ErrNotFound && e.Kind == KindNotFound
}

// KindOf returns the Kind of err, or KindUnknown when err did not come from a repository.
func KindOf(err error) Kind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return &StoreError{Op: op, Kind: se.Kind, Err: se.Err}
	}
	return &StoreError{Op: op, Kind: classify(err), Err: err}
}

func notFound(op string) error {
	return &StoreError{Op: op, Kind: KindNotFound, Err: pgx.ErrNoRows}
}

func classify(err error) Kind {
	if errors.Is(err, pgx.ErrNoRows) {
		return KindNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42P01":
			return KindRelationMissing
		case pgErr.Code == "42501":
			return KindPermissionDenied
		case pgErr.Code == "23505", pgErr.Code == "23503", pgErr.Code == "23514":
			return KindConflict
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == "57P01", pgErr.Code == "53300":
			return KindUnavailable
		}
		return KindUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindUnavailable
	}
	return KindUnknown
}
