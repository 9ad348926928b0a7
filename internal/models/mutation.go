package models

import (
	"errors"
	"fmt"
)

// Outcome tells the caller how far a failed mutation got before it stopped.
type Outcome int

const (
	// OutcomeNoChange: rejected before any write, or the first write itself failed.
	OutcomeNoChange Outcome = iota
	// OutcomeRolledBack: some writes happened and were compensated.
	OutcomeRolledBack
	// OutcomeInconsistent: the compensating write failed too; manual reconciliation required.
	OutcomeInconsistent
	// OutcomePartial: the primary write succeeded but a dependent write did not,
	// and the policy keeps the primary write.
	OutcomePartial
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoChange:
		return "no_change"
	case OutcomeRolledBack:
		return "rolled_back"
	case OutcomeInconsistent:
		return "inconsistent"
	case OutcomePartial:
		return "partial"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrBusy                  = errors.New("another stock mutation is in progress for this tenant")
	ErrNoStock               = errors.New("product has no stock to withdraw")
	ErrDefaultWarehouse      = errors.New("the default warehouse cannot be deleted")
	ErrLastWarehouse         = errors.New("the only remaining warehouse cannot be deleted")
	ErrWarehousesUnavailable = errors.New("warehouses are not available on this store")
)

// MutationError is returned by every stock mutation that does not fully succeed.
type MutationError struct {
	Op          string
	Outcome     Outcome
	Err         error // cause of the failure
	RollbackErr error // set when compensation was attempted and failed
}

func (e *MutationError) Error() string {
	switch e.Outcome {
	case OutcomeInconsistent:
		return fmt.Sprintf("%s: %v; rollback failed: %v (inconsistency: manual reconciliation required)", e.Op, e.Err, e.RollbackErr)
	case OutcomeRolledBack:
		return fmt.Sprintf("%s: %v (changes rolled back)", e.Op, e.Err)
	case OutcomePartial:
		return fmt.Sprintf("%s: completed with warning: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *MutationError) Unwrap() error { return e.Err }

// Rejected builds a NoChange error for a pre-flight rejection.
func Rejected(op string, err error) *MutationError {
	return &MutationError{Op: op, Outcome: OutcomeNoChange, Err: err}
}

// Invalid builds a NoChange validation error with a message.
func Invalid(op, format string, args ...any) *MutationError {
	return Rejected(op, fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...)))
}

// OutcomeOf extracts the outcome from err. Errors that are not
// MutationErrors are treated as NoChange.
func OutcomeOf(err error) Outcome {
	var me *MutationError
	if errors.As(err, &me) {
		return me.Outcome
	}
	return OutcomeNoChange
}
