package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrResidentNotFound = errors.New("resident_not_found")
	ErrPlanNotFound     = errors.New("plan_not_found")
	ErrPaymentNotFound  = errors.New("payment_not_found")
)

// ValidationError reports malformed input. It is raised before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid_%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError reports an overlapping billing interval. It carries the
// interval of the existing assignment that blocked the proposal.
type ConflictError struct {
	Start time.Time
	End   time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("assignment_overlap: existing plan covers %s to %s",
		e.Start.Format(time.DateOnly), e.End.Format(time.DateOnly))
}

// DuplicateError reports a transaction reference that is already recorded.
type DuplicateError struct {
	TransactionID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate_transaction: %s already recorded", e.TransactionID)
}

// OutstandingBalanceError blocks deletion of a resident with a nonzero
// balance. It carries the balance for display.
type OutstandingBalanceError struct {
	Balance int64
}

func (e *OutstandingBalanceError) Error() string {
	return fmt.Sprintf("outstanding_balance: resident owes %d", e.Balance)
}
