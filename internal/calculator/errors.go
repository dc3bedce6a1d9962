package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount                = errors.New("amount must be a positive value in whole cents")
	ErrNoParticipantsSelected       = errors.New("at least one participant must be selected")
	ErrInvalidParticipant           = errors.New("invalid participant")
	ErrUnknownSplitMode             = errors.New("unknown split mode")
	ErrSharesMismatch               = errors.New("shares do not add up to the expense amount")
	ErrDanglingParticipantReference = errors.New("expense references a participant that is not in the event")
	ErrIntegrityViolation           = errors.New("balances do not sum to zero")
)

// SharesMismatchError is returned when custom shares do not add up to the expense amount.
type SharesMismatchError struct {
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *SharesMismatchError) Error() string {
	return fmt.Sprintf("%v: expected %s, got %s (off by %s)",
		ErrSharesMismatch, e.Expected.StringFixed(2), e.Actual.StringFixed(2), e.Discrepancy().StringFixed(2))
}

func (e *SharesMismatchError) Unwrap() error { return ErrSharesMismatch }

// Discrepancy is Expected minus Actual. Positive means the shares fall short.
func (e *SharesMismatchError) Discrepancy() decimal.Decimal {
	return e.Expected.Sub(e.Actual)
}

// DanglingReferenceError identifies one expense field pointing at an unknown participant.
type DanglingReferenceError struct {
	ExpenseID     string
	ParticipantID string
	// Field is "payer" or "share".
	Field string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%v: expense %s %s %q", ErrDanglingParticipantReference, e.ExpenseID, e.Field, e.ParticipantID)
}

func (e *DanglingReferenceError) Unwrap() error { return ErrDanglingParticipantReference }

// IntegrityError reports a non-zero sum of balances.
type IntegrityError struct {
	Imbalance decimal.Decimal
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%v: off by %s", ErrIntegrityViolation, e.Imbalance.String())
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrityViolation }
