package service

import (
	"errors"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/eventsplit/internal/calculator"
	"github.com/mmynk/eventsplit/internal/storage"
)

// Error metadata keys attached to SharesMismatch errors.
const (
	MetaSharesExpected    = "Shares-Expected"
	MetaSharesActual      = "Shares-Actual"
	MetaSharesDiscrepancy = "Shares-Discrepancy"
)

// toConnectError maps domain and storage errors to Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var validationErrs validator.ValidationErrors
	var mismatch *calculator.SharesMismatchError

	switch {
	case errors.As(err, &validationErrs):
		return connect.NewError(connect.CodeInvalidArgument, err)

	case errors.As(err, &mismatch):
		ce := connect.NewError(connect.CodeInvalidArgument, err)
		ce.Meta().Set(MetaSharesExpected, mismatch.Expected.StringFixed(2))
		ce.Meta().Set(MetaSharesActual, mismatch.Actual.StringFixed(2))
		ce.Meta().Set(MetaSharesDiscrepancy, mismatch.Discrepancy().StringFixed(2))
		return ce

	case errors.Is(err, calculator.ErrInvalidAmount),
		errors.Is(err, calculator.ErrNoParticipantsSelected),
		errors.Is(err, calculator.ErrInvalidParticipant),
		errors.Is(err, calculator.ErrUnknownSplitMode):
		return connect.NewError(connect.CodeInvalidArgument, err)

	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)

	case errors.Is(err, storage.ErrParticipantReferenced),
		errors.Is(err, storage.ErrOrganizerRemoval),
		errors.Is(err, calculator.ErrDanglingParticipantReference),
		errors.Is(err, calculator.ErrIntegrityViolation):
		return connect.NewError(connect.CodeFailedPrecondition, err)

	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
