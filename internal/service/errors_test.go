package service

import (
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/eventsplit/internal/calculator"
	"github.com/mmynk/eventsplit/internal/storage"
)

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{"not found", fmt.Errorf("get event: %w", storage.ErrNotFound), connect.CodeNotFound},
		{"referenced participant", storage.ErrParticipantReferenced, connect.CodeFailedPrecondition},
		{"organizer removal", fmt.Errorf("remove: %w", storage.ErrOrganizerRemoval), connect.CodeFailedPrecondition},
		{"invalid amount", calculator.ErrInvalidAmount, connect.CodeInvalidArgument},
		{"no participants", calculator.ErrNoParticipantsSelected, connect.CodeInvalidArgument},
		{"invalid participant", calculator.ErrInvalidParticipant, connect.CodeInvalidArgument},
		{"unknown mode", calculator.ErrUnknownSplitMode, connect.CodeInvalidArgument},
		{"mismatch", &calculator.SharesMismatchError{Expected: decimal.NewFromInt(100), Actual: decimal.NewFromInt(80)}, connect.CodeInvalidArgument},
		{"dangling", errors.Join(
			&calculator.DanglingReferenceError{ExpenseID: "e1", ParticipantID: "p1", Field: "payer"},
			&calculator.DanglingReferenceError{ExpenseID: "e2", ParticipantID: "p2", Field: "share"},
		), connect.CodeFailedPrecondition},
		{"integrity", &calculator.IntegrityError{Imbalance: decimal.NewFromInt(20)}, connect.CodeFailedPrecondition},
		{"unexpected", errors.New("disk full"), connect.CodeInternal},
		{"already connect", connect.NewError(connect.CodeUnavailable, errors.New("busy")), connect.CodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toConnectError(tt.err).Code())
		})
	}
}

func TestToConnectError_MismatchMetadata(t *testing.T) {
	err := toConnectError(fmt.Errorf("preview: %w", &calculator.SharesMismatchError{
		Expected: decimal.RequireFromString("100"),
		Actual:   decimal.RequireFromString("100.50"),
	}))

	assert.Equal(t, "100.00", err.Meta().Get(MetaSharesExpected))
	assert.Equal(t, "100.50", err.Meta().Get(MetaSharesActual))
	assert.Equal(t, "-0.50", err.Meta().Get(MetaSharesDiscrepancy))
}
