// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/eventsplit/internal/models"
)

var (
	// ErrNotFound is returned when an event or participant does not exist.
	ErrNotFound = errors.New("not found")

	// ErrParticipantReferenced is returned when removing a participant that an expense
	// still refers to as payer or share holder.
	ErrParticipantReferenced = errors.New("participant is referenced by recorded expenses")

	// ErrOrganizerRemoval is returned when removing the participant who organizes the event.
	ErrOrganizerRemoval = errors.New("the event organizer cannot be removed")
)

// Store defines the interface for event storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateEvent persists a new event together with its initial participants.
	// The event.ID, participant IDs and CreatedAt fields are populated by the store.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves a complete snapshot of an event: participants and expenses
	// (with shares) in their recorded order.
	// Returns an error wrapping ErrNotFound if the event does not exist.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// AddParticipant attaches a participant to an existing event.
	AddParticipant(ctx context.Context, participant *models.Participant) error

	// RemoveParticipant detaches a participant from an event.
	// Returns an error wrapping ErrParticipantReferenced if any expense refers to it,
	// or ErrOrganizerRemoval if it is the event's organizer.
	RemoveParticipant(ctx context.Context, eventID, participantID string) error

	// CreateExpense records an expense with its shares. Expenses are never updated.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// Close releases any resources held by the store.
	Close() error
}
