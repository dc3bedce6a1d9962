package models

import "time"

// Event groups the participants and expenses that are balanced together.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Name is the display name of the event (e.g., "Langkawi Trip").
	Name string

	// Date is the day the event takes place.
	Date time.Time

	// Description is optional free text.
	Description string

	// ImageRef is an optional opaque reference to a cover image.
	ImageRef string

	// OrganizerID is the participant who created the event.
	OrganizerID string

	// Participants are the people attached to the event, in the order they joined.
	Participants []Participant

	// Expenses are the recorded expenses, in the order they were entered.
	Expenses []Expense

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}

// Participant returns the participant with the given ID, if present.
func (e *Event) Participant(id string) (Participant, bool) {
	for _, p := range e.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// ParticipantIDs returns participant IDs in event order.
func (e *Event) ParticipantIDs() []string {
	ids := make([]string, len(e.Participants))
	for i, p := range e.Participants {
		ids[i] = p.ID
	}
	return ids
}
