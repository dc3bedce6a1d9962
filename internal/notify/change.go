package notify

import (
	"encoding/json"
	"time"
)

// Kind names what changed in an event.
type Kind string

const (
	EventCreated       Kind = "event_created"
	ParticipantAdded   Kind = "participant_added"
	ParticipantRemoved Kind = "participant_removed"
	ExpenseAdded       Kind = "expense_added"
)

// Change is a lightweight notification that an event's snapshot changed.
// Consumers fetch the event again to get the new state.
type Change struct {
	EventID   string    `json:"event_id"`
	Kind      Kind      `json:"kind"`
	SubjectID string    `json:"subject_id,omitempty"` // participant or expense ID
	Timestamp time.Time `json:"timestamp"`
}

// NewChange creates a change stamped with the current time.
func NewChange(eventID string, kind Kind, subjectID string) *Change {
	return &Change{
		EventID:   eventID,
		Kind:      kind,
		SubjectID: subjectID,
		Timestamp: time.Now().UTC(),
	}
}

// RoutingKey is the topic routing key the change is published under.
func (c *Change) RoutingKey() string {
	return "event." + string(c.Kind)
}

// ToJSON converts the change to JSON bytes
func (c *Change) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

// ChangeFromJSON decodes a change published by ToJSON.
func ChangeFromJSON(data []byte) (*Change, error) {
	var c Change
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
