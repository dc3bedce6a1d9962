package models

// Role describes a participant's position within an event.
type Role string

const (
	RoleOrganizer   Role = "organizer"
	RoleParticipant Role = "participant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleOrganizer || r == RoleParticipant
}

// PaymentMethod describes how a participant prefers to be paid.
// Every field is optional.
type PaymentMethod struct {
	// WalletNumber is a mobile-wallet number.
	WalletNumber string

	// BankTransferID is an instant bank-transfer identifier.
	BankTransferID string

	// QRCodeRef is an opaque reference to a payment QR-code image.
	QRCodeRef string
}

// IsZero reports whether no payment details are set.
func (p *PaymentMethod) IsZero() bool {
	return p == nil || (p.WalletNumber == "" && p.BankTransferID == "" && p.QRCodeRef == "")
}

// Participant is a person attached to an event who may pay for or owe a share of expenses.
type Participant struct {
	// ID is unique within the event (UUID format).
	ID string

	// EventID is the event this participant belongs to.
	EventID string

	// Name is the display name.
	Name string

	// Contact is a phone number or similar handle.
	Contact string

	// Role is organizer or participant.
	Role Role

	// PaymentMethod is nil when the participant has not shared any payment details.
	PaymentMethod *PaymentMethod

	// CreatedAt is the Unix timestamp when the participant was added.
	CreatedAt int64
}
