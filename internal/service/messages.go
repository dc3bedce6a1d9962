package service

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wire types for eventsplit.v1.EventService. Amounts are decimal strings, e.g. "33.34".

type PaymentMethod struct {
	WalletNumber   string `json:"wallet_number,omitempty"`
	BankTransferID string `json:"bank_transfer_id,omitempty"`
	QRCodeRef      string `json:"qr_code_ref,omitempty"`
}

type Participant struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Contact       string         `json:"contact,omitempty"`
	Role          string         `json:"role"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
	CreatedAt     int64          `json:"created_at"`
}

type Expense struct {
	ID          string                     `json:"id"`
	Description string                     `json:"description"`
	Amount      decimal.Decimal            `json:"amount"`
	Category    string                     `json:"category"`
	PayerID     string                     `json:"payer_id"`
	SplitMode   string                     `json:"split_mode"`
	Shares      map[string]decimal.Decimal `json:"shares"`
	Involved    []string                   `json:"involved"`
	Date        time.Time                  `json:"date"`
	ReceiptRef  string                     `json:"receipt_ref,omitempty"`
	CreatedAt   int64                      `json:"created_at"`
}

type Event struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Date         time.Time     `json:"date"`
	Description  string        `json:"description,omitempty"`
	ImageRef     string        `json:"image_ref,omitempty"`
	OrganizerID  string        `json:"organizer_id"`
	Participants []Participant `json:"participants"`
	Expenses     []Expense     `json:"expenses"`
	CreatedAt    int64         `json:"created_at"`
}

// ParticipantInput describes a participant to be added.
type ParticipantInput struct {
	Name          string         `json:"name" validate:"required,max=100"`
	Contact       string         `json:"contact,omitempty" validate:"max=100"`
	Role          string         `json:"role,omitempty" validate:"omitempty,oneof=organizer participant"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
}

type CreateEventRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Date        time.Time        `json:"date" validate:"required"`
	Description string           `json:"description,omitempty" validate:"max=2000"`
	ImageRef    string           `json:"image_ref,omitempty"`
	Organizer   ParticipantInput `json:"organizer"`
}

type CreateEventResponse struct {
	Event Event `json:"event"`
}

type GetEventRequest struct {
	EventID string `json:"event_id" validate:"required"`
}

type GetEventResponse struct {
	Event Event `json:"event"`
}

type AddParticipantRequest struct {
	EventID     string           `json:"event_id" validate:"required"`
	Participant ParticipantInput `json:"participant"`
}

type AddParticipantResponse struct {
	Participant Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	EventID       string `json:"event_id" validate:"required"`
	ParticipantID string `json:"participant_id" validate:"required"`
}

type RemoveParticipantResponse struct{}

type PreviewSharesRequest struct {
	Amount       decimal.Decimal            `json:"amount"`
	SplitMode    string                     `json:"split_mode" validate:"required"`
	Involved     []string                   `json:"involved"`
	CustomShares map[string]decimal.Decimal `json:"custom_shares,omitempty"`
}

type PreviewSharesResponse struct {
	Shares map[string]decimal.Decimal `json:"shares"`
	Total  decimal.Decimal            `json:"total"`
}

type AddExpenseRequest struct {
	EventID     string          `json:"event_id" validate:"required"`
	Description string          `json:"description" validate:"required,max=200"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty" validate:"max=50"`
	PayerID     string          `json:"payer_id" validate:"required"`
	SplitMode   string          `json:"split_mode" validate:"required"`
	// Involved defaults to every participant for equal splits and to the keys of
	// CustomShares for custom splits. Selective splits must name them.
	Involved     []string                   `json:"involved,omitempty"`
	CustomShares map[string]decimal.Decimal `json:"custom_shares,omitempty"`
	Date         time.Time                  `json:"date"`
	ReceiptRef   string                     `json:"receipt_ref,omitempty"`
}

type AddExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type GetSummaryRequest struct {
	EventID string `json:"event_id" validate:"required"`
}

type Balance struct {
	ParticipantID string          `json:"participant_id"`
	Name          string          `json:"name"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalOwed     decimal.Decimal `json:"total_owed"`
	Net           decimal.Decimal `json:"net"`
	Settled       bool            `json:"settled"`
}

type Settlement struct {
	FromID        string          `json:"from_id"`
	FromName      string          `json:"from_name"`
	ToID          string          `json:"to_id"`
	ToName        string          `json:"to_name"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod *PaymentMethod  `json:"payment_method,omitempty"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type GetSummaryResponse struct {
	Balances         []Balance       `json:"balances"`
	Settlements      []Settlement    `json:"settlements"`
	CategoryTotals   []CategoryTotal `json:"category_totals"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
	PerPersonAverage decimal.Decimal `json:"per_person_average"`
	SettledIDs       []string        `json:"settled_ids"`
	// SuggestedCategories lists categories offered when recording an expense.
	SuggestedCategories []string `json:"suggested_categories"`
}
