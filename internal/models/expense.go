package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SplitMode is the policy that divides an expense among participants.
type SplitMode string

const (
	SplitEqual     SplitMode = "equal"
	SplitCustom    SplitMode = "custom"
	SplitSelective SplitMode = "selective"
)

// Valid reports whether m is a known split mode.
func (m SplitMode) Valid() bool {
	switch m {
	case SplitEqual, SplitCustom, SplitSelective:
		return true
	}
	return false
}

// Suggested expense categories. Categories are free-form; these are only offered as defaults.
const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transportation"
	CategoryAccommodation = "Accommodation"
	CategoryEntertainment = "Entertainment"
	CategoryShopping      = "Shopping"
	CategoryOther         = "Other"
)

// SuggestedCategories lists the categories offered when recording an expense.
var SuggestedCategories = []string{
	CategoryFood,
	CategoryTransport,
	CategoryAccommodation,
	CategoryEntertainment,
	CategoryShopping,
	CategoryOther,
}

// Shares maps a participant ID to the amount that participant owes for one expense.
type Shares map[string]decimal.Decimal

// Total returns the sum of all shares.
func (s Shares) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range s {
		total = total.Add(v)
	}
	return total
}

// IDs returns the participant IDs in sorted order.
func (s Shares) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Expense is one amount paid by a participant and shared among others.
// Expenses are immutable once recorded.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// EventID is the owning event.
	EventID string

	// Description is what the money was spent on.
	Description string

	// Amount is the authoritative total paid.
	Amount decimal.Decimal

	// Category is a free-form label, usually one of SuggestedCategories.
	Category string

	// PayerID is the participant who paid.
	PayerID string

	// SplitMode records how Shares were produced.
	SplitMode SplitMode

	// Shares holds what each involved participant owes. Sums to Amount.
	Shares Shares

	// Involved lists the participants selected for the split, in selection order.
	Involved []string

	// Date is when the expense was incurred.
	Date time.Time

	// ReceiptRef is an optional opaque reference to a receipt image.
	ReceiptRef string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
