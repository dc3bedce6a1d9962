package models

import "github.com/shopspring/decimal"

// Settlement is a suggested payment that reduces outstanding balances.
// Settlements are derived from balances and never stored.
type Settlement struct {
	// From is the participant who owes money (debtor).
	From string

	// To is the participant who is owed money (creditor).
	To string

	// Amount is the transfer amount.
	Amount decimal.Decimal

	// PaymentMethod is the creditor's payment details, if any.
	PaymentMethod *PaymentMethod
}
