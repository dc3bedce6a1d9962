// Package models defines the core domain models for eventsplit.
//
// # Models
//
//   - Event: a shared occasion owning an ordered list of participants and expenses
//   - Participant: a person attached to an event, optionally with payment details
//   - Expense: an amount paid by one participant and shared among several
//   - Settlement: a suggested transfer derived from balances (never stored)
//
// # Design Principles
//
// 1. **Exact money**: amounts are decimal.Decimal, never float64
// 2. **Snapshots**: an Event carries everything the balance engine needs
// 3. **Avoid circular references**: relationships use ID strings instead of pointers
package models
