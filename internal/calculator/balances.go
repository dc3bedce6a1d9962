package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/eventsplit/internal/models"
)

// MemberBalance is the balance information for one participant.
type MemberBalance struct {
	ParticipantID string
	Name          string
	TotalPaid     decimal.Decimal // Sum of expense amounts this participant paid
	TotalOwed     decimal.Decimal // Sum of shares this participant owes
	Net           decimal.Decimal // Positive = owed money, Negative = owes money
	Settled       bool            // |Net| is below Tolerance
}

// CategoryTotal is the sum of expense amounts recorded under one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Summary is everything derived from one event snapshot.
type Summary struct {
	// Balances are in participant order.
	Balances []MemberBalance
	// Settlements are the suggested transfers, in the order they were matched.
	Settlements []models.Settlement
	// CategoryTotals are in order of first appearance.
	CategoryTotals   []CategoryTotal
	TotalSpent       decimal.Decimal
	PerPersonAverage decimal.Decimal
}

// BalanceMap returns net balances keyed by participant ID.
func (s *Summary) BalanceMap() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(s.Balances))
	for _, b := range s.Balances {
		m[b.ParticipantID] = b.Net
	}
	return m
}

// CategoryMap returns category totals keyed by category.
func (s *Summary) CategoryMap() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(s.CategoryTotals))
	for _, c := range s.CategoryTotals {
		m[c.Category] = c.Total
	}
	return m
}

// SettledParticipants returns the IDs of participants with nothing to pay or receive.
func (s *Summary) SettledParticipants() []string {
	var ids []string
	for _, b := range s.Balances {
		if b.Settled {
			ids = append(ids, b.ParticipantID)
		}
	}
	return ids
}

// CalculateEventBalances computes balances, settlements and category totals for one event.
//
// Algorithm:
//   - Every participant starts at zero
//   - For each expense: payer contributed +amount, each share holder owes their share
//   - net = total_paid - total_owed, and the nets must sum to zero
//   - Settlements: greedy matching of debtors against creditors, both in participant order
//
// Expenses referring to participants that are not in the list are reported as
// DanglingReferenceErrors, all of them joined into the returned error.
func CalculateEventBalances(participants []models.Participant, expenses []models.Expense) (*Summary, error) {
	balances := make([]MemberBalance, len(participants))
	index := make(map[string]int, len(participants))
	for i, p := range participants {
		if _, dup := index[p.ID]; dup {
			return nil, fmt.Errorf("%w: participant %q listed twice", ErrInvalidParticipant, p.ID)
		}
		index[p.ID] = i
		balances[i] = MemberBalance{
			ParticipantID: p.ID,
			Name:          p.Name,
			TotalPaid:     decimal.Zero,
			TotalOwed:     decimal.Zero,
		}
	}

	var dangling []error
	var categories []CategoryTotal
	categoryIndex := make(map[string]int)
	totalSpent := decimal.Zero

	for _, exp := range expenses {
		if !exp.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: expense %s has non-positive amount %s", ErrIntegrityViolation, exp.ID, exp.Amount.String())
		}

		if i, ok := index[exp.PayerID]; ok {
			balances[i].TotalPaid = balances[i].TotalPaid.Add(exp.Amount)
		} else {
			dangling = append(dangling, &DanglingReferenceError{ExpenseID: exp.ID, ParticipantID: exp.PayerID, Field: "payer"})
		}

		for _, id := range exp.Shares.IDs() {
			share := exp.Shares[id]
			if share.IsNegative() {
				return nil, fmt.Errorf("%w: expense %s has negative share for %q", ErrIntegrityViolation, exp.ID, id)
			}
			i, ok := index[id]
			if !ok {
				dangling = append(dangling, &DanglingReferenceError{ExpenseID: exp.ID, ParticipantID: id, Field: "share"})
				continue
			}
			balances[i].TotalOwed = balances[i].TotalOwed.Add(share)
		}

		category := exp.Category
		if category == "" {
			category = models.CategoryOther
		}
		if ci, ok := categoryIndex[category]; ok {
			categories[ci].Total = categories[ci].Total.Add(exp.Amount)
		} else {
			categoryIndex[category] = len(categories)
			categories = append(categories, CategoryTotal{Category: category, Total: exp.Amount})
		}
		totalSpent = totalSpent.Add(exp.Amount)
	}

	if len(dangling) > 0 {
		return nil, errors.Join(dangling...)
	}

	sum := decimal.Zero
	for i := range balances {
		b := &balances[i]
		b.Net = b.TotalPaid.Sub(b.TotalOwed)
		b.Settled = b.Net.Abs().LessThan(Tolerance)
		sum = sum.Add(b.Net)
	}
	if sum.Abs().GreaterThan(Tolerance) {
		return nil, &IntegrityError{Imbalance: sum}
	}

	average := decimal.Zero
	if len(participants) > 0 {
		average = totalSpent.Div(decimal.NewFromInt(int64(len(participants)))).Round(2)
	}

	return &Summary{
		Balances:         balances,
		Settlements:      settle(participants, balances),
		CategoryTotals:   categories,
		TotalSpent:       totalSpent,
		PerPersonAverage: average,
	}, nil
}

type position struct {
	id        string
	remaining decimal.Decimal
}

// settle matches debtors against creditors greedily. Every transfer exhausts either the
// debtor or the creditor, so there are at most len(debtors)+len(creditors)-1 of them.
func settle(participants []models.Participant, balances []MemberBalance) []models.Settlement {
	var debtors, creditors []position
	methods := make(map[string]*models.PaymentMethod)
	for i, b := range balances {
		if b.Settled {
			continue
		}
		if b.Net.IsNegative() {
			debtors = append(debtors, position{id: b.ParticipantID, remaining: b.Net.Neg()})
		} else if b.Net.IsPositive() {
			creditors = append(creditors, position{id: b.ParticipantID, remaining: b.Net})
			if !participants[i].PaymentMethod.IsZero() {
				methods[b.ParticipantID] = participants[i].PaymentMethod
			}
		}
	}

	settlements := []models.Settlement{}
	j := 0
	for _, debtor := range debtors {
		for debtor.remaining.IsPositive() && j < len(creditors) {
			creditor := &creditors[j]
			if !creditor.remaining.IsPositive() {
				j++
				continue
			}

			payment := decimal.Min(debtor.remaining, creditor.remaining)
			settlements = append(settlements, models.Settlement{
				From:          debtor.id,
				To:            creditor.id,
				Amount:        payment,
				PaymentMethod: methods[creditor.id],
			})

			debtor.remaining = debtor.remaining.Sub(payment)
			creditor.remaining = creditor.remaining.Sub(payment)
			if !creditor.remaining.IsPositive() {
				j++
			}
		}
	}
	return settlements
}
