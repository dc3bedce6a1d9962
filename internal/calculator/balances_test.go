package calculator

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/eventsplit/internal/models"
)

func people(ids ...string) []models.Participant {
	ps := make([]models.Participant, len(ids))
	for i, id := range ids {
		ps[i] = models.Participant{ID: id, Name: id, Role: models.RoleParticipant}
	}
	return ps
}

func equalExpense(t *testing.T, id, payer, amount, category string, involved ...string) models.Expense {
	t.Helper()
	shares, err := ComputeShares(d(amount), models.SplitEqual, involved, nil)
	require.NoError(t, err)
	return models.Expense{
		ID:        id,
		Amount:    d(amount),
		Category:  category,
		PayerID:   payer,
		SplitMode: models.SplitEqual,
		Shares:    shares,
		Involved:  involved,
	}
}

// applySettlements returns the balances left after executing every settlement.
func applySettlements(summary *Summary) map[string]decimal.Decimal {
	left := summary.BalanceMap()
	for _, s := range summary.Settlements {
		left[s.From] = left[s.From].Add(s.Amount)
		left[s.To] = left[s.To].Sub(s.Amount)
	}
	return left
}

func TestCalculateEventBalances_SinglePayer(t *testing.T) {
	ps := people("A", "B", "C")
	expenses := []models.Expense{equalExpense(t, "e1", "A", "90", models.CategoryFood, "A", "B", "C")}

	summary, err := CalculateEventBalances(ps, expenses)
	require.NoError(t, err)

	balances := summary.BalanceMap()
	assertAmount(t, "60", balances["A"])
	assertAmount(t, "-30", balances["B"])
	assertAmount(t, "-30", balances["C"])

	a := summary.Balances[0]
	assertAmount(t, "90", a.TotalPaid)
	assertAmount(t, "30", a.TotalOwed)

	require.Len(t, summary.Settlements, 2)
	assert.Equal(t, "B", summary.Settlements[0].From)
	assert.Equal(t, "A", summary.Settlements[0].To)
	assertAmount(t, "30", summary.Settlements[0].Amount)
	assert.Equal(t, "C", summary.Settlements[1].From)
	assert.Equal(t, "A", summary.Settlements[1].To)
	assertAmount(t, "30", summary.Settlements[1].Amount)

	assertAmount(t, "90", summary.TotalSpent)
	assertAmount(t, "30", summary.PerPersonAverage)
	assertAmount(t, "90", summary.CategoryMap()[models.CategoryFood])
}

func TestCalculateEventBalances_MultiCreditorNetting(t *testing.T) {
	// Produces balances {A:-50, B:20, C:30}.
	ps := people("A", "B", "C")
	expenses := []models.Expense{
		{ID: "e1", Amount: d("20"), PayerID: "B", SplitMode: models.SplitCustom, Shares: models.Shares{"A": d("20")}},
		{ID: "e2", Amount: d("30"), PayerID: "C", SplitMode: models.SplitCustom, Shares: models.Shares{"A": d("30")}},
	}

	summary, err := CalculateEventBalances(ps, expenses)
	require.NoError(t, err)

	balances := summary.BalanceMap()
	assertAmount(t, "-50", balances["A"])
	assertAmount(t, "20", balances["B"])
	assertAmount(t, "30", balances["C"])

	require.Len(t, summary.Settlements, 2)
	assert.Equal(t, models.Settlement{From: "A", To: "B", Amount: summary.Settlements[0].Amount}, summary.Settlements[0])
	assertAmount(t, "20", summary.Settlements[0].Amount)
	assert.Equal(t, "A", summary.Settlements[1].From)
	assert.Equal(t, "C", summary.Settlements[1].To)
	assertAmount(t, "30", summary.Settlements[1].Amount)
}

func TestCalculateEventBalances_AlreadySettled(t *testing.T) {
	ps := people("A", "B")
	expenses := []models.Expense{
		equalExpense(t, "e1", "A", "50", models.CategoryFood, "A", "B"),
		equalExpense(t, "e2", "B", "50", models.CategoryTransport, "A", "B"),
	}

	summary, err := CalculateEventBalances(ps, expenses)
	require.NoError(t, err)

	assert.Empty(t, summary.Settlements)
	assert.NotNil(t, summary.Settlements)
	assert.Equal(t, []string{"A", "B"}, summary.SettledParticipants())
}

func TestCalculateEventBalances_NoExpenses(t *testing.T) {
	summary, err := CalculateEventBalances(people("A", "B"), nil)
	require.NoError(t, err)

	assert.Empty(t, summary.Settlements)
	assert.Empty(t, summary.CategoryTotals)
	assert.True(t, summary.TotalSpent.IsZero())
	assert.Equal(t, []string{"A", "B"}, summary.SettledParticipants())
}

func TestCalculateEventBalances_NoParticipants(t *testing.T) {
	summary, err := CalculateEventBalances(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, summary.Balances)
	assert.True(t, summary.PerPersonAverage.IsZero())
}

func TestCalculateEventBalances_SettlementCarriesRecipientPaymentMethod(t *testing.T) {
	ps := people("A", "B")
	ps[0].PaymentMethod = &models.PaymentMethod{WalletNumber: "0123456789"}
	ps[1].PaymentMethod = &models.PaymentMethod{QRCodeRef: "qr/b.png"}

	summary, err := CalculateEventBalances(ps, []models.Expense{
		equalExpense(t, "e1", "A", "40", models.CategoryFood, "A", "B"),
	})
	require.NoError(t, err)

	require.Len(t, summary.Settlements, 1)
	s := summary.Settlements[0]
	assert.Equal(t, "B", s.From)
	assert.Equal(t, "A", s.To)
	require.NotNil(t, s.PaymentMethod)
	assert.Equal(t, "0123456789", s.PaymentMethod.WalletNumber)
}

func TestCalculateEventBalances_EmptyPaymentMethodOmitted(t *testing.T) {
	ps := people("A", "B")
	ps[0].PaymentMethod = &models.PaymentMethod{}

	summary, err := CalculateEventBalances(ps, []models.Expense{
		equalExpense(t, "e1", "A", "40", models.CategoryFood, "A", "B"),
	})
	require.NoError(t, err)
	require.Len(t, summary.Settlements, 1)
	assert.Nil(t, summary.Settlements[0].PaymentMethod)
}

func TestCalculateEventBalances_CategoryTotals(t *testing.T) {
	ps := people("A", "B")
	expenses := []models.Expense{
		equalExpense(t, "e1", "A", "10", models.CategoryTransport, "A", "B"),
		equalExpense(t, "e2", "B", "25.50", models.CategoryFood, "A", "B"),
		equalExpense(t, "e3", "A", "4.50", models.CategoryTransport, "A", "B"),
		equalExpense(t, "e4", "A", "7", "", "A", "B"),
	}

	summary, err := CalculateEventBalances(ps, expenses)
	require.NoError(t, err)

	require.Len(t, summary.CategoryTotals, 3)
	assert.Equal(t, models.CategoryTransport, summary.CategoryTotals[0].Category)
	assertAmount(t, "14.50", summary.CategoryTotals[0].Total)
	assert.Equal(t, models.CategoryFood, summary.CategoryTotals[1].Category)
	assertAmount(t, "25.50", summary.CategoryTotals[1].Total)
	assert.Equal(t, models.CategoryOther, summary.CategoryTotals[2].Category)
	assertAmount(t, "7", summary.CategoryTotals[2].Total)

	sum := decimal.Zero
	for _, c := range summary.CategoryTotals {
		sum = sum.Add(c.Total)
	}
	assert.True(t, sum.Equal(summary.TotalSpent))
	assertAmount(t, "47", summary.TotalSpent)
	assertAmount(t, "23.50", summary.PerPersonAverage)
}

func TestCalculateEventBalances_DanglingReferences(t *testing.T) {
	ps := people("A", "B")
	expenses := []models.Expense{
		equalExpense(t, "e1", "A", "30", models.CategoryFood, "A", "B", "GONE"),
		equalExpense(t, "e2", "GHOST", "10", models.CategoryFood, "A", "B"),
	}

	summary, err := CalculateEventBalances(ps, expenses)
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, ErrDanglingParticipantReference)

	var ref *DanglingReferenceError
	require.True(t, errors.As(err, &ref))
	assert.Equal(t, "e1", ref.ExpenseID)
	assert.Equal(t, "GONE", ref.ParticipantID)
	assert.Equal(t, "share", ref.Field)

	// Every dangling reference is reported, not only the first.
	assert.Contains(t, err.Error(), `expense e1 share "GONE"`)
	assert.Contains(t, err.Error(), `expense e2 payer "GHOST"`)
}

func TestCalculateEventBalances_IntegrityViolation(t *testing.T) {
	ps := people("A", "B")
	expenses := []models.Expense{
		{ID: "e1", Amount: d("100"), PayerID: "A", Shares: models.Shares{"A": d("40"), "B": d("40")}},
	}

	_, err := CalculateEventBalances(ps, expenses)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIntegrityViolation)

	var integrity *IntegrityError
	require.True(t, errors.As(err, &integrity))
	assertAmount(t, "20", integrity.Imbalance)
}

func TestCalculateEventBalances_RejectsCorruptExpenses(t *testing.T) {
	ps := people("A", "B")
	tests := []struct {
		name    string
		expense models.Expense
	}{
		{"zero amount", models.Expense{ID: "e1", Amount: d("0"), PayerID: "A"}},
		{"negative share", models.Expense{ID: "e1", Amount: d("10"), PayerID: "A", Shares: models.Shares{"A": d("20"), "B": d("-10")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateEventBalances(ps, []models.Expense{tt.expense})
			assert.ErrorIs(t, err, ErrIntegrityViolation)
		})
	}
}

func TestCalculateEventBalances_DuplicateParticipant(t *testing.T) {
	_, err := CalculateEventBalances(people("A", "A"), nil)
	assert.ErrorIs(t, err, ErrInvalidParticipant)
}

func TestCalculateEventBalances_ToleratedRoundingIsSettled(t *testing.T) {
	// Custom shares accepted within tolerance leave a one-cent imbalance on the payer.
	ps := people("A", "B", "C")
	expenses := []models.Expense{
		{ID: "e1", Amount: d("100"), PayerID: "A", SplitMode: models.SplitCustom,
			Shares: models.Shares{"A": d("33.33"), "B": d("33.33"), "C": d("33.33")}},
	}

	summary, err := CalculateEventBalances(ps, expenses)
	require.NoError(t, err)

	assertAmount(t, "66.67", summary.BalanceMap()["A"])
	require.Len(t, summary.Settlements, 2)
	left := applySettlements(summary)
	for id, v := range left {
		assert.True(t, v.Abs().LessThanOrEqual(Tolerance), "%s left with %s", id, v)
	}
}

func TestCalculateEventBalances_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []string{"A", "B", "C", "D", "E", "F"}

	for round := 0; round < 200; round++ {
		n := 2 + rng.Intn(len(ids)-1)
		ps := people(ids[:n]...)

		var expenses []models.Expense
		for e := 0; e < 1+rng.Intn(8); e++ {
			cents := 1 + rng.Int63n(50000)
			var involved []string
			for _, p := range ps {
				if rng.Intn(3) > 0 {
					involved = append(involved, p.ID)
				}
			}
			if len(involved) == 0 {
				involved = []string{ps[0].ID}
			}
			expenses = append(expenses, equalExpense(t,
				fmt.Sprintf("e%d", e),
				ps[rng.Intn(n)].ID,
				decimal.New(cents, -2).String(),
				models.SuggestedCategories[rng.Intn(len(models.SuggestedCategories))],
				involved...,
			))
		}

		summary, err := CalculateEventBalances(ps, expenses)
		require.NoError(t, err)

		sum := decimal.Zero
		debtors, creditors := 0, 0
		for _, b := range summary.Balances {
			sum = sum.Add(b.Net)
			if b.Settled {
				continue
			}
			if b.Net.IsNegative() {
				debtors++
			} else {
				creditors++
			}
		}
		assert.True(t, sum.Abs().LessThanOrEqual(Tolerance), "round %d: balances sum to %s", round, sum)

		if debtors+creditors > 0 {
			assert.LessOrEqual(t, len(summary.Settlements), debtors+creditors-1, "round %d", round)
		} else {
			assert.Empty(t, summary.Settlements)
		}

		for id, v := range applySettlements(summary) {
			assert.True(t, v.Abs().LessThan(Tolerance), "round %d: %s left with %s", round, id, v)
		}
		for _, s := range summary.Settlements {
			assert.True(t, s.Amount.IsPositive(), "round %d: non-positive settlement", round)
			assert.NotEqual(t, s.From, s.To)
		}

		again, err := CalculateEventBalances(ps, expenses)
		require.NoError(t, err)
		assert.Equal(t, summary, again, "round %d: not deterministic", round)
	}
}
