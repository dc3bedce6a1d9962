package calculator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/eventsplit/internal/models"
)

// Tolerance is the largest accepted rounding difference between amounts.
var Tolerance = decimal.New(1, -2)

// maxCents bounds amounts so they fit in int64 cents.
var maxCents = decimal.NewFromInt(math.MaxInt64)

// Splitter divides an expense amount among the involved participants.
type Splitter interface {
	Split(amount decimal.Decimal, involved []string, custom models.Shares) (models.Shares, error)
}

// SplitterFor returns the splitter implementing mode.
func SplitterFor(mode models.SplitMode) (Splitter, error) {
	switch mode {
	case models.SplitEqual, models.SplitSelective:
		// Selective only changes who is involved by default, not the arithmetic.
		return equalSplitter{}, nil
	case models.SplitCustom:
		return customSplitter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSplitMode, mode)
	}
}

// ComputeShares validates the inputs and returns how much each involved participant owes.
// The returned shares cover exactly the involved participants.
func ComputeShares(amount decimal.Decimal, mode models.SplitMode, involved []string, custom models.Shares) (models.Shares, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount.String())
	}
	if !amount.Equal(amount.Round(2)) {
		return nil, fmt.Errorf("%w: %s has fractional cents", ErrInvalidAmount, amount.String())
	}
	if amount.Shift(2).GreaterThan(maxCents) {
		return nil, fmt.Errorf("%w: %s is too large", ErrInvalidAmount, amount.String())
	}

	ids, err := uniqueIDs(involved)
	if err != nil {
		return nil, err
	}

	splitter, err := SplitterFor(mode)
	if err != nil {
		return nil, err
	}
	return splitter.Split(amount, ids, custom)
}

// equalSplitter gives every participant the same number of cents. Leftover cents go to
// the first participants in involved order, one each, so shares sum to amount exactly.
type equalSplitter struct{}

func (equalSplitter) Split(amount decimal.Decimal, involved []string, _ models.Shares) (models.Shares, error) {
	cents := amount.Shift(2).IntPart()
	n := int64(len(involved))
	base, rem := cents/n, cents%n

	shares := make(models.Shares, len(involved))
	for i, id := range involved {
		c := base
		if int64(i) < rem {
			c++
		}
		shares[id] = decimal.New(c, -2)
	}
	return shares, nil
}

// customSplitter takes caller-supplied amounts. Involved participants without an entry owe nothing.
// A difference within Tolerance is absorbed so the stored shares sum to amount exactly.
type customSplitter struct{}

func (customSplitter) Split(amount decimal.Decimal, involved []string, custom models.Shares) (models.Shares, error) {
	shares := make(models.Shares, len(involved))
	for _, id := range involved {
		shares[id] = decimal.Zero
	}

	for _, id := range custom.IDs() {
		v := custom[id]
		if _, ok := shares[id]; !ok {
			return nil, fmt.Errorf("%w: %q has a custom share but is not involved", ErrInvalidParticipant, id)
		}
		if v.IsNegative() {
			return nil, fmt.Errorf("%w: share for %q is negative", ErrInvalidAmount, id)
		}
		if !v.Equal(v.Round(2)) {
			return nil, fmt.Errorf("%w: share for %q has fractional cents", ErrInvalidAmount, id)
		}
		shares[id] = v
	}

	total := shares.Total()
	if amount.Sub(total).Abs().GreaterThan(Tolerance) {
		return nil, &SharesMismatchError{Expected: amount, Actual: total}
	}
	absorbResidual(shares, involved, amount.Sub(total))
	return shares, nil
}

// absorbResidual adds residual to the first involved share that stays non-negative.
// Shares are whole cents and their total exceeds amount when residual is negative,
// so some share is at least as large as the residual.
func absorbResidual(shares models.Shares, involved []string, residual decimal.Decimal) {
	if residual.IsZero() {
		return
	}
	for _, id := range involved {
		if adjusted := shares[id].Add(residual); !adjusted.IsNegative() {
			shares[id] = adjusted
			return
		}
	}
}

// uniqueIDs drops repeated IDs, keeping the first occurrence.
func uniqueIDs(involved []string) ([]string, error) {
	if len(involved) == 0 {
		return nil, ErrNoParticipantsSelected
	}
	seen := make(map[string]bool, len(involved))
	ids := make([]string, 0, len(involved))
	for _, id := range involved {
		if id == "" {
			return nil, fmt.Errorf("%w: empty participant id", ErrInvalidParticipant)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
