package ledger

import (
	"math"
	"slices"
)

// PercentageRule divides an expense by caller-specified percentages, which
// must add up to 100 within 0.01. The declared percentage is kept on each
// split for display.
type PercentageRule struct {
	Percentages map[int64]float64
}

func (r *PercentageRule) Type() SplitType {
	return SplitTypePercentage
}

func (r *PercentageRule) Validate(total Cents) error {
	if total <= 0 {
		return ErrInvalidAmount
	}
	if len(r.Percentages) == 0 {
		return ErrNoParticipants
	}
	var sum float64
	for _, pct := range r.Percentages {
		if pct < 0 || pct > 100 {
			return ErrPercentageOutOfRange
		}
		sum += pct
	}
	if math.Abs(sum-100) > 0.01 {
		// Report the percentage discrepancy in hundredths, mirroring the
		// cent scale used for exact splits.
		return &SplitMismatchError{Want: 100 * 100, Got: Cents(math.Round(sum * 100))}
	}
	return nil
}

// Calculate rounds each participant's share to whole cents and folds the
// rounding residue into the last participant (ascending user-id order) so
// the splits conserve the expense amount exactly.
func (r *PercentageRule) Calculate(total Cents) ([]Split, error) {
	if err := r.Validate(total); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(r.Percentages))
	for id := range r.Percentages {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	splits := make([]Split, len(ids))
	var distributed Cents
	for i, id := range ids {
		pct := r.Percentages[id]
		amount := Cents(math.Round(float64(total) * pct / 100))
		distributed += amount
		splits[i] = Split{UserID: id, Amount: amount, Percentage: &pct}
	}

	if residue := total - distributed; residue != 0 {
		splits[len(splits)-1].Amount += residue
	}
	return splits, nil
}
