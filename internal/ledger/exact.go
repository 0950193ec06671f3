package ledger

import "slices"

// ExactRule assigns a caller-specified amount to each participant. The
// amounts must add up to the expense total within one cent.
type ExactRule struct {
	Amounts map[int64]Cents
}

func (r *ExactRule) Type() SplitType {
	return SplitTypeExact
}

func (r *ExactRule) Validate(total Cents) error {
	if total <= 0 {
		return ErrInvalidAmount
	}
	if len(r.Amounts) == 0 {
		return ErrNoParticipants
	}
	var sum Cents
	for _, amount := range r.Amounts {
		if amount < 0 {
			return ErrNegativeSplit
		}
		sum += amount
	}
	if (sum - total).Abs() > Tolerance {
		return &SplitMismatchError{Want: total, Got: sum}
	}
	return nil
}

func (r *ExactRule) Calculate(total Cents) ([]Split, error) {
	if err := r.Validate(total); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(r.Amounts))
	for id := range r.Amounts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	splits := make([]Split, len(ids))
	for i, id := range ids {
		splits[i] = Split{UserID: id, Amount: r.Amounts[id]}
	}
	return splits, nil
}
