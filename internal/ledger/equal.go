package ledger

import "slices"

// EqualRule divides an expense evenly among its participants.
type EqualRule struct {
	Participants []int64
}

func (r *EqualRule) Type() SplitType {
	return SplitTypeEqual
}

func (r *EqualRule) Validate(total Cents) error {
	if total <= 0 {
		return ErrInvalidAmount
	}
	if len(r.Participants) == 0 {
		return ErrNoParticipants
	}
	seen := make(map[int64]bool, len(r.Participants))
	for _, id := range r.Participants {
		if seen[id] {
			return ErrDuplicateParticipant
		}
		seen[id] = true
	}
	return nil
}

// Calculate assigns total/n to every participant. Integer-cent division
// leaves up to n-1 remainder cents; those go one each to the first
// participants in ascending user-id order, so the splits always sum to the
// expense amount and the same input always yields the same output.
func (r *EqualRule) Calculate(total Cents) ([]Split, error) {
	if err := r.Validate(total); err != nil {
		return nil, err
	}

	ids := slices.Clone(r.Participants)
	slices.Sort(ids)

	n := Cents(len(ids))
	share := total / n
	remainder := total - share*n

	splits := make([]Split, len(ids))
	for i, id := range ids {
		amount := share
		if Cents(i) < remainder {
			amount++
		}
		splits[i] = Split{UserID: id, Amount: amount}
	}
	return splits, nil
}
