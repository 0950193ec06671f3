package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrNoParticipants       = errors.New("at least one participant is required")
	ErrDuplicateParticipant = errors.New("duplicate participant in split")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrNegativeSplit        = errors.New("split amounts cannot be negative")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")

	// ErrSplitMismatch is the target for errors.Is against a
	// SplitMismatchError. The concrete error carries the discrepancy.
	ErrSplitMismatch = errors.New("splits do not reconcile with the expense amount")
)

// SplitMismatchError reports that exact amounts or percentages do not add up
// to the expense total (or to 100%). Want and Got are in cents for exact
// splits; for percentage splits they hold the percentage sum scaled by 100.
type SplitMismatchError struct {
	Want Cents
	Got  Cents
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("splits do not reconcile: want %s, got %s (off by %s)",
		e.Want, e.Got, (e.Got - e.Want).Abs())
}

func (e *SplitMismatchError) Is(target error) bool {
	return target == ErrSplitMismatch
}

// Rule is the tagged variant for the three splitting rules. Each concrete
// rule carries exactly the fields that rule needs, so an invalid combination
// of fields is unrepresentable.
type Rule interface {
	// Type returns the tag stored on the expense after a successful split.
	Type() SplitType

	// Validate checks the rule's inputs against the expense amount without
	// producing splits.
	Validate(total Cents) error

	// Calculate produces the full split list for the expense amount. The sum
	// of the returned amounts equals total exactly. Participants are emitted
	// in ascending user-id order.
	Calculate(total Cents) ([]Split, error)
}

// ParseSplitType maps a request string to a SplitType tag.
func ParseSplitType(s string) (SplitType, error) {
	switch SplitType(s) {
	case SplitTypeEqual, SplitTypeExact, SplitTypePercentage:
		return SplitType(s), nil
	default:
		return "", fmt.Errorf("unknown split type: %q", s)
	}
}
