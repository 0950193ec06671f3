package ledger

import (
	"errors"
	"testing"
)

func TestEqualRule(t *testing.T) {
	tests := []struct {
		name    string
		total   Cents
		ids     []int64
		wantErr error
		want    map[int64]Cents
	}{
		{
			name:  "divides evenly",
			total: 12000,
			ids:   []int64{1, 2, 3},
			want:  map[int64]Cents{1: 4000, 2: 4000, 3: 4000},
		},
		{
			name:  "remainder cents go to lowest user ids",
			total: 10000,
			ids:   []int64{7, 3, 5},
			want:  map[int64]Cents{3: 3334, 5: 3333, 7: 3333},
		},
		{
			name:  "two remainder cents",
			total: 1001,
			ids:   []int64{2, 1, 3},
			want:  map[int64]Cents{1: 334, 2: 334, 3: 333},
		},
		{
			name:  "single participant takes everything",
			total: 599,
			ids:   []int64{9},
			want:  map[int64]Cents{9: 599},
		},
		{
			name:    "no participants",
			total:   1000,
			ids:     nil,
			wantErr: ErrNoParticipants,
		},
		{
			name:    "duplicate participant",
			total:   1000,
			ids:     []int64{1, 2, 1},
			wantErr: ErrDuplicateParticipant,
		},
		{
			name:    "non-positive amount",
			total:   0,
			ids:     []int64{1, 2},
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := &EqualRule{Participants: tt.ids}
			splits, err := rule.Calculate(tt.total)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Calculate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			assertSplits(t, splits, tt.total, tt.want)
		})
	}
}

func TestExactRule(t *testing.T) {
	tests := []struct {
		name    string
		total   Cents
		amounts map[int64]Cents
		wantErr error
	}{
		{
			name:    "amounts sum to total",
			total:   9000,
			amounts: map[int64]Cents{1: 4500, 2: 3000, 3: 1500},
		},
		{
			name:    "one cent off is within tolerance",
			total:   1000,
			amounts: map[int64]Cents{1: 500, 2: 499},
		},
		{
			name:    "two cents off is a mismatch",
			total:   1000,
			amounts: map[int64]Cents{1: 500, 2: 498},
			wantErr: ErrSplitMismatch,
		},
		{
			name:    "overshoot is a mismatch",
			total:   1000,
			amounts: map[int64]Cents{1: 600, 2: 600},
			wantErr: ErrSplitMismatch,
		},
		{
			name:    "negative amount",
			total:   1000,
			amounts: map[int64]Cents{1: 1100, 2: -100},
			wantErr: ErrNegativeSplit,
		},
		{
			name:    "no participants",
			total:   1000,
			amounts: map[int64]Cents{},
			wantErr: ErrNoParticipants,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := &ExactRule{Amounts: tt.amounts}
			splits, err := rule.Calculate(tt.total)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Calculate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			for _, s := range splits {
				if s.Amount != tt.amounts[s.UserID] {
					t.Errorf("user %d amount = %v, want %v", s.UserID, s.Amount, tt.amounts[s.UserID])
				}
			}
		})
	}
}

func TestExactRuleMismatchDiscrepancy(t *testing.T) {
	rule := &ExactRule{Amounts: map[int64]Cents{1: 7000, 2: 2000}}
	_, err := rule.Calculate(10000)

	var mismatch *SplitMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Calculate() error = %v, want *SplitMismatchError", err)
	}
	if mismatch.Want != 10000 || mismatch.Got != 9000 {
		t.Errorf("discrepancy = want %v got %v, expected want 10000 got 9000", mismatch.Want, mismatch.Got)
	}
}

func TestPercentageRule(t *testing.T) {
	tests := []struct {
		name        string
		total       Cents
		percentages map[int64]float64
		wantErr     error
		want        map[int64]Cents
	}{
		{
			name:        "percentages sum to 100",
			total:       20000,
			percentages: map[int64]float64{1: 50, 2: 30, 3: 20},
			want:        map[int64]Cents{1: 10000, 2: 6000, 3: 4000},
		},
		{
			name:        "rounding residue folded into last participant",
			total:       10000,
			percentages: map[int64]float64{1: 33.33, 2: 33.33, 3: 33.34},
			want:        map[int64]Cents{1: 3333, 2: 3333, 3: 3334},
		},
		{
			name:        "thirds conserve the total",
			total:       100,
			percentages: map[int64]float64{1: 33.3, 2: 33.3, 3: 33.4},
			want:        map[int64]Cents{1: 33, 2: 33, 3: 34},
		},
		{
			name:        "does not sum to 100",
			total:       10000,
			percentages: map[int64]float64{1: 60, 2: 30},
			wantErr:     ErrSplitMismatch,
		},
		{
			name:        "just outside tolerance",
			total:       10000,
			percentages: map[int64]float64{1: 50, 2: 50.02},
			wantErr:     ErrSplitMismatch,
		},
		{
			name:        "percentage above 100",
			total:       10000,
			percentages: map[int64]float64{1: 120, 2: -20},
			wantErr:     ErrPercentageOutOfRange,
		},
		{
			name:        "no participants",
			total:       10000,
			percentages: map[int64]float64{},
			wantErr:     ErrNoParticipants,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := &PercentageRule{Percentages: tt.percentages}
			splits, err := rule.Calculate(tt.total)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Calculate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			assertSplits(t, splits, tt.total, tt.want)
			for _, s := range splits {
				if s.Percentage == nil {
					t.Errorf("user %d: percentage not retained on split", s.UserID)
				} else if *s.Percentage != tt.percentages[s.UserID] {
					t.Errorf("user %d percentage = %v, want %v", s.UserID, *s.Percentage, tt.percentages[s.UserID])
				}
			}
		})
	}
}

// assertSplits checks the per-user amounts and the split conservation
// invariant: the splits must sum to the expense amount exactly.
func assertSplits(t *testing.T, splits []Split, total Cents, want map[int64]Cents) {
	t.Helper()

	if len(splits) != len(want) {
		t.Fatalf("got %d splits, want %d", len(splits), len(want))
	}
	var sum Cents
	for _, s := range splits {
		sum += s.Amount
		if want[s.UserID] != s.Amount {
			t.Errorf("user %d amount = %v, want %v", s.UserID, s.Amount, want[s.UserID])
		}
	}
	if sum != total {
		t.Errorf("splits sum to %v, want %v", sum, total)
	}
}
