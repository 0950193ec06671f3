package ledger

import "testing"

func TestCentsFromFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want Cents
	}{
		{12.34, 1234},
		{0.1, 10},
		{29.99, 2999},
		{0.005, 1},  // half-up
		{10.004, 1000},
		{-3.5, -350},
		{0, 0},
	}

	for _, tt := range tests {
		if got := CentsFromFloat(tt.in); got != tt.want {
			t.Errorf("CentsFromFloat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCentsString(t *testing.T) {
	tests := []struct {
		in   Cents
		want string
	}{
		{4000, "40.00"},
		{5, "0.05"},
		{-1205, "-12.05"},
		{0, "0.00"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Cents(%d).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCentsFloatRoundTrip(t *testing.T) {
	for _, c := range []Cents{0, 1, 99, 100, 123456789} {
		if got := CentsFromFloat(c.Float()); got != c {
			t.Errorf("round trip of %v gave %v", c, got)
		}
	}
}
