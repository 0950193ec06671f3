package ledger

import (
	"fmt"
	"math"
)

// Cents is a monetary amount in integer minor units (hundredths of the
// ledger currency). All engine arithmetic happens in Cents so that split
// conservation can be checked exactly instead of through a floating epsilon.
type Cents int64

// Tolerance is the smallest representable currency unit. Residues at or
// below one cent are treated as settled.
const Tolerance Cents = 1

// CentsFromFloat converts a currency amount like 12.34 to Cents using
// half-up rounding on the fractional cent.
func CentsFromFloat(amount float64) Cents {
	return Cents(math.Round(amount * 100))
}

// Float returns the amount as a float64 for JSON responses and display.
// Calculations should stay in Cents.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

// Abs returns the magnitude of the amount.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// String formats the amount with two decimals, e.g. "40.00" or "-12.05".
func (c Cents) String() string {
	sign := ""
	v := c
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
