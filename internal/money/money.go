// Package money provides a fixed-point currency representation.
//
// Amounts are stored as integer cents so that repeated add/subtract
// operations never accumulate floating-point drift. User-entered decimal
// strings are parsed with shopspring/decimal and rounded to two places.
package money

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a currency amount in integer cents.
type Cents int64

// Tolerance is the threshold below which a balance is treated as zero.
// Matches the display precision of two decimal places.
const Tolerance Cents = 1

var hundred = decimal.NewFromInt(100)

// Parse converts a decimal string like "12.50" into cents.
// Values with more than two decimal places are rounded half-up.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Cents(d.Round(2).Mul(hundred).IntPart()), nil
}

// ParseLenient is like Parse but coerces unparsable input to zero.
// Form inputs arrive as free text; a garbage amount must not poison
// downstream balance sums.
func ParseLenient(s string) Cents {
	c, err := Parse(s)
	if err != nil {
		return 0
	}
	return c
}

// FromFloat converts a float amount (dollars) to cents, rounding to two places.
func FromFloat(f float64) Cents {
	return Cents(decimal.NewFromFloat(f).Round(2).Mul(hundred).IntPart())
}

// Float64 returns the amount in dollars. For display only; arithmetic
// stays in cents.
func (c Cents) Float64() float64 {
	return float64(c) / 100
}

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// String formats the amount as a two-decimal string, e.g. "12.50" or "-0.03".
func (c Cents) String() string {
	sign := ""
	v := c
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// SplitEven divides total into n shares that sum exactly to total.
// Leftover cents go to the earliest shares. Returns nil when n <= 0.
func SplitEven(total Cents, n int) []Cents {
	if n <= 0 {
		return nil
	}
	base := total / Cents(n)
	rem := total - base*Cents(n)
	shares := make([]Cents, n)
	for i := range shares {
		shares[i] = base
		if Cents(i) < rem {
			shares[i]++
		}
	}
	return shares
}

// MarshalJSON encodes the amount as a decimal string.
func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts either a decimal string ("12.50") or a JSON number.
// Non-numeric input is coerced to zero rather than rejected, mirroring the
// lenient handling of form inputs.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = ParseLenient(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*c = FromFloat(f)
		return nil
	}
	*c = 0
	return nil
}
