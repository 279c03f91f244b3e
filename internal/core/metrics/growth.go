package metrics

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// NotAvailable is rendered for growth whose baseline total is zero.
// It is deliberately distinct from "0.0%".
const NotAvailable = "N/A"

// Growth is a percentage change or the unavailable marker.
// The zero value is unavailable.
type Growth struct {
	pct       float64
	available bool
}

// growthBetween returns the percentage change from base to value, computed as
// ((value-base)/base)*100 in float64. A base of zero (or less) makes the ratio
// undefined.
func growthBetween(base, value int64) Growth {
	if base <= 0 {
		return Growth{}
	}
	return Growth{
		pct:       float64(value-base) / float64(base) * 100,
		available: true,
	}
}

// Available reports whether the baseline was non-zero.
func (g Growth) Available() bool { return g.available }

// Value returns the percentage at one decimal place, the same digits String
// renders. It is zero when the growth is unavailable.
func (g Growth) Value() decimal.Decimal {
	if !g.available {
		return decimal.Zero
	}
	return decimal.RequireFromString(g.formatted())
}

// Float returns the unrounded percentage, or 0 when unavailable.
func (g Growth) Float() float64 {
	if !g.available {
		return 0
	}
	return g.pct
}

// String formats the growth as "12.3%" or NotAvailable.
// Rounding follows the exact binary value of the ratio, so 28.749999999999996
// renders as "28.7%" and a tiny decline as "-0.0%".
func (g Growth) String() string {
	if !g.available {
		return NotAvailable
	}
	return g.formatted() + "%"
}

func (g Growth) formatted() string {
	return strconv.FormatFloat(g.pct, 'f', 1, 64)
}

// MarshalJSON encodes the formatted string, never a bare number.
func (g Growth) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}
