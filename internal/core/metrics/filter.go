package metrics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aevon-lab/regpulse/internal/core/registration"
)

// All is the sentinel that lifts a category or manufacturer restriction.
const All = "All"

// ErrInvalidFilter marks filters the engine cannot evaluate, e.g. a year that
// is not an integer and therefore has no previous year.
var ErrInvalidFilter = errors.New("invalid filter")

// Filter is the active dashboard selection.
//
// Year is required and must be integer-like. Category and Manufacturer are
// optional; empty values are treated as All. Manufacturer is accepted regardless
// of Category: a value that matches nothing simply yields empty totals.
type Filter struct {
	Year         string `json:"year"`
	Category     string `json:"category"`
	Manufacturer string `json:"manufacturer"`
}

// Normalize returns a copy with blanks replaced by All and whitespace trimmed.
func (f Filter) Normalize() Filter {
	f.Year = strings.TrimSpace(f.Year)
	f.Category = normalizeDimension(f.Category)
	f.Manufacturer = normalizeDimension(f.Manufacturer)
	return f
}

// CurrentYear parses Year.
func (f Filter) CurrentYear() (int, error) {
	year, err := registration.ParseYear(f.Year)
	if err != nil {
		return 0, invalidFilterf("%v", err)
	}
	return year, nil
}

// matchesDimensions applies the category and manufacturer predicates.
// Year partitioning is handled by the caller.
func (f Filter) matchesDimensions(rec registration.Record) bool {
	if f.Category != All && rec.Category != f.Category {
		return false
	}
	if f.Manufacturer != All && rec.Manufacturer != f.Manufacturer {
		return false
	}
	return true
}

// String is used in logs.
func (f Filter) String() string {
	return fmt.Sprintf("year=%s category=%s manufacturer=%s", f.Year, f.Category, f.Manufacturer)
}

func normalizeDimension(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return All
	}
	return v
}

func invalidFilterf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidFilter, fmt.Sprintf(format, args...))
}
