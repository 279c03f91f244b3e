package registration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRecord marks records rejected while building a Store.
var ErrInvalidRecord = errors.New("invalid registration record")

// Quarter is a calendar quarter label.
type Quarter string

const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

// Quarters lists the valid quarters in calendar order.
var Quarters = []Quarter{Q1, Q2, Q3, Q4}

// Valid reports whether q is one of Q1..Q4.
func (q Quarter) Valid() bool {
	switch q {
	case Q1, Q2, Q3, Q4:
		return true
	}
	return false
}

// Index returns the zero-based position of q in the year, or -1 if q is not valid.
func (q Quarter) Index() int {
	for i, candidate := range Quarters {
		if candidate == q {
			return i
		}
	}
	return -1
}

// Record is a single vehicle-registration count.
// Records are never mutated once they are part of a Store; duplicate
// (year, quarter, category, manufacturer) rows are summed, not rejected.
type Record struct {
	// Year is the calendar year the registrations were recorded in.
	Year int `json:"year" yaml:"year"`

	// Quarter is one of Q1..Q4.
	Quarter Quarter `json:"quarter" yaml:"quarter"`

	// Category is the vehicle class, e.g. "2W", "3W", "4W".
	Category string `json:"category" yaml:"category"`

	// Manufacturer is the registering maker as published, e.g. "TATA MOTORS LTD".
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`

	// Registrations is the non-negative number of vehicles registered.
	Registrations int64 `json:"registrations" yaml:"registrations"`
}

// Validate ensures the record satisfies the data model.
func (r Record) Validate() error {
	if !r.Quarter.Valid() {
		return fmt.Errorf("quarter %q is not one of Q1..Q4", r.Quarter)
	}
	if strings.TrimSpace(r.Category) == "" {
		return fmt.Errorf("category is required")
	}
	if strings.TrimSpace(r.Manufacturer) == "" {
		return fmt.Errorf("manufacturer is required")
	}
	if r.Registrations < 0 {
		return fmt.Errorf("registrations must be >= 0, got %d", r.Registrations)
	}
	return nil
}

// ParseYear parses an integer-like year such as "2024" or " 2024 ".
func ParseYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("year %q is not an integer", s)
	}
	return year, nil
}
