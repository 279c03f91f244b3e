package registration

import (
	"fmt"
	"iter"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Store is an immutable, in-memory collection of registration records.
// It answers the distinct-value lookups selectors need; it holds no
// aggregation logic. A Store is safe for concurrent readers.
type Store struct {
	id       string
	loadedAt time.Time
	records  []Record

	years                   []int
	categories              []string
	manufacturersByCategory map[string][]string
}

// NewStore copies records into a new Store after validating every record.
// The Store gets a fresh snapshot ID so callers can tell datasets apart.
func NewStore(records []Record) (*Store, error) {
	owned := make([]Record, len(records))
	copy(owned, records)

	for i, rec := range owned {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidRecord, i, err)
		}
	}

	s := &Store{
		id:                      uuid.New().String(),
		loadedAt:                time.Now().UTC(),
		records:                 owned,
		manufacturersByCategory: make(map[string][]string),
	}
	s.index()
	return s, nil
}

func (s *Store) index() {
	years := make(map[int]struct{})
	makers := make(map[string]map[string]struct{})

	for _, rec := range s.records {
		years[rec.Year] = struct{}{}
		if _, ok := makers[rec.Category]; !ok {
			makers[rec.Category] = make(map[string]struct{})
		}
		makers[rec.Category][rec.Manufacturer] = struct{}{}
	}

	s.years = make([]int, 0, len(years))
	for y := range years {
		s.years = append(s.years, y)
	}
	// Newest first, matching the year selector.
	sort.Sort(sort.Reverse(sort.IntSlice(s.years)))

	s.categories = make([]string, 0, len(makers))
	for category, set := range makers {
		s.categories = append(s.categories, category)
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		sort.Strings(names)
		s.manufacturersByCategory[category] = names
	}
	sort.Strings(s.categories)
}

// ID returns the snapshot identifier assigned when the Store was built.
func (s *Store) ID() string { return s.id }

// LoadedAt returns when the Store was built.
func (s *Store) LoadedAt() time.Time { return s.loadedAt }

// Len returns the number of records. A nil Store is empty.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// All yields every record without copying the backing slice.
// A nil Store yields nothing.
func (s *Store) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		if s == nil {
			return
		}
		for _, rec := range s.records {
			if !yield(rec) {
				return
			}
		}
	}
}

// Records returns a copy of every record.
func (s *Store) Records() []Record {
	return slices.Clone(s.records)
}

// DistinctYears returns the years present, newest first.
func (s *Store) DistinctYears() []int {
	return slices.Clone(s.years)
}

// DistinctCategories returns the categories present in ascending order.
func (s *Store) DistinctCategories() []string {
	return slices.Clone(s.categories)
}

// DistinctManufacturers returns the manufacturers seen under category in any year,
// ascending. Unknown categories (including the "All" sentinel) yield an empty slice.
func (s *Store) DistinctManufacturers(category string) []string {
	if s == nil {
		return []string{}
	}
	names, ok := s.manufacturersByCategory[category]
	if !ok {
		return []string{}
	}
	return slices.Clone(names)
}
