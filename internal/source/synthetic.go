package source

import (
	"context"
	"math/rand"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/aevon-lab/regpulse/internal/core/registration"
)

// Manufacturers published per vehicle category by the synthetic generator.
var defaultManufacturers = map[string][]string{
	"2W": {"HERO MOTOCORP LTD", "HONDA MOTORCYCLE & SCOOTER INDIA (P) LTD", "TVS MOTOR COMPANY LTD", "BAJAJ AUTO LTD"},
	"3W": {"BAJAJ AUTO LTD", "PIAGGIO VEHICLES PVT. LTD.", "MAHINDRA & MAHINDRA LTD"},
	"4W": {"MARUTI SUZUKI INDIA LTD", "HYUNDAI MOTOR INDIA LTD", "TATA MOTORS LTD", "MAHINDRA & MAHINDRA LTD"},
}

// Quarterly registrations per category before splitting between manufacturers.
var defaultBaseRegistrations = map[string]float64{
	"2W": 1_500_000,
	"3W": 300_000,
	"4W": 800_000,
}

const (
	minJitter       = 0.8
	maxJitter       = 1.2
	q4Seasonality   = 1.15
	q2Seasonality   = 0.95
	laterYearGrowth = 1.05
)

// Synthetic generates mock registrations: every year x quarter x category x
// manufacturer combination, with a count derived from the category's base
// figure split evenly between its manufacturers, a uniform jitter in
// [0.8, 1.2], a seasonal factor and a growth factor for the latest year.
//
// Output is random unless a non-zero seed is given. It is a stand-in data
// source only; nothing downstream depends on its shape.
type Synthetic struct {
	years []int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSynthetic builds a generator for years. A seed of 0 seeds from the clock.
func NewSynthetic(years []int, seed int64) *Synthetic {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sorted := slices.Clone(years)
	sort.Ints(sorted)
	return &Synthetic{
		years: slices.Compact(sorted),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Load generates a fresh dataset. Successive calls draw new jitter.
func (s *Synthetic) Load(ctx context.Context) ([]registration.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]string, 0, len(defaultManufacturers))
	for category := range defaultManufacturers {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	latest := 0
	if len(s.years) > 0 {
		latest = s.years[len(s.years)-1]
	}

	var records []registration.Record
	for _, year := range s.years {
		for _, quarter := range registration.Quarters {
			for _, category := range categories {
				makers := defaultManufacturers[category]
				share := defaultBaseRegistrations[category] / float64(len(makers))
				for _, maker := range makers {
					jitter := minJitter + s.rng.Float64()*(maxJitter-minJitter)
					count := share * jitter * seasonality(quarter) * yearGrowth(year, latest, len(s.years))
					records = append(records, registration.Record{
						Year:          year,
						Quarter:       quarter,
						Category:      category,
						Manufacturer:  maker,
						Registrations: int64(count),
					})
				}
			}
		}
	}
	return records, nil
}

func seasonality(q registration.Quarter) float64 {
	switch q {
	case registration.Q4:
		return q4Seasonality
	case registration.Q2:
		return q2Seasonality
	}
	return 1.0
}

// yearGrowth lifts the latest year when more than one year is generated.
func yearGrowth(year, latest, years int) float64 {
	if years > 1 && year == latest {
		return laterYearGrowth
	}
	return 1.0
}
