package metrics

import (
	"iter"

	"github.com/aevon-lab/regpulse/internal/core/registration"
)

// Dataset is the read-only view of a Record Store the engine scans.
// *registration.Store implements it.
type Dataset interface {
	All() iter.Seq[registration.Record]
	DistinctManufacturers(category string) []string
}

// GrowthMetrics is the scalar KPI block for one filter.
type GrowthMetrics struct {
	TotalRegistrations int64  `json:"total_registrations"`
	YoYGrowth          Growth `json:"yoy_growth"`
	QoQGrowth          Growth `json:"qoq_growth"`
}

// ManufacturerGrowth is one row of the manufacturer comparison table.
// Growth values are plain percentages (12.34, not "12.3%"); a missing
// baseline is reported as 0 so rows stay sortable and plottable.
type ManufacturerGrowth struct {
	Manufacturer          string  `json:"manufacturer"`
	Registrations         int64   `json:"registrations"`
	PreviousRegistrations int64   `json:"previous_registrations"`
	Q4Registrations       int64   `json:"q4_registrations"`
	Q3Registrations       int64   `json:"q3_registrations"`
	YoYGrowth             float64 `json:"yoy_growth"`
	QoQGrowth             float64 `json:"qoq_growth"`
}

// TrendPoint is the registrations for one (quarter, category) pair of a year.
type TrendPoint struct {
	Quarter       registration.Quarter `json:"quarter"`
	Category      string               `json:"category"`
	Registrations int64                `json:"registrations"`
}

// periodTotals holds the sums every growth computation needs.
// q4 and q3 are taken from the current year only.
type periodTotals struct {
	current  int64
	previous int64
	q4       int64
	q3       int64
}

// add folds rec into t. year is the selected (current) year.
func (t *periodTotals) add(rec registration.Record, year int) {
	switch rec.Year {
	case year:
		t.current += rec.Registrations
		switch rec.Quarter {
		case registration.Q4:
			t.q4 += rec.Registrations
		case registration.Q3:
			t.q3 += rec.Registrations
		}
	case year - 1:
		t.previous += rec.Registrations
	}
}

func (t periodTotals) yoy() Growth { return growthBetween(t.previous, t.current) }

// qoq is fixed to Q4 against Q3 of the selected year, whatever quarter is
// conceptually "current".
func (t periodTotals) qoq() Growth { return growthBetween(t.q3, t.q4) }
