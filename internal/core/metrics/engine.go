package metrics

import (
	"sort"

	"github.com/aevon-lab/regpulse/internal/core/registration"
)

// ComputeGrowthMetrics returns total registrations for the filter's year plus
// year-over-year and Q4-vs-Q3 growth. Category and manufacturer restrictions
// apply to both the current and the previous year.
//
// An empty match set is not an error: it yields a zero total and unavailable
// growth. Only a malformed year fails, with ErrInvalidFilter.
func ComputeGrowthMetrics(ds Dataset, filter Filter) (GrowthMetrics, error) {
	filter = filter.Normalize()
	year, err := filter.CurrentYear()
	if err != nil {
		return GrowthMetrics{}, err
	}

	var totals periodTotals
	if ds != nil {
		for rec := range ds.All() {
			if filter.matchesDimensions(rec) {
				totals.add(rec, year)
			}
		}
	}

	return GrowthMetrics{
		TotalRegistrations: totals.current,
		YoYGrowth:          totals.yoy(),
		QoQGrowth:          totals.qoq(),
	}, nil
}

// ComputeManufacturerComparison returns one row per manufacturer that appears
// under category in any year, including makers with no registrations in the
// selected year. Undefined ratios are reported as 0 in the rows.
//
// The "All" category has no manufacturer breakdown and yields no rows.
// Row order follows DistinctManufacturers; use SortManufacturerGrowth to rank.
func ComputeManufacturerComparison(ds Dataset, year, category string) ([]ManufacturerGrowth, error) {
	filter := Filter{Year: year, Category: category}.Normalize()
	y, err := filter.CurrentYear()
	if err != nil {
		return nil, err
	}

	rows := []ManufacturerGrowth{}
	if ds == nil || filter.Category == All {
		return rows, nil
	}

	names := ds.DistinctManufacturers(filter.Category)
	if len(names) == 0 {
		return rows, nil
	}

	totals := make(map[string]*periodTotals, len(names))
	for _, name := range names {
		totals[name] = &periodTotals{}
	}
	for rec := range ds.All() {
		if rec.Category != filter.Category {
			continue
		}
		if t, ok := totals[rec.Manufacturer]; ok {
			t.add(rec, y)
		}
	}

	for _, name := range names {
		t := totals[name]
		rows = append(rows, ManufacturerGrowth{
			Manufacturer:          name,
			Registrations:         t.current,
			PreviousRegistrations: t.previous,
			Q4Registrations:       t.q4,
			Q3Registrations:       t.q3,
			YoYGrowth:             t.yoy().Float(),
			QoQGrowth:             t.qoq().Float(),
		})
	}
	return rows, nil
}

// SortKey selects the growth column used to rank comparison rows.
type SortKey string

const (
	SortByYoY SortKey = "yoy"
	SortByQoQ SortKey = "qoq"
)

// ParseSortKey validates a sort key. Empty means SortByYoY.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortByYoY, nil
	case SortByYoY, SortByQoQ:
		return SortKey(s), nil
	}
	return "", invalidFilterf("unknown sort key %q (must be yoy or qoq)", s)
}

// SortManufacturerGrowth orders rows ascending by the chosen growth, ties
// broken by manufacturer name. It sorts in place.
func SortManufacturerGrowth(rows []ManufacturerGrowth, by SortKey) {
	value := func(r ManufacturerGrowth) float64 { return r.YoYGrowth }
	if by == SortByQoQ {
		value = func(r ManufacturerGrowth) float64 { return r.QoQGrowth }
	}
	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := value(rows[i]), value(rows[j])
		if vi != vj {
			return vi < vj
		}
		return rows[i].Manufacturer < rows[j].Manufacturer
	})
}

// ComputeQuarterlyTrend sums the selected year's registrations per quarter and
// category, ordered Q1..Q4 then by category. Pairs with no records are omitted.
func ComputeQuarterlyTrend(ds Dataset, year string) ([]TrendPoint, error) {
	y, err := Filter{Year: year}.Normalize().CurrentYear()
	if err != nil {
		return nil, err
	}

	type trendKey struct {
		quarter  registration.Quarter
		category string
	}
	sums := make(map[trendKey]int64)
	if ds != nil {
		for rec := range ds.All() {
			if rec.Year != y {
				continue
			}
			sums[trendKey{rec.Quarter, rec.Category}] += rec.Registrations
		}
	}

	points := make([]TrendPoint, 0, len(sums))
	for k, v := range sums {
		points = append(points, TrendPoint{Quarter: k.quarter, Category: k.category, Registrations: v})
	}
	sort.Slice(points, func(i, j int) bool {
		qi, qj := points[i].Quarter.Index(), points[j].Quarter.Index()
		if qi != qj {
			return qi < qj
		}
		return points[i].Category < points[j].Category
	})
	return points, nil
}
