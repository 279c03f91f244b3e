package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/aevon-lab/regpulse/internal/core/metrics"
	"github.com/aevon-lab/regpulse/internal/core/registration"
	"github.com/aevon-lab/regpulse/internal/source"
)

const (
	kindMetrics       = "metrics"
	kindManufacturers = "manufacturers"
	kindTrends        = "trends"
)

var (
	// ErrNotReady is returned while no dataset snapshot has been installed.
	ErrNotReady = errors.New("dataset not loaded")

	// ErrReloadDisabled is returned by Reload when reloads are switched off.
	ErrReloadDisabled = errors.New("dataset reload disabled")
)

// Options configures a Service.
type Options struct {
	// CacheSize bounds the result cache. Zero disables caching.
	CacheSize int
	// ReloadEnabled allows rebuilding the dataset through Reload.
	ReloadEnabled bool
}

// Service answers dashboard queries against the current dataset snapshot.
//
// Snapshots are immutable; Reload builds a new one from the source and swaps it
// in atomically, so in-flight queries keep reading the snapshot they started with.
type Service struct {
	src           source.Source
	store         atomic.Pointer[registration.Store]
	reloadMu      sync.Mutex
	reloadEnabled bool
	cache         *ResultCache
}

// NewService creates a dashboard service. Call Load before serving queries.
func NewService(src source.Source, opts Options) *Service {
	return &Service{
		src:           src,
		reloadEnabled: opts.ReloadEnabled,
		cache:         NewResultCache(opts.CacheSize),
	}
}

// Load builds a snapshot from the source and installs it.
// It is used for the initial load and backs Reload.
func (s *Service) Load(ctx context.Context) (*registration.Store, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	store, err := source.BuildStore(ctx, s.src)
	if err != nil {
		return nil, err
	}

	previous := s.store.Swap(store)
	s.cache.Clear()

	if previous != nil {
		slog.Info("Dataset replaced",
			"previous_dataset_id", previous.ID(),
			"dataset_id", store.ID(),
		)
	}
	return store, nil
}

// Reload rebuilds the dataset. On failure the current snapshot stays in place.
func (s *Service) Reload(ctx context.Context) (ReloadResponse, error) {
	if !s.reloadEnabled {
		return ReloadResponse{}, ErrReloadDisabled
	}

	store, err := s.Load(ctx)
	if err != nil {
		return ReloadResponse{}, fmt.Errorf("reload dataset: %w", err)
	}

	return ReloadResponse{
		DatasetID: store.ID(),
		Records:   store.Len(),
		LoadedAt:  store.LoadedAt(),
	}, nil
}

// Ping reports whether a dataset is loaded. It satisfies server.HealthChecker.
func (s *Service) Ping(_ context.Context) error {
	_, err := s.snapshot()
	return err
}

func (s *Service) snapshot() (*registration.Store, error) {
	store := s.store.Load()
	if store == nil {
		return nil, ErrNotReady
	}
	return store, nil
}

// Selectors returns the years, categories and, for a concrete category, the
// manufacturers available in the current snapshot.
func (s *Service) Selectors(category string) (SelectorsResponse, error) {
	store, err := s.snapshot()
	if err != nil {
		return SelectorsResponse{}, err
	}

	resp := SelectorsResponse{
		DatasetID:     store.ID(),
		Years:         store.DistinctYears(),
		Categories:    store.DistinctCategories(),
		Manufacturers: []string{},
	}
	if c := (metrics.Filter{Category: category}).Normalize().Category; c != metrics.All {
		resp.Manufacturers = store.DistinctManufacturers(c)
	}
	return resp, nil
}

// Metrics computes the headline growth metrics. A blank year selects the
// newest year in the snapshot.
func (s *Service) Metrics(filter metrics.Filter) (MetricsResponse, error) {
	store, err := s.snapshot()
	if err != nil {
		return MetricsResponse{}, err
	}

	filter = filter.Normalize()
	if filter.Year, err = resolveYear(store, filter.Year); err != nil {
		return MetricsResponse{}, err
	}

	key := cacheKey{DatasetID: store.ID(), Kind: kindMetrics, Filter: filter.String()}
	return cached(s.cache, key, func() (MetricsResponse, error) {
		growth, err := metrics.ComputeGrowthMetrics(store, filter)
		if err != nil {
			return MetricsResponse{}, err
		}
		slog.Debug("Computed growth metrics", "dataset_id", store.ID(), "filter", filter)
		return MetricsResponse{
			DatasetID:     store.ID(),
			Filter:        filter,
			GrowthMetrics: growth,
		}, nil
	})
}

// Manufacturers computes the per-manufacturer comparison for a category,
// ranked by the requested growth column.
func (s *Service) Manufacturers(year, category, sortBy string) (ManufacturersResponse, error) {
	store, err := s.snapshot()
	if err != nil {
		return ManufacturersResponse{}, err
	}

	key, err := metrics.ParseSortKey(sortBy)
	if err != nil {
		return ManufacturersResponse{}, err
	}
	if year, err = resolveYear(store, year); err != nil {
		return ManufacturersResponse{}, err
	}
	category = metrics.Filter{Category: category}.Normalize().Category

	ck := cacheKey{
		DatasetID: store.ID(),
		Kind:      kindManufacturers,
		Filter:    fmt.Sprintf("year=%s category=%s sort=%s", year, category, key),
	}
	return cached(s.cache, ck, func() (ManufacturersResponse, error) {
		rows, err := metrics.ComputeManufacturerComparison(store, year, category)
		if err != nil {
			return ManufacturersResponse{}, err
		}
		metrics.SortManufacturerGrowth(rows, key)
		return ManufacturersResponse{
			DatasetID: store.ID(),
			Year:      year,
			Category:  category,
			Sort:      key,
			Rows:      rows,
		}, nil
	})
}

// Trends computes the quarterly trend for a year.
func (s *Service) Trends(year string) (TrendsResponse, error) {
	store, err := s.snapshot()
	if err != nil {
		return TrendsResponse{}, err
	}
	if year, err = resolveYear(store, year); err != nil {
		return TrendsResponse{}, err
	}

	key := cacheKey{DatasetID: store.ID(), Kind: kindTrends, Filter: "year=" + year}
	return cached(s.cache, key, func() (TrendsResponse, error) {
		points, err := metrics.ComputeQuarterlyTrend(store, year)
		if err != nil {
			return TrendsResponse{}, err
		}
		return TrendsResponse{
			DatasetID: store.ID(),
			Year:      year,
			Points:    points,
		}, nil
	})
}

// resolveYear defaults a blank year to the newest year in the snapshot.
func resolveYear(store *registration.Store, year string) (string, error) {
	year = strings.TrimSpace(year)
	if year != "" {
		return year, nil
	}
	years := store.DistinctYears()
	if len(years) == 0 {
		return "", fmt.Errorf("%w: year is required when the dataset is empty", metrics.ErrInvalidFilter)
	}
	return strconv.Itoa(years[0]), nil
}
