package dashboard

import (
	"time"

	"github.com/aevon-lab/regpulse/internal/core/metrics"
)

// SelectorsResponse lists the values the filter controls can offer.
// Manufacturers is only populated when a concrete category is requested.
type SelectorsResponse struct {
	DatasetID     string   `json:"dataset_id"`
	Years         []int    `json:"years"`
	Categories    []string `json:"categories"`
	Manufacturers []string `json:"manufacturers"`
}

// MetricsResponse is the headline card: total plus growth for the resolved filter.
type MetricsResponse struct {
	DatasetID string         `json:"dataset_id"`
	Filter    metrics.Filter `json:"filter"`
	metrics.GrowthMetrics
}

// ManufacturersResponse is the per-manufacturer comparison table.
type ManufacturersResponse struct {
	DatasetID string                       `json:"dataset_id"`
	Year      string                       `json:"year"`
	Category  string                       `json:"category"`
	Sort      metrics.SortKey              `json:"sort"`
	Rows      []metrics.ManufacturerGrowth `json:"rows"`
}

// TrendsResponse is the quarterly trend chart for one year.
type TrendsResponse struct {
	DatasetID string               `json:"dataset_id"`
	Year      string               `json:"year"`
	Points    []metrics.TrendPoint `json:"points"`
}

// ReloadResponse describes the snapshot installed by a reload.
type ReloadResponse struct {
	DatasetID string    `json:"dataset_id"`
	Records   int       `json:"records"`
	LoadedAt  time.Time `json:"loaded_at"`
}
