package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aevon-lab/regpulse/internal/core/registration"
)

// Source produces the raw records a Record Store is built from.
type Source interface {
	// Load returns every record the source currently holds.
	Load(ctx context.Context) ([]registration.Record, error)
}

// BuildStore loads records from src and freezes them into an immutable Store.
func BuildStore(ctx context.Context, src Source) (*registration.Store, error) {
	start := time.Now()

	records, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	store, err := registration.NewStore(records)
	if err != nil {
		return nil, fmt.Errorf("build record store: %w", err)
	}

	slog.Info("Record store built",
		"dataset_id", store.ID(),
		"records", store.Len(),
		"years", store.DistinctYears(),
		"categories", store.DistinctCategories(),
		"duration", time.Since(start),
	)
	return store, nil
}
