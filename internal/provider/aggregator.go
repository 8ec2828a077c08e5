package provider

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
)

type fetchResult struct {
	provider string
	items    []domain.NormalizedItem
	err      error
}

// Aggregator fans out one fetch per configured provider and merges the
// successful results. Providers run concurrently, each under its own
// timeout; one provider's failure never blocks or discards another's
// items.
type Aggregator struct {
	providers []Provider
}

func NewAggregator(providers ...Provider) *Aggregator {
	return &Aggregator{providers: providers}
}

// FetchAll invokes every provider concurrently and merges results in
// arrival order. Merge order is not significant; downstream dedup defines
// the effective ordering. A failing provider contributes zero items and
// is logged. No retry happens within a run.
func (a *Aggregator) FetchAll(ctx context.Context, limit int) []domain.NormalizedItem {
	if limit <= 0 {
		limit = DefaultLimit
	}

	start := time.Now()
	slog.Info("starting provider fan-out", "providers", len(a.providers), "limit", limit)

	results := make(chan fetchResult, len(a.providers))
	var wg sync.WaitGroup
	for _, p := range a.providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()
			items, err := p.Fetch(ctx, limit)
			results <- fetchResult{provider: p.Name(), items: items, err: err}
		}(p)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var merged []domain.NormalizedItem
	for res := range results {
		if res.err != nil {
			slog.Error("provider fetch failed", "provider", res.provider, "error", res.err)
			continue
		}
		merged = append(merged, res.items...)
	}

	slog.Info("provider fan-out completed",
		"total_items", len(merged),
		"duration", time.Since(start),
	)
	return merged
}
