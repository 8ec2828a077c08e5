// Package provider fetches raw content descriptions from external sources
// and normalizes them into the canonical record shape, one adapter per
// wire format.
package provider

import (
	"context"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
)

const (
	// DefaultLimit is the per-provider item budget when none is given.
	DefaultLimit = 30
	// DefaultTimeout bounds one provider fetch.
	DefaultTimeout = 10 * time.Second

	userAgent = "content-hunter/1.0"
)

// Provider fetches up to limit items from one external source and returns
// them normalized. The limit is advisory to the source, not a hard
// post-filter. Items failing validation are dropped individually and
// logged; transport, status, and payload failures surface as an error
// that the Aggregator absorbs.
type Provider interface {
	Fetch(ctx context.Context, limit int) ([]domain.NormalizedItem, error)
	Name() string
}

// parsePublishedAt accepts the timestamp layouts observed across sources.
func parsePublishedAt(raw string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
