// Package ingest drives one ingestion run: fetch from all providers,
// deduplicate against storage by source id, persist new records unscored,
// and enqueue one scoring request per new record.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/provider"
	"github.com/DjordjeVuckovic/content-hunter/internal/queue"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
)

// Stats summarizes one ingestion run.
type Stats struct {
	Ingested   int `json:"ingested"`
	Skipped    int `json:"skipped"`
	Dispatched int `json:"dispatched"`
}

// Enqueuer is the slice of the queue the ingestor needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, msg queue.Message) error
}

type Ingestor struct {
	aggregator *provider.Aggregator
	store      storage.ContentStore
	queue      Enqueuer
}

func NewIngestor(aggregator *provider.Aggregator, store storage.ContentStore, q Enqueuer) *Ingestor {
	return &Ingestor{
		aggregator: aggregator,
		store:      store,
		queue:      q,
	}
}

// Ingest runs one fetch-dedup-persist-dispatch pass. Re-running over
// overlapping source data never creates duplicate records; already-seen
// source ids are counted as skipped. Per-item failures are absorbed into
// the skipped counter; the run itself only fails on queue shutdown or
// context cancellation.
func (i *Ingestor) Ingest(ctx context.Context, limit int) (Stats, error) {
	start := time.Now()
	slog.Info("starting content ingestion", "limit", limit)

	items := i.aggregator.FetchAll(ctx, limit)

	var stats Stats
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		ingested, dispatched, err := i.ingestOne(ctx, item)
		if err != nil {
			slog.Error("failed to ingest item", "source_id", item.SourceID, "error", err)
			stats.Skipped++
			continue
		}
		if !ingested {
			stats.Skipped++
			continue
		}
		stats.Ingested++
		if dispatched {
			stats.Dispatched++
		}
	}

	slog.Info("ingestion completed",
		"ingested", stats.Ingested,
		"skipped", stats.Skipped,
		"dispatched", stats.Dispatched,
		"duration", time.Since(start),
	)
	return stats, nil
}

// ingestOne persists one normalized item unless its source id is already
// known, then enqueues the scoring request. The unique constraint is the
// backstop for concurrent runs racing on the existence check.
func (i *Ingestor) ingestOne(ctx context.Context, item domain.NormalizedItem) (ingested, dispatched bool, err error) {
	exists, err := i.store.ExistsBySourceID(ctx, item.SourceID)
	if err != nil {
		return false, false, err
	}
	if exists {
		return false, false, nil
	}

	content := domain.NewContent(item)
	if err := i.store.Save(ctx, content); err != nil {
		if errors.Is(err, storage.ErrDuplicateSourceID) {
			slog.Info("lost dedup race, skipping", "source_id", item.SourceID)
			return false, false, nil
		}
		return false, false, err
	}

	if err := i.queue.Enqueue(ctx, queue.ScoreContent{ContentID: content.ID}); err != nil {
		// record stays persisted, just unscored
		slog.Error("failed to enqueue scoring request", "content_id", content.ID, "error", err)
		return true, false, nil
	}

	slog.Info("content ingested", "content_id", content.ID, "source_id", item.SourceID, "title", item.Title)
	return true, true, nil
}
