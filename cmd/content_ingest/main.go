// content_ingest runs ingestion from the command line: one-shot by
// default, or on an interval with -every.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/ingest"
	"github.com/DjordjeVuckovic/content-hunter/internal/provider"
	"github.com/DjordjeVuckovic/content-hunter/internal/queue"
	"github.com/DjordjeVuckovic/content-hunter/internal/scoring"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage/pg"
)

func main() {
	limit := flag.Int("limit", provider.DefaultLimit, "max items to request per source")
	every := flag.Duration("every", 0, "rerun interval; 0 runs once and exits")
	flag.Parse()

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.DatabaseURL})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store, err := pg.NewStore(pool)
	if err != nil {
		slog.Error("Failed to create content store", "error", err)
		os.Exit(1)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		slog.Error("Failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	providers, err := loadProviders(cfg.SourcesPath)
	if err != nil {
		slog.Error("Failed to load provider roster", "error", err, "path", cfg.SourcesPath)
		os.Exit(1)
	}
	aggregator := provider.NewAggregator(providers...)

	dispatcher := queue.NewDispatcher()
	ingestor := ingest.NewIngestor(aggregator, store, dispatcher)

	// tracks in-flight ingestion runs so the queue is not closed while a
	// run is still enqueueing scoring work
	var runs sync.WaitGroup

	dispatcher.Register(queue.ScoreContent{}.Kind(), scoring.NewHandler(store).Handle)
	dispatcher.Register(queue.IngestContent{}.Kind(), func(ctx context.Context, msg queue.Message) error {
		defer runs.Done()

		req, ok := msg.(queue.IngestContent)
		if !ok {
			return fmt.Errorf("unexpected message kind %q", msg.Kind())
		}
		stats, err := ingestor.Ingest(ctx, req.Limit)
		if err != nil {
			return err
		}
		slog.Info("Ingestion run finished",
			"ingested", stats.Ingested,
			"skipped", stats.Skipped,
			"dispatched", stats.Dispatched,
		)
		return nil
	})
	dispatcher.Start(context.Background())

	runOnce := func() {
		runs.Add(1)
		if err := dispatcher.Enqueue(ctx, queue.IngestContent{Limit: *limit}); err != nil {
			runs.Done()
			slog.Error("Failed to enqueue ingestion run", "error", err)
		}
	}

	runOnce()

	if *every > 0 {
		ticker := time.NewTicker(*every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("Shutdown requested, draining queue...")
				runs.Wait()
				dispatcher.Stop()
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}

	// let the run and its queued scoring work finish before exiting
	runs.Wait()
	dispatcher.Stop()
}

func loadProviders(path string) ([]provider.Provider, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg, err := provider.LoadConfig(file)
	if err != nil {
		return nil, err
	}
	return cfg.Build(), nil
}
