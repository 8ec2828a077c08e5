package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/content-hunter/internal/cache"
	"github.com/DjordjeVuckovic/content-hunter/internal/ingest"
	"github.com/DjordjeVuckovic/content-hunter/internal/provider"
	"github.com/DjordjeVuckovic/content-hunter/internal/queue"
	"github.com/DjordjeVuckovic/content-hunter/internal/router"
	"github.com/DjordjeVuckovic/content-hunter/internal/scoring"
	"github.com/DjordjeVuckovic/content-hunter/internal/search"
	"github.com/DjordjeVuckovic/content-hunter/internal/server"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage/pg"
	pkgserver "github.com/DjordjeVuckovic/content-hunter/pkg/server"
)

func main() {
	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	healthChecker := pkgserver.NewOkHealthChecker()

	s := server.New(sCfg, healthChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks()

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Content Hunter API is running")
	})

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	ctx := s.Context()

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

	dispatcher.Register(queue.ScoreContent{}.Kind(), scoring.NewHandler(store).Handle)
	dispatcher.Register(queue.IngestContent{}.Kind(), func(ctx0 context.Context, msg queue.Message) error {
		req, ok := msg.(queue.IngestContent)
		if !ok {
			return fmt.Errorf("unexpected message kind %q", msg.Kind())
		}
		_, err := ingestor.Ingest(ctx0, req.Limit)
		return err
	})
	// workers get their own context so Stop can drain what is already
	// enqueued after the server context is cancelled
	dispatcher.Start(context.Background())

	searchCache := cache.New[*search.Result](cache.MaxEntries, cache.DefaultTTL)
	searchService := search.NewService(store, searchCache)

	searchRouter := router.NewSearchRouter(s.Echo, searchService, dispatcher)
	searchRouter.Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, draining queue...")
		dispatcher.Stop()
	}()

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
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
