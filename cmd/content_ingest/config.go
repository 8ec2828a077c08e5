package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/content-hunter/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type ContentIngestConfig struct {
	DatabaseURL string
	SourcesPath string
}

func (ac *AppConfig) Load() (*ContentIngestConfig, error) {
	err := env.LoadDotEnv(ac.ENV, "cmd/content_ingest/.env")
	if err != nil {
		slog.Info("Failed to load .env, continuing with existing environment variables", "error", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sourcesPath := os.Getenv("SOURCES_PATH")
	if sourcesPath == "" {
		sourcesPath = "config/sources.yml"
	}

	return &ContentIngestConfig{
		DatabaseURL: dbURL,
		SourcesPath: sourcesPath,
	}, nil
}
