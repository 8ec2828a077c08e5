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

type ContentAPIConfig struct {
	DatabaseURL string
	SourcesPath string
}

func (ac *AppConfig) Load() (*ContentAPIConfig, error) {
	err := env.LoadDotEnv(ac.ENV, "cmd/content_api/.env")
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

	return &ContentAPIConfig{
		DatabaseURL: dbURL,
		SourcesPath: sourcesPath,
	}, nil
}
