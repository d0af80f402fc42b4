package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MikeSquared-Agency/incidentlog/internal/anthropic"
	"github.com/MikeSquared-Agency/incidentlog/internal/config"
	"github.com/MikeSquared-Agency/incidentlog/internal/gemini"
	"github.com/MikeSquared-Agency/incidentlog/internal/parser"
	"github.com/MikeSquared-Agency/incidentlog/internal/store"
)

// app is what every subcommand starts from.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	store  *store.Store
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := setupLogging(cfg.LogLevel, cfg.LogFormat)

	db, err := store.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Info("database ready", "driver", cfg.DatabaseDriver)
	return &app{cfg: cfg, logger: logger, store: db}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close store", "error", err)
	}
}

// newGenerator returns nil when no provider is configured, which leaves the
// parser on the rule-based path.
func newGenerator(ctx context.Context, cfg config.Config, logger *slog.Logger) (parser.Generator, error) {
	switch cfg.GeneratorProvider {
	case config.ProviderAnthropic:
		logger.Info("anthropic generator ready", "model", cfg.AnthropicModel)
		return anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, gemini.Options{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
		if err != nil {
			return nil, err
		}
		logger.Info("gemini generator ready", "model", cfg.GeminiModel)
		return c, nil
	default:
		logger.Info("no generator configured, using rule-based parsing only")
		return nil, nil
	}
}

func newParser(ctx context.Context, cfg config.Config, entities parser.Entities, logger *slog.Logger) (*parser.Parser, error) {
	gen, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}
	opts := []parser.Option{parser.WithTimeout(cfg.GeneratorTimeout)}
	if gen != nil {
		opts = append(opts, parser.WithGenerator(gen))
	}
	return parser.New(entities, logger, opts...), nil
}
