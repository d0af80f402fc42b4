package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/incidentlog/internal/api"
	"github.com/MikeSquared-Agency/incidentlog/internal/hermes"
	"github.com/MikeSquared-Agency/incidentlog/internal/registry"
	"github.com/MikeSquared-Agency/incidentlog/internal/sheets"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg, logger := a.cfg, a.logger

	logger.Info("incidentlog starting", "port", cfg.Port)

	// Entity registry, refreshed from the store on a schedule
	reg := registry.New(a.store, logger)
	sched := registry.NewCronScheduler()
	sched.Start()
	defer sched.Stop()
	stopRefresh, err := reg.Start(ctx, sched, cfg.RegistryRefresh)
	if err != nil {
		return err
	}
	defer stopRefresh()

	p, err := newParser(ctx, cfg, reg, logger)
	if err != nil {
		return err
	}

	// NATS/Hermes (optional)
	var pub hermes.Publisher = hermes.NopPublisher{}
	if cfg.NatsURL != "" {
		client, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, logger)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer client.Close()
		pub = client
		logger.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		logger.Warn("NATS not configured, incident events are dropped")
	}

	deps := api.Deps{
		Store:          a.store,
		Parser:         p,
		Events:         hermes.NewEvents(pub, logger),
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins(),
	}
	if cfg.SheetsWebhookURL != "" {
		deps.Exporter = sheets.NewClient(cfg.SheetsWebhookURL, logger)
	}

	srv := api.NewServer(cfg.Port, deps)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	logger.Info("incidentlog ready", "port", cfg.Port)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	logger.Info("incidentlog stopped")
	return nil
}
