// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/replex/internal/api"
	"github.com/tomtom215/replex/internal/config"
	"github.com/tomtom215/replex/internal/logging"
	"github.com/tomtom215/replex/internal/metrics"
	"github.com/tomtom215/replex/internal/supervisor"
	"github.com/tomtom215/replex/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Str("config", cfg.String()).Msg("Starting Replex")
	metrics.SetAppInfo(version)

	client, err := newPlexClient(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create Plex client")
	}

	handler, err := api.NewHandler(client, handlerOptions(cfg))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create handlers")
	}
	router := api.NewRouter(handler, middlewareConfig(cfg))

	server := newHTTPServer(cfg, router.Handler())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddMaintenanceService(services.NewCacheJanitorService(client, janitorInterval))

	httpService := services.NewHTTPServerService(server, shutdownTimeout)
	if cfg.Server.SSLEnable {
		httpService = httpService.WithTLS()
	}
	tree.AddAPIService(httpService)
	logging.Info().
		Str("addr", server.Addr).
		Bool("tls", cfg.Server.SSLEnable).
		Str("upstream", client.BaseURL()).
		Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Replex stopped")
}
