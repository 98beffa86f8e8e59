// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/shadowrealm/shadowrealm/internal/api"
	"github.com/shadowrealm/shadowrealm/internal/auth"
	authpg "github.com/shadowrealm/shadowrealm/internal/auth/postgres"
	"github.com/shadowrealm/shadowrealm/internal/config"
	"github.com/shadowrealm/shadowrealm/internal/logging"
	"github.com/shadowrealm/shadowrealm/internal/observability"
	"github.com/shadowrealm/shadowrealm/internal/progress"
	"github.com/shadowrealm/shadowrealm/internal/quest"
	questpg "github.com/shadowrealm/shadowrealm/internal/quest/postgres"
	"github.com/shadowrealm/shadowrealm/internal/store"
)

// shutdownTimeout bounds graceful shutdown of the HTTP servers.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the ShadowRealm API server",
		Long: `Start the HTTP API server along with the observability endpoints
for metrics and health probes.`,
		RunE: runServe,
	}

	cmd.Flags().String("server.addr", "", "API listen address")
	cmd.Flags().String("server.metrics_addr", "", "metrics/health HTTP address (empty = default)")
	cmd.Flags().String("server.log_format", "", "log format (json or text)")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (flag, config file, or DATABASE_URL)")
	}
	if cfg.Token.Key == "" {
		return oops.Code("CONFIG_INVALID").Errorf("token signing key is required (config file or SHADOWREALM_TOKEN_KEY)")
	}

	logging.SetDefault("shadowrealm", version, cfg.Server.LogFormat)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("connecting to database")
	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{
		Key:      []byte(cfg.Token.Key),
		Issuer:   cfg.Token.Issuer,
		Audience: cfg.Token.Audience,
		TTL:      cfg.Token.TTL,
	})
	if err != nil {
		return err
	}

	authSvc, err := auth.NewService(authpg.NewPlayerRepository(pool), auth.NewArgon2idHasher(), tokens)
	if err != nil {
		return err
	}
	progressSvc, err := progress.NewService(authpg.NewPlayerRepository(pool))
	if err != nil {
		return err
	}
	questSvc, err := quest.NewService(
		questpg.NewQuestRepository(pool),
		questpg.NewCompletionRepository(pool),
		questpg.NewPlayerProgressStore(pool),
		questpg.NewTransactor(pool),
	)
	if err != nil {
		return err
	}

	obs := observability.NewServer(cfg.Server.MetricsAddr, func() bool {
		return pool.Ping(ctx) == nil
	})
	obsErrCh, err := obs.Start()
	if err != nil {
		return err
	}

	apiSrv, err := api.NewServer(authSvc, progressSvc, questSvc, tokens, obs.Metrics(), slog.Default())
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           apiSrv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		slog.Info("api server started", "addr", cfg.Server.Addr)
		if serveErr := httpSrv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			serveErrCh <- serveErr
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-serveErrCh:
		return oops.Code("SERVER_FAILED").Wrap(err)
	case err := <-obsErrCh:
		return oops.Code("SERVER_FAILED").With("component", "observability").Wrap(err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").With("component", "api").Wrap(err)
	}
	if err := obs.Stop(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").With("component", "observability").Wrap(err)
	}

	slog.Info("server stopped")
	return nil
}
