// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/venturalabs/ventura/internal/auth"
	authpg "github.com/venturalabs/ventura/internal/auth/postgres"
	"github.com/venturalabs/ventura/internal/config"
	"github.com/venturalabs/ventura/internal/logging"
	"github.com/venturalabs/ventura/internal/observability"
	"github.com/venturalabs/ventura/internal/store"
	"github.com/venturalabs/ventura/internal/study"
	studypg "github.com/venturalabs/ventura/internal/study/postgres"
	"github.com/venturalabs/ventura/internal/web"
)

const (
	// shutdownTimeout bounds graceful shutdown of the HTTP servers.
	shutdownTimeout = 10 * time.Second

	// sweepInterval is how often expired sessions are garbage-collected.
	sweepInterval = time.Hour
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Ventura server",
		Long: `Start the HTTP server serving the JSON API, the page shell,
and the observability endpoints.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(resolveConfigFile(), cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (set DATABASE_URL or database.url)")
	}

	logger := logging.SetDefault("ventura", cmd.Root().Version, logging.Options{
		Format: cfg.Log.Format,
		Level:  logging.ParseLevel(cfg.Log.Level),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	authSvc, err := auth.NewServiceWithLogger(
		authpg.NewUserRepository(pool),
		authpg.NewSessionRepository(pool),
		auth.NewPBKDF2Hasher(),
		logger,
	)
	if err != nil {
		return err
	}

	studySvc, err := study.NewService(
		studypg.NewSessionRepository(pool),
		studypg.NewRoomRepository(pool),
		logger,
	)
	if err != nil {
		return err
	}

	// Observability listener is optional; an empty addr disables it.
	var obs *observability.Server
	var metrics *observability.Metrics
	var obsErrCh <-chan error
	if cfg.Metrics.Addr != "" {
		obs = observability.NewServer(cfg.Metrics.Addr, func() bool {
			return pool.Ping(ctx) == nil
		})
		metrics = obs.Metrics()
		obsErrCh, err = obs.Start()
		if err != nil {
			return err
		}
	}

	guard, err := web.NewGuard(cfg.Guard.Protected, cfg.Guard.Landing)
	if err != nil {
		return err
	}

	handler, err := web.NewHandler(authSvc, studySvc, cfg.Cookie.Secure, cfg.Guard.Landing, logger, metrics)
	if err != nil {
		return err
	}

	srv := web.NewServer(cfg.HTTP.Addr, handler, guard, metrics, logger)
	srvErrCh, err := srv.Start()
	if err != nil {
		return err
	}

	// Expired session rows accumulate without a sweeper; lazy expiry
	// alone only covers tokens that are presented again.
	go sweepSessions(ctx, authSvc, metrics)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr := <-srvErrCh:
		if serveErr != nil {
			runErr = serveErr
		}
	case obsErr := <-obsErrCh:
		if obsErr != nil {
			runErr = obsErr
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("web server shutdown failed", "error", err)
	}
	if obs != nil {
		if err := obs.Stop(shutdownCtx); err != nil {
			logger.Error("observability server shutdown failed", "error", err)
		}
	}

	return runErr
}

// sweepSessions periodically removes expired sessions until the
// context is cancelled.
func sweepSessions(ctx context.Context, authSvc *auth.Service, metrics *observability.Metrics) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := authSvc.SweepExpiredSessions(ctx)
			if err != nil {
				continue
			}
			if metrics != nil && swept > 0 {
				metrics.SessionsSwept.Add(float64(swept))
			}
		}
	}
}
