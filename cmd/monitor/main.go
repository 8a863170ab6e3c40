package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/mallorente/sejusaas/internal/config"
	"github.com/mallorente/sejusaas/internal/constants"
	fxmodules "github.com/mallorente/sejusaas/internal/fx"
	"github.com/mallorente/sejusaas/internal/repository"
	"github.com/mallorente/sejusaas/internal/server"
	"github.com/mallorente/sejusaas/internal/service"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(run),
	).Run()
}

func run(
	lc fx.Lifecycle,
	monitor *service.Monitor,
	statusServer *server.StatusServer,
	playerRepo *repository.PlayerRepository,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.StatusPort),
		Handler: statusServer.Handler(),
	}

	var cancelMonitor context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := seedRoster(ctx, cfg, playerRepo, logger); err != nil {
				return err
			}

			monitorCtx, cancel := context.WithCancel(context.Background())
			cancelMonitor = cancel
			go monitor.Run(monitorCtx)

			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("status server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("status server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down")
			cancelMonitor()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("status server shutdown failed")
			}
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			logger.Info().Msg("stopped gracefully")
			return nil
		},
	})
}

func seedRoster(ctx context.Context, cfg *config.Config, playerRepo *repository.PlayerRepository, logger zerolog.Logger) error {
	if cfg.RosterFile == "" {
		return nil
	}

	seeds, err := config.LoadRoster(cfg.RosterFile)
	if err != nil {
		return err
	}
	for _, seed := range seeds {
		if err := playerRepo.Register(ctx, seed.PlayerID, seed.PlayerName); err != nil {
			return err
		}
	}

	logger.Info().Int("players", len(seeds)).Str("file", cfg.RosterFile).Msg("roster seeded")
	return nil
}
