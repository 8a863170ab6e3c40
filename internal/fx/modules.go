package fx

import (
	"github.com/mallorente/sejusaas/internal/config"
	"github.com/mallorente/sejusaas/internal/database"
	"github.com/mallorente/sejusaas/internal/diag"
	"github.com/mallorente/sejusaas/internal/extract"
	"github.com/mallorente/sejusaas/internal/fetch"
	"github.com/mallorente/sejusaas/internal/logger"
	"github.com/mallorente/sejusaas/internal/repository"
	"github.com/mallorente/sejusaas/internal/server"
	"github.com/mallorente/sejusaas/internal/service"
	"github.com/rs/zerolog"

	"go.uber.org/fx"
)

func provideLevelSource(cfg *config.Config) *logger.LevelSource {
	return logger.NewLevelSource(cfg.LogLevel)
}

func provideSink(cfg *config.Config, log zerolog.Logger) diag.Sink {
	return diag.NewFileSink(cfg.DiagDir, log)
}

func provideMonitor(
	players *repository.PlayerRepository,
	matches *repository.MatchRepository,
	fetcher fetch.Fetcher,
	pipeline *extract.Pipeline,
	sched *service.Scheduler,
	sink diag.Sink,
	exporter service.Exporter,
	cfg *config.Config,
	levels *logger.LevelSource,
	log zerolog.Logger,
) *service.Monitor {
	return service.NewMonitor(players, matches, fetcher, pipeline, sched, sink, exporter, cfg, levels, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(provideLevelSource),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewMatchRepository),
	// discovery pipeline
	fx.Provide(fetch.New),
	fx.Provide(extract.NewPipeline),
	fx.Provide(provideSink),
	fx.Provide(service.NewScheduler),
	fx.Provide(service.NewExporter),
	fx.Provide(provideMonitor),
	// operator surface
	fx.Provide(server.NewStatusServer),
)
