package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mallorente/sejusaas/internal/config"
	"github.com/mallorente/sejusaas/internal/constants"
	"github.com/mallorente/sejusaas/internal/diag"
	"github.com/mallorente/sejusaas/internal/domain"
	"github.com/mallorente/sejusaas/internal/fetch"
	"github.com/mallorente/sejusaas/internal/logger"
	"github.com/mallorente/sejusaas/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PlayerStore is the roster surface the monitor needs.
type PlayerStore interface {
	FindAll(ctx context.Context) ([]domain.TrackedPlayer, error)
	UpdateLastChecked(ctx context.Context, playerID string, checkedAt time.Time) error
}

// MatchStore is the idempotent match sink keyed by fingerprint.
type MatchStore interface {
	InsertNew(ctx context.Context, col repository.Collection, m *domain.Match) (bool, error)
}

// Extractor turns fetched page content into match records.
type Extractor interface {
	Extract(page []byte, playerID, playerName string) []domain.Match
}

// Exporter receives the custom games newly inserted during a cycle.
type Exporter interface {
	Append(ctx context.Context, matches []domain.Match) error
}

// Status describes the monitor for the status API.
type Status struct {
	Cycles         int       `json:"cycles"`
	LastCycleAt    time.Time `json:"last_cycle_at"`
	LastCycleError string    `json:"last_cycle_error,omitempty"`
	NewCustomGames int       `json:"new_custom_games"`
	NewAutoMatches int       `json:"new_auto_matches"`
}

// Monitor runs the discovery loop: select a batch of stale players, fetch
// and extract each player's matches page, classify and fingerprint every
// match, and persist the ones not seen before. Players are processed
// strictly one at a time.
type Monitor struct {
	players  PlayerStore
	matches  MatchStore
	fetcher  fetch.Fetcher
	pipeline Extractor
	sched    *Scheduler
	sink     diag.Sink
	exporter Exporter
	cfg      *config.Config
	levels   *logger.LevelSource
	logger   zerolog.Logger
	now      func() time.Time

	statusMu sync.RWMutex
	status   Status
}

func NewMonitor(
	players PlayerStore,
	matches MatchStore,
	fetcher fetch.Fetcher,
	pipeline Extractor,
	sched *Scheduler,
	sink diag.Sink,
	exporter Exporter,
	cfg *config.Config,
	levels *logger.LevelSource,
	log zerolog.Logger,
) *Monitor {
	return &Monitor{
		players:  players,
		matches:  matches,
		fetcher:  fetcher,
		pipeline: pipeline,
		sched:    sched,
		sink:     sink,
		exporter: exporter,
		cfg:      cfg,
		levels:   levels,
		logger:   log,
		now:      time.Now,
	}
}

// Run loops until the context is cancelled. A failed cycle is logged and
// retried after a short fixed delay; the loop itself never gives up.
func (m *Monitor) Run(ctx context.Context) {
	m.logger.Info().
		Dur("check_interval", m.cfg.CheckInterval).
		Int("batch_size", m.cfg.BatchSize).
		Msg("monitor started")

	for {
		start := m.now()
		logger.SetGlobalLevel(m.levels.Level())

		newCustoms, err := m.RunCycle(ctx)
		if ctx.Err() != nil {
			m.logger.Info().Msg("monitor stopped")
			return
		}

		wait := m.cfg.CheckInterval - time.Since(start)
		if err != nil {
			m.logger.Error().Err(err).Msg("cycle failed, retrying shortly")
			wait = constants.CycleRetryDelay
		} else {
			m.export(ctx, newCustoms)
			if wait < m.cfg.FloorInterval {
				wait = m.cfg.FloorInterval
			}
			m.logger.Info().Dur("wait", wait).Msg("cycle complete, sleeping until next batch")
		}

		select {
		case <-ctx.Done():
			m.logger.Info().Msg("monitor stopped")
			return
		case <-time.After(wait):
		}
	}
}

// RunCycle performs one pass over a batch of stale players and returns the
// custom games inserted during the pass. Per-player failures are logged and
// skipped without advancing that player's last-checked time, so the player
// is retried on a later cycle.
func (m *Monitor) RunCycle(ctx context.Context) ([]domain.Match, error) {
	cycleID := uuid.NewString()
	log := m.logger.With().Str("cycle_id", cycleID).Logger()

	players, err := m.players.FindAll(ctx)
	if err != nil {
		m.recordCycle(0, 0, err)
		return nil, err
	}
	if len(players) == 0 {
		log.Warn().Msg("no players registered")
		m.recordCycle(0, 0, nil)
		return nil, nil
	}

	tracked := make(map[string]struct{}, len(players))
	for _, p := range players {
		tracked[p.PlayerID] = struct{}{}
	}

	batch := m.sched.SelectBatch(players, m.cfg.BatchSize)
	log.Info().Int("roster", len(players)).Int("batch", len(batch)).Msg("checking players")

	var newCustoms []domain.Match
	var newAutos int
	for _, player := range batch {
		customs, autos, err := m.checkPlayer(ctx, log, player, tracked)
		if err != nil {
			if ctx.Err() != nil {
				return newCustoms, ctx.Err()
			}
			log.Error().Err(err).
				Str("player_id", player.PlayerID).
				Str("player_name", player.PlayerName).
				Msg("player check failed, will retry next cycle")
			continue
		}

		checkedAt := m.now()
		m.sched.MarkChecked(player.PlayerID, checkedAt)
		if err := m.players.UpdateLastChecked(ctx, player.PlayerID, checkedAt); err != nil {
			log.Error().Err(err).Str("player_id", player.PlayerID).Msg("failed to persist last check time")
		}

		newCustoms = append(newCustoms, customs...)
		newAutos += autos
	}

	m.recordCycle(len(newCustoms), newAutos, nil)
	return newCustoms, nil
}

func (m *Monitor) checkPlayer(ctx context.Context, log zerolog.Logger, player domain.TrackedPlayer, tracked map[string]struct{}) ([]domain.Match, int, error) {
	firstCheck := m.sched.FirstCheck(player.PlayerID)
	log.Info().
		Str("player_id", player.PlayerID).
		Str("player_name", player.PlayerName).
		Bool("first_check", firstCheck).
		Msg("checking player")

	pages, err := m.fetchPages(ctx, player, firstCheck)
	if err != nil {
		return nil, 0, err
	}

	var newCustoms []domain.Match
	var newAutos int
	seen := make(map[string]struct{})

	for _, page := range pages {
		matches := m.pipeline.Extract(page, player.PlayerID, player.PlayerName)
		if len(matches) == 0 {
			m.sink.SavePage(player.PlayerName, page)
			continue
		}

		for i := range matches {
			match := matches[i]
			match.Fingerprint = domain.Fingerprint(&match)
			if _, dup := seen[match.Fingerprint]; dup {
				continue
			}
			seen[match.Fingerprint] = struct{}{}

			switch domain.Classify(&match, tracked) {
			case domain.ClassCustomGame:
				inserted, err := m.matches.InsertNew(ctx, repository.CustomGames, &match)
				if err != nil {
					return newCustoms, newAutos, err
				}
				if inserted {
					log.Info().Str("fingerprint", match.Fingerprint).Str("map", match.MapName).Msg("saved new custom game")
					newCustoms = append(newCustoms, match)
				}
			case domain.ClassAutoMatch:
				inserted, err := m.matches.InsertNew(ctx, repository.AutoMatches, &match)
				if err != nil {
					return newCustoms, newAutos, err
				}
				if inserted {
					log.Info().Str("fingerprint", match.Fingerprint).Str("map", match.MapName).Msg("saved new auto match")
					newAutos++
				}
			case domain.ClassDiscard:
				log.Debug().Str("fingerprint", match.Fingerprint).Msg("match discarded")
			}
		}
	}

	return newCustoms, newAutos, nil
}

// fetchPages loads the recent-matches page, plus the full history page on a
// player's first check so the backlog is picked up in one pass.
func (m *Monitor) fetchPages(ctx context.Context, player domain.TrackedPlayer, firstCheck bool) ([][]byte, error) {
	if !firstCheck {
		page, err := m.fetcher.Fetch(ctx, player.PlayerID, player.PlayerName, fetch.ViewRecent)
		if err != nil {
			return nil, err
		}
		return [][]byte{page}, nil
	}

	var allPage, recentPage []byte
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		allPage, err = m.fetcher.Fetch(gCtx, player.PlayerID, player.PlayerName, fetch.ViewAll)
		return err
	})
	g.Go(func() error {
		var err error
		recentPage, err = m.fetcher.Fetch(gCtx, player.PlayerID, player.PlayerName, fetch.ViewRecent)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return [][]byte{allPage, recentPage}, nil
}

func (m *Monitor) export(ctx context.Context, customs []domain.Match) {
	if m.exporter == nil || len(customs) == 0 {
		return
	}

	exportCtx, cancel := context.WithTimeout(ctx, constants.ExportTimeout)
	defer cancel()

	if err := m.exporter.Append(exportCtx, customs); err != nil {
		m.logger.Warn().Err(err).Int("matches", len(customs)).Msg("custom game export failed")
		return
	}
	m.logger.Info().Int("matches", len(customs)).Msg("custom games exported")
}

func (m *Monitor) recordCycle(customs, autos int, err error) {
	m.statusMu.Lock()
	defer m.statusMu.Unlock()

	m.status.Cycles++
	m.status.LastCycleAt = m.now()
	m.status.NewCustomGames += customs
	m.status.NewAutoMatches += autos
	if err != nil {
		m.status.LastCycleError = err.Error()
	} else {
		m.status.LastCycleError = ""
	}
}

// CurrentStatus returns a snapshot of recent cycle activity.
func (m *Monitor) CurrentStatus() Status {
	m.statusMu.RLock()
	defer m.statusMu.RUnlock()
	return m.status
}
