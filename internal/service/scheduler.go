package service

import (
	"sort"
	"time"

	"github.com/mallorente/sejusaas/internal/domain"
	"github.com/rs/zerolog"
)

// Scheduler decides which tracked players to re-check. It owns the
// last-checked map, seeded from the persisted field so a restart does not
// forget staleness, and advanced only when the monitor reports a completed
// check. A player whose check errored stays stale and is picked up again.
type Scheduler struct {
	lastChecked map[string]time.Time
	logger      zerolog.Logger
}

func NewScheduler(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		lastChecked: make(map[string]time.Time),
		logger:      logger,
	}
}

// SelectBatch returns up to batchSize players ordered by staleness:
// never-checked players first, then oldest check first. The batch itself is
// read-only; selection does not mark anyone as checked.
func (s *Scheduler) SelectBatch(players []domain.TrackedPlayer, batchSize int) []domain.TrackedPlayer {
	for _, p := range players {
		if _, ok := s.lastChecked[p.PlayerID]; !ok && p.LastCheckedAt != nil {
			s.lastChecked[p.PlayerID] = *p.LastCheckedAt
		}
	}

	sorted := make([]domain.TrackedPlayer, len(players))
	copy(sorted, players)

	sort.SliceStable(sorted, func(i, j int) bool {
		ti, iChecked := s.lastChecked[sorted[i].PlayerID]
		tj, jChecked := s.lastChecked[sorted[j].PlayerID]
		if iChecked != jChecked {
			return !iChecked
		}
		return ti.Before(tj)
	})

	if len(sorted) > batchSize {
		sorted = sorted[:batchSize]
	}

	s.logger.Debug().Int("roster", len(players)).Int("batch", len(sorted)).Msg("batch selected")
	return sorted
}

// MarkChecked records a completed check for the player.
func (s *Scheduler) MarkChecked(playerID string, checkedAt time.Time) {
	s.lastChecked[playerID] = checkedAt
}

// FirstCheck reports whether the player has never completed a check.
func (s *Scheduler) FirstCheck(playerID string) bool {
	_, ok := s.lastChecked[playerID]
	return !ok
}
