package extract

import (
	"fmt"

	"github.com/mallorente/sejusaas/internal/domain"
	"github.com/rs/zerolog"
)

// Strategy turns raw page content into match records. Strategies are tried
// in order of confidence; returning an error or no records hands the page to
// the next one.
type Strategy interface {
	Name() string
	Extract(page []byte, playerID, playerName string) ([]domain.Match, error)
}

type Pipeline struct {
	strategies []Strategy
	logger     zerolog.Logger
}

func NewPipeline(logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		strategies: []Strategy{
			&nextDataStrategy{},
			&tableStrategy{},
			&heuristicStrategy{},
		},
		logger: logger,
	}
}

// Extract runs the strategies against the page until one yields records.
// It never fails on malformed input: a strategy that errors or panics counts
// as having produced nothing, and exhausting all strategies returns an empty
// slice. The caller decides whether an empty result warrants a diagnostic
// capture.
func (p *Pipeline) Extract(page []byte, playerID, playerName string) []domain.Match {
	for _, s := range p.strategies {
		matches, err := p.runStrategy(s, page, playerID, playerName)
		if err != nil {
			p.logger.Warn().Err(err).
				Str("strategy", s.Name()).
				Str("player_id", playerID).
				Msg("extraction strategy failed, trying next")
			continue
		}
		if len(matches) > 0 {
			p.logger.Info().
				Str("strategy", s.Name()).
				Str("player_id", playerID).
				Int("matches", len(matches)).
				Msg("matches extracted")
			return matches
		}
		p.logger.Debug().
			Str("strategy", s.Name()).
			Str("player_id", playerID).
			Msg("strategy produced no matches")
	}
	return nil
}

func (p *Pipeline) runStrategy(s Strategy, page []byte, playerID, playerName string) (matches []domain.Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches = nil
			err = fmt.Errorf("strategy %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Extract(page, playerID, playerName)
}
