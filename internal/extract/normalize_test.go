package extract

import (
	"testing"
	"time"

	"github.com/mallorente/sejusaas/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseMatchType(t *testing.T) {
	tests := []struct {
		in   string
		want domain.MatchType
	}{
		{"Custom", domain.MatchTypeCustom},
		{"custom game", domain.MatchTypeCustom},
		{"4v4 CUSTOM", domain.MatchTypeCustom},
		{"0", domain.MatchTypeCustom},
		{"1v1", domain.MatchTypeAutomatch},
		{"Automatch", domain.MatchTypeAutomatch},
		{"", domain.MatchTypeAutomatch},
		{"3", domain.MatchTypeAutomatch},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseMatchType(tt.in), "input %q", tt.in)
	}
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		in   string
		want domain.MatchResult
	}{
		{"Victory", domain.ResultVictory},
		{"WIN", domain.ResultVictory},
		{"Defeat", domain.ResultDefeat},
		{"loss", domain.ResultDefeat},
		{"", domain.ResultUnknown},
		{"3 - 2", domain.ResultUnknown}, // never guessed from score
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseResult(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeDates(t *testing.T) {
	m := normalize(rawMatch{unixDate: 1709323200}, domain.SourceNextData)
	assert.Equal(t, int64(1709323200), m.MatchDate.Unix())
	assert.Equal(t, "1709323200", m.RawDate)

	m = normalize(rawMatch{date: "2024-03-01 20:15:00"}, domain.SourceTable)
	assert.Equal(t, time.Date(2024, 3, 1, 20, 15, 0, 0, time.UTC), m.MatchDate)
	assert.Equal(t, "2024-03-01 20:15:00", m.RawDate)

	// An unparseable date keeps the raw text and a zero timestamp instead
	// of dropping the record.
	m = normalize(rawMatch{date: "Yesterday 20:15"}, domain.SourceTable)
	assert.True(t, m.MatchDate.IsZero())
	assert.Equal(t, "Yesterday 20:15", m.RawDate)
}

func TestNormalizeKeepsRosters(t *testing.T) {
	raw := rawMatch{
		axis:   []domain.RosterEntry{{PlayerID: "1"}},
		allies: []domain.RosterEntry{{PlayerID: "2"}, {PlayerID: "3"}},
	}
	m := normalize(raw, domain.SourceNextData)
	assert.Len(t, m.AxisPlayers, 1)
	assert.Len(t, m.AlliesPlayers, 2)
	assert.Len(t, m.Participants(), 3)
	assert.False(t, m.DiscoveredAt.IsZero())
}
