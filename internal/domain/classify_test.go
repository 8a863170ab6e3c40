package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func trackedSet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestClassify(t *testing.T) {
	tracked := trackedSet("p1", "p2", "p3")

	tests := []struct {
		name  string
		match Match
		want  Classification
	}{
		{
			name: "custom game between tracked players",
			match: Match{
				MatchType:     MatchTypeCustom,
				AxisPlayers:   []RosterEntry{{PlayerID: "p1"}, {PlayerID: "p2"}},
				AlliesPlayers: []RosterEntry{{PlayerID: "p3"}},
			},
			want: ClassCustomGame,
		},
		{
			name: "automatch with one tracked player",
			match: Match{
				MatchType:     MatchTypeAutomatch,
				AxisPlayers:   []RosterEntry{{PlayerID: "p1"}},
				AlliesPlayers: []RosterEntry{{PlayerID: "p9"}},
			},
			want: ClassAutoMatch,
		},
		{
			name: "custom game with an untracked participant is discarded",
			match: Match{
				MatchType:     MatchTypeCustom,
				AxisPlayers:   []RosterEntry{{PlayerID: "p1"}, {PlayerID: "p9"}},
				AlliesPlayers: []RosterEntry{{PlayerID: "p2"}},
			},
			want: ClassDiscard,
		},
		{
			name: "automatch with no tracked participants is discarded",
			match: Match{
				MatchType:     MatchTypeAutomatch,
				AxisPlayers:   []RosterEntry{{PlayerID: "p8"}},
				AlliesPlayers: []RosterEntry{{PlayerID: "p9"}},
			},
			want: ClassDiscard,
		},
		{
			name: "custom game with an unresolved participant is discarded",
			match: Match{
				MatchType:   MatchTypeCustom,
				AxisPlayers: []RosterEntry{{PlayerID: "p1"}, {PlayerID: ""}},
			},
			want: ClassDiscard,
		},
		{
			name:  "custom game with no participants is discarded",
			match: Match{MatchType: MatchTypeCustom},
			want:  ClassDiscard,
		},
		{
			name:  "automatch with no participants is discarded",
			match: Match{MatchType: MatchTypeAutomatch},
			want:  ClassDiscard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&tt.match, tracked))
		})
	}
}

// Every input lands in one of the three classes; there is no fourth outcome.
func TestClassifyIsExhaustive(t *testing.T) {
	tracked := trackedSet("p1")
	matches := []Match{
		{MatchType: MatchTypeCustom, AxisPlayers: []RosterEntry{{PlayerID: "p1"}}},
		{MatchType: MatchTypeCustom, AxisPlayers: []RosterEntry{{PlayerID: "x"}}},
		{MatchType: MatchTypeAutomatch, AxisPlayers: []RosterEntry{{PlayerID: "p1"}}},
		{MatchType: MatchTypeAutomatch, AxisPlayers: []RosterEntry{{PlayerID: "x"}}},
		{},
	}

	for _, m := range matches {
		got := Classify(&m, tracked)
		assert.Contains(t, []Classification{ClassCustomGame, ClassAutoMatch, ClassDiscard}, got)
	}
}
