package domain

import (
	"time"
)

type TrackedPlayer struct {
	PlayerID      string
	PlayerName    string
	AddedAt       time.Time
	LastCheckedAt *time.Time // nil until the first completed check
}

// RosterEntry is one participant slot on a match side. PlayerID may be empty
// when the site did not resolve the participant to a profile link.
type RosterEntry struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

type MatchType string

const (
	MatchTypeCustom    MatchType = "custom"
	MatchTypeAutomatch MatchType = "automatch"
)

type MatchResult string

const (
	ResultVictory MatchResult = "victory"
	ResultDefeat  MatchResult = "defeat"
	ResultUnknown MatchResult = "unknown"
)

// Extraction sources, ordered by confidence.
const (
	SourceNextData  = "nextdata"
	SourceTable     = "table"
	SourceHeuristic = "heuristic"
)

type Match struct {
	// SourceMatchID is whatever id the site reported, or empty. It is
	// diagnostic metadata only; deduplication is by Fingerprint.
	SourceMatchID string
	MatchDate     time.Time
	// RawDate is the date string exactly as extracted, before parsing.
	RawDate       string
	MatchType     MatchType
	MatchResult   MatchResult
	MapName       string
	Mode          string
	AxisPlayers   []RosterEntry
	AlliesPlayers []RosterEntry
	Source        string
	Fingerprint   string
	DiscoveredAt  time.Time
}

// Participants returns axis then allies entries in extraction order.
func (m *Match) Participants() []RosterEntry {
	out := make([]RosterEntry, 0, len(m.AxisPlayers)+len(m.AlliesPlayers))
	out = append(out, m.AxisPlayers...)
	out = append(out, m.AlliesPlayers...)
	return out
}
