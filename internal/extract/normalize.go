package extract

import (
	"strconv"
	"strings"
	"time"

	"github.com/mallorente/sejusaas/internal/domain"
)

// rawMatch is the loose shape every strategy produces before normalization.
// Fields hold whatever text the page offered; normalize maps them onto the
// canonical match.
type rawMatch struct {
	sourceID  string
	date      string
	unixDate  int64
	matchType string
	result    string
	mapName   string
	mode      string
	axis      []domain.RosterEntry
	allies    []domain.RosterEntry
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"Jan 2, 2006 3:04 PM",
}

// normalize turns a raw extraction record into the canonical match shape.
// It never fails: fields that cannot be interpreted degrade to their unknown
// values rather than dropping the record.
func normalize(raw rawMatch, source string) domain.Match {
	m := domain.Match{
		SourceMatchID: raw.sourceID,
		RawDate:       raw.date,
		MatchType:     parseMatchType(raw.matchType),
		MatchResult:   parseResult(raw.result),
		MapName:       raw.mapName,
		Mode:          raw.mode,
		AxisPlayers:   raw.axis,
		AlliesPlayers: raw.allies,
		Source:        source,
		DiscoveredAt:  time.Now().UTC(),
	}

	if raw.unixDate > 0 {
		m.MatchDate = time.Unix(raw.unixDate, 0).UTC()
		if m.RawDate == "" {
			m.RawDate = strconv.FormatInt(raw.unixDate, 10)
		}
	} else if raw.date != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw.date); err == nil {
				m.MatchDate = t.UTC()
				break
			}
		}
	}

	return m
}

// parseMatchType derives the type from free text. The site has reported the
// type both as a word ("Custom", "1v1 Automatch") and as a numeric id where
// 0 means custom.
func parseMatchType(s string) domain.MatchType {
	trimmed := strings.TrimSpace(s)
	if trimmed == "0" || strings.Contains(strings.ToLower(trimmed), "custom") {
		return domain.MatchTypeCustom
	}
	return domain.MatchTypeAutomatch
}

// parseResult reads the result indicator. Scores are never used to guess an
// outcome; anything that is not an explicit victory or defeat stays unknown.
func parseResult(s string) domain.MatchResult {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(lower, "victory") || strings.Contains(lower, "win"):
		return domain.ResultVictory
	case strings.Contains(lower, "defeat") || strings.Contains(lower, "loss"):
		return domain.ResultDefeat
	default:
		return domain.ResultUnknown
	}
}
