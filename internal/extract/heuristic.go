package extract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mallorente/sejusaas/internal/domain"
)

// heuristicStrategy is the last resort when the page has neither the data
// blob nor a match table. It scans the visible text for name-shaped tokens
// trailing a rating marker. The result is a single low-confidence record
// with no source id and no reliable date, or nothing at all.
type heuristicStrategy struct{}

func (s *heuristicStrategy) Name() string { return domain.SourceHeuristic }

// The site renders a participant as rating, signed delta, then the name,
// e.g. "1520+31seju-alpha". Names with inner spaces are cut at the first
// space; this strategy trades precision for not missing the match entirely.
var ratingNameRegex = regexp.MustCompile(`\d+[+\-*]\d*([A-Za-z][A-Za-z0-9\-_.]{2,30})`)

func (s *heuristicStrategy) Extract(page []byte, playerID, playerName string) ([]domain.Match, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}
	text := doc.Text()

	seen := map[string]struct{}{}
	var roster []domain.RosterEntry

	if playerName != "" && strings.Contains(text, playerName) {
		seen[playerName] = struct{}{}
		roster = append(roster, domain.RosterEntry{PlayerID: playerID, PlayerName: playerName})
	}

	for _, groups := range ratingNameRegex.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(groups[1])
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		roster = append(roster, domain.RosterEntry{PlayerName: name})
	}

	// A match needs opponents; a lone name is just page chrome.
	if len(roster) < 2 {
		return nil, nil
	}

	raw := rawMatch{
		matchType: matchTypeHint(text),
		axis:      roster,
	}
	return []domain.Match{normalize(raw, domain.SourceHeuristic)}, nil
}

func matchTypeHint(text string) string {
	if strings.Contains(strings.ToLower(text), "custom") {
		return "custom"
	}
	return "automatch"
}
