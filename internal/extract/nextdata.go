package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/mallorente/sejusaas/internal/domain"
)

// nextDataStrategy reads the page's embedded __NEXT_DATA__ JSON blob. This
// is the highest-confidence source, but the blob's internal shape has moved
// around across site revisions, so the match list is looked up under a fixed
// set of alternative key paths.
type nextDataStrategy struct{}

func (s *nextDataStrategy) Name() string { return domain.SourceNextData }

var nextDataPaths = [][]string{
	{"props", "pageProps", "matches"},
	{"props", "pageProps", "recentMatches"},
	{"props", "pageProps", "playerDataAPI", "matches"},
	{"props", "pageProps", "playerDataAPI", "recentMatches"},
	{"props", "pageProps", "playerData", "matches"},
	{"props", "pageProps", "playerData", "recentMatches"},
}

func (s *nextDataStrategy) Extract(page []byte, playerID, playerName string) ([]domain.Match, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	script := doc.Find("script#__NEXT_DATA__").First()
	if script.Length() == 0 {
		return nil, nil
	}

	var root map[string]any
	if err := json.Unmarshal([]byte(script.Text()), &root); err != nil {
		return nil, fmt.Errorf("failed to decode __NEXT_DATA__: %w", err)
	}

	items := findMatchList(root)
	if len(items) == 0 {
		return nil, nil
	}

	var matches []domain.Match
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		matches = append(matches, normalize(mapNextDataMatch(entry), domain.SourceNextData))
	}
	return matches, nil
}

func findMatchList(root map[string]any) []any {
	for _, path := range nextDataPaths {
		if list, ok := digSlice(root, path...); ok {
			return list
		}
	}

	// Newer revisions tuck page data into react-query's dehydrated state.
	queries, ok := digSlice(root, "props", "pageProps", "dehydratedState", "queries")
	if !ok {
		return nil
	}
	for _, q := range queries {
		qm, ok := q.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range []string{"matches", "recentMatches"} {
			if list, ok := digSlice(qm, "state", "data", key); ok {
				return list
			}
		}
	}
	return nil
}

func mapNextDataMatch(entry map[string]any) rawMatch {
	raw := rawMatch{
		sourceID:  stringField(entry, "matchId", "id"),
		date:      stringField(entry, "date", "matchDate"),
		matchType: stringField(entry, "matchtype", "matchtype_id", "type", "matchType"),
		result:    stringField(entry, "result", "outcome", "resulttype"),
		mapName:   stringField(entry, "mapname", "map", "mapName"),
		mode:      stringField(entry, "mode", "matchtype"),
	}

	if ts, ok := numberField(entry, "completiontime", "startgametime", "timestamp", "startTime", "completionTime"); ok {
		raw.unixDate = int64(ts)
	}

	if reports, ok := entry["matchhistoryreportresults"].([]any); ok {
		for _, r := range reports {
			report, ok := r.(map[string]any)
			if !ok {
				continue
			}
			p := domain.RosterEntry{
				PlayerID:   stringField(report, "profile_id"),
				PlayerName: stringField(report, "name", "playerName"),
			}
			if profile, ok := report["profile"].(map[string]any); ok && p.PlayerName == "" {
				p.PlayerName = stringField(profile, "name")
			}
			// Wehrmacht (0) and DAK (3) play axis; US and British play allies.
			if race, ok := numberField(report, "race_id"); ok && (race == 0 || race == 3) {
				raw.axis = append(raw.axis, p)
			} else {
				raw.allies = append(raw.allies, p)
			}
		}
		return raw
	}

	// Generic player lists carry no side information; the fingerprint is
	// side-invariant, so park them all on axis.
	for _, key := range []string{"players", "members"} {
		list, ok := entry[key].([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			switch v := item.(type) {
			case map[string]any:
				raw.axis = append(raw.axis, domain.RosterEntry{
					PlayerID:   stringField(v, "profile_id", "id", "playerId"),
					PlayerName: stringField(v, "name", "playerName"),
				})
			case string:
				raw.axis = append(raw.axis, domain.RosterEntry{PlayerName: v})
			}
		}
		break
	}
	return raw
}

func digSlice(root map[string]any, path ...string) ([]any, bool) {
	current := any(root)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	list, ok := current.([]any)
	return list, ok && len(list) > 0
}

func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func numberField(m map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return v, true
		case string:
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
