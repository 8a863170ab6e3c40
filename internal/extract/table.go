package extract

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mallorente/sejusaas/internal/domain"
)

// tableStrategy scrapes the rendered match table. Cell positions are fixed:
// played, result, axis players, allies players, map, mode/duration.
type tableStrategy struct{}

func (s *tableStrategy) Name() string { return domain.SourceTable }

var profileHrefRegex = regexp.MustCompile(`/players/(\d+)`)

const minMatchRowCells = 6

func (s *tableStrategy) Extract(page []byte, playerID, playerName string) ([]domain.Match, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	var matches []domain.Match
	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}

		cells := row.Find("td")
		if cells.Length() < minMatchRowCells {
			return
		}

		modeText := cellText(cells, 5)
		raw := rawMatch{
			sourceID:  rowDigest(row),
			date:      cellText(cells, 0),
			result:    cellText(cells, 1),
			mapName:   cellText(cells, 4),
			matchType: firstToken(modeText),
			mode:      modeText,
			axis:      playersFromCell(cells.Eq(2)),
			allies:    playersFromCell(cells.Eq(3)),
		}
		matches = append(matches, normalize(raw, domain.SourceTable))
	})

	return matches, nil
}

// playersFromCell resolves each participant through its profile link; the
// numeric id lives in the href.
func playersFromCell(cell *goquery.Selection) []domain.RosterEntry {
	var players []domain.RosterEntry
	cell.Find("a").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		groups := profileHrefRegex.FindStringSubmatch(href)
		if groups == nil {
			return
		}
		players = append(players, domain.RosterEntry{
			PlayerID:   groups[1],
			PlayerName: strings.TrimSpace(link.Text()),
		})
	})
	return players
}

func cellText(cells *goquery.Selection, i int) string {
	return strings.TrimSpace(cells.Eq(i).Text())
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// rowDigest stands in for the match id the table does not expose. It is
// diagnostic only and never used for deduplication.
func rowDigest(row *goquery.Selection) string {
	sum := md5.Sum([]byte(strings.TrimSpace(row.Text())))
	return hex.EncodeToString(sum[:])
}
