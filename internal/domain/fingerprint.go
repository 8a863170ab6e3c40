package domain

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// Fingerprint derives the deduplication key for a match from its participant
// set and date. Participant ids from both sides are sorted before hashing, so
// the same real match observed through another player's page, or with sides
// reported in a different order, hashes identically. Unresolved participants
// contribute an empty string rather than being dropped, so two matches that
// differ only by an unresolved slot do not collide.
func Fingerprint(m *Match) string {
	participants := m.Participants()
	ids := make([]string, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.PlayerID)
	}
	sort.Strings(ids)

	date := m.RawDate
	if date == "" && !m.MatchDate.IsZero() {
		date = m.MatchDate.UTC().Format("2006-01-02 15:04:05")
	}

	sum := md5.Sum([]byte(strings.Join(ids, "|") + "|" + date))
	return hex.EncodeToString(sum[:])
}
