package domain

type Classification string

const (
	ClassCustomGame Classification = "custom_game"
	ClassAutoMatch  Classification = "auto_match"
	ClassDiscard    Classification = "discard"
)

// Classify routes a match given the set of tracked player ids.
//
// A custom game is recorded only when every participant is tracked; a custom
// game that includes outsiders is discarded, not downgraded to an automatch.
// Any non-custom match with at least one tracked participant is an automatch.
func Classify(m *Match, tracked map[string]struct{}) Classification {
	participants := m.Participants()

	if m.MatchType == MatchTypeCustom {
		if len(participants) == 0 {
			return ClassDiscard
		}
		for _, p := range participants {
			if _, ok := tracked[p.PlayerID]; !ok {
				return ClassDiscard
			}
		}
		return ClassCustomGame
	}

	for _, p := range participants {
		if _, ok := tracked[p.PlayerID]; ok {
			return ClassAutoMatch
		}
	}
	return ClassDiscard
}
