package fetch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mallorente/sejusaas/internal/config"
	"github.com/rs/zerolog"
)

// View selects which matches page of a player profile to load.
type View string

const (
	// ViewAll is the full match history page, used on a player's first check.
	ViewAll View = ""
	// ViewRecent is the recent-matches page, checked on every cycle.
	ViewRecent View = "recentMatches"
)

// Fetcher obtains the raw content of a player's matches page. The monitor
// treats any fetch error, timeouts included, as an empty result for the
// cycle; implementations enforce their own deadlines.
type Fetcher interface {
	Fetch(ctx context.Context, playerID, playerName string, view View) ([]byte, error)
}

// New selects the fetcher implementation from configuration.
func New(cfg *config.Config, logger zerolog.Logger) (Fetcher, error) {
	switch cfg.FetcherKind {
	case "http":
		return NewHTTPFetcher(cfg, logger), nil
	case "browser":
		return NewBrowserFetcher(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown fetcher kind %q", cfg.FetcherKind)
	}
}

func pageURL(baseURL, playerID, playerName string, view View) string {
	u := fmt.Sprintf("%s/players/%s/%s/matches", baseURL, url.PathEscape(playerID), url.PathEscape(playerName))
	if view != ViewAll {
		u += "?view=" + string(view)
	}
	return u
}
