package fetch

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/mallorente/sejusaas/internal/config"
	"github.com/mallorente/sejusaas/internal/constants"
	"github.com/rs/zerolog"
)

// BrowserFetcher renders pages in headless Chrome. Needed when the site
// stops server-rendering match data and the table only exists after
// client-side hydration.
type BrowserFetcher struct {
	baseURL   string
	userAgent string
	logger    zerolog.Logger
}

func NewBrowserFetcher(cfg *config.Config, logger zerolog.Logger) *BrowserFetcher {
	return &BrowserFetcher{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, playerID, playerName string, view View) ([]byte, error) {
	targetURL := pageURL(f.baseURL, playerID, playerName, view)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(f.userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, constants.BrowserTimeout)
	defer cancelRun()

	f.logger.Debug().Str("url", targetURL).Msg("navigating")

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", targetURL, err)
	}

	f.logger.Debug().Str("url", targetURL).Int("bytes", len(html)).Msg("page rendered")
	return []byte(html), nil
}
