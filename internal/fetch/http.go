package fetch

import (
	"context"
	"fmt"

	"github.com/mallorente/sejusaas/internal/config"
	"github.com/mallorente/sejusaas/internal/constants"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/valyala/fasthttp"
)

// HTTPFetcher loads pages with a plain HTTP client. It works whenever the
// site still server-renders the __NEXT_DATA__ blob into the initial payload.
type HTTPFetcher struct {
	client    *fasthttp.Client
	baseURL   string
	userAgent string
	logger    zerolog.Logger
}

func NewHTTPFetcher(cfg *config.Config, logger zerolog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client: &fasthttp.Client{
			MaxConnsPerHost: 10,
			ReadTimeout:     constants.FetchTimeout,
			WriteTimeout:    constants.FetchTimeout,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, playerID, playerName string, view View) ([]byte, error) {
	targetURL := pageURL(f.baseURL, playerID, playerName, view)

	var body []byte
	backoff := retry.WithMaxRetries(constants.FetchRetries, retry.NewConstant(constants.FetchRetryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(targetURL)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.SetUserAgent(f.userAgent)

		if err := f.client.DoTimeout(req, resp, constants.FetchTimeout); err != nil {
			f.logger.Warn().Err(err).Str("url", targetURL).Msg("fetch attempt failed")
			return retry.RetryableError(err)
		}

		status := resp.StatusCode()
		if status != fasthttp.StatusOK {
			err := fmt.Errorf("received status %d from %s", status, targetURL)
			if status >= 500 || status == fasthttp.StatusTooManyRequests {
				f.logger.Warn().Int("status", status).Str("url", targetURL).Msg("retryable fetch status")
				return retry.RetryableError(err)
			}
			return err
		}

		body = append([]byte(nil), resp.Body()...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", targetURL, err)
	}

	f.logger.Debug().Str("url", targetURL).Int("bytes", len(body)).Msg("page fetched")
	return body, nil
}
