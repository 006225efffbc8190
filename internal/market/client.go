package market

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"bist-screener/pkg/config"
	"bist-screener/pkg/httputil"
	"bist-screener/pkg/logger"
	"bist-screener/pkg/redis"
)

// Client fetches daily OHLCV bars from the Yahoo Finance chart API.
// Window and granularity are fixed configuration, not per-call
// tunables. Retrieval failures map to ErrUnavailable.
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	limiter    *rate.Limiter
	cfg        config.MarketConfig
	logger     *logger.Logger
}

// NewClient creates a bar fetcher. With Redis enabled, bars are
// cached per symbol and fetches share a sliding-window limit across
// processes; otherwise an in-process limiter bounds the request rate.
func NewClient(cfg *config.Config, log *logger.Logger, redisClient *redis.Client) *Client {
	// Failed symbols are skipped for the run, so HTTP retry stays off
	hc := httputil.New(log).DisableRetry()

	var limiter *rate.Limiter
	if redisClient.Enabled() {
		hc = hc.WithRateLimiter(redis.NewRateLimiter(redisClient, "screener"), redis.ChartRateLimit)
	} else {
		limiter = rate.NewLimiter(rate.Limit(cfg.Market.RateLimit), 1)
	}

	return &Client{
		httpClient: hc,
		cache:      redis.NewCache(redisClient, "screener"),
		limiter:    limiter,
		cfg:        cfg.Market,
		logger:     log,
	}
}

// Daily returns the trailing window of daily bars for a symbol,
// chronologically ordered, oldest first. Any failure, including an
// empty result, yields ErrUnavailable.
func (c *Client) Daily(ctx context.Context, symbol string) ([]Bar, error) {
	cacheKey := fmt.Sprintf("bars:%s:%s:%s", symbol, c.cfg.Range, c.cfg.Interval)

	var cached []Bar
	if found, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		c.logger.WithField("symbol", symbol).Debug("Bars served from cache")
		return cached, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, symbol, err)
		}
	}

	bars, err := c.fetch(ctx, symbol)
	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Bar fetch failed")
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, symbol, err)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s: empty result", ErrUnavailable, symbol)
	}

	if err := c.cache.Set(ctx, cacheKey, bars, c.cfg.CacheTTL); err != nil {
		c.logger.WithError(err).Warn("Bar cache write failed")
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched bars")

	return bars, nil
}

func (c *Client) fetch(ctx context.Context, symbol string) ([]Bar, error) {
	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.cfg.BaseURL, url.PathEscape(symbol),
		url.QueryEscape(c.cfg.Range), url.QueryEscape(c.cfg.Interval),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	return parseChartResponse(body)
}
