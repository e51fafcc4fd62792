package api

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
)

const (
	defaultTimeout     = 60 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = time.Second
	maxPayloadBytes    = 256 << 20
)

// Feed names used in logs and metrics
const (
	FeedGameData = "game_data"
	FeedMarket   = "market"
)

// FeedConfig holds the endpoints and resilience settings of the feed client
type FeedConfig struct {
	GameDataURL       string
	MarketURL         string
	Timeout           time.Duration
	MaxRetries        int
	BackoffBase       time.Duration
	RequestsPerSecond float64
	Burst             int
	BreakerFailures   int
	BreakerCoolDown   time.Duration
}

// FetchObserver receives the outcome of every feed fetch
type FetchObserver interface {
	RecordFetch(feed, status string, duration time.Duration, bytes int)
	RecordCircuitState(state string)
}

// FeedClient downloads the game-rules and market feeds over HTTP with rate
// limiting, retries with jittered exponential back-off and a circuit breaker
type FeedClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     *CircuitBreaker
	gameDataURL string
	marketURL   string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
	observer    FetchObserver
}

var _ common.FeedClient = (*FeedClient)(nil)

// NewFeedClient creates a feed client; a nil clock uses the real clock and observer may be nil
func NewFeedClient(cfg FeedConfig, clock shared.Clock, observer FetchObserver) *FeedClient {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 2
	}
	if cfg.BreakerFailures <= 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCoolDown <= 0 {
		cfg.BreakerCoolDown = time.Minute
	}

	breaker := NewCircuitBreaker(cfg.BreakerFailures, cfg.BreakerCoolDown, clock)
	if observer != nil {
		breaker.OnStateChange(func(state CircuitState) { observer.RecordCircuitState(state.String()) })
	}
	return &FeedClient{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker:     breaker,
		gameDataURL: cfg.GameDataURL,
		marketURL:   cfg.MarketURL,
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
		clock:       clock,
		observer:    observer,
	}
}

// FetchGameData downloads the game-rules feed
func (c *FeedClient) FetchGameData(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, FeedGameData, c.gameDataURL)
}

// FetchMarket downloads the market feed
func (c *FeedClient) FetchMarket(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, FeedMarket, c.marketURL)
}

// Breaker exposes the circuit breaker for health reporting
func (c *FeedClient) Breaker() *CircuitBreaker {
	return c.breaker
}

func (c *FeedClient) fetch(ctx context.Context, feed, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("no URL configured for %s feed", feed)
	}

	start := c.clock.Now()
	var payload []byte
	err := c.breaker.Call(func() error {
		var err error
		payload, err = c.get(ctx, url)
		return err
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	if c.observer != nil {
		c.observer.RecordFetch(feed, status, c.clock.Now().Sub(start), len(payload))
	}

	logger := common.LoggerFromContext(ctx)
	if err != nil {
		logger.Log("ERROR", "Feed fetch failed", map[string]interface{}{
			"feed":  feed,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to fetch %s feed: %w", feed, err)
	}
	logger.Log("DEBUG", "Feed fetched", map[string]interface{}{
		"feed":  feed,
		"bytes": len(payload),
	})
	return payload, nil
}

// get performs a GET with retries. Network errors, 429 and 5xx are retried;
// other non-2xx statuses fail immediately.
func (c *FeedClient) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		body, retryAfter, err := c.do(req)
		if err == nil {
			return body, nil
		}
		if _, retryable := err.(*retryableError); !retryable {
			return nil, err
		}
		lastErr = err

		if attempt >= c.maxRetries {
			break
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		}

		delay := addJitter(c.backoffBase * time.Duration(1<<attempt))
		if retryAfter > 0 {
			delay = retryAfter
		}
		c.clock.Sleep(delay)
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// do executes one attempt and classifies its failure
func (c *FeedClient) do(req *http.Request) ([]byte, time.Duration, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &retryableError{message: fmt.Sprintf("network error: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, 0, &retryableError{message: fmt.Sprintf("failed to read response: %v", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		var retryAfter time.Duration
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			retryAfter = time.Duration(seconds) * time.Second
		}
		return nil, retryAfter, &retryableError{message: "rate limited (429)", retryAfter: retryAfter}
	case resp.StatusCode >= 500:
		return nil, 0, &retryableError{message: fmt.Sprintf("server error (%d)", resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, 0, fmt.Errorf("feed error (status %d): %s", resp.StatusCode, truncate(body, 200))
	}
	return body, 0, nil
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}

// addJitter spreads a back-off delay by up to ±25%
func addJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	jitter := time.Duration(rand.Int63n(int64(d)/2+1)) - d/4
	return d + jitter
}

// retryableError marks a failure worth another attempt
type retryableError struct {
	message    string
	retryAfter time.Duration
}

func (e *retryableError) Error() string {
	return e.message
}
