package service

import (
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"
)

const (
	defaultAttempts    = 5
	defaultBackoffBase = 600 * time.Millisecond
	defaultTimeout     = 12 * time.Second

	rateLimitedCap = 30 * time.Second
	failureCap     = 10 * time.Second
	userAgent      = "tg-signal-bot/1.1"
)

// Options — параметры клиента без привязки к конфигу приложения (для cmd/scan и тестов).
type Options struct {
	APIBase     string
	SpotBase    string
	RPS         float64
	HTTP        *http.Client
	Attempts    int
	BackoffBase time.Duration
}

// Client — REST-клиент публичного рынка Binance (фьючерсы или спот).
type Client struct {
	http     *http.Client
	base     string
	spotBase string
	limiter  *rate.Limiter

	attempts    int
	backoffBase time.Duration

	// jitter(max) — случайная добавка к паузе в [0, max).
	jitter func(max time.Duration) time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg *config.Config) *Client {
	return New(Options{
		APIBase:  cfg.Binance.APIBase,
		SpotBase: cfg.Binance.SpotBase,
		RPS:      cfg.Binance.RPS,
	})
}

func New(opts Options) *Client {
	if opts.HTTP == nil {
		opts.HTTP = &http.Client{Timeout: defaultTimeout}
	}
	if opts.Attempts <= 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = defaultBackoffBase
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	return &Client{
		http:        opts.HTTP,
		base:        opts.APIBase,
		spotBase:    opts.SpotBase,
		limiter:     rate.NewLimiter(limit, 1),
		attempts:    opts.Attempts,
		backoffBase: opts.BackoffBase,
		jitter: func(max time.Duration) time.Duration {
			return time.Duration(rand.Int64N(int64(max)))
		},
		sleep: sleepCtx,
	}
}

// getJSON делает GET с фолбэком фьючерсы -> спот и декодирует ответ в dst.
func (c *Client) getJSON(ctx context.Context, ep endpoint, q url.Values, dst any) error {
	err := c.getWithRetry(ctx, withQuery(endpointURL(c.base, ep), q), dst)
	if err == nil || ctx.Err() != nil || !isFuturesBase(c.base) || c.spotBase == "" {
		return err
	}

	// С облачных IP фьючерсный API часто недоступен.
	logger.Warn("[BINANCE] %s: futures failed, falling back to spot: %v", ep, err)
	return c.getWithRetry(ctx, withQuery(endpointURL(c.spotBase, ep), q), dst)
}

func (c *Client) getWithRetry(ctx context.Context, u string, dst any) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "binance.get")
	defer span.Finish()
	ext.HTTPUrl.Set(span, u)

	var last *FetchError
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "binance rate limiter")
		}

		status, body, err := c.do(ctx, u)
		if err == nil && status == http.StatusOK {
			if err = sonic.Unmarshal(body, dst); err == nil {
				ext.HTTPStatusCode.Set(span, uint16(status))
				return nil
			}
			err = errors.Wrap(err, "decode response")
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		last = &FetchError{
			URL:         u,
			Status:      status,
			Attempts:    attempt,
			RateLimited: status == http.StatusTeapot || status == http.StatusTooManyRequests,
			Err:         err,
		}
		if status != http.StatusOK {
			last.Body = truncate(body, maxErrBody)
		}
		if attempt == c.attempts {
			break
		}

		wait := c.backoff(attempt, last.RateLimited)
		logger.Debug("[BINANCE] attempt %d/%d for %s failed (status=%d), retry in %s", attempt, c.attempts, u, status, wait)
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
	}

	ext.Error.Set(span, true)
	span.SetTag("attempts", last.Attempts)
	return last
}

// backoff: base·2^(n-1) плюс джиттер; для 418/429 потолок и джиттер больше.
func (c *Client) backoff(attempt int, rateLimited bool) time.Duration {
	d := c.backoffBase << (attempt - 1)
	if rateLimited {
		return min(rateLimitedCap, d+c.jitter(time.Second))
	}
	return min(failureCap, d+c.jitter(500*time.Millisecond))
}

func (c *Client) do(ctx context.Context, u string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, errors.Wrap(err, "read body")
	}
	return resp.StatusCode, b, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
