// Package binance is the resilient client for the Binance spot REST API.
// It owns a pooled connection manager, applies the bounded retry/backoff
// policy, classifies failures into the error taxonomy, and parses successful
// responses into domain models. Inputs are assumed to be validated already.
package binance

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"marketlens/internal/domain"
)

const (
	defaultBaseURL                = "https://api.binance.com/api/v3"
	defaultTimeout                = 10 * time.Second
	defaultMaxRetries             = 3
	defaultBaseRetryDelay         = 100 * time.Millisecond
	defaultConnectionLimit        = 100
	defaultConnectionLimitPerHost = 30
	defaultDNSCacheTTL            = 5 * time.Minute
	defaultUserAgent              = "marketlens/1.0.0"

	// Largest body we are willing to read; a 1000-row klines response is
	// well under 1MiB.
	maxResponseBytes = 4 << 20
)

// Config is the immutable client configuration. Zero fields take defaults.
type Config struct {
	BaseURL                string
	Timeout                time.Duration // per attempt, restarted on retry
	MaxRetries             int           // retries after the first attempt
	BaseRetryDelay         time.Duration
	ConnectionLimit        int
	ConnectionLimitPerHost int
	DNSCacheTTL            time.Duration // max idle lifetime of a pooled connection
	UserAgent              string
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.BaseRetryDelay <= 0 {
		c.BaseRetryDelay = defaultBaseRetryDelay
	}
	if c.ConnectionLimit <= 0 {
		c.ConnectionLimit = defaultConnectionLimit
	}
	if c.ConnectionLimitPerHost <= 0 {
		c.ConnectionLimitPerHost = defaultConnectionLimitPerHost
	}
	if c.DNSCacheTTL <= 0 {
		c.DNSCacheTTL = defaultDNSCacheTTL
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		c.UserAgent = defaultUserAgent
	}
	return c
}

// Client issues GETs against the upstream with connection reuse and bounded
// retries. One Client is safe for concurrent use; close it once, at shutdown.
type Client struct {
	cfg        Config
	httpClient *http.Client
	tracer     trace.Tracer

	// replaced in tests to observe backoff without sleeping
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg Config, tracer trace.Tracer) *Client {
	cfg = cfg.withDefaults()
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.ConnectionLimit,
		MaxConnsPerHost:     cfg.ConnectionLimitPerHost,
		MaxIdleConnsPerHost: cfg.ConnectionLimitPerHost,
		IdleConnTimeout:     cfg.DNSCacheTTL,
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Transport: transport},
		tracer:     tracer,
		sleep:      sleepContext,
	}
}

// Close releases pooled connections. In-flight requests finish normally.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// fetchJSON runs the retry state machine for one endpoint. decode is called
// with the body of a 200 response and must return a parse-kind error when the
// payload fails model validation.
func (c *Client) fetchJSON(ctx context.Context, op, endpoint string, query url.Values, decode func(body []byte) *domain.Error) error {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "binance."+op)
		span.SetAttributes(attribute.String("upstream.endpoint", endpoint))
		defer span.End()
	}

	maxAttempts := c.cfg.MaxRetries + 1
	var last *domain.Error
	for attempt := 1; ; attempt++ {
		attemptErr, retryAfter := c.attempt(ctx, u, decode)
		if attemptErr == nil {
			return nil
		}
		attemptErr.Op = op
		attemptErr.URL = u
		attemptErr.Attempts = attempt
		last = attemptErr

		if !attemptErr.Retryable() || attempt >= maxAttempts {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if err := c.sleep(ctx, backoffDelay(c.cfg.BaseRetryDelay, attempt, retryAfter)); err != nil {
			return &domain.Error{
				Kind:     domain.ErrKindNetwork,
				Op:       op,
				URL:      u,
				Attempts: attempt,
				Message:  "cancelled while waiting to retry",
				Err:      err,
			}
		}
	}
	return last
}

// attempt performs one request with its own timeout and classifies the
// outcome. retryAfter is non-zero only for rate-limit responses that carried
// a Retry-After header.
func (c *Client) attempt(ctx context.Context, u string, decode func(body []byte) *domain.Error) (attemptErr *domain.Error, retryAfter time.Duration) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, u, nil)
	if err != nil {
		return &domain.Error{Kind: domain.ErrKindNetwork, Message: "building request", Err: err}, 0
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return &domain.Error{Kind: domain.ErrKindNetwork, Message: "request cancelled", Err: ctx.Err()}, 0
		}
		return &domain.Error{Kind: domain.ErrKindNetwork, Message: "request failed", Err: err}, 0
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctx.Err() != nil {
			return &domain.Error{Kind: domain.ErrKindNetwork, Message: "request cancelled", Err: ctx.Err()}, 0
		}
		return &domain.Error{Kind: domain.ErrKindNetwork, Message: "reading response body", Err: err}, 0
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if derr := decode(body); derr != nil {
			return derr, 0
		}
		return nil, 0
	case resp.StatusCode == http.StatusTooManyRequests:
		return &domain.Error{
			Kind:    domain.ErrKindUpstreamClient,
			Status:  resp.StatusCode,
			Message: "rate limited",
		}, headerRetryAfter(resp.Header)
	case resp.StatusCode >= 500:
		return &domain.Error{
			Kind:    domain.ErrKindUpstreamServer,
			Status:  resp.StatusCode,
			Message: trimBody(body),
		}, 0
	case resp.StatusCode >= 400:
		return &domain.Error{
			Kind:    domain.ErrKindUpstreamClient,
			Status:  resp.StatusCode,
			Message: trimBody(body),
		}, 0
	default:
		return &domain.Error{
			Kind:    domain.ErrKindUpstreamServer,
			Status:  resp.StatusCode,
			Message: "unexpected status",
		}, 0
	}
}

// backoffDelay is base*2^(attempt-1), or the upstream's Retry-After hint
// when it asks for longer.
func backoffDelay(base time.Duration, attempt int, retryAfter time.Duration) time.Duration {
	delay := base << (attempt - 1)
	if retryAfter > delay {
		return retryAfter
	}
	return delay
}

func headerRetryAfter(h http.Header) time.Duration {
	raw := strings.TrimSpace(h.Get("Retry-After"))
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// trimBody caps the upstream body carried in error messages, cutting on a
// rune boundary.
func trimBody(body []byte) string {
	const maxLen = 256
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		s = strings.ToValidUTF8(s[:maxLen], "") + "..."
	}
	return s
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
