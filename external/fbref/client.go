// Package fbref fetches FBref match reports over HTTP or from a local archive.
package fbref

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/nwsl-stats/internal/platform/logging"
	"github.com/riskibarqy/nwsl-stats/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL      = "https://fbref.com"
	defaultUserAgent    = "nwsl-stats/1.0 (+historical match ingestion)"
	defaultMaxBodyBytes = 8 << 20
)

var (
	ErrNotFound       = crerr.New("match report not found")
	ErrRateLimited    = crerr.New("source rate limited the request")
	ErrUpstream       = crerr.New("source failed to serve the request")
	ErrBodyTooLarge   = crerr.New("match report exceeds size limit")
	ErrCircuitOpen    = resilience.ErrCircuitOpen
	errInvalidMatchID = crerr.New("invalid match id")
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	UserAgent      string
	MaxBodyBytes   int64
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches match reports from FBref. Concurrent requests for the same
// match share one round trip.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	userAgent    string
	maxBodyBytes int64
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       resilience.Group[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		userAgent:    userAgent,
		maxBodyBytes: maxBody,
		logger:       logger,
		breaker:      resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

// Fetch downloads the match report page. It never retries; the caller owns the
// retry policy.
func (c *Client) Fetch(ctx context.Context, matchID string) ([]byte, error) {
	matchID, err := cleanMatchID(matchID)
	if err != nil {
		return nil, err
	}

	fullURL := c.baseURL + "/en/matches/" + url.PathEscape(matchID)
	raw, err, shared := c.flight.Do(matchID, func() ([]byte, error) {
		var out []byte
		execErr := c.breaker.Execute(ctx, func(ctx context.Context) error {
			var reqErr error
			out, reqErr = c.get(ctx, fullURL)
			return reqErr
		}, tripsBreaker)
		return out, execErr
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "fbref circuit breaker rejected request", "match_id", matchID, "state", c.breaker.State())
		}
		return nil, err
	}
	if shared {
		raw = append([]byte(nil), raw...)
	}
	return raw, nil
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "text/html")
	req.Header.Set("user-agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Mark(crerr.Wrapf(err, "get %s", fullURL), ErrUpstream)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, c.maxBodyBytes+1)); err != nil {
		return nil, crerr.Mark(crerr.Wrapf(err, "read body of %s", fullURL), ErrUpstream)
	}

	if err := classifyStatus(resp.StatusCode, fullURL); err != nil {
		c.logger.DebugContext(ctx, "fbref request rejected", "url", fullURL, "status", resp.StatusCode)
		return nil, err
	}
	if int64(buf.Len()) > c.maxBodyBytes {
		return nil, crerr.Mark(crerr.Newf("%s is larger than %d bytes", fullURL, c.maxBodyBytes), ErrBodyTooLarge)
	}

	return append([]byte(nil), buf.Bytes()...), nil
}

func classifyStatus(code int, fullURL string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return crerr.Mark(crerr.Newf("%s: status=%d", fullURL, code), ErrNotFound)
	case code == http.StatusTooManyRequests:
		return crerr.Mark(crerr.Newf("%s: status=%d", fullURL, code), ErrRateLimited)
	default:
		return crerr.Mark(crerr.Newf("%s: status=%d", fullURL, code), ErrUpstream)
	}
}

// tripsBreaker counts only failures that say the source itself is unhealthy.
func tripsBreaker(err error) bool {
	return crerr.Is(err, ErrUpstream) || crerr.Is(err, ErrRateLimited)
}

func cleanMatchID(matchID string) (string, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" || strings.ContainsAny(matchID, `/\`) || matchID == "." || matchID == ".." {
		return "", crerr.Mark(fmt.Errorf("match id %q", matchID), errInvalidMatchID)
	}
	return matchID, nil
}
