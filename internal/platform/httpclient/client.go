// Package httpclient provides the HTTP client used to query routing data
// providers: bounded timeout, optional proxy, optional retry and typed
// status errors.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"webfigscan/internal/platform/errors"
	"webfigscan/internal/platform/logx"
)

// maxBodyBytes caps provider responses; prefix lists for the largest ASNs
// stay well below this.
const maxBodyBytes = 32 << 20

// Client is an HTTP client with optional retry and proxy support.
type Client struct {
	httpClient *http.Client
	logger     logx.Logger
	config     Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout is the request timeout duration.
	// Default: 15 seconds
	Timeout time.Duration

	// MaxRetries is the number of extra attempts on network errors and
	// 429/5xx. Default: 0 (provider fallback handles failures instead)
	MaxRetries int

	// RetryBackoff is the initial backoff, doubled on each retry.
	// Default: 1 second
	RetryBackoff time.Duration

	// MaxRetryBackoff caps the backoff.
	// Default: 10 seconds
	MaxRetryBackoff time.Duration

	// UserAgent is the User-Agent header value.
	UserAgent string

	// ProxyURL routes requests through socks5://, socks5h://, http:// or
	// https:// proxies. Empty means direct.
	ProxyURL string
}

// DefaultUserAgent identifies the scanner to providers.
const DefaultUserAgent = "webfigscan/1.0"

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         15 * time.Second,
		MaxRetries:      0,
		RetryBackoff:    1 * time.Second,
		MaxRetryBackoff: 10 * time.Second,
		UserAgent:       DefaultUserAgent,
	}
}

// New creates a client. Zero values fall back to DefaultConfig; an
// unusable ProxyURL is an error.
func New(config Config, logger logx.Logger) (*Client, error) {
	def := DefaultConfig()
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = def.RetryBackoff
	}
	if config.MaxRetryBackoff <= 0 {
		config.MaxRetryBackoff = def.MaxRetryBackoff
	}
	if config.UserAgent == "" {
		config.UserAgent = def.UserAgent
	}
	if logger == nil {
		logger = logx.Nop()
	}

	transport, err := newTransport(config.ProxyURL, config.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout, Transport: transport},
		logger:     logger.With("component", "httpclient"),
		config:     config,
	}, nil
}

// newTransport clones the default transport and wires the proxy. SOCKS
// proxies go through x/net/proxy; HTTP proxies use the transport's own
// CONNECT support.
func newTransport(proxyURL string, timeout time.Duration) (*http.Transport, error) {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = nil
	if proxyURL == "" {
		return tr, nil
	}

	u, err := url.Parse(proxyURL)
	if err != nil || u.Host == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid proxy url %q", proxyURL)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		tr.Proxy = http.ProxyURL(u)
	case "socks5", "socks5h":
		d, err := SOCKSDialer(u, &net.Dialer{Timeout: timeout})
		if err != nil {
			return nil, err
		}
		tr.DialContext = d.DialContext
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unsupported proxy scheme %q", u.Scheme)
	}
	return tr, nil
}

// SOCKSDialer builds a context-aware dialer that tunnels through the SOCKS5
// proxy at u, dialling the proxy itself with forward.
func SOCKSDialer(u *url.URL, forward proxy.Dialer) (proxy.ContextDialer, error) {
	d, err := proxy.FromURL(u, forward)
	if err != nil {
		return nil, errors.Wrapf(err, "socks proxy %s", u.Redacted())
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, errors.Errorf("socks proxy %s: dialer does not support contexts", u.Redacted())
	}
	return cd, nil
}

// Request performs an HTTP request, retrying on network errors and
// retryable statuses up to MaxRetries times.
func (c *Client) Request(ctx context.Context, method, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create request for %s %s", method, url)
		}

		req.Header.Set("User-Agent", c.config.UserAgent)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		c.logger.Debug("HTTP request",
			"method", method,
			"url", url,
			"attempt", attempt+1,
		)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			c.logger.Debug("HTTP request failed",
				"url", url,
				"attempt", attempt+1,
				"error", err.Error(),
				"duration_ms", duration.Milliseconds(),
			)
			lastErr = classifyTransport(err)
			if attempt >= c.config.MaxRetries || ctx.Err() != nil {
				break
			}
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, errors.Wrap(err, "backoff interrupted")
			}
			continue
		}

		c.logger.Debug("HTTP response received",
			"url", url,
			"status", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
		)

		if !isRetryableStatus(resp.StatusCode) || attempt >= c.config.MaxRetries {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = CheckStatus(resp)
		if err := c.backoff(ctx, attempt); err != nil {
			return nil, errors.Wrap(err, "backoff interrupted")
		}
	}

	return nil, errors.Wrapf(lastErr, "request failed after %d attempts", c.config.MaxRetries+1)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return c.Request(ctx, http.MethodGet, url, nil, headers)
}

// FetchJSON performs a GET with Accept: application/json and returns the
// body of a 2xx response.
func (c *Client) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, err
	}

	if err := CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, errors.Wrapf(err, "request to %s failed", url)
	}

	return ReadBody(resp)
}

// ReadBody reads at most maxBodyBytes of the response body and closes it.
func ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("response is nil")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	return body, nil
}

// CheckStatus maps non-2xx statuses to platform sentinels.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.New("response is nil")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return errors.ErrRateLimit
	case http.StatusNotFound:
		return errors.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.ErrUnauthorized
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusBadGateway:
		return errors.ErrServiceUnavailable
	default:
		return errors.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable,
		http.StatusGatewayTimeout, http.StatusBadGateway:
		return true
	default:
		return false
	}
}

func classifyTransport(err error) error {
	switch {
	case errors.IsTimeout(err):
		return errors.Mark(err, errors.ErrTimeout)
	default:
		return errors.Mark(err, errors.ErrConnectionFailed)
	}
}

// backoff waits RetryBackoff*2^attempt, capped at MaxRetryBackoff.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	backoff := c.config.RetryBackoff * time.Duration(math.Pow(2, float64(attempt)))
	if backoff > c.config.MaxRetryBackoff {
		backoff = c.config.MaxRetryBackoff
	}

	c.logger.Debug("backing off before retry",
		"attempt", attempt+1,
		"backoff_ms", backoff.Milliseconds(),
	)

	t := time.NewTimer(backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// String returns a human-readable representation of the client configuration.
func (c *Client) String() string {
	px := "direct"
	if c.config.ProxyURL != "" {
		px = "proxied"
	}
	return fmt.Sprintf("HTTPClient{timeout=%s, max_retries=%d, %s}",
		c.config.Timeout,
		c.config.MaxRetries,
		px,
	)
}
