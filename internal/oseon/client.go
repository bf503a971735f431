package oseon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blechwerk/oseon-mcp/internal/observability"
)

// API endpoints consumed by this server. All access is read-only.
const (
	EndpointCustomerOrders   = "/api/v2/sales/customerOrders"
	EndpointProductionOrders = "/api/v2/pps/productionOrders/full/search"
)

// CustomerOrderDetailsEndpoint builds the single-record detail path.
func CustomerOrderDetailsEndpoint(orderNo string) string {
	return EndpointCustomerOrders + "/" + url.PathEscape(orderNo)
}

// Config carries the connection settings for one Oseon deployment.
// Immutable after construction; the client never mutates it.
type Config struct {
	BaseURL        string
	Username       string
	Password       string
	APIVersion     string
	UserHeader     string
	TerminalHeader string
	Timeout        time.Duration
}

// Client is an authenticated HTTP client for the Oseon API. One logical
// GET per call, no retries, no connection state shared across calls
// beyond the transport's own pooling.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient constructs a client. Metrics may be nil.
func NewClient(cfg Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// Request performs one authenticated GET against the given endpoint and
// returns the raw response body. Failures are classified into the
// package's error taxonomy by HTTP status class.
func (c *Client) Request(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	target := strings.TrimRight(c.cfg.BaseURL, "/") + endpoint
	if len(params) > 0 {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		target += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrConnection, err)
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIVersion != "" {
		req.Header.Set("api-version", c.cfg.APIVersion)
	}
	if c.cfg.UserHeader != "" {
		req.Header.Set("Trumpf-User", c.cfg.UserHeader)
	}
	if c.cfg.TerminalHeader != "" {
		req.Header.Set("Trumpf-Terminal", c.cfg.TerminalHeader)
	}

	if c.logger != nil {
		c.logger.Debug("oseon request", slog.String("endpoint", endpoint), slog.Any("params", params))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveBackendRequest(endpoint, "connection_error", time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := classifyStatus(resp.StatusCode, endpoint); err != nil {
		c.metrics.ObserveBackendRequest(endpoint, outcomeFor(err), time.Since(start))
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveBackendRequest(endpoint, "connection_error", time.Since(start))
		return nil, fmt.Errorf("%w: read body: %v", ErrConnection, err)
	}

	c.metrics.ObserveBackendRequest(endpoint, "ok", time.Since(start))
	return body, nil
}

// Health probes connectivity and credentials with a minimal query.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.Request(ctx, EndpointCustomerOrders, map[string]string{"size": "1", "page": "0"})
	return err
}

func classifyStatus(status int, endpoint string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w (status %d), check credentials", ErrAuthentication, status)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, endpoint)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w, retry later", ErrRateLimit)
	case status >= 500:
		return fmt.Errorf("%w (status %d)", ErrServer, status)
	default:
		return fmt.Errorf("%w: request failed with status %d", ErrConnection, status)
	}
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuthentication):
		return "auth_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimit):
		return "rate_limited"
	case errors.Is(err, ErrServer):
		return "server_error"
	default:
		return "connection_error"
	}
}
