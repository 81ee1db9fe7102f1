// Package client implements the HTTP client for the food-ordering API.
//
// All six boundary calls are JSON over HTTP against fixed paths; any
// status outside the 2xx range is a failure regardless of body content.
// No authentication header is attached; session management is an
// external collaborator.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/foodworks/orderflow/core"
	"github.com/foodworks/orderflow/resilience"
	"github.com/foodworks/orderflow/telemetry"
)

// maxErrorBody caps how much of an error response body is carried into
// error messages.
const maxErrorBody = 512

// Client talks to the ordering backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     core.Logger
	breaker    *resilience.CircuitBreaker
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The caller owns
// timeout configuration in that case.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every request. Timed-out calls surface
// core.ErrRequestTimeout rather than hanging indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger configures the client logger.
func WithLogger(logger core.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCircuitBreaker guards all calls with the given breaker.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *Client) {
		c.breaker = cb
	}
}

// New creates a Client for the API rooted at baseURL. The transport is
// instrumented for trace propagation and the default timeout is 15s.
func New(baseURL string, opts ...Option) *Client {
	hc := telemetry.NewTracedHTTPClient(nil)
	hc.Timeout = 15 * time.Second

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		logger:     &core.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListMenuItems fetches the full catalog.
func (c *Client) ListMenuItems(ctx context.Context) ([]core.MenuItem, error) {
	var items []core.MenuItem
	if err := c.do(ctx, "client.ListMenuItems", http.MethodGet, "/api/menuitems", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateOrder posts the phase-1 order record and returns the created
// order. A 2xx response that carries no order id is a contract
// violation and fails with core.ErrMissingOrderID: an order the client
// cannot link to is unusable even though the call nominally succeeded.
func (c *Client) CreateOrder(ctx context.Context, req core.OrderRequest) (core.Order, error) {
	const op = "client.CreateOrder"

	// The id must be visible before committing to a typed decode, so
	// decode into a raw envelope first.
	var raw struct {
		ID *int `json:"id"`
		core.Order
	}
	if err := c.do(ctx, op, http.MethodPost, "/api/orders", req, &raw); err != nil {
		return core.Order{}, err
	}
	if raw.ID == nil || *raw.ID == 0 {
		return core.Order{}, core.NewError(op, core.KindDataIntegrity, core.ErrMissingOrderID)
	}
	order := raw.Order
	order.ID = *raw.ID
	return order, nil
}

// AttachItems posts the flattened order-item records for an order. The
// response body is not consumed beyond success or failure.
func (c *Client) AttachItems(ctx context.Context, orderID int, items []core.OrderItemRequest) error {
	path := fmt.Sprintf("/api/items/order/%d", orderID)
	return c.do(ctx, "client.AttachItems", http.MethodPost, path, items, nil)
}

// GetOrder fetches one order header. A 404 maps to
// core.ErrOrderNotFound.
func (c *Client) GetOrder(ctx context.Context, orderID int) (core.Order, error) {
	var order core.Order
	path := fmt.Sprintf("/api/orders/%d", orderID)
	if err := c.do(ctx, "client.GetOrder", http.MethodGet, path, nil, &order); err != nil {
		return core.Order{}, err
	}
	return order, nil
}

// ListOrderItems fetches the persisted line items of an order.
func (c *Client) ListOrderItems(ctx context.Context, orderID int) ([]core.OrderItem, error) {
	var items []core.OrderItem
	path := fmt.Sprintf("/api/items/order/%d", orderID)
	if err := c.do(ctx, "client.ListOrderItems", http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListOrders fetches all orders belonging to the session.
func (c *Client) ListOrders(ctx context.Context) ([]core.Order, error) {
	var orders []core.Order
	if err := c.do(ctx, "client.ListOrders", http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// DeleteOrder removes an order. Only the optional checkout
// compensation strategy calls this.
func (c *Client) DeleteOrder(ctx context.Context, orderID int) error {
	path := fmt.Sprintf("/api/orders/%d", orderID)
	return c.do(ctx, "client.DeleteOrder", http.MethodDelete, path, nil, nil)
}

// do performs one JSON round trip and maps failures onto the error
// taxonomy: network/timeout -> transport, 404 -> not found, other
// non-2xx -> transport with status and body snippet.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	if c.breaker != nil {
		return c.breaker.Execute(func() error {
			return c.roundTrip(ctx, op, method, path, body, out)
		})
	}
	return c.roundTrip(ctx, op, method, path, body, out)
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return core.NewError(op, core.KindInternal, fmt.Errorf("failed to encode request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return core.NewError(op, core.KindInternal, fmt.Errorf("failed to create request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return core.NewError(op, core.KindTransport, fmt.Errorf("%w: %v", core.ErrRequestTimeout, err))
		}
		return core.NewError(op, core.KindTransport, fmt.Errorf("%w: %v", core.ErrRequestFailed, err))
	}
	defer resp.Body.Close()

	c.logger.Debug("API call completed", map[string]interface{}{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode == http.StatusNotFound {
		return core.NewError(op, core.KindNotFound, core.ErrOrderNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return core.NewError(op, core.KindTransport,
			fmt.Errorf("%w: status %d: %s", core.ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	if out == nil {
		// Drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return core.NewError(op, core.KindDataIntegrity, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}
