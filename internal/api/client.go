package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/time/rate"

	"github.com/dshills/larek/internal/model"
)

// Default client settings.
const (
	DefaultTimeout = 10 * time.Second
	DefaultRate    = 10
	DefaultBurst   = 5
)

// Client talks to the commerce API.
type Client struct {
	baseURL string
	cdnURL  string

	http    *http.Client
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit limits outgoing requests to r per second with the given burst.
// A non-positive r disables limiting.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) {
		if r <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the API at baseURL. Image paths are prefixed with cdnURL.
func New(baseURL, cdnURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		cdnURL:  cdnURL,
		http:    &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(DefaultRate), DefaultBurst),
		timeout: DefaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Products fetches the catalog.
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	body, err := c.do(ctx, http.MethodGet, "/product", nil)
	if err != nil {
		return nil, err
	}

	n := int(gjson.GetBytes(body, "items.#").Int())
	for i := 0; i < n; i++ {
		body, err = c.rewriteImage(body, "items."+strconv.Itoa(i)+".image")
		if err != nil {
			return nil, err
		}
	}

	var list model.ProductList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	if list.Items == nil {
		list.Items = []model.Product{}
	}
	return list.Items, nil
}

// Product fetches one product by id.
func (c *Client) Product(ctx context.Context, id string) (model.Product, error) {
	body, err := c.do(ctx, http.MethodGet, "/product/"+url.PathEscape(id), nil)
	if err != nil {
		return model.Product{}, err
	}

	body, err = c.rewriteImage(body, "image")
	if err != nil {
		return model.Product{}, err
	}

	var p model.Product
	if err := json.Unmarshal(body, &p); err != nil {
		return model.Product{}, fmt.Errorf("decode product %s: %w", id, err)
	}
	return p, nil
}

// PlaceOrder submits an order.
func (c *Client) PlaceOrder(ctx context.Context, order model.Order) (model.OrderResult, error) {
	if len(order.Items) == 0 {
		return model.OrderResult{}, ErrEmptyOrder
	}

	payload, err := json.Marshal(order)
	if err != nil {
		return model.OrderResult{}, fmt.Errorf("encode order: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/order", payload)
	if err != nil {
		return model.OrderResult{}, err
	}

	var res model.OrderResult
	if err := json.Unmarshal(body, &res); err != nil {
		return model.OrderResult{}, fmt.Errorf("decode order result: %w", err)
	}
	return res, nil
}

// rewriteImage prefixes the image path at the given JSON path with the CDN URL.
func (c *Client) rewriteImage(body []byte, path string) ([]byte, error) {
	img := gjson.GetBytes(body, path)
	if !img.Exists() || img.Type != gjson.String {
		return body, nil
	}
	out, err := sjson.SetBytes(body, path, c.cdnURL+img.String())
	if err != nil {
		return nil, fmt.Errorf("rewrite %s: %w", path, err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(method, path, resp.StatusCode, body)
	}
	return body, nil
}
