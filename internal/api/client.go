// Package api is the HTTP client for the external paper-trading service.
// It owns transport concerns (timeouts, retries, rate limiting) so the
// derivation layer never sees a network error, only normalized snapshots.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"paperdex/internal/portfolio"
)

// APIError is a non-2xx response from the service, surfaced as-is to the
// caller. Client errors are permanent; the retry policy only re-sends
// 5xx reads.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Options configures the client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RatePerMin int // scan-source request budget
}

// Client talks to the paper-trading service.
type Client struct {
	baseURL     string
	client      *http.Client
	retries     int
	rateLimiter *time.Ticker
	logger      *zap.Logger
}

// NewClient creates a client. RatePerMin throttles the scan-time data
// sources the way the upstream API expects; state polling and mutations
// are not throttled.
func NewClient(opts Options, logger *zap.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rate := opts.RatePerMin
	if rate <= 0 {
		rate = 60
	}
	return &Client{
		baseURL:     opts.BaseURL,
		client:      &http.Client{Timeout: timeout},
		retries:     opts.Retries,
		rateLimiter: time.NewTicker(time.Minute / time.Duration(rate)),
		logger:      logger.Named("api"),
	}
}

// Close releases the rate limiter.
func (c *Client) Close() {
	c.rateLimiter.Stop()
}

// GetState fetches the full account snapshot: user, positions, history
// and deposits.
func (c *Client) GetState(ctx context.Context) (*portfolio.StateSnapshot, error) {
	var payload statePayload
	if err := c.getJSON(ctx, "/state", &payload); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return payload.toSnapshot(), nil
}

// Buy places a simulated buy order. The service answers with the
// refreshed state snapshot.
func (c *Client) Buy(ctx context.Context, mint string, price, quantity float64, name, symbol string) (*portfolio.StateSnapshot, error) {
	req := buyRequest{TokenMint: mint, Price: price, Quantity: quantity, Name: name, Symbol: symbol}
	var payload statePayload
	if err := c.postJSON(ctx, "/trade/buy", req, &payload); err != nil {
		return nil, fmt.Errorf("buy %s: %w", mint, err)
	}
	c.logger.Info("buy executed",
		zap.String("token_mint", mint),
		zap.Float64("price", price),
		zap.Float64("quantity", quantity))
	return payload.toSnapshot(), nil
}

// Sell places a simulated sell order. A nil quantity sells the whole
// position; oversells are rejected by the service, not here.
func (c *Client) Sell(ctx context.Context, mint string, price float64, quantity *float64) (*portfolio.StateSnapshot, error) {
	req := sellRequest{TokenMint: mint, Price: price, Quantity: quantity}
	var payload statePayload
	if err := c.postJSON(ctx, "/trade/sell", req, &payload); err != nil {
		return nil, fmt.Errorf("sell %s: %w", mint, err)
	}
	c.logger.Info("sell executed",
		zap.String("token_mint", mint),
		zap.Float64("price", price))
	return payload.toSnapshot(), nil
}

// Deposit adds cash to the simulated balance.
func (c *Client) Deposit(ctx context.Context, amountUSD float64) (*portfolio.StateSnapshot, error) {
	req := depositRequest{AmountUSD: amountUSD}
	var payload statePayload
	if err := c.postJSON(ctx, "/deposit", req, &payload); err != nil {
		return nil, fmt.Errorf("deposit: %w", err)
	}
	return payload.toSnapshot(), nil
}

// GetReport fetches the token-safety report for a mint.
func (c *Client) GetReport(ctx context.Context, mint string) (*SafetyReport, error) {
	if err := c.waitRate(ctx); err != nil {
		return nil, err
	}
	var report SafetyReport
	if err := c.getJSON(ctx, "/report/"+mint, &report); err != nil {
		return nil, fmt.Errorf("get report for %s: %w", mint, err)
	}
	return &report, nil
}

// GetQuote fetches the live price quote for a mint.
func (c *Client) GetQuote(ctx context.Context, mint string) (*PriceQuote, error) {
	if err := c.waitRate(ctx); err != nil {
		return nil, err
	}
	var quote PriceQuote
	if err := c.getJSON(ctx, "/quote/"+mint, &quote); err != nil {
		return nil, fmt.Errorf("get quote for %s: %w", mint, err)
	}
	return &quote, nil
}

// GetPairInfo fetches the dex pair blob for a mint.
func (c *Client) GetPairInfo(ctx context.Context, mint string) (*PairInfo, error) {
	if err := c.waitRate(ctx); err != nil {
		return nil, err
	}
	var info PairInfo
	if err := c.getJSON(ctx, "/pairs/"+mint, &info); err != nil {
		return nil, fmt.Errorf("get pair info for %s: %w", mint, err)
	}
	return &info, nil
}

func (c *Client) waitRate(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.rateLimiter.C:
		return nil
	}
}

// getJSON performs a GET with exponential backoff. 4xx responses are
// permanent; 5xx and transport errors are retried up to the configured
// budget.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	operation := func() (struct{}, error) {
		err := c.doRequest(ctx, http.MethodGet, path, nil, out)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
				return struct{}{}, backoff.Permanent(err)
			}
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(c.retries+1)))
	return err
}

// postJSON sends a mutation exactly once. Trade and deposit calls are
// not idempotent, so the retry policy never applies to them.
func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
