// Package linear provides a typed, throttled client for the Linear
// GraphQL API. Mutations are spaced a fixed interval apart and never
// retried; read queries are retried with exponential backoff.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/linweave/linweave/internal/debug"
)

// DefaultAPIEndpoint is the public Linear GraphQL endpoint.
const DefaultAPIEndpoint = "https://api.linear.app/graphql"

// DefaultThrottle is the minimum spacing between mutating calls.
const DefaultThrottle = 350 * time.Millisecond

// maxQueryRetries bounds backoff retries on read queries.
const maxQueryRetries = 3

// ErrNotConfigured indicates a client without an API key.
var ErrNotConfigured = errors.New("linear API key not configured (set linear.api_key or LINEAR_API_KEY)")

// APIError is a non-2xx HTTP response or a GraphQL-level error from Linear.
type APIError struct {
	Status   int    // HTTP status, 0 for GraphQL-level errors
	Messages []string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("linear API returned %d: %s", e.Status, strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("linear API error: %s", strings.Join(e.Messages, "; "))
}

// Retryable reports whether the error is worth retrying on a read query.
// Client errors (4xx other than 429) and GraphQL validation errors are not.
func (e *APIError) Retryable() bool {
	if e.Status == http.StatusTooManyRequests {
		return true
	}
	return e.Status >= 500
}

// Client provides HTTP access to the Linear GraphQL API.
type Client struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client

	limiter *Limiter
}

// NewClient creates a client with the default endpoint and throttle.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:   apiKey,
		Endpoint: DefaultAPIEndpoint,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: NewLimiter(DefaultThrottle),
	}
}

// WithEndpoint returns a copy of the client using the given endpoint.
func (c *Client) WithEndpoint(endpoint string) *Client {
	nc := *c
	nc.Endpoint = endpoint
	return &nc
}

// WithHTTPClient returns a copy of the client using the given HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	nc := *c
	nc.HTTPClient = hc
	return &nc
}

// WithThrottle returns a copy of the client with the given minimum
// interval between mutations. Zero disables throttling.
func (c *Client) WithThrottle(interval time.Duration) *Client {
	nc := *c
	nc.limiter = NewLimiter(interval)
	return &nc
}

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// do executes one GraphQL request and decodes data into out.
func (c *Client) do(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	if c.APIKey == "" {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "lw/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Messages: []string{strings.TrimSpace(string(body))}}
	}

	var env gqlEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return &APIError{Messages: msgs}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("parse response data: %w", err)
		}
	}
	return nil
}

// query executes a read operation, retrying transient failures.
func (c *Client) query(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	op := func() error {
		err := c.do(ctx, query, variables, out)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return backoff.Permanent(err)
		}
		debug.Logf("linear: retrying query after error: %v\n", err)
		return err
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxQueryRetries), ctx)
	return backoff.Retry(op, b)
}

// mutate executes a write operation. Mutations wait out the throttle
// interval and are never retried: a failed write surfaces immediately so
// the caller can log and move on.
func (c *Client) mutate(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.do(ctx, query, variables, out)
}
