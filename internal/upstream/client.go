// Package upstream wraps the clinic REST API this gateway consumes. All
// state of record (appointments, patients, settings) lives behind this
// package; nothing here is cached or persisted locally.
package upstream

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Client is the outbound clinic API client. Safe for concurrent use.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// New creates a Client against the given base URL. Retries cover
// connection-level failures only; HTTP error statuses are never retried.
func New(baseURL string, timeout time.Duration, retries int, logger zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(3*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		logger: logger.With().Str("component", "upstream").Logger(),
	}
}

// req prepares a request carrying the caller's bearer token. An empty token
// sends no Authorization header (login, registration).
func (c *Client) req(ctx context.Context, token string) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if token != "" {
		r.SetAuthToken(token)
	}
	return r
}

// execute runs a prepared request and maps failures onto the client's error
// taxonomy. Transport failures become ErrUnavailable; HTTP error statuses go
// through errorFromResponse.
func (c *Client) execute(run func() (*resty.Response, error), op string) error {
	resp, err := run()
	if err != nil {
		c.logger.Error().Err(err).Str("op", op).Msg("upstream request failed")
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	}
	if resp.IsError() {
		err := errorFromResponse(resp)
		c.logger.Warn().
			Str("op", op).
			Int("status", resp.StatusCode()).
			Msg("upstream returned error status")
		return err
	}
	return nil
}

// Ping checks upstream reachability. Used by the health endpoint and the
// `check` CLI command.
func (c *Client) Ping(ctx context.Context) error {
	return c.execute(func() (*resty.Response, error) {
		return c.req(ctx, "").Get("/health")
	}, "ping")
}
