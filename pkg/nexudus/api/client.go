// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package api provides an API client for the Nexudus REST API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	// DefaultPageSize is the default number of records requested per page.
	DefaultPageSize = 100

	// DefaultMaxInFlight is the default max number of concurrent in-flight
	// requests against the API.
	//
	// The API enforces account-level rate limits, which are shared across
	// all API consumers, so the client keeps the number of concurrent
	// requests low regardless of how many callers fan out over it.
	DefaultMaxInFlight = 3

	// defaultMaxAttempts is the max number of attempts for a request,
	// which keeps failing with transient errors.
	defaultMaxAttempts = 5

	// defaultBaseDelay is the initial delay before retrying a request.
	// The delay doubles with each failed attempt.
	defaultBaseDelay = 4 * time.Second

	// defaultMaxDelay is the upper bound for the delay between retries.
	defaultMaxDelay = 60 * time.Second

	// defaultRequestTimeout is the total time budget for a single request.
	defaultRequestTimeout = 60 * time.Second

	// defaultConnectTimeout is the time budget for establishing the
	// connection.
	defaultConnectTimeout = 10 * time.Second
)

// Record represents a single raw record returned by the Nexudus API.
type Record map[string]any

// listResponse represents a paginated listing response returned by the
// Nexudus API.
type listResponse struct {
	Records     []Record `json:"Records"`
	CurrentPage int      `json:"CurrentPage"`
	HasNextPage bool     `json:"HasNextPage"`
}

// Option is a function which configures the [Client].
type Option func(c *Client)

// WithHTTPClient is an [Option], which configures the [Client] to use the
// given [http.Client].
func WithHTTPClient(httpClient *http.Client) Option {
	opt := func(c *Client) {
		c.httpClient = httpClient
	}

	return opt
}

// WithPageSize is an [Option], which configures the number of records the
// [Client] requests per page.
func WithPageSize(size int) Option {
	opt := func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}

	return opt
}

// WithMaxInFlight is an [Option], which configures the max number of
// concurrent in-flight requests of the [Client].
func WithMaxInFlight(n int) Option {
	opt := func(c *Client) {
		if n > 0 {
			c.gate = semaphore.NewWeighted(int64(n))
		}
	}

	return opt
}

// WithRetryPolicy is an [Option], which configures the retry policy of the
// [Client].
func WithRetryPolicy(maxAttempts int, baseDelay, maxDelay time.Duration) Option {
	opt := func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			c.baseDelay = baseDelay
		}
		if maxDelay > 0 {
			c.maxDelay = maxDelay
		}
	}

	return opt
}

// Client is an API client for the Nexudus REST API.
//
// The client transparently retries requests, which fail with transient
// errors, and bounds the number of concurrent in-flight requests via an
// admission gate. Beyond the gate and the [TokenSource] the client keeps no
// state across calls.
type Client struct {
	endpoint    *url.URL
	httpClient  *http.Client
	tokens      TokenSource
	gate        *semaphore.Weighted
	pageSize    int
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

// New creates a new [Client] against the given API endpoint.
func New(endpoint string, tokens TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}

	c := &Client{
		endpoint: u,
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: defaultConnectTimeout,
				}).DialContext,
			},
		},
		tokens:      tokens,
		gate:        semaphore.NewWeighted(DefaultMaxInFlight),
		pageSize:    DefaultPageSize,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		maxDelay:    defaultMaxDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// FetchPage fetches a single page of the listing endpoint specified by path.
// It returns the records of the page and a boolean indicating whether more
// pages are available.
func (c *Client) FetchPage(ctx context.Context, path string, page int, params url.Values) ([]Record, bool, error) {
	u := c.endpoint.JoinPath(path)
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(c.pageSize))
	u.RawQuery = query.Encode()

	var body listResponse
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, false, err
	}

	return body.Records, body.HasNextPage, nil
}

// FetchPages walks all pages of the listing endpoint specified by path,
// starting from the first page, and invokes fn with each batch of records.
//
// Pagination stops when the API reports no further pages, or when a page
// comes back empty. Both conditions are checked, since the pagination
// metadata is not always consistent with the returned records.
func (c *Client) FetchPages(ctx context.Context, path string, params url.Values, fn func(records []Record) error) error {
	for page := 1; ; page++ {
		records, hasNext, err := c.FetchPage(ctx, path, page, params)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			return nil
		}

		if err := fn(records); err != nil {
			return err
		}

		if !hasNext {
			return nil
		}
	}
}

// FetchAll fetches all pages of the listing endpoint specified by path and
// returns the collected records.
func (c *Client) FetchAll(ctx context.Context, path string, params url.Values) ([]Record, error) {
	items := make([]Record, 0)
	err := c.FetchPages(ctx, path, params, func(records []Record) error {
		items = append(items, records...)

		return nil
	})

	if err != nil {
		return nil, err
	}

	return items, nil
}

// FetchOne fetches a single record from the endpoint specified by path. When
// the record does not exist the boolean result is false and no error is
// returned.
func (c *Client) FetchOne(ctx context.Context, path string) (Record, bool, error) {
	u := c.endpoint.JoinPath(path)

	var record Record
	err := c.getJSON(ctx, u, &record)
	switch {
	case err == nil:
		return record, true, nil
	case IsNotFound(err):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

// getJSON issues a GET request against the given URL and decodes the JSON
// response into v. Transient failures are retried with exponential backoff
// up to the configured number of attempts. When the API throttles the
// request and provides a Retry-After delay, that delay takes precedence over
// the backoff schedule.
func (c *Client) getJSON(ctx context.Context, u *url.URL, v any) error {
	delay := c.baseDelay
	refreshedToken := false

	for attempt := 1; ; attempt++ {
		err := c.getJSONOnce(ctx, u, v)
		if err == nil {
			return nil
		}

		// The token may be revoked upstream before its advertised
		// expiry. Refresh it once before giving up.
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized && !refreshedToken {
			c.tokens.Invalidate()
			refreshedToken = true

			continue
		}

		if !IsTransient(err) {
			return err
		}

		if attempt >= c.maxAttempts {
			return fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}

		wait := delay
		if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
			wait = apiErr.RetryAfter
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay *= 2
		if delay > c.maxDelay {
			delay = c.maxDelay
		}
	}
}

// getJSONOnce performs a single GET request against the given URL.
func (c *Client) getJSONOnce(ctx context.Context, u *url.URL, v any) error {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.gate.Release(1)

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // nolint: errcheck

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		apiErr := &Error{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        u.String(),
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			apiErr.RetryAfter = retryAfter(resp.Header)
		}

		return apiErr
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// retryAfter returns the delay requested via the Retry-After header, if any.
func retryAfter(header http.Header) time.Duration {
	value := header.Get("Retry-After")
	if value == "" {
		return 0
	}

	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}

	return time.Duration(seconds) * time.Second
}
