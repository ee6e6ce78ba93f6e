// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrNoCredentials is an error, which is returned when no credentials for the
// Nexudus API were configured.
var ErrNoCredentials = errors.New("no nexudus credentials specified")

const (
	// tokenPath is the path of the token exchange endpoint.
	tokenPath = "api/token"

	// defaultTokenLifetime is the token lifetime to assume, when the token
	// exchange response does not provide one.
	defaultTokenLifetime = 20159 * time.Second

	// tokenExpiryLeeway specifies how long before the actual expiry a
	// cached token is considered expired, so that a token does not go
	// stale mid-request.
	tokenExpiryLeeway = time.Minute
)

// TokenSource provides access tokens for authenticating against the Nexudus
// API.
type TokenSource interface {
	// Token returns an access token to authenticate with.
	Token(ctx context.Context) (string, error)

	// Invalidate drops any cached token, forcing the next [Token] call to
	// obtain a fresh one.
	Invalidate()
}

// staticTokenSource is a [TokenSource], which always returns the same token.
type staticTokenSource struct {
	token string
}

// NewStaticTokenSource returns a [TokenSource], which always returns the
// given token.
func NewStaticTokenSource(token string) TokenSource {
	return &staticTokenSource{token: token}
}

// Token implements the [TokenSource] interface.
func (s *staticTokenSource) Token(_ context.Context) (string, error) {
	return s.token, nil
}

// Invalidate implements the [TokenSource] interface.
func (s *staticTokenSource) Invalidate() {}

// CredentialsTokenSource is a [TokenSource], which exchanges a username and
// password for an access token and caches the token until it expires.
type CredentialsTokenSource struct {
	tokenURL   string
	username   string
	password   string
	httpClient *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

var _ TokenSource = &CredentialsTokenSource{}

// NewCredentialsTokenSource returns a new [CredentialsTokenSource] for the
// given API endpoint and credentials.
func NewCredentialsTokenSource(endpoint, username, password string, httpClient *http.Client) (*CredentialsTokenSource, error) {
	if username == "" || password == "" {
		return nil, ErrNoCredentials
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	source := &CredentialsTokenSource{
		tokenURL:   u.JoinPath(tokenPath).String(),
		username:   username,
		password:   password,
		httpClient: httpClient,
	}

	return source, nil
}

// tokenResponse represents the response of the token exchange endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Token implements the [TokenSource] interface. A cached token is returned
// while still valid, otherwise the credentials are exchanged for a fresh one.
func (s *CredentialsTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.expiresAt.Add(-tokenExpiryLeeway)) {
		return s.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", s.username)
	form.Set("password", s.password)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() // nolint: errcheck

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

		return "", &Error{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        s.tokenURL,
		}
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	if body.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned no access token")
	}

	lifetime := defaultTokenLifetime
	if body.ExpiresIn > 0 {
		lifetime = time.Duration(body.ExpiresIn) * time.Second
	}

	s.token = body.AccessToken
	s.expiresAt = time.Now().Add(lifetime)

	return s.token, nil
}

// Invalidate implements the [TokenSource] interface.
func (s *CredentialsTokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.expiresAt = time.Time{}
}
