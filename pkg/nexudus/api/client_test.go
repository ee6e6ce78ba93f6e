// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/flexspace/warehouse/pkg/nexudus/api"
)

// fakeTokenSource is a [api.TokenSource] which serves tokens from a fixed
// list, advancing to the next token when invalidated.
type fakeTokenSource struct {
	mu          sync.Mutex
	tokens      []string
	idx         int
	invalidated int
}

func (s *fakeTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.tokens) {
		return "", errors.New("no tokens left")
	}

	return s.tokens[s.idx], nil
}

func (s *fakeTokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated++
	s.idx++
}

func newTestClient(t *testing.T, endpoint string, opts ...api.Option) *api.Client {
	t.Helper()

	opts = append([]api.Option{api.WithRetryPolicy(5, time.Millisecond, 10*time.Millisecond)}, opts...)
	client, err := api.New(endpoint, api.NewStaticTokenSource("test-token"), opts...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return client
}

func TestFetchPagesStopsOnEmptyRecords(t *testing.T) {
	var requests int
	handler := func(w http.ResponseWriter, r *http.Request) {
		requests++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if got := r.URL.Query().Get("size"); got != "2" {
			t.Errorf("want page size 2, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("want bearer token, got %q", got)
		}

		// The last page keeps claiming more pages exist, but comes
		// back empty.
		switch page {
		case 1, 2:
			fmt.Fprintf(w, `{"Records": [{"Id": %d}, {"Id": %d}], "CurrentPage": %d, "HasNextPage": true}`, page*10, page*10+1, page)
		default:
			fmt.Fprintf(w, `{"Records": [], "CurrentPage": %d, "HasNextPage": true}`, page)
		}
	}
	srv := httptest.NewServer(http.HandlerFunc(handler))
	defer srv.Close()

	client := newTestClient(t, srv.URL, api.WithPageSize(2))
	records, err := client.FetchAll(context.Background(), "sys/businesses", nil)
	if err != nil {
		t.Fatalf("failed to fetch records: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("want 4 records, got %d", len(records))
	}
	if requests != 3 {
		t.Fatalf("want 3 requests, got %d", requests)
	}
}

func TestFetchPagesStopsOnLastPage(t *testing.T) {
	var requests int
	handler := func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"Records": [{"Id": 1}], "CurrentPage": 1, "HasNextPage": false}`)
	}
	srv := httptest.NewServer(http.HandlerFunc(handler))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	records, err := client.FetchAll(context.Background(), "sys/businesses", nil)
	if err != nil {
		t.Fatalf("failed to fetch records: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}
	if requests != 1 {
		t.Fatalf("want 1 request, got %d", requests)
	}
}

func TestFetchOne(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/42") {
			fmt.Fprint(w, `{"Id": 42, "Name": "Room 42"}`)

			return
		}
		w.WriteHeader(http.StatusNotFound)
	}
	srv := httptest.NewServer(http.HandlerFunc(handler))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	record, ok, err := client.FetchOne(context.Background(), "spaces/resources/42")
	if err != nil {
		t.Fatalf("failed to fetch record: %v", err)
	}
	if !ok {
		t.Fatal("want record to exist")
	}
	if record["Name"] != "Room 42" {
		t.Fatalf("want Room 42, got %v", record["Name"])
	}

	// Missing records are reported as absent, not as errors
	_, ok, err = client.FetchOne(context.Background(), "spaces/resources/100")
	if err != nil {
		t.Fatalf("want no error for missing record, got %v", err)
	}
	if ok {
		t.Fatal("want record to be absent")
	}
}

func TestPermanentErrorIsNotRetried(t *testing.T) {
	var requests int
	handler := func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusForbidden)
	}
	srv := httptest.NewServer(http.HandlerFunc(handler))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.FetchAll(context.Background(), "sys/businesses", nil)
	if err == nil {
		t.Fatal("want error, got nil")
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *api.Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("want status %d, got %d", http.StatusForbidden, apiErr.StatusCode)
	}
	if api.IsTransient(err) {
		t.Fatal("want permanent error")
	}
	if requests != 1 {
		t.Fatalf("want 1 request, got %d", requests)
	}
}

func TestTransientErrorIsRetried(t *testing.T) {
	var requests int
	handler := func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}
		fmt.Fprint(w, `{"Records": [{"Id": 1}], "CurrentPage": 1, "HasNextPage": false}`)
	}
	srv := httptest.NewServer(http.HandlerFunc(handler))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	records, err := client.FetchAll(context.Background(), "sys/businesses", nil)
	if err != nil {
		t.Fatalf("failed to fetch records: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}
	if requests != 3 {
		t.Fatalf("want 3 requests, got %d", requests)
	}
}

func TestRetriesAreExhausted(t *testing.T) {
	var requests int
	handler := func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}
	srv := httptest.NewServer(http.HandlerFunc(handler))
	defer srv.Close()

	client := newTestClient(t, srv.URL, api.WithRetryPolicy(3, time.Millisecond, 10*time.Millisecond))
	_, err := client.FetchAll(context.Background(), "sys/businesses", nil)
	if err == nil {
		t.Fatal("want error, got nil")
	}

	if !strings.Contains(err.Error(), "giving up after 3 attempts") {
		t.Fatalf("want exhausted retries error, got %v", err)
	}
	if requests != 3 {
		t.Fatalf("want 3 requests, got %d", requests)
	}
}

func TestRetryAfterTakesPrecedence(t *testing.T) {
	var requests int
	handler := func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)

			return
		}
		fmt.Fprint(w, `{"Records": [{"Id": 1}], "CurrentPage": 1, "HasNextPage": false}`)
	}
	srv := httptest.NewServer(http.HandlerFunc(handler))
	defer srv.Close()

	// The backoff schedule is configured with tiny delays, so any visible
	// wait comes from honoring the Retry-After delay.
	client := newTestClient(t, srv.URL)
	start := time.Now()
	_, err := client.FetchAll(context.Background(), "sys/businesses", nil)
	if err != nil {
		t.Fatalf("failed to fetch records: %v", err)
	}

	if elapsed := time.Since(start); elapsed < time.Second {
		t.Fatalf("want at least 1s wait, got %s", elapsed)
	}
	if requests != 2 {
		t.Fatalf("want 2 requests, got %d", requests)
	}
}

func TestUnauthorizedRefreshesToken(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}
		fmt.Fprint(w, `{"Records": [{"Id": 1}], "CurrentPage": 1, "HasNextPage": false}`)
	}
	srv := httptest.NewServer(http.HandlerFunc(handler))
	defer srv.Close()

	tokens := &fakeTokenSource{tokens: []string{"stale", "fresh"}}
	client, err := api.New(srv.URL, tokens, api.WithRetryPolicy(3, time.Millisecond, 10*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	records, err := client.FetchAll(context.Background(), "sys/businesses", nil)
	if err != nil {
		t.Fatalf("failed to fetch records: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}
	if tokens.invalidated != 1 {
		t.Fatalf("want 1 invalidated token, got %d", tokens.invalidated)
	}
}

func TestContextCancellationStopsRetries(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	srv := httptest.NewServer(http.HandlerFunc(handler))
	defer srv.Close()

	client := newTestClient(t, srv.URL, api.WithRetryPolicy(5, time.Hour, time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchAll(ctx, "sys/businesses", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want context deadline error, got %v", err)
	}
}
