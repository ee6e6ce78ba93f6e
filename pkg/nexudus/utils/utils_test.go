// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package utils_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/hibiken/asynq"

	"github.com/flexspace/warehouse/pkg/nexudus/api"
	"github.com/flexspace/warehouse/pkg/nexudus/utils"
)

func TestMaybeSkipRetryPermanentError(t *testing.T) {
	apiErr := &api.Error{
		StatusCode: http.StatusForbidden,
		Status:     "403 Forbidden",
		URL:        "https://spaces.nexudus.com/api/sys/businesses",
	}
	wrapped := fmt.Errorf("fetching locations: %w", apiErr)

	err := utils.MaybeSkipRetry(wrapped)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected permanent API error to skip retries, got %v", err)
	}
	if !errors.Is(err, apiErr) {
		t.Fatal("expected original error to remain in the chain")
	}
}

func TestMaybeSkipRetryTransientError(t *testing.T) {
	apiErr := &api.Error{
		StatusCode: http.StatusServiceUnavailable,
		Status:     "503 Service Unavailable",
		URL:        "https://spaces.nexudus.com/api/sys/businesses",
	}

	err := utils.MaybeSkipRetry(apiErr)
	if errors.Is(err, asynq.SkipRetry) {
		t.Fatal("transient API errors should be retried")
	}
	if err != apiErr {
		t.Fatalf("expected error to pass through unchanged, got %v", err)
	}
}

func TestMaybeSkipRetryUnrelatedError(t *testing.T) {
	unrelated := errors.New("connection reset by peer")

	if err := utils.MaybeSkipRetry(unrelated); err != unrelated {
		t.Fatalf("expected error to pass through unchanged, got %v", err)
	}
}

func TestDiscoverResourceIDs(t *testing.T) {
	records := []api.Record{
		{"Id": float64(1), "ResourceId": float64(100), "FloorPlanBusinessId": float64(10)},
		{"Id": float64(2), "ResourceId": float64(101), "FloorPlanBusinessId": float64(10)},
		// Duplicate resource reference within the same business.
		{"Id": float64(3), "ResourceId": float64(100), "FloorPlanBusinessId": float64(10)},
		{"Id": float64(4), "ResourceId": float64(200), "FloorPlanBusinessId": float64(20)},
		// Not usable for discovery.
		{"Id": float64(5), "FloorPlanBusinessId": float64(20)},
		{"Id": float64(6), "ResourceId": float64(0), "FloorPlanBusinessId": float64(20)},
		{"Id": float64(7), "ResourceId": float64(300)},
	}

	found := utils.DiscoverResourceIDs(records)
	if len(found) != 2 {
		t.Fatalf("expected resources for 2 businesses, got %d", len(found))
	}

	wantFirst := []int64{100, 101}
	if got := found[10]; len(got) != len(wantFirst) || got[0] != wantFirst[0] || got[1] != wantFirst[1] {
		t.Fatalf("business 10: want %v, got %v", wantFirst, got)
	}
	if got := found[20]; len(got) != 1 || got[0] != 200 {
		t.Fatalf("business 20: want [200], got %v", got)
	}
}

func TestDiscoverResourceIDsEmpty(t *testing.T) {
	if found := utils.DiscoverResourceIDs(nil); len(found) != 0 {
		t.Fatalf("expected no discovered resources, got %v", found)
	}
}
