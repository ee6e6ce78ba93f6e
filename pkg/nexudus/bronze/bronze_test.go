// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package bronze

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/flexspace/warehouse/pkg/nexudus/api"
)

func TestBuildLocationsCapturesRecordsWithoutID(t *testing.T) {
	runID := uuid.New()
	syncedAt := time.Now().UTC()
	records := []api.Record{
		{"Id": 1001, "Name": "Downtown Hub"},
		{"Name": "Unnamed"},
	}

	items, err := buildLocations(runID, records, syncedAt)
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(items))
	}
	if items[0].SourceID != 1001 {
		t.Fatalf("expected source id 1001, got %d", items[0].SourceID)
	}
	if items[1].SourceID != 0 {
		t.Fatalf("expected source id 0 for a record without Id, got %d", items[1].SourceID)
	}

	for _, item := range items {
		if item.SyncRunID != runID {
			t.Fatalf("expected run id %s, got %s", runID, item.SyncRunID)
		}
		if !item.SyncedAt.Equal(syncedAt) {
			t.Fatalf("expected sync time %s, got %s", syncedAt, item.SyncedAt)
		}
	}

	if string(items[0].Payload) != `{"Id":1001,"Name":"Downtown Hub"}` {
		t.Fatalf("expected verbatim payload, got %s", items[0].Payload)
	}
}

func TestBuildProductsExtractsRoutingColumns(t *testing.T) {
	records := []api.Record{
		{"Id": 5001, "FloorPlanBusinessId": 2001, "ItemType": 5},
		{"Id": 5002, "FloorPlanBusinessId": "unknown"},
	}

	items, err := buildProducts(uuid.New(), records, time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(items))
	}
	if items[0].LocationID == nil || *items[0].LocationID != 2001 {
		t.Fatalf("expected location id 2001, got %v", items[0].LocationID)
	}
	if items[0].ItemType == nil || *items[0].ItemType != 5 {
		t.Fatalf("expected item type 5, got %v", items[0].ItemType)
	}
	if items[1].LocationID != nil {
		t.Fatalf("expected no location id for a non-numeric value, got %d", *items[1].LocationID)
	}
	if items[1].ItemType != nil {
		t.Fatalf("expected no item type, got %d", *items[1].ItemType)
	}
}

func TestBuildContractsPrefersLowercaseID(t *testing.T) {
	productID := int64(5001)
	records := []api.Record{
		{"id": 301, "Id": 999},
		{"Id": 302},
		{"id": 0, "Id": 303},
	}

	items, err := buildContracts(uuid.New(), records, time.Now().UTC(), &productID, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(items))
	}
	if items[0].SourceID != 301 {
		t.Fatalf("expected the lowercase id to win, got %d", items[0].SourceID)
	}
	if items[1].SourceID != 302 {
		t.Fatalf("expected fallback to Id, got %d", items[1].SourceID)
	}
	if items[2].SourceID != 303 {
		t.Fatalf("expected fallback to Id for a zero lowercase id, got %d", items[2].SourceID)
	}

	for _, item := range items {
		if item.ProductID == nil || *item.ProductID != productID {
			t.Fatalf("expected product id %d, got %v", productID, item.ProductID)
		}
		if item.LocationID != nil {
			t.Fatalf("expected no location id, got %d", *item.LocationID)
		}
	}
}
