// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package transform_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/flexspace/warehouse/pkg/nexudus/api"
	"github.com/flexspace/warehouse/pkg/nexudus/transform"
	"github.com/flexspace/warehouse/pkg/utils/ptr"
)

func TestTransformResource(t *testing.T) {
	payload := api.Record{
		"Id":               777,
		"BusinessId":       700,
		"UniqueId":         "aaaa1111-2222-3333-4444-555566667777",
		"Name":             "Focus Room 3F",
		"Description":      "Quiet room on the third floor",
		"ResourceTypeId":   4,
		"ResourceTypeName": "Meeting Room",
		"GroupId":          2,
		"GroupName":        "Meeting Rooms",
		"Visible":          true,
		"Online":           true,
		"Available":        true,
		"Capacity":         6,
		"Size":             18.5,
		"FloorNumber":      3,
		"CreatedOn":        "2021-06-01T00:00:00Z",
		"UpdatedOn":        "2024-03-10T12:00:00Z",
	}

	item, err := transform.Resource(payload, 9, uuid.New())
	if err != nil {
		t.Fatalf("failed to transform resource: %v", err)
	}
	if item == nil {
		t.Fatal("want resource, got nil")
	}

	if item.SourceID != 777 {
		t.Errorf("want source id 777, got %d", item.SourceID)
	}
	if got := ptr.Value(item.LocationSourceID, 0); got != 700 {
		t.Errorf("want location source id 700, got %d", got)
	}
	if got := ptr.Value(item.Name, ""); got != "Focus Room 3F" {
		t.Errorf("want resource name, got %q", got)
	}
	if item.Visible != 1 || item.Online != 1 || item.Available != 1 {
		t.Errorf("want visible/online/available flags set, got %d/%d/%d",
			item.Visible, item.Online, item.Available)
	}

	// Flags default to 0 when absent
	if item.VisibleToOthers != 0 {
		t.Errorf("want visible_to_others=0, got %d", item.VisibleToOthers)
	}
	if item.Accessible != 0 {
		t.Errorf("want accessible=0, got %d", item.Accessible)
	}

	if got := ptr.Value(item.Capacity, 0); got != 6 {
		t.Errorf("want capacity 6, got %d", got)
	}
	if got := ptr.Value(item.Size, 0); got != 18.5 {
		t.Errorf("want size 18.5, got %v", got)
	}
	if got := ptr.Value(item.FloorNumber, 0); got != 3 {
		t.Errorf("want floor number 3, got %d", got)
	}
}

func TestTransformResourceWithoutID(t *testing.T) {
	// Resources without an Id are skipped, not treated as failures
	item, err := transform.Resource(api.Record{"Name": "phantom"}, 1, uuid.New())
	if err != nil {
		t.Fatalf("want no error for resource without Id, got %v", err)
	}
	if item != nil {
		t.Fatal("want nil model for resource without Id")
	}

	item, err = transform.Resource(api.Record{"Id": 0, "Name": "phantom"}, 1, uuid.New())
	if err != nil {
		t.Fatalf("want no error for resource with zero Id, got %v", err)
	}
	if item != nil {
		t.Fatal("want nil model for resource with zero Id")
	}
}
