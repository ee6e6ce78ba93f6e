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

func TestTransformProductRoom(t *testing.T) {
	payload := api.Record{
		"Id":                            9001,
		"ItemType":                      5,
		"FloorPlanBusinessId":           700,
		"FloorPlanBusinessName":         "beyond Mitte",
		"FloorPlanId":                   31,
		"FloorPlanName":                 "3rd floor",
		"Name":                          "Focus Room",
		"Area":                          "3F-12",
		"Price":                         25.0,
		"FloorPlanBusinessCurrencyCode": "EUR",
		"Available":                     true,
		"Size":                          18.5,
		"Capacity":                      6,
		"SizeIsLinkedToArea":            false,
		"ResourceId":                    777,
		"ResourceName":                  "Focus Room 3F",
		"ResourceResourceTypeName":      "Meeting Room",
		"ResourceAllocation":            2,
		"ResourceShifts":                "",
		"ResourceAirConditioning":       true,
		"ResourceHeating":               false,
		"ResourceInternet":              true,
		"ResourceCCTV":                  nil,
		"CreatedOn":                     "2021-06-01T00:00:00Z",
	}

	item, err := transform.Product(payload, 7, uuid.New())
	if err != nil {
		t.Fatalf("failed to transform product: %v", err)
	}

	if item.SourceID != 9001 {
		t.Errorf("want source id 9001, got %d", item.SourceID)
	}
	if got := ptr.Value(item.ItemType, 0); got != 5 {
		t.Errorf("want item type 5, got %d", got)
	}
	if item.ProductTypeLabel != "Meeting Room" {
		t.Errorf("want Meeting Room label, got %q", item.ProductTypeLabel)
	}
	if got := ptr.Value(item.LocationSourceID, 0); got != 700 {
		t.Errorf("want location source id 700, got %d", got)
	}
	if item.IsAvailable != 1 {
		t.Errorf("want is_available=1, got %d", item.IsAvailable)
	}
	if got := ptr.Value(item.Capacity, 0); got != 6 {
		t.Errorf("want capacity 6, got %d", got)
	}
	if got := ptr.Value(item.SizeIsLinkedToArea, -1); got != 0 {
		t.Errorf("want size_is_linked_to_area=0, got %d", got)
	}

	// Rooms carry the resource and amenity fields
	if got := ptr.Value(item.ResourceID, 0); got != 777 {
		t.Errorf("want resource id 777, got %d", got)
	}
	if got := ptr.Value(item.ResourceTypeName, ""); got != "Meeting Room" {
		t.Errorf("want Meeting Room resource type, got %q", got)
	}
	if item.ResourceShifts != nil {
		t.Errorf("want nil resource shifts for empty value, got %q", *item.ResourceShifts)
	}
	if got := ptr.Value(item.AmenityAirConditioning, -1); got != 1 {
		t.Errorf("want amenity_air_conditioning=1, got %d", got)
	}
	if got := ptr.Value(item.AmenityHeating, -1); got != 0 {
		t.Errorf("want amenity_heating=0, got %d", got)
	}
	if item.AmenityCCTV != nil {
		t.Errorf("want nil amenity_cctv for null value, got %d", *item.AmenityCCTV)
	}
	if item.CustomSizeSqm != nil {
		t.Errorf("want nil custom size, got %v", *item.CustomSizeSqm)
	}
}

func TestTransformProductOffice(t *testing.T) {
	// Offices carry resource fields upstream as well, but those describe
	// the booking system, not the office, and must not be carried over.
	payload := api.Record{
		"Id":               9002,
		"ItemType":         1,
		"Name":             "Office 4.01",
		"ResourceId":       777,
		"ResourceName":     "Office 4.01 Resource",
		"ResourceInternet": true,
		"CustomFields": map[string]any{
			"Data": []any{
				map[string]any{"Name": "Nexudus.FloorPlan.Color", "Value": "red"},
				map[string]any{"Name": "Nexudus.FloorPlan.Size", "Value": "42.7"},
			},
		},
	}

	item, err := transform.Product(payload, 7, uuid.New())
	if err != nil {
		t.Fatalf("failed to transform product: %v", err)
	}

	if item.ProductTypeLabel != "Private Office" {
		t.Errorf("want Private Office label, got %q", item.ProductTypeLabel)
	}
	if item.ResourceID != nil {
		t.Errorf("want nil resource id for an office, got %d", *item.ResourceID)
	}
	if item.ResourceName != nil {
		t.Errorf("want nil resource name for an office, got %q", *item.ResourceName)
	}
	if item.AmenityInternet != nil {
		t.Errorf("want nil amenity_internet for an office, got %d", *item.AmenityInternet)
	}
	if got := ptr.Value(item.CustomSizeSqm, 0); got != 42.7 {
		t.Errorf("want custom size 42.7, got %v", got)
	}
}

func TestTransformProductUnknownItemType(t *testing.T) {
	item, err := transform.Product(api.Record{"Id": 1, "ItemType": 9}, 1, uuid.New())
	if err != nil {
		t.Fatalf("failed to transform product: %v", err)
	}
	if item.ProductTypeLabel != "Unknown" {
		t.Errorf("want Unknown label, got %q", item.ProductTypeLabel)
	}
	if item.ResourceID != nil {
		t.Error("want nil resource fields for unknown item type")
	}

	item, err = transform.Product(api.Record{"Id": 1}, 1, uuid.New())
	if err != nil {
		t.Fatalf("failed to transform product: %v", err)
	}
	if item.ItemType != nil {
		t.Errorf("want nil item type, got %d", *item.ItemType)
	}
	if item.ProductTypeLabel != "Unknown" {
		t.Errorf("want Unknown label for missing item type, got %q", item.ProductTypeLabel)
	}
	if item.Name != "Unknown" {
		t.Errorf("want Unknown name, got %q", item.Name)
	}
}

func TestTransformProductCompanyFallback(t *testing.T) {
	tests := []struct {
		name    string
		payload api.Record
		want    *string
	}{
		{
			name:    "team names take precedence",
			payload: api.Record{"Id": 1, "CoworkerTeamNames": "ACME Berlin", "CoworkerCompanyName": "ACME"},
			want:    ptr.To("ACME Berlin"),
		},
		{
			name:    "falls back to company name",
			payload: api.Record{"Id": 1, "CoworkerTeamNames": "", "CoworkerCompanyName": "ACME"},
			want:    ptr.To("ACME"),
		},
		{
			name:    "stays nil without either",
			payload: api.Record{"Id": 1},
			want:    nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item, err := transform.Product(tc.payload, 1, uuid.New())
			if err != nil {
				t.Fatalf("failed to transform product: %v", err)
			}
			if ptr.Value(item.CoworkerCompany, "") != ptr.Value(tc.want, "") {
				t.Errorf("want company %v, got %v", tc.want, item.CoworkerCompany)
			}
		})
	}
}

func TestTransformProductCustomSize(t *testing.T) {
	tests := []struct {
		name    string
		payload api.Record
		want    *float64
	}{
		{
			name: "numeric value",
			payload: api.Record{"Id": 1, "CustomFields": map[string]any{
				"Data": []any{map[string]any{"Name": "Nexudus.FloorPlan.Size", "Value": 31.5}},
			}},
			want: ptr.To(31.5),
		},
		{
			name: "unparsable value",
			payload: api.Record{"Id": 1, "CustomFields": map[string]any{
				"Data": []any{map[string]any{"Name": "Nexudus.FloorPlan.Size", "Value": "big"}},
			}},
			want: nil,
		},
		{
			name:    "custom fields not an object",
			payload: api.Record{"Id": 1, "CustomFields": "none"},
			want:    nil,
		},
		{
			name:    "data missing",
			payload: api.Record{"Id": 1, "CustomFields": map[string]any{}},
			want:    nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item, err := transform.Product(tc.payload, 1, uuid.New())
			if err != nil {
				t.Fatalf("failed to transform product: %v", err)
			}
			if ptr.Value(item.CustomSizeSqm, -1) != ptr.Value(tc.want, -1) {
				t.Errorf("want custom size %v, got %v", tc.want, item.CustomSizeSqm)
			}
		})
	}
}

func TestTransformProductWithoutID(t *testing.T) {
	if _, err := transform.Product(api.Record{"Name": "x"}, 1, uuid.New()); err == nil {
		t.Fatal("want error for product without Id")
	}
}
