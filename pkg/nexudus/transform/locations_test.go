// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package transform_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/flexspace/warehouse/pkg/nexudus/api"
	"github.com/flexspace/warehouse/pkg/nexudus/transform"
	"github.com/flexspace/warehouse/pkg/utils/ptr"
)

func TestTransformLocation(t *testing.T) {
	runID := uuid.New()
	payload := api.Record{
		"Id":                100200300,
		"UniqueId":          "1e9f1b4e-7e2a-4b7e-9d35-0a9e3a1b2c3d",
		"Name":              "  beyond Mitte  ",
		"WebAddress":        "https://example.org/mitte",
		"Address":           "Torstr. 1",
		"PostalCode":        "10119",
		"TownCity":          "Berlin",
		"State":             "",
		"CountryName":       "Germany",
		"CountryId":         82,
		"Latitude":          52.5297,
		"Longitude":         13.4015,
		"Phone":             "+49 30 1234",
		"EmailContact":      "mitte@example.org",
		"WebContact":        nil,
		"CurrencyCode":      "EUR",
		"AboutUs":           "<p>Open <b>space</b> with\n\nstyle</p>",
		"ShortIntroduction": "<div></div>",
		"CreatedOn":         "2019-04-01T08:30:00Z",
		"UpdatedOn":         "2024-11-20T17:45:12",
	}

	item, err := transform.Location(payload, 42, runID)
	if err != nil {
		t.Fatalf("failed to transform location: %v", err)
	}
	if item == nil {
		t.Fatal("want location, got nil")
	}

	if item.SourceID != 100200300 {
		t.Errorf("want source id 100200300, got %d", item.SourceID)
	}
	if item.BronzeID != 42 {
		t.Errorf("want bronze id 42, got %d", item.BronzeID)
	}
	if item.SyncRunID != runID {
		t.Errorf("want sync run id %s, got %s", runID, item.SyncRunID)
	}
	if item.Name != "beyond Mitte" {
		t.Errorf("want trimmed name, got %q", item.Name)
	}
	if got := ptr.Value(item.City, ""); got != "Berlin" {
		t.Errorf("want Berlin city, got %q", got)
	}
	if item.State != nil {
		t.Errorf("want nil state for empty value, got %q", *item.State)
	}
	if item.WebContact != nil {
		t.Errorf("want nil web contact, got %q", *item.WebContact)
	}
	if got := ptr.Value(item.CountryID, 0); got != 82 {
		t.Errorf("want country id 82, got %d", got)
	}
	if got := ptr.Value(item.Latitude, 0); got != 52.5297 {
		t.Errorf("want latitude 52.5297, got %v", got)
	}
	if got := ptr.Value(item.Description, ""); got != "Open space with style" {
		t.Errorf("want stripped description, got %q", got)
	}
	if item.ShortIntro != nil {
		t.Errorf("want nil short intro for markup-only value, got %q", *item.ShortIntro)
	}

	wantCreated := time.Date(2019, 4, 1, 8, 30, 0, 0, time.UTC)
	if got := ptr.Value(item.CreatedOn, time.Time{}); !got.Equal(wantCreated) {
		t.Errorf("want created on %s, got %s", wantCreated, got)
	}

	// Naive timestamps are treated as UTC
	wantUpdated := time.Date(2024, 11, 20, 17, 45, 12, 0, time.UTC)
	if got := ptr.Value(item.UpdatedOn, time.Time{}); !got.Equal(wantUpdated) {
		t.Errorf("want updated on %s, got %s", wantUpdated, got)
	}
}

func TestTransformLocationExcluded(t *testing.T) {
	for _, id := range []int64{1376491116, 1376491117} {
		if !transform.IsExcludedLocation(id) {
			t.Errorf("want source id %d to be excluded", id)
		}

		payload := api.Record{"Id": id, "Name": "internal"}
		item, err := transform.Location(payload, 1, uuid.New())
		if err != nil {
			t.Fatalf("want no error for excluded location, got %v", err)
		}
		if item != nil {
			t.Errorf("want nil model for excluded location %d", id)
		}

		hours, err := transform.LocationHours(payload)
		if err != nil {
			t.Fatalf("want no error for excluded location hours, got %v", err)
		}
		if hours != nil {
			t.Errorf("want no hours rows for excluded location %d", id)
		}
	}

	if transform.IsExcludedLocation(100200300) {
		t.Error("want regular source id not to be excluded")
	}
}

func TestTransformLocationWithoutID(t *testing.T) {
	_, err := transform.Location(api.Record{"Name": "nameless"}, 1, uuid.New())
	if !errors.Is(err, transform.ErrMissingID) {
		t.Fatalf("want ErrMissingID, got %v", err)
	}

	_, err = transform.LocationHours(api.Record{"Name": "nameless"})
	if !errors.Is(err, transform.ErrMissingID) {
		t.Fatalf("want ErrMissingID for hours, got %v", err)
	}
}

func TestTransformLocationNameFallback(t *testing.T) {
	tests := []struct {
		name    string
		payload api.Record
		want    string
	}{
		{
			name:    "name is used when present",
			payload: api.Record{"Id": 1, "Name": "Alpha", "ToStringText": "Beta"},
			want:    "Alpha",
		},
		{
			name:    "falls back to ToStringText",
			payload: api.Record{"Id": 1, "Name": "", "ToStringText": "Beta"},
			want:    "Beta",
		},
		{
			name:    "falls back to Unknown",
			payload: api.Record{"Id": 1},
			want:    "Unknown",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item, err := transform.Location(tc.payload, 1, uuid.New())
			if err != nil {
				t.Fatalf("failed to transform location: %v", err)
			}
			if item.Name != tc.want {
				t.Errorf("want name %q, got %q", tc.want, item.Name)
			}
		})
	}
}

func TestTransformLocationHours(t *testing.T) {
	payload := api.Record{
		"Id":               500,
		"MondayOpenTime":   540,
		"MondayCloseTime":  1080,
		"MondayClosed":     false,
		"TuesdayOpenTime":  0,
		"TuesdayCloseTime": 0,
		"TuesdayClosed":    false,
		"SundayClosed":     true,
	}

	items, err := transform.LocationHours(payload)
	if err != nil {
		t.Fatalf("failed to transform hours: %v", err)
	}
	if len(items) != 7 {
		t.Fatalf("want 7 hours rows, got %d", len(items))
	}

	monday := items[0]
	if monday.DayOfWeek != 1 || monday.DayName != "Monday" {
		t.Errorf("want Monday as first row, got %d %s", monday.DayOfWeek, monday.DayName)
	}
	if monday.LocationSourceID != 500 {
		t.Errorf("want location source id 500, got %d", monday.LocationSourceID)
	}
	if monday.IsClosed != 0 {
		t.Errorf("want Monday open, got is_closed=%d", monday.IsClosed)
	}
	if got := ptr.Value(monday.OpenTime, -1); got != 540 {
		t.Errorf("want Monday open time 540, got %d", got)
	}
	if got := ptr.Value(monday.CloseTime, -1); got != 1080 {
		t.Errorf("want Monday close time 1080, got %d", got)
	}

	// 0/0 means the hours are not configured, not open at midnight
	tuesday := items[1]
	if tuesday.OpenTime != nil || tuesday.CloseTime != nil {
		t.Error("want nil open and close time for 0/0 hours")
	}

	// Days without any keys default to open with unknown hours
	wednesday := items[2]
	if wednesday.IsClosed != 0 {
		t.Errorf("want Wednesday open by default, got is_closed=%d", wednesday.IsClosed)
	}
	if wednesday.OpenTime != nil || wednesday.CloseTime != nil {
		t.Error("want nil open and close time for missing hours")
	}

	sunday := items[6]
	if sunday.DayOfWeek != 7 || sunday.DayName != "Sunday" {
		t.Errorf("want Sunday as last row, got %d %s", sunday.DayOfWeek, sunday.DayName)
	}
	if sunday.IsClosed != 1 {
		t.Errorf("want Sunday closed, got is_closed=%d", sunday.IsClosed)
	}
}
