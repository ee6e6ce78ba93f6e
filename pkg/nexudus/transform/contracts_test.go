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

func TestTransformContract(t *testing.T) {
	runID := uuid.New()
	payload := api.Record{
		"Id":                   555001,
		"UniqueId":             "c0ffee00-1111-2222-3333-444455556666",
		"Active":               true,
		"MainContract":         true,
		"InPausedPeriod":       false,
		"CoworkerId":           112233,
		"CoworkerFullName":     "Jane Doe",
		"CoworkerEmail":        "jane@acme.example",
		"CoworkerCompanyName":  "ACME",
		"CoworkerActive":       false,
		"IssuedById":           700,
		"IssuedByName":         "beyond Mitte",
		"TariffId":             88,
		"TariffName":           "Flex 10",
		"TariffPrice":          "449.00",
		"TariffCurrencyCode":   "EUR",
		"FloorPlanDeskIds":     "9001,9002",
		"FloorPlanDeskNames":   "Focus Room, Office 4.01",
		"Price":                449.0,
		"PriceWithProducts":    478.5,
		"Quantity":             "3",
		"BillingDay":           1,
		"ApplyProRating":       true,
		"StartDate":            "2023-02-01T00:00:00Z",
		"RenewalDate":          "2026-02-01T00:00:00Z",
		"TermDurationInMonths": 12,
		"UpdatedBy":            "sync@acme.example",
	}

	item, err := transform.Contract(payload, 11, runID)
	if err != nil {
		t.Fatalf("failed to transform contract: %v", err)
	}

	if item.SourceID != 555001 {
		t.Errorf("want source id 555001, got %d", item.SourceID)
	}

	// Status flags default to 0 when absent, unlike the nullable bits
	if item.Active != 1 {
		t.Errorf("want active=1, got %d", item.Active)
	}
	if item.Cancelled != 0 {
		t.Errorf("want cancelled=0 for missing value, got %d", item.Cancelled)
	}
	if item.MainContract != 1 {
		t.Errorf("want main_contract=1, got %d", item.MainContract)
	}
	if got := ptr.Value(item.CoworkerActive, -1); got != 0 {
		t.Errorf("want coworker_active=0, got %d", got)
	}
	if item.ApplyProRating == nil || *item.ApplyProRating != 1 {
		t.Errorf("want apply_pro_rating=1, got %v", item.ApplyProRating)
	}
	if item.ProRateCancellation != nil {
		t.Errorf("want nil pro_rate_cancellation for missing value, got %d", *item.ProRateCancellation)
	}

	if got := ptr.Value(item.LocationSourceID, 0); got != 700 {
		t.Errorf("want location source id 700, got %d", got)
	}
	if got := ptr.Value(item.LocationName, ""); got != "beyond Mitte" {
		t.Errorf("want beyond Mitte location, got %q", got)
	}

	// Numeric strings are coerced
	if got := ptr.Value(item.TariffPrice, 0); got != 449.0 {
		t.Errorf("want tariff price 449.0, got %v", got)
	}
	if got := ptr.Value(item.Quantity, 0); got != 3 {
		t.Errorf("want quantity 3, got %d", got)
	}

	if got := ptr.Value(item.CurrencyCode, ""); got != "EUR" {
		t.Errorf("want EUR currency, got %q", got)
	}
	if got := ptr.Value(item.TermDurationMonths, 0); got != 12 {
		t.Errorf("want 12 months term, got %d", got)
	}

	wantStart := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := ptr.Value(item.StartDate, time.Time{}); !got.Equal(wantStart) {
		t.Errorf("want start date %s, got %s", wantStart, got)
	}
	if item.CancellationDate != nil {
		t.Errorf("want nil cancellation date, got %s", *item.CancellationDate)
	}
}

func TestTransformContractWithoutID(t *testing.T) {
	_, err := transform.Contract(api.Record{"CoworkerFullName": "Jane"}, 1, uuid.New())
	if !errors.Is(err, transform.ErrMissingID) {
		t.Fatalf("want ErrMissingID, got %v", err)
	}
}
