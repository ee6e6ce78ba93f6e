// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package transform_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/flexspace/warehouse/pkg/nexudus/api"
	"github.com/flexspace/warehouse/pkg/nexudus/transform"
	"github.com/flexspace/warehouse/pkg/utils/ptr"
)

func TestTransformExtraService(t *testing.T) {
	payload := api.Record{
		"Id":                33001,
		"UniqueId":          "deadbeef-1111-2222-3333-444455556666",
		"BusinessId":        700,
		"Name":              "Day Pass",
		"Description":       "Single day access",
		"Price":             29.0,
		"CurrencyCode":      "EUR",
		"ChargePeriod":      0,
		"CreditPrice":       1.0,
		"FixedCostLength":   60,
		"MinLength":         30,
		"MaxLength":         480,
		"IsDefaultPrice":    true,
		"OnlyForMembers":    false,
		"ApplyFrom":         "2024-01-01T00:00:00Z",
		"ResourceTypeNames": "Meeting Room, Event Space",
		"TaxRateId":         3,
		"UpdatedBy":         "admin@example.org",
	}

	item, err := transform.ExtraService(payload, 5, uuid.New())
	if err != nil {
		t.Fatalf("failed to transform extra service: %v", err)
	}

	if item.SourceID != 33001 {
		t.Errorf("want source id 33001, got %d", item.SourceID)
	}
	if item.LocationSourceID != 700 {
		t.Errorf("want location source id 700, got %d", item.LocationSourceID)
	}
	if item.Name != "Day Pass" {
		t.Errorf("want Day Pass name, got %q", item.Name)
	}
	if item.Price != 29.0 {
		t.Errorf("want price 29.0, got %v", item.Price)
	}
	if got := ptr.Value(item.ChargePeriod, -1); got != 0 {
		t.Errorf("want charge period 0, got %d", got)
	}
	if got := ptr.Value(item.FixedCostLengthMinutes, 0); got != 60 {
		t.Errorf("want fixed cost length 60, got %d", got)
	}
	if got := ptr.Value(item.MinLengthMinutes, 0); got != 30 {
		t.Errorf("want min length 30, got %d", got)
	}
	if item.IsDefaultPrice != 1 {
		t.Errorf("want is_default_price=1, got %d", item.IsDefaultPrice)
	}
	if item.OnlyForMembers != 0 {
		t.Errorf("want only_for_members=0, got %d", item.OnlyForMembers)
	}

	// Flags default to 0 when absent
	if item.IsPrintingCredit != 0 {
		t.Errorf("want is_printing_credit=0, got %d", item.IsPrintingCredit)
	}
	if got := ptr.Value(item.ResourceTypeNames, ""); got != "Meeting Room, Event Space" {
		t.Errorf("want resource type names, got %q", got)
	}
	if got := ptr.Value(item.TaxRateID, 0); got != 3 {
		t.Errorf("want tax rate id 3, got %d", got)
	}
}

func TestTransformExtraServiceDefaults(t *testing.T) {
	item, err := transform.ExtraService(api.Record{"Id": 1, "BusinessId": 700}, 1, uuid.New())
	if err != nil {
		t.Fatalf("failed to transform extra service: %v", err)
	}

	// Unlike the other entities the name falls back to an empty string
	// and the price defaults to zero
	if item.Name != "" {
		t.Errorf("want empty name, got %q", item.Name)
	}
	if item.Price != 0 {
		t.Errorf("want zero price, got %v", item.Price)
	}
}

func TestTransformExtraServiceMissingKeys(t *testing.T) {
	_, err := transform.ExtraService(api.Record{"BusinessId": 700}, 1, uuid.New())
	if !errors.Is(err, transform.ErrMissingID) {
		t.Fatalf("want ErrMissingID, got %v", err)
	}

	_, err = transform.ExtraService(api.Record{"Id": 1}, 1, uuid.New())
	if !errors.Is(err, transform.ErrMissingBusinessID) {
		t.Fatalf("want ErrMissingBusinessID, got %v", err)
	}
}
