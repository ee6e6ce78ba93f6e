// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"errors"

	"github.com/google/uuid"

	"github.com/flexspace/warehouse/pkg/nexudus/api"
	"github.com/flexspace/warehouse/pkg/nexudus/models"
)

// ErrMissingBusinessID is returned when an extra service record has no
// usable BusinessId field.
var ErrMissingBusinessID = errors.New("record has no BusinessId field")

// ExtraService transforms a raw extra service record into its silver model.
//
// Several upstream fields are deliberately not carried over: the
// Added*/Removed* change sets, the credit and discount bookkeeping fields,
// the PriceFactor* fields and the localization details are always null
// upstream, and ToStringText duplicates Name.
func ExtraService(payload api.Record, bronzeID int64, runID uuid.UUID) (*models.ExtraService, error) {
	id, err := sourceID(payload)
	if err != nil {
		return nil, err
	}

	locationID := asInt64(payload["BusinessId"])
	if locationID == nil {
		return nil, ErrMissingBusinessID
	}

	var price float64
	if v := asFloat(payload["Price"]); v != nil {
		price = *v
	}

	item := &models.ExtraService{
		SourceID:  id,
		UniqueID:  asString(payload["UniqueId"]),
		BronzeID:  bronzeID,
		SyncRunID: runID,

		LocationSourceID: *locationID,
		Name:             displayName(payload, ""),
		Description:      asString(payload["Description"]),

		Price:                  price,
		CurrencyCode:           asString(payload["CurrencyCode"]),
		ChargePeriod:           asInt64(payload["ChargePeriod"]),
		CreditPrice:            asFloat(payload["CreditPrice"]),
		FixedCostPrice:         asFloat(payload["FixedCostPrice"]),
		FixedCostLengthMinutes: asInt64(payload["FixedCostLength"]),
		MaximumPrice:           asFloat(payload["MaximumPrice"]),
		MinLengthMinutes:       asInt64(payload["MinLength"]),
		MaxLengthMinutes:       asInt64(payload["MaxLength"]),

		IsDefaultPrice:        asFlag(payload["IsDefaultPrice"]),
		IsPrintingCredit:      asFlag(payload["IsPrintingCredit"]),
		OnlyForContacts:       asFlag(payload["OnlyForContacts"]),
		OnlyForMembers:        asFlag(payload["OnlyForMembers"]),
		ApplyChargeToVisitors: asFlag(payload["ApplyChargeToVisitors"]),
		UsePerNightPricing:    asFlag(payload["UsePerNightPricing"]),

		LastMinuteAdjustmentType: asInt64(payload["LastMinuteAdjustmentType"]),

		ApplyFrom: asTime(payload["ApplyFrom"]),
		ApplyTo:   asTime(payload["ApplyTo"]),

		ResourceTypeNames: asString(payload["ResourceTypeNames"]),

		TaxRateID:          asInt64(payload["TaxRateId"]),
		ReducedTaxRateID:   asInt64(payload["ReducedTaxRateId"]),
		ExemptTaxRateID:    asInt64(payload["ExemptTaxRateId"]),
		FinancialAccountID: asInt64(payload["FinancialAccountId"]),

		UpdatedBy: asString(payload["UpdatedBy"]),
		CreatedOn: asTime(payload["CreatedOn"]),
		UpdatedOn: asTime(payload["UpdatedOn"]),
	}

	return item, nil
}
