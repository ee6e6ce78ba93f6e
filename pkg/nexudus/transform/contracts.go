// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"github.com/google/uuid"

	"github.com/flexspace/warehouse/pkg/nexudus/api"
	"github.com/flexspace/warehouse/pkg/nexudus/models"
)

// Contract transforms a raw coworker contract record into its silver model.
//
// Several upstream fields are deliberately not carried over: the
// DurationIn* and TermDurationIn* day/week variants are derivable from the
// contract dates, the DeskCapacity/DeskPrice/DeskSize fields and the
// deposit totals are always zero or null upstream, and TotalPrice and
// PriceWithProductsAndDeposits duplicate PriceWithProducts.
func Contract(payload api.Record, bronzeID int64, runID uuid.UUID) (*models.Contract, error) {
	id, err := sourceID(payload)
	if err != nil {
		return nil, err
	}

	item := &models.Contract{
		SourceID:  id,
		UniqueID:  asString(payload["UniqueId"]),
		BronzeID:  bronzeID,
		SyncRunID: runID,

		Active:         asFlag(payload["Active"]),
		Cancelled:      asFlag(payload["Cancelled"]),
		MainContract:   asFlag(payload["MainContract"]),
		InPausedPeriod: asFlag(payload["InPausedPeriod"]),

		CoworkerID:          asInt64(payload["CoworkerId"]),
		CoworkerName:        asString(payload["CoworkerFullName"]),
		CoworkerEmail:       asString(payload["CoworkerEmail"]),
		CoworkerCompany:     asString(payload["CoworkerCompanyName"]),
		CoworkerBillingName: asString(payload["CoworkerBillingName"]),
		CoworkerType:        asInt64(payload["CoworkerCoworkerType"]),
		CoworkerActive:      asBit(payload["CoworkerActive"]),

		// IssuedById is the source id of the issuing location
		LocationSourceID: asInt64(payload["IssuedById"]),
		LocationName:     asString(payload["IssuedByName"]),

		TariffID:       asInt64(payload["TariffId"]),
		TariffName:     asString(payload["TariffName"]),
		TariffPrice:    asFloat(payload["TariffPrice"]),
		CurrencyCode:   asString(payload["TariffCurrencyCode"]),
		NextTariffID:   asInt64(payload["NextTariffId"]),
		NextTariffName: asString(payload["NextTariffName"]),

		FloorPlanDeskIDs:   asString(payload["FloorPlanDeskIds"]),
		FloorPlanDeskNames: asString(payload["FloorPlanDeskNames"]),

		Price:             asFloat(payload["Price"]),
		PriceWithProducts: asFloat(payload["PriceWithProducts"]),
		UnitPrice:         asFloat(payload["UnitPrice"]),
		Quantity:          asInt64(payload["Quantity"]),
		BillingDay:        asInt64(payload["BillingDay"]),

		ApplyProRating:        asBit(payload["ApplyProRating"]),
		ProRateCancellation:   asBit(payload["ProRateCancellation"]),
		IncludeSignupFee:      asBit(payload["IncludeSignupFee"]),
		CancellationLimitDays: asInt64(payload["CancellationLimitDays"]),

		StartDate:        asTime(payload["StartDate"]),
		ContractTerm:     asTime(payload["ContractTerm"]),
		RenewalDate:      asTime(payload["RenewalDate"]),
		CancellationDate: asTime(payload["CancellationDate"]),
		InvoicedPeriod:   asTime(payload["InvoicedPeriod"]),

		TermDurationMonths: asInt64(payload["TermDurationInMonths"]),

		Notes:     asString(payload["Notes"]),
		UpdatedBy: asString(payload["UpdatedBy"]),
		CreatedOn: asTime(payload["CreatedOn"]),
		UpdatedOn: asTime(payload["UpdatedOn"]),
	}

	return item, nil
}
