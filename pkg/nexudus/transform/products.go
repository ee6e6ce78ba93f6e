// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"github.com/google/uuid"

	"github.com/flexspace/warehouse/pkg/nexudus/api"
	"github.com/flexspace/warehouse/pkg/nexudus/models"
)

// ItemTypeLabels maps the upstream product item type to its human readable
// label.
var ItemTypeLabels = map[int64]string{
	1: "Private Office",
	2: "Dedicated Desk",
	3: "Hot Desk",
	4: "Other",
	5: "Meeting Room",
}

// customFloorPlanSize extracts the floor plan size custom field, which
// carries the surveyed size for private offices.
func customFloorPlanSize(payload api.Record) *float64 {
	custom, ok := payload["CustomFields"].(map[string]any)
	if !ok {
		return nil
	}

	data, ok := custom["Data"].([]any)
	if !ok {
		return nil
	}

	for _, entry := range data {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if item["Name"] == "Nexudus.FloorPlan.Size" {
			return asFloat(item["Value"])
		}
	}

	return nil
}

// Product transforms a raw floor plan desk record into its silver model.
// All item types share one model: the resource and amenity fields are only
// populated for bookable rooms (item types 4 and 5) and stay nil for desks
// and offices.
func Product(payload api.Record, bronzeID int64, runID uuid.UUID) (*models.Product, error) {
	id, err := sourceID(payload)
	if err != nil {
		return nil, err
	}

	itemType := asInt64(payload["ItemType"])
	isRoom := itemType != nil && (*itemType == 4 || *itemType == 5)

	label := "Unknown"
	if itemType != nil {
		if known, ok := ItemTypeLabels[*itemType]; ok {
			label = known
		}
	}

	coworkerCompany := asString(payload["CoworkerTeamNames"])
	if coworkerCompany == nil {
		coworkerCompany = asString(payload["CoworkerCompanyName"])
	}

	item := &models.Product{
		SourceID:           id,
		BronzeID:           bronzeID,
		SyncRunID:          runID,
		ItemType:           itemType,
		ProductTypeLabel:   label,
		LocationSourceID:   asInt64(payload["FloorPlanBusinessId"]),
		LocationName:       asString(payload["FloorPlanBusinessName"]),
		FloorPlanID:        asInt64(payload["FloorPlanId"]),
		FloorPlanName:      asString(payload["FloorPlanName"]),
		Name:               displayName(payload, "Unknown"),
		AreaCode:           asString(payload["Area"]),
		Price:              asFloat(payload["Price"]),
		CurrencyCode:       asString(payload["FloorPlanBusinessCurrencyCode"]),
		IsAvailable:        asFlag(payload["Available"]),
		AvailableFrom:      asTime(payload["AvailableFromTime"]),
		AvailableTo:        asTime(payload["AvailableToTime"]),
		CoworkerID:         asInt64(payload["CoworkerId"]),
		CoworkerName:       asString(payload["CoworkerFullName"]),
		CoworkerCompany:    coworkerCompany,
		CoworkerEmail:      asString(payload["CoworkerEmail"]),
		ContractIDsRaw:     asString(payload["CoworkerContractIds"]),
		SizeSqm:            asFloat(payload["Size"]),
		CustomSizeSqm:      customFloorPlanSize(payload),
		Capacity:           asInt64(payload["Capacity"]),
		SizeIsLinkedToArea: asBit(payload["SizeIsLinkedToArea"]),
		CreatedOn:          asTime(payload["CreatedOn"]),
		UpdatedOn:          asTime(payload["UpdatedOn"]),
	}

	if isRoom {
		item.ResourceID = asInt64(payload["ResourceId"])
		item.ResourceName = asString(payload["ResourceName"])
		item.ResourceTypeName = asString(payload["ResourceResourceTypeName"])
		item.ResourceAllocation = asInt64(payload["ResourceAllocation"])
		item.ResourceShifts = asString(payload["ResourceShifts"])

		item.AmenityAirConditioning = asBit(payload["ResourceAirConditioning"])
		item.AmenityHeating = asBit(payload["ResourceHeating"])
		item.AmenityInternet = asBit(payload["ResourceInternet"])
		item.AmenityLargeDisplay = asBit(payload["ResourceLargeDisplay"])
		item.AmenityNaturalLight = asBit(payload["ResourceNaturalLight"])
		item.AmenityWhiteboard = asBit(payload["ResourceWhiteBoard"])
		item.AmenitySoundproof = asBit(payload["ResourceSoundproof"])
		item.AmenityQuietZone = asBit(payload["ResourceQuietZone"])
		item.AmenityTeaCoffee = asBit(payload["ResourceTeaAndCoffee"])
		item.AmenitySecurityLock = asBit(payload["ResourceSecurityLock"])
		item.AmenityCCTV = asBit(payload["ResourceCCTV"])
		item.AmenityCatering = asBit(payload["ResourceCatering"])
		item.AmenityConferencePhone = asBit(payload["ResourceConferencePhone"])
		item.AmenityProjector = asBit(payload["ResourceProjector"])
		item.AmenityStandingDesk = asBit(payload["ResourceStandingDesk"])
		item.AmenityDrinks = asBit(payload["ResourceDrinks"])
		item.AmenityPrivacyScreen = asBit(payload["ResourcePrivacyScreen"])
		item.AmenityVoiceRecorder = asBit(payload["ResourceVoiceRecorder"])
		item.AmenityStandardPhone = asBit(payload["ResourceStandardPhone"])
		item.AmenityWirelessCharger = asBit(payload["ResourceWirelessCharger"])
	}

	return item, nil
}
