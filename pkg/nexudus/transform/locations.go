// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"github.com/google/uuid"

	"github.com/flexspace/warehouse/pkg/nexudus/api"
	"github.com/flexspace/warehouse/pkg/nexudus/models"
)

// excludedLocationIDs are the source ids of locations, which exist upstream
// but are not real physical locations: the root business account and the
// demo location. They are kept in bronze, but never surface in silver.
var excludedLocationIDs = map[int64]struct{}{
	1376491116: {},
	1376491117: {},
}

// weekday describes how to read the opening hours of a single weekday from
// a raw location record.
type weekday struct {
	day       int64
	name      string
	openKey   string
	closeKey  string
	closedKey string
}

var weekdays = []weekday{
	{1, "Monday", "MondayOpenTime", "MondayCloseTime", "MondayClosed"},
	{2, "Tuesday", "TuesdayOpenTime", "TuesdayCloseTime", "TuesdayClosed"},
	{3, "Wednesday", "WednesdayOpenTime", "WednesdayCloseTime", "WednesdayClosed"},
	{4, "Thursday", "ThursdayOpenTime", "ThursdayCloseTime", "ThursdayClosed"},
	{5, "Friday", "FridayOpenTime", "FridayCloseTime", "FridayClosed"},
	{6, "Saturday", "SaturdayOpenTime", "SaturdayCloseTime", "SaturdayClosed"},
	{7, "Sunday", "SundayOpenTime", "SundayCloseTime", "SundayClosed"},
}

// IsExcludedLocation reports whether the location with the given source id
// is excluded from the silver tier.
func IsExcludedLocation(id int64) bool {
	_, ok := excludedLocationIDs[id]

	return ok
}

// Location transforms a raw location record into its silver model.
// Excluded locations are skipped and yield a nil model.
func Location(payload api.Record, bronzeID int64, runID uuid.UUID) (*models.Location, error) {
	id, err := sourceID(payload)
	if err != nil {
		return nil, err
	}

	if IsExcludedLocation(id) {
		return nil, nil
	}

	item := &models.Location{
		SourceID:     id,
		BronzeID:     bronzeID,
		SyncRunID:    runID,
		NexudusUUID:  asString(payload["UniqueId"]),
		Name:         displayName(payload, "Unknown"),
		WebAddress:   asString(payload["WebAddress"]),
		Address:      asString(payload["Address"]),
		PostalCode:   asString(payload["PostalCode"]),
		City:         asString(payload["TownCity"]),
		State:        asString(payload["State"]),
		CountryName:  asString(payload["CountryName"]),
		CountryID:    asInt64(payload["CountryId"]),
		Latitude:     asFloat(payload["Latitude"]),
		Longitude:    asFloat(payload["Longitude"]),
		Phone:        asString(payload["Phone"]),
		Email:        asString(payload["EmailContact"]),
		WebContact:   asString(payload["WebContact"]),
		CurrencyCode: asString(payload["CurrencyCode"]),
		Description:  stripHTML(payload["AboutUs"]),
		ShortIntro:   stripHTML(payload["ShortIntroduction"]),
		CreatedOn:    asTime(payload["CreatedOn"]),
		UpdatedOn:    asTime(payload["UpdatedOn"]),
	}

	return item, nil
}

// LocationHours derives the weekly opening hours rows from a raw location
// record, one row per weekday. Excluded locations yield no rows.
func LocationHours(payload api.Record) ([]models.LocationHours, error) {
	id, err := sourceID(payload)
	if err != nil {
		return nil, err
	}

	if IsExcludedLocation(id) {
		return nil, nil
	}

	items := make([]models.LocationHours, 0, len(weekdays))
	for _, day := range weekdays {
		openTime := asInt64(payload[day.openKey])
		closeTime := asInt64(payload[day.closeKey])

		// The API sometimes reports 0/0 instead of null for days
		// without configured hours
		if openTime != nil && closeTime != nil && *openTime == 0 && *closeTime == 0 {
			openTime, closeTime = nil, nil
		}

		items = append(items, models.LocationHours{
			LocationSourceID: id,
			DayOfWeek:        day.day,
			DayName:          day.name,
			IsClosed:         asFlag(payload[day.closedKey]),
			OpenTime:         openTime,
			CloseTime:        closeTime,
		})
	}

	return items, nil
}
