// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package silver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/flexspace/warehouse/pkg/clients/db"
	"github.com/flexspace/warehouse/pkg/nexudus/api"
	"github.com/flexspace/warehouse/pkg/nexudus/models"
	"github.com/flexspace/warehouse/pkg/nexudus/transform"
)

// MaterializeLocations materializes the latest bronze generation of every
// location into silver.nexudus_locations, along with the seven weekly
// opening hours rows per location in silver.nexudus_location_hours.
//
// The reported written count includes both the location rows and the hours
// rows.
func MaterializeLocations(ctx context.Context, runID uuid.UUID, sink ErrorSink) (Stats, error) {
	var stats Stats

	bronzeRows, err := latestBronze[models.BronzeLocation](ctx)
	if err != nil {
		return stats, err
	}
	stats.Read = int64(len(bronzeRows))

	locations, hours, skipped := prepareLocations(ctx, bronzeRows, runID, time.Now().UTC(), sink)
	stats.Skipped = skipped

	written, err := upsertBatches(ctx, locations, upsertLocationsQuery)
	stats.Written += written
	if err != nil {
		return stats, err
	}

	written, err = upsertBatches(ctx, hours, upsertLocationHoursQuery)
	stats.Written += written

	return stats, err
}

// prepareLocations transforms the given bronze rows into their silver
// location models and the weekly hours rows derived from them. Rows which
// fail to decode or transform are reported to the sink and skipped, and the
// excluded internal businesses are skipped without being reported. A
// location whose hours fail to transform still gets its own row.
func prepareLocations(ctx context.Context, rows []models.BronzeLocation, runID uuid.UUID, now time.Time, sink ErrorSink) ([]models.Location, []models.LocationHours, int64) {
	var skipped int64
	locations := make([]models.Location, 0, len(rows))
	hours := make([]models.LocationHours, 0, 7*len(rows))
	for _, row := range rows {
		var payload api.Record
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			sink.LogError(ctx, row.SourceID, err, row.Payload)
			skipped++
			continue
		}

		item, err := transform.Location(payload, row.ID, runID)
		if err != nil {
			sink.LogError(ctx, row.SourceID, err, row.Payload)
			skipped++
			continue
		}
		if item == nil {
			// Excluded internal businesses are retained in bronze only.
			skipped++
			continue
		}
		item.LastSyncedAt = now
		locations = append(locations, *item)

		hourRows, err := transform.LocationHours(payload)
		if err != nil {
			sink.LogError(ctx, row.SourceID, err, row.Payload)
			continue
		}
		for i := range hourRows {
			hourRows[i].LastSyncedAt = now
		}
		hours = append(hours, hourRows...)
	}

	return locations, hours, skipped
}

func upsertLocationsQuery(batch *[]models.Location) *bun.InsertQuery {
	return db.DB.NewInsert().
		Model(batch).
		On("CONFLICT (source_id) DO UPDATE").
		Set("bronze_id = EXCLUDED.bronze_id").
		Set("sync_run_id = EXCLUDED.sync_run_id").
		Set("nexudus_uuid = EXCLUDED.nexudus_uuid").
		Set("name = EXCLUDED.name").
		Set("web_address = EXCLUDED.web_address").
		Set("address = EXCLUDED.address").
		Set("postal_code = EXCLUDED.postal_code").
		Set("city = EXCLUDED.city").
		Set("state = EXCLUDED.state").
		Set("country_name = EXCLUDED.country_name").
		Set("country_id = EXCLUDED.country_id").
		Set("latitude = EXCLUDED.latitude").
		Set("longitude = EXCLUDED.longitude").
		Set("phone = EXCLUDED.phone").
		Set("email = EXCLUDED.email").
		Set("web_contact = EXCLUDED.web_contact").
		Set("currency_code = EXCLUDED.currency_code").
		Set("description = EXCLUDED.description").
		Set("short_intro = EXCLUDED.short_intro").
		Set("created_on = EXCLUDED.created_on").
		Set("updated_on = EXCLUDED.updated_on").
		Set("last_synced_at = EXCLUDED.last_synced_at").
		Set("updated_at = EXCLUDED.updated_at")
}

// upsertLocationHoursQuery builds the upsert for the weekly hours rows,
// keyed by location and weekday. The day name never changes, so it is
// written on first insert only.
func upsertLocationHoursQuery(batch *[]models.LocationHours) *bun.InsertQuery {
	return db.DB.NewInsert().
		Model(batch).
		On("CONFLICT (location_source_id, day_of_week) DO UPDATE").
		Set("is_closed = EXCLUDED.is_closed").
		Set("open_time = EXCLUDED.open_time").
		Set("close_time = EXCLUDED.close_time").
		Set("last_synced_at = EXCLUDED.last_synced_at").
		Set("updated_at = EXCLUDED.updated_at")
}
