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

// MaterializeProducts materializes the latest bronze generation of every
// product into silver.nexudus_products. Products owned by the excluded
// internal businesses are skipped after transformation.
func MaterializeProducts(ctx context.Context, runID uuid.UUID, sink ErrorSink) (Stats, error) {
	var stats Stats

	bronzeRows, err := latestBronze[models.BronzeProduct](ctx)
	if err != nil {
		return stats, err
	}
	stats.Read = int64(len(bronzeRows))

	products, skipped := prepareProducts(ctx, bronzeRows, runID, time.Now().UTC(), sink)
	stats.Skipped = skipped

	written, err := upsertBatches(ctx, products, upsertProductsQuery)
	stats.Written = written

	return stats, err
}

// prepareProducts transforms the given bronze rows into their silver models.
// Rows which fail to decode or transform are reported to the sink and
// skipped. Products owned by the excluded internal businesses are skipped
// without being reported. The survivors carry the given run id and sync
// time.
func prepareProducts(ctx context.Context, rows []models.BronzeProduct, runID uuid.UUID, now time.Time, sink ErrorSink) ([]models.Product, int64) {
	var skipped int64
	items := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		var payload api.Record
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			sink.LogError(ctx, row.SourceID, err, row.Payload)
			skipped++
			continue
		}

		item, err := transform.Product(payload, row.ID, runID)
		if err != nil {
			sink.LogError(ctx, row.SourceID, err, row.Payload)
			skipped++
			continue
		}
		if item.LocationSourceID != nil && transform.IsExcludedLocation(*item.LocationSourceID) {
			skipped++
			continue
		}
		item.LastSyncedAt = now
		items = append(items, *item)
	}

	return items, skipped
}

func upsertProductsQuery(batch *[]models.Product) *bun.InsertQuery {
	return db.DB.NewInsert().
		Model(batch).
		On("CONFLICT (source_id) DO UPDATE").
		Set("bronze_id = EXCLUDED.bronze_id").
		Set("sync_run_id = EXCLUDED.sync_run_id").
		Set("item_type = EXCLUDED.item_type").
		Set("product_type_label = EXCLUDED.product_type_label").
		Set("location_source_id = EXCLUDED.location_source_id").
		Set("location_name = EXCLUDED.location_name").
		Set("floor_plan_id = EXCLUDED.floor_plan_id").
		Set("floor_plan_name = EXCLUDED.floor_plan_name").
		Set("name = EXCLUDED.name").
		Set("area_code = EXCLUDED.area_code").
		Set("price = EXCLUDED.price").
		Set("currency_code = EXCLUDED.currency_code").
		Set("is_available = EXCLUDED.is_available").
		Set("available_from = EXCLUDED.available_from").
		Set("available_to = EXCLUDED.available_to").
		Set("coworker_id = EXCLUDED.coworker_id").
		Set("coworker_name = EXCLUDED.coworker_name").
		Set("coworker_company = EXCLUDED.coworker_company").
		Set("coworker_email = EXCLUDED.coworker_email").
		Set("contract_ids_raw = EXCLUDED.contract_ids_raw").
		Set("size_sqm = EXCLUDED.size_sqm").
		Set("custom_size_sqm = EXCLUDED.custom_size_sqm").
		Set("capacity = EXCLUDED.capacity").
		Set("size_is_linked_to_area = EXCLUDED.size_is_linked_to_area").
		Set("resource_id = EXCLUDED.resource_id").
		Set("resource_name = EXCLUDED.resource_name").
		Set("resource_type_name = EXCLUDED.resource_type_name").
		Set("resource_allocation = EXCLUDED.resource_allocation").
		Set("resource_shifts = EXCLUDED.resource_shifts").
		Set("amenity_air_conditioning = EXCLUDED.amenity_air_conditioning").
		Set("amenity_heating = EXCLUDED.amenity_heating").
		Set("amenity_internet = EXCLUDED.amenity_internet").
		Set("amenity_large_display = EXCLUDED.amenity_large_display").
		Set("amenity_natural_light = EXCLUDED.amenity_natural_light").
		Set("amenity_whiteboard = EXCLUDED.amenity_whiteboard").
		Set("amenity_soundproof = EXCLUDED.amenity_soundproof").
		Set("amenity_quiet_zone = EXCLUDED.amenity_quiet_zone").
		Set("amenity_tea_coffee = EXCLUDED.amenity_tea_coffee").
		Set("amenity_security_lock = EXCLUDED.amenity_security_lock").
		Set("amenity_cctv = EXCLUDED.amenity_cctv").
		Set("amenity_catering = EXCLUDED.amenity_catering").
		Set("amenity_conference_phone = EXCLUDED.amenity_conference_phone").
		Set("amenity_projector = EXCLUDED.amenity_projector").
		Set("amenity_standing_desk = EXCLUDED.amenity_standing_desk").
		Set("amenity_drinks = EXCLUDED.amenity_drinks").
		Set("amenity_privacy_screen = EXCLUDED.amenity_privacy_screen").
		Set("amenity_voice_recorder = EXCLUDED.amenity_voice_recorder").
		Set("amenity_standard_phone = EXCLUDED.amenity_standard_phone").
		Set("amenity_wireless_charger = EXCLUDED.amenity_wireless_charger").
		Set("created_on = EXCLUDED.created_on").
		Set("updated_on = EXCLUDED.updated_on").
		Set("last_synced_at = EXCLUDED.last_synced_at").
		Set("updated_at = EXCLUDED.updated_at")
}
