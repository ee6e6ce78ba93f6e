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

// MaterializeExtraServices materializes the latest bronze generation of
// every extra service into silver.nexudus_extra_services.
func MaterializeExtraServices(ctx context.Context, runID uuid.UUID, sink ErrorSink) (Stats, error) {
	var stats Stats

	bronzeRows, err := latestBronze[models.BronzeExtraService](ctx)
	if err != nil {
		return stats, err
	}
	stats.Read = int64(len(bronzeRows))

	services, skipped := prepareExtraServices(ctx, bronzeRows, runID, time.Now().UTC(), sink)
	stats.Skipped = skipped

	written, err := upsertBatches(ctx, services, upsertExtraServicesQuery)
	stats.Written = written

	return stats, err
}

// prepareExtraServices transforms the given bronze rows into their silver
// models. Rows which fail to decode or transform are reported to the sink
// and skipped.
func prepareExtraServices(ctx context.Context, rows []models.BronzeExtraService, runID uuid.UUID, now time.Time, sink ErrorSink) ([]models.ExtraService, int64) {
	var skipped int64
	items := make([]models.ExtraService, 0, len(rows))
	for _, row := range rows {
		var payload api.Record
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			sink.LogError(ctx, row.SourceID, err, row.Payload)
			skipped++
			continue
		}

		item, err := transform.ExtraService(payload, row.ID, runID)
		if err != nil {
			sink.LogError(ctx, row.SourceID, err, row.Payload)
			skipped++
			continue
		}
		item.LastSyncedAt = now
		items = append(items, *item)
	}

	return items, skipped
}

func upsertExtraServicesQuery(batch *[]models.ExtraService) *bun.InsertQuery {
	return db.DB.NewInsert().
		Model(batch).
		On("CONFLICT (source_id) DO UPDATE").
		Set("unique_id = EXCLUDED.unique_id").
		Set("bronze_id = EXCLUDED.bronze_id").
		Set("sync_run_id = EXCLUDED.sync_run_id").
		Set("location_source_id = EXCLUDED.location_source_id").
		Set("name = EXCLUDED.name").
		Set("description = EXCLUDED.description").
		Set("price = EXCLUDED.price").
		Set("currency_code = EXCLUDED.currency_code").
		Set("charge_period = EXCLUDED.charge_period").
		Set("credit_price = EXCLUDED.credit_price").
		Set("fixed_cost_price = EXCLUDED.fixed_cost_price").
		Set("fixed_cost_length_minutes = EXCLUDED.fixed_cost_length_minutes").
		Set("maximum_price = EXCLUDED.maximum_price").
		Set("min_length_minutes = EXCLUDED.min_length_minutes").
		Set("max_length_minutes = EXCLUDED.max_length_minutes").
		Set("is_default_price = EXCLUDED.is_default_price").
		Set("is_printing_credit = EXCLUDED.is_printing_credit").
		Set("only_for_contacts = EXCLUDED.only_for_contacts").
		Set("only_for_members = EXCLUDED.only_for_members").
		Set("apply_charge_to_visitors = EXCLUDED.apply_charge_to_visitors").
		Set("use_per_night_pricing = EXCLUDED.use_per_night_pricing").
		Set("last_minute_adjustment_type = EXCLUDED.last_minute_adjustment_type").
		Set("apply_from = EXCLUDED.apply_from").
		Set("apply_to = EXCLUDED.apply_to").
		Set("resource_type_names = EXCLUDED.resource_type_names").
		Set("tax_rate_id = EXCLUDED.tax_rate_id").
		Set("reduced_tax_rate_id = EXCLUDED.reduced_tax_rate_id").
		Set("exempt_tax_rate_id = EXCLUDED.exempt_tax_rate_id").
		Set("financial_account_id = EXCLUDED.financial_account_id").
		Set("updated_by = EXCLUDED.updated_by").
		Set("created_on = EXCLUDED.created_on").
		Set("updated_on = EXCLUDED.updated_on").
		Set("last_synced_at = EXCLUDED.last_synced_at").
		Set("updated_at = EXCLUDED.updated_at")
}
