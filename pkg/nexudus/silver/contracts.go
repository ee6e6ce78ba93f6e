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

// MaterializeContracts materializes the latest bronze generation of every
// coworker contract into silver.nexudus_contracts.
func MaterializeContracts(ctx context.Context, runID uuid.UUID, sink ErrorSink) (Stats, error) {
	var stats Stats

	bronzeRows, err := latestBronze[models.BronzeContract](ctx)
	if err != nil {
		return stats, err
	}
	stats.Read = int64(len(bronzeRows))

	contracts, skipped := prepareContracts(ctx, bronzeRows, runID, time.Now().UTC(), sink)
	stats.Skipped = skipped

	written, err := upsertBatches(ctx, contracts, upsertContractsQuery)
	stats.Written = written

	return stats, err
}

// prepareContracts transforms the given bronze rows into their silver
// models. Rows which fail to decode or transform are reported to the sink
// and skipped.
func prepareContracts(ctx context.Context, rows []models.BronzeContract, runID uuid.UUID, now time.Time, sink ErrorSink) ([]models.Contract, int64) {
	var skipped int64
	items := make([]models.Contract, 0, len(rows))
	for _, row := range rows {
		var payload api.Record
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			sink.LogError(ctx, row.SourceID, err, row.Payload)
			skipped++
			continue
		}

		item, err := transform.Contract(payload, row.ID, runID)
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

func upsertContractsQuery(batch *[]models.Contract) *bun.InsertQuery {
	return db.DB.NewInsert().
		Model(batch).
		On("CONFLICT (source_id) DO UPDATE").
		Set("unique_id = EXCLUDED.unique_id").
		Set("bronze_id = EXCLUDED.bronze_id").
		Set("sync_run_id = EXCLUDED.sync_run_id").
		Set("active = EXCLUDED.active").
		Set("cancelled = EXCLUDED.cancelled").
		Set("main_contract = EXCLUDED.main_contract").
		Set("in_paused_period = EXCLUDED.in_paused_period").
		Set("coworker_id = EXCLUDED.coworker_id").
		Set("coworker_name = EXCLUDED.coworker_name").
		Set("coworker_email = EXCLUDED.coworker_email").
		Set("coworker_company = EXCLUDED.coworker_company").
		Set("coworker_billing_name = EXCLUDED.coworker_billing_name").
		Set("coworker_type = EXCLUDED.coworker_type").
		Set("coworker_active = EXCLUDED.coworker_active").
		Set("location_source_id = EXCLUDED.location_source_id").
		Set("location_name = EXCLUDED.location_name").
		Set("tariff_id = EXCLUDED.tariff_id").
		Set("tariff_name = EXCLUDED.tariff_name").
		Set("tariff_price = EXCLUDED.tariff_price").
		Set("currency_code = EXCLUDED.currency_code").
		Set("next_tariff_id = EXCLUDED.next_tariff_id").
		Set("next_tariff_name = EXCLUDED.next_tariff_name").
		Set("floor_plan_desk_ids = EXCLUDED.floor_plan_desk_ids").
		Set("floor_plan_desk_names = EXCLUDED.floor_plan_desk_names").
		Set("price = EXCLUDED.price").
		Set("price_with_products = EXCLUDED.price_with_products").
		Set("unit_price = EXCLUDED.unit_price").
		Set("quantity = EXCLUDED.quantity").
		Set("billing_day = EXCLUDED.billing_day").
		Set("apply_pro_rating = EXCLUDED.apply_pro_rating").
		Set("pro_rate_cancellation = EXCLUDED.pro_rate_cancellation").
		Set("include_signup_fee = EXCLUDED.include_signup_fee").
		Set("cancellation_limit_days = EXCLUDED.cancellation_limit_days").
		Set("start_date = EXCLUDED.start_date").
		Set("contract_term = EXCLUDED.contract_term").
		Set("renewal_date = EXCLUDED.renewal_date").
		Set("cancellation_date = EXCLUDED.cancellation_date").
		Set("invoiced_period = EXCLUDED.invoiced_period").
		Set("term_duration_months = EXCLUDED.term_duration_months").
		Set("notes = EXCLUDED.notes").
		Set("updated_by = EXCLUDED.updated_by").
		Set("created_on = EXCLUDED.created_on").
		Set("updated_on = EXCLUDED.updated_on").
		Set("last_synced_at = EXCLUDED.last_synced_at").
		Set("updated_at = EXCLUDED.updated_at")
}
