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

// MaterializeResources materializes the latest bronze generation of every
// bookable resource into silver.nexudus_resources.
func MaterializeResources(ctx context.Context, runID uuid.UUID, sink ErrorSink) (Stats, error) {
	var stats Stats

	bronzeRows, err := latestBronze[models.BronzeResource](ctx)
	if err != nil {
		return stats, err
	}
	stats.Read = int64(len(bronzeRows))

	resources, skipped := prepareResources(ctx, bronzeRows, runID, time.Now().UTC(), sink)
	stats.Skipped = skipped

	written, err := upsertBatches(ctx, resources, upsertResourcesQuery)
	stats.Written = written

	return stats, err
}

// prepareResources transforms the given bronze rows into their silver
// models. Rows which fail to decode or transform are reported to the sink
// and skipped. Rows whose payload carries no usable id are skipped without
// being reported.
func prepareResources(ctx context.Context, rows []models.BronzeResource, runID uuid.UUID, now time.Time, sink ErrorSink) ([]models.Resource, int64) {
	var skipped int64
	items := make([]models.Resource, 0, len(rows))
	for _, row := range rows {
		var payload api.Record
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			sink.LogError(ctx, row.SourceID, err, row.Payload)
			skipped++
			continue
		}

		item, err := transform.Resource(payload, row.ID, runID)
		if err != nil {
			sink.LogError(ctx, row.SourceID, err, row.Payload)
			skipped++
			continue
		}
		if item == nil {
			skipped++
			continue
		}
		item.LastSyncedAt = now
		items = append(items, *item)
	}

	return items, skipped
}

func upsertResourcesQuery(batch *[]models.Resource) *bun.InsertQuery {
	return db.DB.NewInsert().
		Model(batch).
		On("CONFLICT (source_id) DO UPDATE").
		Set("bronze_id = EXCLUDED.bronze_id").
		Set("sync_run_id = EXCLUDED.sync_run_id").
		Set("location_source_id = EXCLUDED.location_source_id").
		Set("nexudus_uuid = EXCLUDED.nexudus_uuid").
		Set("name = EXCLUDED.name").
		Set("description = EXCLUDED.description").
		Set("resource_type_id = EXCLUDED.resource_type_id").
		Set("resource_type_name = EXCLUDED.resource_type_name").
		Set("group_id = EXCLUDED.group_id").
		Set("group_name = EXCLUDED.group_name").
		Set("visible = EXCLUDED.visible").
		Set("online = EXCLUDED.online").
		Set("visible_to_others = EXCLUDED.visible_to_others").
		Set("available = EXCLUDED.available").
		Set("capacity = EXCLUDED.capacity").
		Set("size = EXCLUDED.size").
		Set("floor_number = EXCLUDED.floor_number").
		Set("accessible = EXCLUDED.accessible").
		Set("created_on = EXCLUDED.created_on").
		Set("updated_on = EXCLUDED.updated_on").
		Set("last_synced_at = EXCLUDED.last_synced_at").
		Set("updated_at = EXCLUDED.updated_at")
}
