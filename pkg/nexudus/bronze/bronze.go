// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package bronze persists raw Nexudus API records.
//
// The bronze tables are append-only. Every sync run inserts a fresh
// generation of rows and never touches earlier ones, so the full history of
// each upstream record is retained. A small number of routing columns
// (source_id, location_id, item_type) are extracted for indexing, everything
// else lives in the verbatim payload.
package bronze

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/flexspace/warehouse/pkg/clients/db"
	"github.com/flexspace/warehouse/pkg/nexudus/api"
	"github.com/flexspace/warehouse/pkg/nexudus/models"
)

// BatchSize is the max number of rows written with a single INSERT
// statement.
const BatchSize = 100

// WriteLocations appends the given location records to
// bronze.nexudus_locations and returns the number of rows written.
func WriteLocations(ctx context.Context, runID uuid.UUID, records []api.Record) (int64, error) {
	items, err := buildLocations(runID, records, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	return insertInBatches(ctx, items)
}

// buildLocations assembles the bronze rows for the given location records.
// A record without a usable Id is still captured, with a source id of 0.
func buildLocations(runID uuid.UUID, records []api.Record, syncedAt time.Time) ([]models.BronzeLocation, error) {
	items := make([]models.BronzeLocation, 0, len(records))
	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}
		sourceID, _ := record.Int64("Id")
		items = append(items, models.BronzeLocation{
			SyncRunID: runID,
			SourceID:  sourceID,
			Payload:   payload,
			SyncedAt:  syncedAt,
		})
	}

	return items, nil
}

// WriteProducts appends the given product records to
// bronze.nexudus_products and returns the number of rows written.
func WriteProducts(ctx context.Context, runID uuid.UUID, records []api.Record) (int64, error) {
	items, err := buildProducts(runID, records, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	return insertInBatches(ctx, items)
}

// buildProducts assembles the bronze rows for the given product records.
// The business which owns the floor plan and the item type are extracted as
// routing columns.
func buildProducts(runID uuid.UUID, records []api.Record, syncedAt time.Time) ([]models.BronzeProduct, error) {
	items := make([]models.BronzeProduct, 0, len(records))
	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}
		sourceID, _ := record.Int64("Id")
		items = append(items, models.BronzeProduct{
			SyncRunID:  runID,
			SourceID:   sourceID,
			LocationID: optionalInt64(record, "FloorPlanBusinessId"),
			ItemType:   optionalInt64(record, "ItemType"),
			Payload:    payload,
			SyncedAt:   syncedAt,
		})
	}

	return items, nil
}

// WriteContracts appends the given contract records to
// bronze.nexudus_contracts and returns the number of rows written.
// Contracts are fetched from a global listing endpoint, so the product and
// location routing columns are provided by the caller and may be nil.
func WriteContracts(ctx context.Context, runID uuid.UUID, records []api.Record, productID *int64, locationID *int64) (int64, error) {
	items, err := buildContracts(runID, records, time.Now().UTC(), productID, locationID)
	if err != nil {
		return 0, err
	}

	return insertInBatches(ctx, items)
}

// buildContracts assembles the bronze rows for the given contract records.
func buildContracts(runID uuid.UUID, records []api.Record, syncedAt time.Time, productID *int64, locationID *int64) ([]models.BronzeContract, error) {
	items := make([]models.BronzeContract, 0, len(records))
	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}
		// This endpoint serves the record id under the lowercase "id"
		// key, with "Id" present on older payloads only.
		sourceID, ok := record.Int64("id")
		if !ok || sourceID == 0 {
			sourceID, _ = record.Int64("Id")
		}
		items = append(items, models.BronzeContract{
			SyncRunID:  runID,
			SourceID:   sourceID,
			ProductID:  productID,
			LocationID: locationID,
			Payload:    payload,
			SyncedAt:   syncedAt,
		})
	}

	return items, nil
}

// WriteResources appends the given resource records to
// bronze.nexudus_resources and returns the number of rows written.
// Resources are fetched one by one for a known location, which the caller
// provides as the routing column.
func WriteResources(ctx context.Context, runID uuid.UUID, records []api.Record, locationID int64) (int64, error) {
	items, err := buildResources(runID, records, time.Now().UTC(), locationID)
	if err != nil {
		return 0, err
	}

	return insertInBatches(ctx, items)
}

// buildResources assembles the bronze rows for the given resource records.
func buildResources(runID uuid.UUID, records []api.Record, syncedAt time.Time, locationID int64) ([]models.BronzeResource, error) {
	items := make([]models.BronzeResource, 0, len(records))
	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}
		sourceID, _ := record.Int64("Id")
		items = append(items, models.BronzeResource{
			SyncRunID:  runID,
			SourceID:   sourceID,
			LocationID: &locationID,
			Payload:    payload,
			SyncedAt:   syncedAt,
		})
	}

	return items, nil
}

// WriteExtraServices appends the given extra service records to
// bronze.nexudus_extra_services and returns the number of rows written.
func WriteExtraServices(ctx context.Context, runID uuid.UUID, records []api.Record) (int64, error) {
	items, err := buildExtraServices(runID, records, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	return insertInBatches(ctx, items)
}

// buildExtraServices assembles the bronze rows for the given extra service
// records. The business which offers the service is extracted as a routing
// column.
func buildExtraServices(runID uuid.UUID, records []api.Record, syncedAt time.Time) ([]models.BronzeExtraService, error) {
	items := make([]models.BronzeExtraService, 0, len(records))
	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}
		sourceID, _ := record.Int64("Id")
		items = append(items, models.BronzeExtraService{
			SyncRunID:  runID,
			SourceID:   sourceID,
			LocationID: optionalInt64(record, "BusinessId"),
			Payload:    payload,
			SyncedAt:   syncedAt,
		})
	}

	return items, nil
}

// insertInBatches inserts the given rows in batches of [BatchSize] and
// returns the total number of rows written. A failed batch stops the write
// and reports the rows written up to that point.
func insertInBatches[T any](ctx context.Context, items []T) (int64, error) {
	var written int64
	for start := 0; start < len(items); start += BatchSize {
		batch := items[start:min(start+BatchSize, len(items))]
		out, err := db.DB.NewInsert().Model(&batch).Exec(ctx)
		if err != nil {
			return written, err
		}
		count, err := out.RowsAffected()
		if err != nil {
			return written, err
		}
		written += count
	}

	return written, nil
}

// optionalInt64 looks up a numeric routing value, mapping a missing or
// non-numeric value to nil.
func optionalInt64(record api.Record, key string) *int64 {
	if v, ok := record.Int64(key); ok {
		return &v
	}

	return nil
}
