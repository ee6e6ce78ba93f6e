// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/hibiken/asynq"

	"github.com/flexspace/warehouse/pkg/clients/db"
	"github.com/flexspace/warehouse/pkg/nexudus/api"
	"github.com/flexspace/warehouse/pkg/nexudus/models"
)

// MaybeSkipRetry wraps permanent upstream API errors with
// [asynq.SkipRetry], so that the tasks from which these errors originate
// won't be retried. Transient upstream failures are retried by the API
// client already, if one still surfaces here the task is worth another
// attempt.
func MaybeSkipRetry(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && !apiErr.Transient() {
		return fmt.Errorf("%w (%w)", err, asynq.SkipRetry)
	}

	return err
}

// DiscoverResourceIDs groups the resource ids referenced by the given
// product records by the business which owns them. Ids are de-duplicated
// per business, keeping their first-seen order. Products without a resource
// or without a business are not usable for discovery and are ignored.
func DiscoverResourceIDs(records []api.Record) map[int64][]int64 {
	found := make(map[int64][]int64)
	for _, record := range records {
		resourceID, _ := record.Int64("ResourceId")
		locationID, _ := record.Int64("FloorPlanBusinessId")
		if resourceID == 0 || locationID == 0 {
			continue
		}
		if !slices.Contains(found[locationID], resourceID) {
			found[locationID] = append(found[locationID], resourceID)
		}
	}

	return found
}

// LatestProductRecords returns the payloads of the most recent bronze
// generation of every product. The standalone resources collection task
// uses them to discover which resources to fetch when no product listing
// from the current invocation is at hand. Payloads which do not parse are
// left out.
func LatestProductRecords(ctx context.Context) ([]api.Record, error) {
	rows := make([]models.BronzeProduct, 0)
	err := db.DB.NewSelect().
		Model(&rows).
		DistinctOn("source_id").
		OrderExpr("source_id ASC, synced_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]api.Record, 0, len(rows))
	for _, row := range rows {
		var record api.Record
		if err := json.Unmarshal(row.Payload, &record); err != nil {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
