// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/flexspace/warehouse/pkg/archive"
	nexudusclients "github.com/flexspace/warehouse/pkg/clients/nexudus"
	metamodels "github.com/flexspace/warehouse/pkg/meta/models"
	"github.com/flexspace/warehouse/pkg/meta/tracker"
	"github.com/flexspace/warehouse/pkg/metrics"
	"github.com/flexspace/warehouse/pkg/nexudus/api"
	"github.com/flexspace/warehouse/pkg/nexudus/bronze"
	"github.com/flexspace/warehouse/pkg/nexudus/constants"
	"github.com/flexspace/warehouse/pkg/nexudus/silver"
	nexudusutils "github.com/flexspace/warehouse/pkg/nexudus/utils"
	asynqutils "github.com/flexspace/warehouse/pkg/utils/asynq"
)

const (
	// TaskCollectResources is the name of the task for collecting the
	// Nexudus bookable resources into the bronze layer.
	TaskCollectResources = "nexudus:task:collect-resources"

	// TaskMaterializeResources is the name of the task for materializing
	// the latest bronze resources into the silver layer.
	TaskMaterializeResources = "nexudus:task:materialize-resources"
)

// NewCollectResourcesTask creates a new [asynq.Task] for collecting the
// Nexudus bookable resources.
func NewCollectResourcesTask() *asynq.Task {
	return asynq.NewTask(TaskCollectResources, nil)
}

// NewMaterializeResourcesTask creates a new [asynq.Task] for materializing
// the resources into the silver layer.
func NewMaterializeResourcesTask() *asynq.Task {
	return asynq.NewTask(TaskMaterializeResources, nil)
}

// HandleCollectResourcesTask is the handler, which collects the Nexudus
// bookable resources. The resources to fetch are discovered from the
// latest bronze products, since the API provides no way to enumerate
// resources directly.
func HandleCollectResourcesTask(ctx context.Context, _ *asynq.Task) error {
	records, err := nexudusutils.LatestProductRecords(ctx)
	if err != nil {
		return err
	}

	return collectResources(ctx, uuid.New(), TaskCollectResources, nexudusutils.DiscoverResourceIDs(records))
}

// HandleMaterializeResourcesTask is the handler, which materializes the
// resources into the silver layer.
func HandleMaterializeResourcesTask(ctx context.Context, _ *asynq.Task) error {
	return materializeResources(ctx, uuid.New(), TaskMaterializeResources)
}

// resourceRef identifies a single resource to fetch along with the
// location it was discovered at.
type resourceRef struct {
	locationID int64
	resourceID int64
}

// collectResources fetches the bookable resources identified by
// idsByLocation one by one, archives a snapshot and appends the records to
// the bronze layer grouped per location. Individual fetch failures are
// logged and counted as skipped without failing the whole step, and
// resources the API no longer serves are dropped silently.
func collectResources(ctx context.Context, runID uuid.UUID, triggeredBy string, idsByLocation map[int64][]int64) error {
	client := nexudusclients.Client
	if client == nil {
		return asynqutils.SkipRetry(ErrNoAPIClient)
	}

	logger := asynqutils.GetLogger(ctx)

	refs := make([]resourceRef, 0)
	for locationID, resourceIDs := range idsByLocation {
		for _, resourceID := range resourceIDs {
			refs = append(refs, resourceRef{locationID: locationID, resourceID: resourceID})
		}
	}

	if len(refs) == 0 {
		logger.Info("no resources discovered, skipping", "run_id", runID)

		return nil
	}

	var count int64
	defer func() {
		metric := prometheus.MustNewConstMetric(
			resourcesDesc,
			prometheus.GaugeValue,
			float64(count),
		)
		key := metrics.Key(TaskCollectResources)
		metrics.DefaultCollector.AddMetric(key, metric)
	}()

	run, err := tracker.Start(ctx, constants.SourceName, constants.EntityResources, metamodels.TierBronze, runID, triggeredBy)
	if err != nil {
		return err
	}

	logger.Info("collecting resources", "run_id", runID, "discovered", len(refs))
	run.RowsRead = int64(len(refs))

	// Concurrency is bounded by the API client itself, which admits a
	// fixed number of in-flight requests at a time.
	results := make([]api.Record, len(refs))
	errs := make([]error, len(refs))
	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, found, err := client.FetchOne(ctx, fmt.Sprintf("%s/%d", constants.ResourcesPath, ref.resourceID))
			if err != nil {
				errs[i] = err

				return
			}
			if found {
				results[i] = record
			}
		}()
	}
	wg.Wait()

	byLocation := make(map[int64][]api.Record)
	locationOrder := make([]int64, 0)
	wrapped := make([]api.Record, 0, len(refs))
	for i, ref := range refs {
		if errs[i] != nil {
			logger.Warn(
				"could not fetch resource",
				"run_id", runID,
				"resource_id", ref.resourceID,
				"location_id", ref.locationID,
				"reason", errs[i],
			)
			run.RowsSkipped++

			continue
		}
		if results[i] == nil {
			continue
		}
		if _, ok := byLocation[ref.locationID]; !ok {
			locationOrder = append(locationOrder, ref.locationID)
		}
		byLocation[ref.locationID] = append(byLocation[ref.locationID], results[i])
		wrapped = append(wrapped, api.Record{"location_id": ref.locationID, "record": results[i]})
	}

	archiveKey, err := archive.Snapshot(ctx, constants.EntityResources, runID, wrapped)
	if err != nil {
		logger.Warn(
			"failed to archive resources snapshot",
			"run_id", runID,
			"reason", err,
		)
	}

	var total int64
	for _, locationID := range locationOrder {
		written, err := bronze.WriteResources(ctx, runID, byLocation[locationID], locationID)
		total += written
		if err != nil {
			run.RowsWritten = total
			logger.Error(
				"could not write resources to bronze",
				"run_id", runID,
				"location_id", locationID,
				"reason", err,
			)
			run.End(ctx, err)

			return err
		}
	}
	run.RowsWritten = total
	count = total
	run.End(ctx, nil)

	logger.Info(
		"collected resources",
		"run_id", runID,
		"count", total,
		"skipped", run.RowsSkipped,
		"archive", archiveKey,
	)

	return nil
}

// materializeResources materializes the latest bronze resources into the
// silver layer.
func materializeResources(ctx context.Context, runID uuid.UUID, triggeredBy string) error {
	logger := asynqutils.GetLogger(ctx)

	run, err := tracker.Start(ctx, constants.SourceName, constants.EntityResources, metamodels.TierSilver, runID, triggeredBy)
	if err != nil {
		return err
	}

	stats, err := silver.MaterializeResources(ctx, runID, run)
	run.RowsRead = stats.Read
	run.RowsWritten = stats.Written
	run.RowsSkipped = stats.Skipped
	run.End(ctx, err)
	if err != nil {
		logger.Error(
			"could not materialize resources",
			"run_id", runID,
			"reason", err,
		)
	}

	return err
}
