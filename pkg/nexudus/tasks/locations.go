// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package tasks

import (
	"context"

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
	// TaskCollectLocations is the name of the task for collecting the
	// Nexudus locations into the bronze layer.
	TaskCollectLocations = "nexudus:task:collect-locations"

	// TaskMaterializeLocations is the name of the task for materializing
	// the latest bronze locations into the silver layer.
	TaskMaterializeLocations = "nexudus:task:materialize-locations"
)

// NewCollectLocationsTask creates a new [asynq.Task] for collecting the
// Nexudus locations.
func NewCollectLocationsTask() *asynq.Task {
	return asynq.NewTask(TaskCollectLocations, nil)
}

// NewMaterializeLocationsTask creates a new [asynq.Task] for materializing
// the locations into the silver layer.
func NewMaterializeLocationsTask() *asynq.Task {
	return asynq.NewTask(TaskMaterializeLocations, nil)
}

// HandleCollectLocationsTask is the handler, which collects the Nexudus
// locations.
func HandleCollectLocationsTask(ctx context.Context, _ *asynq.Task) error {
	_, err := collectLocations(ctx, uuid.New(), TaskCollectLocations)

	return err
}

// HandleMaterializeLocationsTask is the handler, which materializes the
// locations into the silver layer.
func HandleMaterializeLocationsTask(ctx context.Context, _ *asynq.Task) error {
	return materializeLocations(ctx, uuid.New(), TaskMaterializeLocations)
}

// collectLocations fetches all locations from the API, archives a snapshot
// and appends the records to the bronze layer. The fetched records are
// returned for use by dependent sync steps.
func collectLocations(ctx context.Context, runID uuid.UUID, triggeredBy string) ([]api.Record, error) {
	client := nexudusclients.Client
	if client == nil {
		return nil, asynqutils.SkipRetry(ErrNoAPIClient)
	}

	logger := asynqutils.GetLogger(ctx)

	var count int64
	defer func() {
		metric := prometheus.MustNewConstMetric(
			locationsDesc,
			prometheus.GaugeValue,
			float64(count),
		)
		key := metrics.Key(TaskCollectLocations)
		metrics.DefaultCollector.AddMetric(key, metric)
	}()

	run, err := tracker.Start(ctx, constants.SourceName, constants.EntityLocations, metamodels.TierBronze, runID, triggeredBy)
	if err != nil {
		return nil, err
	}

	logger.Info("collecting locations", "run_id", runID)
	records, err := client.FetchAll(ctx, constants.LocationsPath, nil)
	if err != nil {
		logger.Error(
			"could not fetch locations",
			"run_id", runID,
			"reason", err,
		)
		run.End(ctx, err)

		return nil, nexudusutils.MaybeSkipRetry(err)
	}
	run.RowsRead = int64(len(records))

	archiveKey, err := archive.Snapshot(ctx, constants.EntityLocations, runID, records)
	if err != nil {
		logger.Warn(
			"failed to archive locations snapshot",
			"run_id", runID,
			"reason", err,
		)
	}

	written, err := bronze.WriteLocations(ctx, runID, records)
	run.RowsWritten = written
	if err != nil {
		logger.Error(
			"could not write locations to bronze",
			"run_id", runID,
			"reason", err,
		)
		run.End(ctx, err)

		return nil, err
	}
	count = written
	run.End(ctx, nil)

	logger.Info(
		"collected locations",
		"run_id", runID,
		"count", written,
		"archive", archiveKey,
	)

	return records, nil
}

// materializeLocations materializes the latest bronze locations and their
// weekly opening hours into the silver layer.
func materializeLocations(ctx context.Context, runID uuid.UUID, triggeredBy string) error {
	logger := asynqutils.GetLogger(ctx)

	run, err := tracker.Start(ctx, constants.SourceName, constants.EntityLocations, metamodels.TierSilver, runID, triggeredBy)
	if err != nil {
		return err
	}

	stats, err := silver.MaterializeLocations(ctx, runID, run)
	run.RowsRead = stats.Read
	run.RowsWritten = stats.Written
	run.RowsSkipped = stats.Skipped
	run.End(ctx, err)
	if err != nil {
		logger.Error(
			"could not materialize locations",
			"run_id", runID,
			"reason", err,
		)
	}

	return err
}
