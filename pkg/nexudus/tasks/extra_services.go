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
	"github.com/flexspace/warehouse/pkg/nexudus/bronze"
	"github.com/flexspace/warehouse/pkg/nexudus/constants"
	"github.com/flexspace/warehouse/pkg/nexudus/silver"
	nexudusutils "github.com/flexspace/warehouse/pkg/nexudus/utils"
	asynqutils "github.com/flexspace/warehouse/pkg/utils/asynq"
)

const (
	// TaskCollectExtraServices is the name of the task for collecting the
	// Nexudus extra services into the bronze layer.
	TaskCollectExtraServices = "nexudus:task:collect-extra-services"

	// TaskMaterializeExtraServices is the name of the task for
	// materializing the latest bronze extra services into the silver
	// layer.
	TaskMaterializeExtraServices = "nexudus:task:materialize-extra-services"
)

// NewCollectExtraServicesTask creates a new [asynq.Task] for collecting the
// Nexudus extra services.
func NewCollectExtraServicesTask() *asynq.Task {
	return asynq.NewTask(TaskCollectExtraServices, nil)
}

// NewMaterializeExtraServicesTask creates a new [asynq.Task] for
// materializing the extra services into the silver layer.
func NewMaterializeExtraServicesTask() *asynq.Task {
	return asynq.NewTask(TaskMaterializeExtraServices, nil)
}

// HandleCollectExtraServicesTask is the handler, which collects the Nexudus
// extra services.
func HandleCollectExtraServicesTask(ctx context.Context, _ *asynq.Task) error {
	return collectExtraServices(ctx, uuid.New(), TaskCollectExtraServices)
}

// HandleMaterializeExtraServicesTask is the handler, which materializes the
// extra services into the silver layer.
func HandleMaterializeExtraServicesTask(ctx context.Context, _ *asynq.Task) error {
	return materializeExtraServices(ctx, uuid.New(), TaskMaterializeExtraServices)
}

// collectExtraServices fetches all extra services from the API, archives a
// snapshot and appends the records to the bronze layer.
func collectExtraServices(ctx context.Context, runID uuid.UUID, triggeredBy string) error {
	client := nexudusclients.Client
	if client == nil {
		return asynqutils.SkipRetry(ErrNoAPIClient)
	}

	logger := asynqutils.GetLogger(ctx)

	var count int64
	defer func() {
		metric := prometheus.MustNewConstMetric(
			extraServicesDesc,
			prometheus.GaugeValue,
			float64(count),
		)
		key := metrics.Key(TaskCollectExtraServices)
		metrics.DefaultCollector.AddMetric(key, metric)
	}()

	run, err := tracker.Start(ctx, constants.SourceName, constants.EntityExtraServices, metamodels.TierBronze, runID, triggeredBy)
	if err != nil {
		return err
	}

	logger.Info("collecting extra services", "run_id", runID)
	records, err := client.FetchAll(ctx, constants.ExtraServicesPath, nil)
	if err != nil {
		logger.Error(
			"could not fetch extra services",
			"run_id", runID,
			"reason", err,
		)
		run.End(ctx, err)

		return nexudusutils.MaybeSkipRetry(err)
	}
	run.RowsRead = int64(len(records))

	archiveKey, err := archive.Snapshot(ctx, constants.EntityExtraServices, runID, records)
	if err != nil {
		logger.Warn(
			"failed to archive extra services snapshot",
			"run_id", runID,
			"reason", err,
		)
	}

	written, err := bronze.WriteExtraServices(ctx, runID, records)
	run.RowsWritten = written
	if err != nil {
		logger.Error(
			"could not write extra services to bronze",
			"run_id", runID,
			"reason", err,
		)
		run.End(ctx, err)

		return err
	}
	count = written
	run.End(ctx, nil)

	logger.Info(
		"collected extra services",
		"run_id", runID,
		"count", written,
		"archive", archiveKey,
	)

	return nil
}

// materializeExtraServices materializes the latest bronze extra services
// into the silver layer.
func materializeExtraServices(ctx context.Context, runID uuid.UUID, triggeredBy string) error {
	logger := asynqutils.GetLogger(ctx)

	run, err := tracker.Start(ctx, constants.SourceName, constants.EntityExtraServices, metamodels.TierSilver, runID, triggeredBy)
	if err != nil {
		return err
	}

	stats, err := silver.MaterializeExtraServices(ctx, runID, run)
	run.RowsRead = stats.Read
	run.RowsWritten = stats.Written
	run.RowsSkipped = stats.Skipped
	run.End(ctx, err)
	if err != nil {
		logger.Error(
			"could not materialize extra services",
			"run_id", runID,
			"reason", err,
		)
	}

	return err
}
