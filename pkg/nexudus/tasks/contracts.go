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
	// TaskCollectContracts is the name of the task for collecting the
	// Nexudus contracts into the bronze layer.
	TaskCollectContracts = "nexudus:task:collect-contracts"

	// TaskMaterializeContracts is the name of the task for materializing
	// the latest bronze contracts into the silver layer.
	TaskMaterializeContracts = "nexudus:task:materialize-contracts"
)

// NewCollectContractsTask creates a new [asynq.Task] for collecting the
// Nexudus contracts.
func NewCollectContractsTask() *asynq.Task {
	return asynq.NewTask(TaskCollectContracts, nil)
}

// NewMaterializeContractsTask creates a new [asynq.Task] for materializing
// the contracts into the silver layer.
func NewMaterializeContractsTask() *asynq.Task {
	return asynq.NewTask(TaskMaterializeContracts, nil)
}

// HandleCollectContractsTask is the handler, which collects the Nexudus
// contracts.
func HandleCollectContractsTask(ctx context.Context, _ *asynq.Task) error {
	return collectContracts(ctx, uuid.New(), TaskCollectContracts)
}

// HandleMaterializeContractsTask is the handler, which materializes the
// contracts into the silver layer.
func HandleMaterializeContractsTask(ctx context.Context, _ *asynq.Task) error {
	return materializeContracts(ctx, uuid.New(), TaskMaterializeContracts)
}

// collectContracts fetches all coworker contracts from the API, archives a
// snapshot and appends the records to the bronze layer. Contracts are
// fetched from the global endpoint, so the records are not routed to a
// particular product or location at capture time.
func collectContracts(ctx context.Context, runID uuid.UUID, triggeredBy string) error {
	client := nexudusclients.Client
	if client == nil {
		return asynqutils.SkipRetry(ErrNoAPIClient)
	}

	logger := asynqutils.GetLogger(ctx)

	var count int64
	defer func() {
		metric := prometheus.MustNewConstMetric(
			contractsDesc,
			prometheus.GaugeValue,
			float64(count),
		)
		key := metrics.Key(TaskCollectContracts)
		metrics.DefaultCollector.AddMetric(key, metric)
	}()

	run, err := tracker.Start(ctx, constants.SourceName, constants.EntityContracts, metamodels.TierBronze, runID, triggeredBy)
	if err != nil {
		return err
	}

	logger.Info("collecting contracts", "run_id", runID)
	records, err := client.FetchAll(ctx, constants.ContractsPath, nil)
	if err != nil {
		logger.Error(
			"could not fetch contracts",
			"run_id", runID,
			"reason", err,
		)
		run.End(ctx, err)

		return nexudusutils.MaybeSkipRetry(err)
	}
	run.RowsRead = int64(len(records))

	archiveKey, err := archive.Snapshot(ctx, constants.EntityContracts, runID, records)
	if err != nil {
		logger.Warn(
			"failed to archive contracts snapshot",
			"run_id", runID,
			"reason", err,
		)
	}

	written, err := bronze.WriteContracts(ctx, runID, records, nil, nil)
	run.RowsWritten = written
	if err != nil {
		logger.Error(
			"could not write contracts to bronze",
			"run_id", runID,
			"reason", err,
		)
		run.End(ctx, err)

		return err
	}
	count = written
	run.End(ctx, nil)

	logger.Info(
		"collected contracts",
		"run_id", runID,
		"count", written,
		"archive", archiveKey,
	)

	return nil
}

// materializeContracts materializes the latest bronze contracts into the
// silver layer.
func materializeContracts(ctx context.Context, runID uuid.UUID, triggeredBy string) error {
	logger := asynqutils.GetLogger(ctx)

	run, err := tracker.Start(ctx, constants.SourceName, constants.EntityContracts, metamodels.TierSilver, runID, triggeredBy)
	if err != nil {
		return err
	}

	stats, err := silver.MaterializeContracts(ctx, runID, run)
	run.RowsRead = stats.Read
	run.RowsWritten = stats.Written
	run.RowsSkipped = stats.Skipped
	run.End(ctx, err)
	if err != nil {
		logger.Error(
			"could not materialize contracts",
			"run_id", runID,
			"reason", err,
		)
	}

	return err
}
