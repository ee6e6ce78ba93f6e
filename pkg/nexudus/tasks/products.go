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
	// TaskCollectProducts is the name of the task for collecting the
	// Nexudus products into the bronze layer.
	TaskCollectProducts = "nexudus:task:collect-products"

	// TaskMaterializeProducts is the name of the task for materializing
	// the latest bronze products into the silver layer.
	TaskMaterializeProducts = "nexudus:task:materialize-products"
)

// NewCollectProductsTask creates a new [asynq.Task] for collecting the
// Nexudus products.
func NewCollectProductsTask() *asynq.Task {
	return asynq.NewTask(TaskCollectProducts, nil)
}

// NewMaterializeProductsTask creates a new [asynq.Task] for materializing
// the products into the silver layer.
func NewMaterializeProductsTask() *asynq.Task {
	return asynq.NewTask(TaskMaterializeProducts, nil)
}

// HandleCollectProductsTask is the handler, which collects the Nexudus
// products.
func HandleCollectProductsTask(ctx context.Context, _ *asynq.Task) error {
	_, err := collectProducts(ctx, uuid.New(), TaskCollectProducts)

	return err
}

// HandleMaterializeProductsTask is the handler, which materializes the
// products into the silver layer.
func HandleMaterializeProductsTask(ctx context.Context, _ *asynq.Task) error {
	return materializeProducts(ctx, uuid.New(), TaskMaterializeProducts)
}

// collectProducts fetches all floor plan desks from the API, archives a
// snapshot and appends the records to the bronze layer. The fetched records
// are returned, so that the resources sync step can discover the bookable
// resources referenced by them.
func collectProducts(ctx context.Context, runID uuid.UUID, triggeredBy string) ([]api.Record, error) {
	client := nexudusclients.Client
	if client == nil {
		return nil, asynqutils.SkipRetry(ErrNoAPIClient)
	}

	logger := asynqutils.GetLogger(ctx)

	var count int64
	defer func() {
		metric := prometheus.MustNewConstMetric(
			productsDesc,
			prometheus.GaugeValue,
			float64(count),
		)
		key := metrics.Key(TaskCollectProducts)
		metrics.DefaultCollector.AddMetric(key, metric)
	}()

	run, err := tracker.Start(ctx, constants.SourceName, constants.EntityProducts, metamodels.TierBronze, runID, triggeredBy)
	if err != nil {
		return nil, err
	}

	logger.Info("collecting products", "run_id", runID)
	records, err := client.FetchAll(ctx, constants.ProductsPath, nil)
	if err != nil {
		logger.Error(
			"could not fetch products",
			"run_id", runID,
			"reason", err,
		)
		run.End(ctx, err)

		return nil, nexudusutils.MaybeSkipRetry(err)
	}
	run.RowsRead = int64(len(records))

	archiveKey, err := archive.Snapshot(ctx, constants.EntityProducts, runID, records)
	if err != nil {
		logger.Warn(
			"failed to archive products snapshot",
			"run_id", runID,
			"reason", err,
		)
	}

	written, err := bronze.WriteProducts(ctx, runID, records)
	run.RowsWritten = written
	if err != nil {
		logger.Error(
			"could not write products to bronze",
			"run_id", runID,
			"reason", err,
		)
		run.End(ctx, err)

		return nil, err
	}
	count = written
	run.End(ctx, nil)

	logger.Info(
		"collected products",
		"run_id", runID,
		"count", written,
		"archive", archiveKey,
	)

	return records, nil
}

// materializeProducts materializes the latest bronze products into the
// silver layer.
func materializeProducts(ctx context.Context, runID uuid.UUID, triggeredBy string) error {
	logger := asynqutils.GetLogger(ctx)

	run, err := tracker.Start(ctx, constants.SourceName, constants.EntityProducts, metamodels.TierSilver, runID, triggeredBy)
	if err != nil {
		return err
	}

	stats, err := silver.MaterializeProducts(ctx, runID, run)
	run.RowsRead = stats.Read
	run.RowsWritten = stats.Written
	run.RowsSkipped = stats.Skipped
	run.End(ctx, err)
	if err != nil {
		logger.Error(
			"could not materialize products",
			"run_id", runID,
			"reason", err,
		)
	}

	return err
}
