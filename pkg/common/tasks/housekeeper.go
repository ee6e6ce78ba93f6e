// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"

	"github.com/flexspace/warehouse/pkg/clients/db"
	"github.com/flexspace/warehouse/pkg/common/models"
	"github.com/flexspace/warehouse/pkg/core/registry"
	metamodels "github.com/flexspace/warehouse/pkg/meta/models"
	"github.com/flexspace/warehouse/pkg/metrics"
	nexudusmodels "github.com/flexspace/warehouse/pkg/nexudus/models"
	asynqutils "github.com/flexspace/warehouse/pkg/utils/asynq"
)

const (
	// HousekeeperTaskType is the name of the task responsible for cleaning
	// up stale records from the database.
	HousekeeperTaskType = "common:task:housekeeper"
)

// hkDeletedRecordsDesc is the descriptor for a metric, which tracks the
// number of records deleted per model by the housekeeper.
var hkDeletedRecordsDesc = prometheus.NewDesc(
	prometheus.BuildFQName(metrics.Namespace, "", "housekeeper_deleted_records"),
	"Gauge which tracks the number of deleted records by the housekeeper",
	[]string{"model_name"},
	nil,
)

// HousekeeperPayload is the payload of the housekeeper task.
type HousekeeperPayload struct {
	// Retention is the list of per-model retention settings.
	Retention []HousekeeperRetentionConfig `yaml:"retention" json:"retention"`
}

// HousekeeperRetentionConfig is the retention setting for a single model.
type HousekeeperRetentionConfig struct {
	// Name is the registry name of the model.
	Name string `yaml:"name" json:"name"`

	// Duration is the age at which a record becomes eligible for
	// deletion. For raw capture models the age is measured against the
	// capture time and only superseded generations are deleted; for all
	// other models it is measured against the last update time.
	Duration time.Duration `yaml:"duration" json:"duration"`
}

// rawCaptureModels contains the names of the append-only raw capture
// models. Pruning these removes superseded generations only and always
// keeps the latest row per source id, since the silver layer materializes
// from it.
var rawCaptureModels = map[string]struct{}{
	nexudusmodels.BronzeLocationModelName:     {},
	nexudusmodels.BronzeProductModelName:      {},
	nexudusmodels.BronzeContractModelName:     {},
	nexudusmodels.BronzeResourceModelName:     {},
	nexudusmodels.BronzeExtraServiceModelName: {},
}

// HandleHousekeeperTask prunes records, which have outlived their configured
// retention.
func HandleHousekeeperTask(ctx context.Context, task *asynq.Task) error {
	var payload HousekeeperPayload
	if err := asynqutils.Unmarshal(task.Payload(), &payload); err != nil {
		return asynqutils.SkipRetry(err)
	}

	// Audit rows for the models pruned during this run
	hkRuns := make([]models.HousekeeperRun, 0)

	// Per-model errors, joined at the end
	allErrs := make([]error, 0)

	logger := asynqutils.GetLogger(ctx)
	for _, item := range payload.Retention {
		model, ok := registry.ModelRegistry.Get(item.Name)
		if !ok {
			logger.Warn("model not found in registry", "name", item.Name)

			continue
		}

		// Run records are the audit trail of the warehouse and are
		// never pruned.
		if item.Name == metamodels.SyncRunModelName {
			logger.Warn("run records are never pruned", "name", item.Name)

			continue
		}

		now := time.Now()
		past := now.Add(-item.Duration)

		var count int64
		var err error
		if _, ok := rawCaptureModels[item.Name]; ok {
			count, err = deleteSupersededRecords(ctx, model, past)
		} else {
			count, err = deleteStaleRecords(ctx, model, past)
		}

		allErrs = append(allErrs, err)
		completedAt := time.Now()
		switch err {
		case nil:
			logger.Info("deleted stale records", "name", item.Name, "count", count)
			hkRun := models.HousekeeperRun{
				ModelName:   item.Name,
				StartedAt:   now,
				CompletedAt: completedAt,
				Count:       count,
			}
			hkRuns = append(hkRuns, hkRun)

			metric := prometheus.MustNewConstMetric(
				hkDeletedRecordsDesc,
				prometheus.GaugeValue,
				float64(count),
				item.Name,
			)
			key := metrics.Key(HousekeeperTaskType, item.Name)
			metrics.DefaultCollector.AddMetric(key, metric)
		default:
			// Keep going with the remaining models
			logger.Error("failed to delete stale records", "name", item.Name, "reason", err)
		}
	}

	if len(hkRuns) == 0 {
		return errors.Join(allErrs...)
	}

	_, err := db.DB.NewInsert().
		Model(&hkRuns).
		Returning("id").
		Exec(ctx)

	allErrs = append(allErrs, err)

	return errors.Join(allErrs...)
}

// staleRecordsQuery returns the delete statement for records of the given
// model, which have not been updated since the given cutoff.
func staleRecordsQuery(model any, past time.Time) *bun.DeleteQuery {
	return db.DB.NewDelete().
		Model(model).
		Where("date_part('epoch', updated_at) < ?", past.Unix())
}

// supersededRecordsQuery returns the delete statement for raw capture
// records, which were synced before the given cutoff and have since been
// superseded by a newer generation of the same source record. The latest row
// per source id is excluded from the delete regardless of its age.
func supersededRecordsQuery(model any, past time.Time) *bun.DeleteQuery {
	latest := db.DB.NewSelect().
		Model(model).
		ColumnExpr("id").
		DistinctOn("source_id").
		OrderExpr("source_id ASC, synced_at DESC, id DESC")

	return db.DB.NewDelete().
		Model(model).
		Where("date_part('epoch', synced_at) < ?", past.Unix()).
		Where("id NOT IN (?)", latest)
}

// deleteStaleRecords deletes the records of the given model, which have not
// been updated since the given cutoff.
func deleteStaleRecords(ctx context.Context, model any, past time.Time) (int64, error) {
	out, err := staleRecordsQuery(model, past).Exec(ctx)
	if err != nil {
		return 0, err
	}

	return out.RowsAffected()
}

// deleteSupersededRecords deletes the raw capture records, which have been
// superseded by a newer generation of the same source record.
func deleteSupersededRecords(ctx context.Context, model any, past time.Time) (int64, error) {
	out, err := supersededRecordsQuery(model, past).Exec(ctx)
	if err != nil {
		return 0, err
	}

	return out.RowsAffected()
}

func init() {
	registry.TaskRegistry.MustRegister(HousekeeperTaskType, asynq.HandlerFunc(HandleHousekeeperTask))
	metrics.DefaultCollector.AddDesc(hkDeletedRecordsDesc)
}
