// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package tracker provides bookkeeping for sync steps.
//
// Every sync step runs within a tracker scope. The tracker records the step
// in the sync runs table as soon as it starts, and updates the record
// exactly once with the terminal state when the step finishes, regardless of
// how the step exits.
package tracker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/flexspace/warehouse/pkg/clients/db"
	metamodels "github.com/flexspace/warehouse/pkg/meta/models"
	asynqutils "github.com/flexspace/warehouse/pkg/utils/asynq"
)

// Tracker tracks the execution of a single sync step.
//
// The counters are aggregated by the step itself and are persisted as part
// of the terminal update. They are not safe for concurrent use.
type Tracker struct {
	// RowsRead is the number of upstream records read by the step.
	RowsRead int64

	// RowsWritten is the number of rows written by the step.
	RowsWritten int64

	// RowsSkipped is the number of records skipped by the step.
	RowsSkipped int64

	run *metamodels.Run
}

// Start records the beginning of a sync step and returns a [Tracker] for it.
// Callers are expected to pair it with a deferred call to [Tracker.End].
func Start(ctx context.Context, source, entity, tier string, runID uuid.UUID, triggeredBy string) (*Tracker, error) {
	run := &metamodels.Run{
		RunID:       runID,
		Source:      source,
		Entity:      entity,
		Tier:        tier,
		Status:      metamodels.RunStatusRunning,
		TriggeredBy: triggeredBy,
		StartedAt:   time.Now().UTC(),
	}
	run.ID = uuid.New()

	if _, err := db.DB.NewInsert().Model(run).Exec(ctx); err != nil {
		return nil, err
	}

	return &Tracker{run: run}, nil
}

// End records the terminal state of the sync step. The given error decides
// between success and failure, and is not consumed: the step still returns
// it to its caller. Failure to persist the terminal update is logged and
// does not mask the step's own result.
func (t *Tracker) End(ctx context.Context, taskErr error) {
	t.run.FinishedAt = time.Now().UTC()
	t.run.RowsRead = t.RowsRead
	t.run.RowsWritten = t.RowsWritten
	t.run.RowsSkipped = t.RowsSkipped

	if taskErr != nil {
		t.run.Status = metamodels.RunStatusFailed
		t.run.ErrorMessage = taskErr.Error()
	} else {
		t.run.Status = metamodels.RunStatusSuccess
	}

	logger := asynqutils.GetLogger(ctx)
	_, err := db.DB.NewUpdate().
		Model(t.run).
		Column("status", "finished_at", "rows_read", "rows_written", "rows_skipped", "error_message").
		WherePK().
		Exec(ctx)

	if err != nil {
		logger.Warn(
			"failed to record sync run completion",
			"entity", t.run.Entity,
			"tier", t.run.Tier,
			"run_id", t.run.RunID.String(),
			"reason", err,
		)
	}

	logger.Info(
		"sync step finished",
		"entity", t.run.Entity,
		"tier", t.run.Tier,
		"run_id", t.run.RunID.String(),
		"status", t.run.Status,
		"rows_read", t.RowsRead,
		"rows_written", t.RowsWritten,
		"rows_skipped", t.RowsSkipped,
		"duration", t.run.FinishedAt.Sub(t.run.StartedAt),
	)
}

// LogError captures a per-record error for the sync step. The insert is
// best-effort: a failure to persist the error record is logged and
// discarded, so that it never affects the step itself.
func (t *Tracker) LogError(ctx context.Context, sourceID int64, recordErr error, rawPayload []byte) {
	item := &metamodels.Error{
		RunID:        t.run.RunID,
		Source:       t.run.Source,
		Entity:       t.run.Entity,
		SourceID:     sourceID,
		ErrorMessage: recordErr.Error(),
		RawPayload:   rawPayload,
	}

	if _, err := db.DB.NewInsert().Model(item).Exec(ctx); err != nil {
		logger := asynqutils.GetLogger(ctx)
		logger.Warn(
			"failed to record sync error",
			"entity", t.run.Entity,
			"run_id", t.run.RunID.String(),
			"source_id", sourceID,
			"reason", err,
		)
	}
}
