// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package models provides the bookkeeping models for sync runs.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	coremodels "github.com/flexspace/warehouse/pkg/core/models"
	"github.com/flexspace/warehouse/pkg/core/registry"
)

// Names of the models, as they are known by the model registry.
const (
	// SyncRunModelName is the name of the sync run model.
	SyncRunModelName = "meta:model:sync_run"

	// SyncErrorModelName is the name of the sync error model.
	SyncErrorModelName = "meta:model:sync_error"
)

// Statuses of a sync run.
const (
	// RunStatusRunning is the status of a sync run, which has started, but
	// has not reached a terminal state yet.
	RunStatusRunning = "running"

	// RunStatusSuccess is the terminal status of a sync run, which
	// completed without an error.
	RunStatusSuccess = "success"

	// RunStatusFailed is the terminal status of a sync run, which
	// completed with an error.
	RunStatusFailed = "failed"
)

// Tiers of the store a sync run writes to.
const (
	// TierBronze identifies the raw, append-only capture tier.
	TierBronze = "bronze"

	// TierSilver identifies the typed, deduplicated tier.
	TierSilver = "silver"
)

// Run represents the bookkeeping record of a single sync step. A run record
// is created as soon as the step starts and receives exactly one terminal
// update when the step finishes. Run records are never deleted.
type Run struct {
	bun.BaseModel `bun:"table:meta.sync_runs"`
	coremodels.Model

	// RunID groups the steps, which were executed as part of the same
	// invocation.
	RunID uuid.UUID `bun:"run_id,notnull,type:uuid"`

	// Source specifies the upstream source system.
	Source string `bun:"source,notnull"`

	// Entity specifies the entity processed by the step.
	Entity string `bun:"entity,notnull"`

	// Tier specifies the tier of the store the step writes to.
	Tier string `bun:"tier,notnull"`

	// Status specifies the current status of the run.
	Status string `bun:"status,notnull"`

	// TriggeredBy specifies what caused the step to run, e.g. the name of
	// the task which executed it.
	TriggeredBy string `bun:"triggered_by,nullzero"`

	// StartedAt specifies when the step started.
	StartedAt time.Time `bun:"started_at,notnull"`

	// FinishedAt specifies when the step reached a terminal state.
	FinishedAt time.Time `bun:"finished_at,nullzero"`

	// RowsRead specifies the number of upstream records read by the step.
	RowsRead int64 `bun:"rows_read,notnull"`

	// RowsWritten specifies the number of rows written by the step.
	RowsWritten int64 `bun:"rows_written,notnull"`

	// RowsSkipped specifies the number of records the step skipped, e.g.
	// because they failed to transform.
	RowsSkipped int64 `bun:"rows_skipped,notnull"`

	// ErrorMessage contains the error which caused the run to fail.
	ErrorMessage string `bun:"error_message,nullzero"`

	// Metadata contains optional free-form context about the run.
	Metadata string `bun:"metadata,nullzero"`
}

// Error represents a per-record error captured while processing an entity.
// Error records are best-effort and never block the step which emits them.
type Error struct {
	bun.BaseModel `bun:"table:meta.sync_errors"`
	coremodels.Model

	// RunID specifies the run during which the error was captured.
	RunID uuid.UUID `bun:"run_id,notnull,type:uuid"`

	// Source specifies the upstream source system.
	Source string `bun:"source,notnull"`

	// Entity specifies the entity the failing record belongs to.
	Entity string `bun:"entity,notnull"`

	// SourceID specifies the natural id of the failing record, when known.
	SourceID int64 `bun:"source_id,nullzero"`

	// ErrorMessage contains the error captured for the record.
	ErrorMessage string `bun:"error_message,notnull"`

	// RawPayload contains the raw record which failed to process.
	RawPayload json.RawMessage `bun:"raw_payload,type:jsonb,nullzero"`
}

func init() {
	// Register the models with the default registry
	registry.ModelRegistry.MustRegister(SyncRunModelName, &Run{})
	registry.ModelRegistry.MustRegister(SyncErrorModelName, &Error{})
}
