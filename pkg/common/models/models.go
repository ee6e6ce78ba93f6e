// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package models

import (
	"time"

	"github.com/uptrace/bun"

	coremodels "github.com/flexspace/warehouse/pkg/core/models"
	"github.com/flexspace/warehouse/pkg/core/registry"
)

// HousekeeperRun records a single housekeeper pass over one model.
type HousekeeperRun struct {
	bun.BaseModel `bun:"table:meta.housekeeper_runs"`
	coremodels.Model

	// ModelName is the registry name of the model, which was pruned.
	ModelName string `bun:"model_name,notnull"`

	// StartedAt is the time at which the housekeeper started pruning the
	// model.
	StartedAt time.Time `bun:"started_at,notnull"`

	// CompletedAt is the time at which the housekeeper finished pruning
	// the model.
	CompletedAt time.Time `bun:"completed_at,notnull"`

	// Count is the number of records, which were deleted during the run.
	Count int64 `bun:"count,notnull"`
}

func init() {
	// Register the models with the default registry
	registry.ModelRegistry.MustRegister("common:model:housekeeper_run", &HousekeeperRun{})
}
