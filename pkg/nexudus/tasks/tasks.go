// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package tasks provides the task handlers for syncing data from Nexudus.
//
// Collection tasks capture raw API records into the bronze layer, while
// materialization tasks reduce the captured records into the typed silver
// layer. The sync-all and materialize-all tasks run the individual steps
// in order within a single invocation, so that all steps share one run id
// and dependent steps can reuse the records fetched by earlier ones.
package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	nexudusclients "github.com/flexspace/warehouse/pkg/clients/nexudus"
	"github.com/flexspace/warehouse/pkg/core/registry"
	"github.com/flexspace/warehouse/pkg/nexudus/constants"
	nexudusutils "github.com/flexspace/warehouse/pkg/nexudus/utils"
	asynqutils "github.com/flexspace/warehouse/pkg/utils/asynq"
)

const (
	// TaskSyncAll is a meta task, which runs all Nexudus collection steps
	// in order as a single sync run.
	TaskSyncAll = "nexudus:task:sync-all"

	// TaskMaterializeAll is a meta task, which materializes all entities
	// into the silver layer as a single run.
	TaskMaterializeAll = "nexudus:task:materialize-all"
)

// NewSyncAllTask creates a new [asynq.Task] for running all Nexudus
// collection steps.
func NewSyncAllTask() *asynq.Task {
	return asynq.NewTask(TaskSyncAll, nil)
}

// NewMaterializeAllTask creates a new [asynq.Task] for materializing all
// entities into the silver layer.
func NewMaterializeAllTask() *asynq.Task {
	return asynq.NewTask(TaskMaterializeAll, nil)
}

// HandleSyncAllTask is the handler, which runs all collection steps in
// order. Each step is tracked separately under a shared run id, and a
// failed step does not prevent the remaining steps from running. The
// resources step is the exception, since it discovers what to fetch from
// the products step and is skipped when that step fails.
func HandleSyncAllTask(ctx context.Context, _ *asynq.Task) error {
	if nexudusclients.Client == nil {
		return asynqutils.SkipRetry(ErrNoAPIClient)
	}

	logger := asynqutils.GetLogger(ctx)
	runID := uuid.New()
	logger.Info("starting nexudus sync", "run_id", runID)

	failed := make([]string, 0)
	if _, err := collectLocations(ctx, runID, TaskSyncAll); err != nil {
		failed = append(failed, constants.EntityLocations)
	}

	products, productsErr := collectProducts(ctx, runID, TaskSyncAll)
	if productsErr != nil {
		failed = append(failed, constants.EntityProducts)
	}

	if err := collectContracts(ctx, runID, TaskSyncAll); err != nil {
		failed = append(failed, constants.EntityContracts)
	}

	if productsErr == nil {
		idsByLocation := nexudusutils.DiscoverResourceIDs(products)
		if err := collectResources(ctx, runID, TaskSyncAll, idsByLocation); err != nil {
			failed = append(failed, constants.EntityResources)
		}
	} else {
		logger.Warn("skipping resources, products sync failed", "run_id", runID)
	}

	if err := collectExtraServices(ctx, runID, TaskSyncAll); err != nil {
		failed = append(failed, constants.EntityExtraServices)
	}

	if len(failed) > 0 {
		return fmt.Errorf("nexudus sync failed for: %s", strings.Join(failed, ", "))
	}

	logger.Info("nexudus sync complete", "run_id", runID)

	return nil
}

// HandleMaterializeAllTask is the handler, which materializes all entities
// into the silver layer in order. Each entity is tracked separately under
// a shared run id, and a failed entity does not prevent the remaining
// entities from being materialized.
func HandleMaterializeAllTask(ctx context.Context, _ *asynq.Task) error {
	logger := asynqutils.GetLogger(ctx)
	runID := uuid.New()
	logger.Info("starting nexudus materialization", "run_id", runID)

	steps := []struct {
		entity string
		fn     func(context.Context, uuid.UUID, string) error
	}{
		{entity: constants.EntityLocations, fn: materializeLocations},
		{entity: constants.EntityProducts, fn: materializeProducts},
		{entity: constants.EntityResources, fn: materializeResources},
		{entity: constants.EntityContracts, fn: materializeContracts},
		{entity: constants.EntityExtraServices, fn: materializeExtraServices},
	}

	failed := make([]string, 0)
	for _, step := range steps {
		if err := step.fn(ctx, runID, TaskMaterializeAll); err != nil {
			failed = append(failed, step.entity)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("nexudus materialization failed for: %s", strings.Join(failed, ", "))
	}

	logger.Info("nexudus materialization complete", "run_id", runID)

	return nil
}

// init registers our task handlers with the registry.
func init() {
	registry.TaskRegistry.MustRegister(TaskSyncAll, asynq.HandlerFunc(HandleSyncAllTask))
	registry.TaskRegistry.MustRegister(TaskMaterializeAll, asynq.HandlerFunc(HandleMaterializeAllTask))
	registry.TaskRegistry.MustRegister(TaskCollectLocations, asynq.HandlerFunc(HandleCollectLocationsTask))
	registry.TaskRegistry.MustRegister(TaskCollectProducts, asynq.HandlerFunc(HandleCollectProductsTask))
	registry.TaskRegistry.MustRegister(TaskCollectContracts, asynq.HandlerFunc(HandleCollectContractsTask))
	registry.TaskRegistry.MustRegister(TaskCollectResources, asynq.HandlerFunc(HandleCollectResourcesTask))
	registry.TaskRegistry.MustRegister(TaskCollectExtraServices, asynq.HandlerFunc(HandleCollectExtraServicesTask))
	registry.TaskRegistry.MustRegister(TaskMaterializeLocations, asynq.HandlerFunc(HandleMaterializeLocationsTask))
	registry.TaskRegistry.MustRegister(TaskMaterializeProducts, asynq.HandlerFunc(HandleMaterializeProductsTask))
	registry.TaskRegistry.MustRegister(TaskMaterializeContracts, asynq.HandlerFunc(HandleMaterializeContractsTask))
	registry.TaskRegistry.MustRegister(TaskMaterializeResources, asynq.HandlerFunc(HandleMaterializeResourcesTask))
	registry.TaskRegistry.MustRegister(TaskMaterializeExtraServices, asynq.HandlerFunc(HandleMaterializeExtraServicesTask))
}
