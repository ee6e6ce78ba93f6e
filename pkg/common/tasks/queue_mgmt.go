// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package tasks

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"

	asynqclient "github.com/flexspace/warehouse/pkg/clients/asynq"
	"github.com/flexspace/warehouse/pkg/core/registry"
	asynqutils "github.com/flexspace/warehouse/pkg/utils/asynq"
)

// ErrNoQueueName is an error, which is returned when a queue maintenance task
// was submitted without a queue name in the payload.
var ErrNoQueueName = errors.New("no queue name specified")

const (
	// DeleteArchivedTaskType is the name of the task, which deletes
	// archived tasks from a queue.
	DeleteArchivedTaskType = "common:task:delete-archived-tasks"

	// DeleteCompletedTaskType is the name of the task, which deletes
	// completed tasks from a queue.
	DeleteCompletedTaskType = "common:task:delete-completed-tasks"
)

// DeleteQueuePayload is the payload of the queue maintenance tasks.
type DeleteQueuePayload struct {
	// Queue is the name of the queue to maintain.
	Queue string `yaml:"queue" json:"queue"`
}

// deleteTasks validates the payload of a queue maintenance task and invokes
// the given delete function against the queue from the payload. The tasks
// which end up in the given state are periodically pruned, so that completed
// and dead tasks don't pile up in Redis.
func deleteTasks(ctx context.Context, task *asynq.Task, state string, deleteFunc func(queue string) (int, error)) error {
	var payload DeleteQueuePayload
	if err := asynqutils.Unmarshal(task.Payload(), &payload); err != nil {
		return asynqutils.SkipRetry(err)
	}

	if payload.Queue == "" {
		return asynqutils.SkipRetry(ErrNoQueueName)
	}

	count, err := deleteFunc(payload.Queue)
	if err != nil {
		return err
	}

	logger := asynqutils.GetLogger(ctx)
	logger.Info(
		"deleted tasks",
		"state", state,
		"queue", payload.Queue,
		"count", count,
	)

	return nil
}

// HandleDeleteArchivedTask deletes archived tasks.
func HandleDeleteArchivedTask(ctx context.Context, task *asynq.Task) error {
	return deleteTasks(ctx, task, "archived", asynqclient.Inspector.DeleteAllArchivedTasks)
}

// HandleDeleteCompletedTask deletes completed tasks.
func HandleDeleteCompletedTask(ctx context.Context, task *asynq.Task) error {
	return deleteTasks(ctx, task, "completed", asynqclient.Inspector.DeleteAllCompletedTasks)
}

func init() {
	registry.TaskRegistry.MustRegister(DeleteArchivedTaskType, asynq.HandlerFunc(HandleDeleteArchivedTask))
	registry.TaskRegistry.MustRegister(DeleteCompletedTaskType, asynq.HandlerFunc(HandleDeleteCompletedTask))
}
