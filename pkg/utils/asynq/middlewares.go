// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package asynq

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/flexspace/warehouse/pkg/metrics"
)

// NewLoggerMiddleware returns a new [asynq.MiddlewareFunc], which embeds a
// [slog.Logger] in the context provided to task handlers. The embedded logger
// annotates each log event with the task name, task id and queue from which
// the task was received.
func NewLoggerMiddleware(logger *slog.Logger) asynq.MiddlewareFunc {
	middleware := func(handler asynq.Handler) asynq.Handler {
		mw := func(ctx context.Context, task *asynq.Task) error {
			taskLogger := logger.With("task_name", task.Type())
			if taskID, ok := asynq.GetTaskID(ctx); ok {
				taskLogger = taskLogger.With("task_id", taskID)
			}
			if queueName, ok := asynq.GetQueueName(ctx); ok {
				taskLogger = taskLogger.With("task_queue", queueName)
			}

			newCtx := context.WithValue(ctx, loggerKey{}, taskLogger)

			return handler.ProcessTask(newCtx, task)
		}

		return asynq.HandlerFunc(mw)
	}

	return asynq.MiddlewareFunc(middleware)
}

// NewMeasuringMiddleware returns a new [asynq.MiddlewareFunc], which measures
// and logs the wall-clock duration of task handlers.
func NewMeasuringMiddleware() asynq.MiddlewareFunc {
	middleware := func(handler asynq.Handler) asynq.Handler {
		mw := func(ctx context.Context, task *asynq.Task) error {
			logger := GetLogger(ctx)
			logger.Info("task started")
			start := time.Now()
			err := handler.ProcessTask(ctx, task)
			elapsed := time.Since(start)
			logger.Info("task completed", "duration", elapsed)

			return err
		}

		return asynq.HandlerFunc(mw)
	}

	return asynq.MiddlewareFunc(middleware)
}

// NewMetricsMiddleware returns a new [asynq.MiddlewareFunc], which records
// metrics about the outcome and duration of task handlers.
func NewMetricsMiddleware() asynq.MiddlewareFunc {
	middleware := func(handler asynq.Handler) asynq.Handler {
		mw := func(ctx context.Context, task *asynq.Task) error {
			taskName := task.Type()
			queueName := GetQueueName(ctx)

			start := time.Now()
			err := handler.ProcessTask(ctx, task)
			elapsed := time.Since(start)

			switch {
			case err == nil:
				metrics.TaskSuccessfulTotal.WithLabelValues(taskName, queueName).Inc()
				metrics.TaskDurationSeconds.WithLabelValues(taskName, queueName).Observe(elapsed.Seconds())
			case errors.Is(err, asynq.SkipRetry):
				metrics.TaskSkippedTotal.WithLabelValues(taskName, queueName).Inc()
			default:
				metrics.TaskFailedTotal.WithLabelValues(taskName, queueName).Inc()
			}

			return err
		}

		return asynq.HandlerFunc(mw)
	}

	return asynq.MiddlewareFunc(middleware)
}
