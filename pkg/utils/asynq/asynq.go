// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package asynq provides various asynq utilities
package asynq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/goccy/go-yaml"
	"github.com/hibiken/asynq"
)

// SkipRetry wraps the provided error with [asynq.SkipRetry], which signals
// asynq to archive the task instead of retrying it.
func SkipRetry(err error) error {
	return fmt.Errorf("%w (%w)", err, asynq.SkipRetry)
}

// Unmarshal unmarshals the given payload data by first attempting to unmarshal
// using [json.Unmarshal], and if not successful then falls back to
// [yaml.Unmarshal].
func Unmarshal(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}

	return yaml.Unmarshal(data, v)
}

// loggerKey is the key used to store a [slog.Logger] in a [context.Context]
type loggerKey struct{}

// GetLogger returns the [slog.Logger] instance from the provided context, if
// found, or [slog.Default] otherwise.
func GetLogger(ctx context.Context) *slog.Logger {
	value := ctx.Value(loggerKey{})
	logger, ok := value.(*slog.Logger)
	if !ok {
		return slog.Default()
	}

	return logger
}

// GetQueueName returns the name of the queue from which the currently
// processed task was received, or an empty string when the context does not
// originate from a task handler.
func GetQueueName(ctx context.Context) string {
	queue, ok := asynq.GetQueueName(ctx)
	if !ok {
		return ""
	}

	return queue
}
