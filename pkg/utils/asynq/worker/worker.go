// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"runtime"

	"github.com/hibiken/asynq"

	"github.com/flexspace/warehouse/pkg/core/config"
)

// Option is a function, which configures the [Worker].
type Option func(conf *asynq.Config)

// Worker wraps an [asynq.Server] and an [asynq.ServeMux], on which the task
// handlers and middlewares are registered.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// WithLogLevel is an [Option], which configures the log level of the [Worker].
func WithLogLevel(level asynq.LogLevel) Option {
	opt := func(conf *asynq.Config) {
		conf.LogLevel = level
	}

	return opt
}

// WithErrorHandler is an [Option], which configures the [Worker] to use the
// specified [asynq.ErrorHandler].
func WithErrorHandler(handler asynq.ErrorHandler) Option {
	opt := func(conf *asynq.Config) {
		conf.ErrorHandler = handler
	}

	return opt
}

// NewFromConfig creates a new [Worker] based on the provided
// [config.WorkerConfig] spec. Unless specified otherwise by the config, the
// worker consumes from the default queue with concurrency set to the number
// of CPUs.
func NewFromConfig(r asynq.RedisClientOpt, conf config.WorkerConfig, opts ...Option) *Worker {
	concurrency := conf.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	queues := conf.Queues
	if len(queues) == 0 {
		queues = map[string]int{
			config.DefaultQueueName: 1,
		}
	}

	serverConfig := asynq.Config{
		Concurrency:    concurrency,
		Queues:         queues,
		StrictPriority: conf.StrictPriority,
	}
	for _, opt := range opts {
		opt(&serverConfig)
	}

	worker := &Worker{
		server: asynq.NewServer(r, serverConfig),
		mux:    asynq.NewServeMux(),
	}

	return worker
}

// Handle registers the given handler for the task with the given name.
func (w *Worker) Handle(name string, handler asynq.Handler) {
	w.mux.Handle(name, handler)
}

// UseMiddlewares configures the [Worker] to use the given middlewares.
func (w *Worker) UseMiddlewares(middlewares ...asynq.MiddlewareFunc) {
	w.mux.Use(middlewares...)
}

// Run starts the worker and blocks until a shutdown signal is received.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}
