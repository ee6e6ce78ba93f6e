// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/urfave/cli/v2"

	asynqclients "github.com/flexspace/warehouse/pkg/clients/asynq"
	dbclients "github.com/flexspace/warehouse/pkg/clients/db"
	"github.com/flexspace/warehouse/pkg/core/config"
	"github.com/flexspace/warehouse/pkg/core/registry"
	"github.com/flexspace/warehouse/pkg/metrics"
	asynqutils "github.com/flexspace/warehouse/pkg/utils/asynq"
	workerutils "github.com/flexspace/warehouse/pkg/utils/asynq/worker"
	dbutils "github.com/flexspace/warehouse/pkg/utils/db"
)

// NewWorkerCommand returns a new command for interfacing with the workers.
func NewWorkerCommand() *cli.Command {
	cmd := &cli.Command{
		Name:    "worker",
		Usage:   "worker operations",
		Aliases: []string{"w"},
		Before: func(ctx *cli.Context) error {
			conf := getConfig(ctx)
			validatorFuncs := []func(c *config.Config) error{
				validateRedisConfig,
				validateDBConfig,
			}

			for _, validator := range validatorFuncs {
				if err := validator(conf); err != nil {
					return err
				}
			}

			return nil
		},
		Subcommands: []*cli.Command{
			{
				Name:    "start",
				Usage:   "start the worker",
				Aliases: []string{"s"},
				Action: func(ctx *cli.Context) error {
					return startWorker(ctx)
				},
			},
		},
	}

	return cmd
}

// startWorker starts the worker and the metrics server alongside it.
func startWorker(ctx *cli.Context) error {
	conf := getConfig(ctx)

	db := newDB(conf)
	defer db.Close() // nolint: errcheck
	if err := dbutils.WaitReady(ctx.Context, db); err != nil {
		return err
	}
	dbclients.SetDB(db)

	client := newAsynqClient(conf)
	defer client.Close() // nolint: errcheck
	asynqclients.SetClient(client)

	inspector := newInspector(conf)
	defer inspector.Close() // nolint: errcheck
	asynqclients.SetInspector(inspector)

	if err := configureNexudusClient(ctx.Context, conf); err != nil {
		return err
	}

	if err := configureArchive(ctx.Context, conf); err != nil {
		return err
	}

	worker := workerutils.NewFromConfig(newRedisClientOpt(conf), conf.Worker)
	worker.UseMiddlewares(
		asynqutils.NewLoggerMiddleware(slog.Default()),
		asynqutils.NewMeasuringMiddleware(),
		asynqutils.NewMetricsMiddleware(),
	)

	// Register task handlers from the registry
	walker := func(name string, handler asynq.Handler) error {
		slog.Info("registering task", "name", name)
		worker.Handle(name, handler)

		return nil
	}
	if err := registry.TaskRegistry.Range(walker); err != nil {
		return err
	}

	// Metrics server
	server := metrics.NewServer(conf.Worker.Metrics.Address, conf.Worker.Metrics.Path)
	go func() {
		slog.Info(
			"starting metrics server",
			"address", conf.Worker.Metrics.Address,
			"path", conf.Worker.Metrics.Path,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server error", "reason", err)
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("cannot shutdown metrics server", "reason", err)
		}
	}()

	return worker.Run()
}
