// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/urfave/cli/v2"

	"github.com/flexspace/warehouse/pkg/core/registry"
)

// NewSchedulerCommand returns a new command for interfacing with the scheduler.
func NewSchedulerCommand() *cli.Command {
	cmd := &cli.Command{
		Name:    "scheduler",
		Usage:   "scheduler operations",
		Aliases: []string{"s"},
		Before: func(ctx *cli.Context) error {
			conf := getConfig(ctx)

			return validateRedisConfig(conf)
		},
		Subcommands: []*cli.Command{
			{
				Name:    "start",
				Usage:   "start the scheduler",
				Aliases: []string{"s"},
				Action:  startSchedulerAction,
			},
			{
				Name:    "jobs",
				Usage:   "list periodic jobs",
				Aliases: []string{"j"},
				Action:  listSchedulerJobsAction,
			},
		},
	}

	return cmd
}

// startSchedulerAction registers the periodic tasks and starts the scheduler.
// Periodic tasks are registered from the registry and from the config file.
func startSchedulerAction(ctx *cli.Context) error {
	conf := getConfig(ctx)
	scheduler := newScheduler(conf)

	register := func(spec string, task *asynq.Task, queue string, attrs ...any) error {
		id, err := scheduler.Register(spec, task, asynq.Queue(queue))
		if err != nil {
			return err
		}

		logAttrs := []any{"id", id, "name", task.Type(), "spec", spec, "queue", queue}
		logAttrs = append(logAttrs, attrs...)
		slog.Info("periodic task registered", logAttrs...)

		return nil
	}

	// TODO: add support for specifying queue for tasks originating from the
	// registry.
	walker := func(spec string, task *asynq.Task) error {
		return register(spec, task, conf.Scheduler.DefaultQueue, "source", "registry")
	}
	if err := registry.ScheduledTaskRegistry.Range(walker); err != nil {
		return err
	}

	for _, job := range conf.Scheduler.Jobs {
		task := asynq.NewTask(job.Name, []byte(job.Payload))
		queue := conf.Scheduler.DefaultQueue
		if job.Queue != "" {
			queue = job.Queue
		}

		if err := register(job.Spec, task, queue, "desc", job.Desc, "source", "config"); err != nil {
			return err
		}
	}

	return scheduler.Run()
}

// listSchedulerJobsAction prints the currently registered periodic jobs.
func listSchedulerJobsAction(ctx *cli.Context) error {
	conf := getConfig(ctx)
	inspector := newInspector(conf)
	defer inspector.Close() // nolint: errcheck

	items, err := inspector.SchedulerEntries()
	if err != nil {
		return err
	}

	if len(items) == 0 {
		return nil
	}

	headers := []string{
		"ID",
		"SPEC",
		"TYPE",
		"PREV",
		"NEXT",
		"OPTS",
	}
	table := newTableWriter(os.Stdout, headers)

	for _, item := range items {
		opts := make([]string, 0, len(item.Opts))
		for _, opt := range item.Opts {
			opts = append(opts, opt.String())
		}

		row := []string{
			item.ID,
			item.Spec,
			item.Task.Type(),
			timeOrNA(item.Prev),
			fmt.Sprintf("In %s", time.Until(item.Next)),
			strings.Join(opts, ", "),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}

	return table.Render()
}
