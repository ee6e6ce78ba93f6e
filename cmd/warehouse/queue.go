// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"
)

// newQueueNameFlag returns the flag used by the queue subcommands for
// specifying the name of the queue to operate on.
func newQueueNameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "queue",
		Usage:    "queue name",
		Value:    "default",
		Required: true,
		Aliases:  []string{"name"},
	}
}

// NewQueueCommand returns a new command for interfacing with the queues.
func NewQueueCommand() *cli.Command {
	cmd := &cli.Command{
		Name:    "queue",
		Usage:   "queue operations",
		Aliases: []string{"q"},
		Before: func(ctx *cli.Context) error {
			conf := getConfig(ctx)

			return validateRedisConfig(conf)
		},
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Usage:   "list queues",
				Aliases: []string{"ls"},
				Action: func(ctx *cli.Context) error {
					conf := getConfig(ctx)
					inspector := newInspector(conf)
					defer inspector.Close() // nolint: errcheck

					queues, err := inspector.Queues()
					if err != nil {
						return err
					}

					if len(queues) == 0 {
						return nil
					}

					table := newTableWriter(os.Stdout, []string{"NAME"})
					for _, item := range queues {
						if err := table.Append([]string{item}); err != nil {
							return err
						}
					}

					return table.Render()
				},
			},
			{
				Name:    "info",
				Usage:   "get queue info",
				Aliases: []string{"i"},
				Flags:   []cli.Flag{newQueueNameFlag()},
				Action: func(ctx *cli.Context) error {
					queueName := ctx.String("name")
					conf := getConfig(ctx)
					inspector := newInspector(conf)
					defer inspector.Close() // nolint: errcheck

					q, err := inspector.GetQueueInfo(queueName)
					if err != nil {
						return err
					}

					fmt.Printf("%-20s: %s\n", "Name", q.Queue)
					fmt.Printf("%-20s: %d\n", "Memory Usage", q.MemoryUsage)
					fmt.Printf("%-20s: %s\n", "Latency", q.Latency.String())
					fmt.Printf("%-20s: %d\n", "Size", q.Size)
					fmt.Printf("%-20s: %d\n", "Groups", q.Groups)
					fmt.Printf("%-20s: %d\n", "Pending", q.Pending)
					fmt.Printf("%-20s: %d\n", "Active", q.Active)
					fmt.Printf("%-20s: %d\n", "Scheduled", q.Scheduled)
					fmt.Printf("%-20s: %d\n", "Retry", q.Retry)
					fmt.Printf("%-20s: %d\n", "Archived", q.Archived)
					fmt.Printf("%-20s: %d\n", "Completed", q.Completed)
					fmt.Printf("%-20s: %d\n", "Aggregating", q.Aggregating)
					fmt.Printf("%-20s: %d\n", "Processed (daily)", q.Processed)
					fmt.Printf("%-20s: %d\n", "Failed (daily)", q.Failed)
					fmt.Printf("%-20s: %v\n", "Paused", q.Paused)

					return nil
				},
			},
			{
				Name:    "pause",
				Usage:   "pause a queue",
				Aliases: []string{"p"},
				Flags:   []cli.Flag{newQueueNameFlag()},
				Action: func(ctx *cli.Context) error {
					queueName := ctx.String("name")
					conf := getConfig(ctx)
					inspector := newInspector(conf)
					defer inspector.Close() // nolint: errcheck

					return inspector.PauseQueue(queueName)
				},
			},
			{
				Name:    "resume",
				Usage:   "resume a queue",
				Aliases: []string{"r"},
				Flags:   []cli.Flag{newQueueNameFlag()},
				Action: func(ctx *cli.Context) error {
					queueName := ctx.String("name")
					conf := getConfig(ctx)
					inspector := newInspector(conf)
					defer inspector.Close() // nolint: errcheck

					return inspector.UnpauseQueue(queueName)
				},
			},
			{
				Name:    "drain",
				Usage:   "drain queue messages",
				Aliases: []string{"d"},
				Flags: []cli.Flag{
					newQueueNameFlag(),
					&cli.StringFlag{
						Name:     "type",
						Usage:    "message type to drain",
						Value:    "scheduled",
						Required: true,
					},
				},
				Action: drainQueueAction,
			},
		},
	}

	return cmd
}

// drainQueueAction deletes all messages of a given type from a queue.
func drainQueueAction(ctx *cli.Context) error {
	queueName := ctx.String("name")
	messageType := ctx.String("type")
	conf := getConfig(ctx)
	inspector := newInspector(conf)
	defer inspector.Close() // nolint: errcheck

	drainFuncs := map[string]func(queue string) (int, error){
		"scheduled": inspector.DeleteAllScheduledTasks,
		"pending":   inspector.DeleteAllPendingTasks,
		"archived":  inspector.DeleteAllArchivedTasks,
		"completed": inspector.DeleteAllCompletedTasks,
		"retry":     inspector.DeleteAllRetryTasks,
	}

	drainFunc, ok := drainFuncs[messageType]
	if !ok {
		messageTypes := make([]string, 0, len(drainFuncs))
		for k := range drainFuncs {
			messageTypes = append(messageTypes, k)
		}
		sort.Strings(messageTypes)

		return fmt.Errorf("message type should be one of %s", strings.Join(messageTypes, ", "))
	}

	_, err := drainFunc(queueName)

	return err
}
