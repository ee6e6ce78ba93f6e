// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq/x/metrics"
	"github.com/hibiken/asynqmon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

// NewDashboardCommand returns a new command for interfacing with the dashboard.
func NewDashboardCommand() *cli.Command {
	cmd := &cli.Command{
		Name:    "dashboard",
		Usage:   "dashboard operations",
		Aliases: []string{"ui"},
		Before: func(ctx *cli.Context) error {
			conf := getConfig(ctx)
			if err := validateRedisConfig(conf); err != nil {
				return err
			}

			return validateDashboardConfig(conf)
		},
		Subcommands: []*cli.Command{
			{
				Name:    "start",
				Usage:   "start the dashboard ui",
				Aliases: []string{"s"},
				Action: func(ctx *cli.Context) error {
					conf := getConfig(ctx)
					inspector := newInspector(conf)

					// Web UI for managing queues and tasks
					ui := asynqmon.New(asynqmon.Options{
						RootPath:          "/",
						RedisConnOpt:      newRedisClientOpt(conf),
						ReadOnly:          conf.Dashboard.ReadOnly,
						PrometheusAddress: conf.Dashboard.PrometheusEndpoint,
					})

					// Queue metrics, along with the standard process and Go
					// runtime collectors
					promRegistry := prometheus.NewPedanticRegistry()
					promRegistry.MustRegister(
						metrics.NewQueueMetricsCollector(inspector),
						collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
						collectors.NewGoCollector(),
					)

					mux := http.NewServeMux()
					mux.Handle("/", ui)
					mux.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))

					srv := &http.Server{
						Addr:    conf.Dashboard.Address,
						Handler: mux,
					}

					slog.Info("starting server", "address", conf.Dashboard.Address, "ui", "/", "metrics", "/metrics")

					return srv.ListenAndServe()
				},
			},
		},
	}

	return cmd
}
