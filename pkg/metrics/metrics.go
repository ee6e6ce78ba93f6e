// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace is the namespace component of the fully qualified metric name
const Namespace = "warehouse"

// DefaultRegistry is the default [prometheus.Registry] for metrics.
var DefaultRegistry = prometheus.NewPedanticRegistry()

var (
	// TaskSuccessfulTotal is a metric, which gets incremented each time a
	// task completes successfully.
	TaskSuccessfulTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "task_successful_total",
			Help:      "Total number of successfully completed tasks",
		},
		[]string{"task_name", "task_queue"},
	)

	// TaskSkippedTotal is a metric, which gets incremented each time a
	// task fails with an error, which signals that it should not be
	// retried.
	TaskSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "task_skipped_total",
			Help:      "Total number of skipped tasks",
		},
		[]string{"task_name", "task_queue"},
	)

	// TaskFailedTotal is a metric, which gets incremented each time a
	// task fails.
	TaskFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "task_failed_total",
			Help:      "Total number of failed tasks",
		},
		[]string{"task_name", "task_queue"},
	)

	// TaskDurationSeconds is a metric, which tracks the duration of
	// successfully completed tasks.
	TaskDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "task_duration_seconds",
			Help:      "Duration of successfully completed tasks",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"task_name", "task_queue"},
	)
)

// NewServer returns a new [http.Server] which can serve the metrics from
// [DefaultRegistry] on the specified network address and HTTP path. Callers
// are responsible for starting up and shutting down the HTTP server.
func NewServer(addr, path string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(
		path,
		promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{}),
	)

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: time.Second * 30,
		Handler:           mux,
	}

	return server
}

// init registers collectors with the [DefaultRegistry].
func init() {
	DefaultRegistry.MustRegister(
		// Warehouse metrics
		TaskSuccessfulTotal,
		TaskSkippedTotal,
		TaskFailedTotal,
		TaskDurationSeconds,
		DefaultCollector,

		// Standard Go metrics
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}
