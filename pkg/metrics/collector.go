// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flexspace/warehouse/pkg/core/registry"
)

// DefaultCollector is the default [Collector] for metrics.
var DefaultCollector = NewCollector()

// Collector is an implementation of the [prometheus.Collector] interface.
//
// This custom collector addresses some shortcomings of the upstream
// [prometheus.GaugeVec] collector. Check the documentation below for more
// details.
//
// The upstream [prometheus.GaugeVec] is not suitable for metrics reported by
// sync tasks such as reporting the number of synced records, primarily
// because [prometheus.GaugeVec] "remembers" any previously emitted metrics.
//
// Suppose we have a task which reports the number of synced products,
// partitioned by location. Such a task would represent the metric as a gauge,
// because the number of products may go up and down.
//
// Example metrics might look like this when exposed:
//
//	# HELP warehouse_location_products Number of products in a location.
//	# TYPE warehouse_location_products gauge
//	warehouse_location_products{location="berlin-mitte"} 42.0
//	warehouse_location_products{location="hamburg-hafen"} 10.0
//
// When using [prometheus.GaugeVec] these metrics will be retained and
// reported indefinitely, even if we never sync any records for the above
// locations again, e.g. because a location has been closed down.
//
// In other words the [prometheus.GaugeVec] represents the last-known value of
// the metric, as opposed to the latest value.
//
// This property makes [prometheus.GaugeVec] not suitable for some of the sync
// tasks, because we want our metric to represent the latest value.
type Collector struct {
	mu sync.Mutex

	// descriptors provides the [prometheus.Desc] descriptors of the metrics
	// provided by the collector.
	descriptors []*prometheus.Desc

	// reg is the internal [registry.Registry] used by the collector.
	reg *registry.Registry[string, prometheus.Metric]
}

var _ prometheus.Collector = &Collector{}

// AddDesc adds the given [prometheus.Desc] to the [Collector].
func (c *Collector) AddDesc(items ...*prometheus.Desc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.descriptors = append(c.descriptors, items...)
}

// AddMetric adds the given [prometheus.Metric] to the [Collector], which will
// expose it on the next scrape.
//
// The key identifies the metric and its label values within the internal
// [Collector] registry. Callers are expected to use the same key when
// reporting the same metric and label values again, so that the collector
// does not report duplicates.
func (c *Collector) AddMetric(key string, metric prometheus.Metric) {
	c.reg.Overwrite(key, metric)
}

// Describe implements the [prometheus.Collector] interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, desc := range c.descriptors {
		ch <- desc
	}
}

// Collect implements the [prometheus.Collector] interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	// Metrics are removed from the internal registry once collected, so
	// that a scrape only ever sees the latest reported values.
	keys := make([]string, 0)
	_ = c.reg.Range(func(k string, metric prometheus.Metric) error {
		keys = append(keys, k)
		ch <- metric

		return nil
	})

	for _, k := range keys {
		c.reg.Unregister(k)
	}
}

// NewCollector creates a new [Collector]
func NewCollector() *Collector {
	c := &Collector{
		descriptors: make([]*prometheus.Desc, 0),
		reg:         registry.New[string, prometheus.Metric](),
	}

	return c
}

// Key derives a registry key from the given items, suitable for use with
// [Collector.AddMetric]. Tasks usually derive the key from the task name and
// the label values of the reported metric.
func Key(item string, rest ...string) string {
	items := []string{item}
	items = append(items, rest...)

	return strings.Join(items, "/")
}
