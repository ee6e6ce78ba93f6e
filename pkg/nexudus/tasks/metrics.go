// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package tasks

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/flexspace/warehouse/pkg/metrics"
)

var (
	// locationsDesc is the descriptor for a metric, which tracks the
	// number of collected Nexudus locations.
	locationsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metrics.Namespace, "", "nexudus_locations"),
		"A gauge which tracks the number of collected Nexudus locations",
		nil,
		nil,
	)

	// productsDesc is the descriptor for a metric, which tracks the
	// number of collected Nexudus products.
	productsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metrics.Namespace, "", "nexudus_products"),
		"A gauge which tracks the number of collected Nexudus products",
		nil,
		nil,
	)

	// contractsDesc is the descriptor for a metric, which tracks the
	// number of collected Nexudus coworker contracts.
	contractsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metrics.Namespace, "", "nexudus_contracts"),
		"A gauge which tracks the number of collected Nexudus contracts",
		nil,
		nil,
	)

	// resourcesDesc is the descriptor for a metric, which tracks the
	// number of collected Nexudus bookable resources.
	resourcesDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metrics.Namespace, "", "nexudus_resources"),
		"A gauge which tracks the number of collected Nexudus resources",
		nil,
		nil,
	)

	// extraServicesDesc is the descriptor for a metric, which tracks the
	// number of collected Nexudus extra services.
	extraServicesDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metrics.Namespace, "", "nexudus_extra_services"),
		"A gauge which tracks the number of collected Nexudus extra services",
		nil,
		nil,
	)
)

// init registers the metrics descriptors with the default collector.
func init() {
	metrics.DefaultCollector.AddDesc(
		locationsDesc,
		productsDesc,
		contractsDesc,
		resourcesDesc,
		extraServicesDesc,
	)
}
