// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package version provides version information about the warehouse.
package version

// Version is the warehouse version. It is meant to be set via -ldflags at
// build time.
var Version = "v0.1.0-dev"
