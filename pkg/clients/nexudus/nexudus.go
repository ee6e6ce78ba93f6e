// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package nexudus

import (
	"github.com/flexspace/warehouse/pkg/nexudus/api"
)

// Client is the Nexudus API client used by workers during runtime.
var Client *api.Client

// SetClient shall be invoked from cli commands to set the Nexudus API client
// for the workers.
func SetClient(c *api.Client) {
	Client = c
}
