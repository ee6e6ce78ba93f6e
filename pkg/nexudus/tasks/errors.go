// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package tasks

import "errors"

// ErrNoAPIClient is an error, which is returned when the Nexudus API client
// has not been configured.
var ErrNoAPIClient = errors.New("no nexudus API client configured")
