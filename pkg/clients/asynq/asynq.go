// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package asynq

import (
	"github.com/hibiken/asynq"
)

// Client is the [asynq.Client] used by workers for enqueueing tasks during
// runtime, e.g. when a sync task enqueues follow-up tasks.
var Client *asynq.Client

// Inspector is the [asynq.Inspector] used for inspecting queues and tasks.
var Inspector *asynq.Inspector

// SetClient shall be invoked from cli commands to set the asynq client for
// the workers.
func SetClient(c *asynq.Client) {
	Client = c
}

// SetInspector shall be invoked from cli commands to set the asynq inspector
// for the workers.
func SetInspector(i *asynq.Inspector) {
	Inspector = i
}
