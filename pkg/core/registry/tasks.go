// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package registry

import "github.com/hibiken/asynq"

// TaskRegistry is the default registry, which maps task names to their
// handlers. Workers consult it when registering task handlers on startup.
var TaskRegistry = New[string, asynq.Handler]()

// ScheduledTaskRegistry is the default registry for periodic tasks, which
// maps a cron spec to the task to be enqueued on that schedule.
var ScheduledTaskRegistry = New[string, *asynq.Task]()
