// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package tasks

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/flexspace/warehouse/pkg/core/registry"
	asynqutils "github.com/flexspace/warehouse/pkg/utils/asynq"
)

// ErrNoCommand is an error, which is returned when the command task is
// submitted without a command in the payload.
var ErrNoCommand = errors.New("no command specified")

const (
	// CommandTaskType is the name of the task, which runs an external
	// command.
	CommandTaskType = "common:task:command"
)

// CommandPayload is the payload of the task for running external commands.
type CommandPayload struct {
	// Command is the name or path of the command to run.
	Command string `yaml:"command" json:"command"`

	// Args are the arguments to invoke the command with.
	Args []string `yaml:"args" json:"args"`

	// Dir is the working directory for the command. When empty the
	// command runs in the current directory of the worker process.
	Dir string `yaml:"dir" json:"dir"`
}

// HandleCommandTask runs the command from the payload. The combined output
// of a failed command is included in the log event, so that failures of
// scheduled commands can be diagnosed from the logs alone.
func HandleCommandTask(ctx context.Context, task *asynq.Task) error {
	var payload CommandPayload
	if err := asynqutils.Unmarshal(task.Payload(), &payload); err != nil {
		return asynqutils.SkipRetry(err)
	}

	if payload.Command == "" {
		return asynqutils.SkipRetry(ErrNoCommand)
	}

	path, err := exec.LookPath(payload.Command)
	if err != nil {
		return asynqutils.SkipRetry(err)
	}

	logger := asynqutils.GetLogger(ctx)
	logger.Info(
		"executing command",
		"command", path,
		"args", payload.Args,
		"dir", payload.Dir,
	)

	cmd := exec.CommandContext(ctx, path, payload.Args...)
	cmd.Dir = payload.Dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		logger.Error(
			"command failed",
			"command", path,
			"output", strings.TrimSpace(string(out)),
			"reason", err,
		)

		return err
	}

	logger.Info("command completed", "command", path)

	return nil
}

func init() {
	registry.TaskRegistry.MustRegister(CommandTaskType, asynq.HandlerFunc(HandleCommandTask))
}
