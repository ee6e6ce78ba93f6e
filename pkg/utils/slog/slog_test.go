// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package slog_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/flexspace/warehouse/pkg/core/config"
	slogutils "github.com/flexspace/warehouse/pkg/utils/slog"
)

func TestNewFromConfigDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := slogutils.NewFromConfig(&buf, config.LoggingConfig{})
	if err != nil {
		t.Fatalf("failed to create logger: %s", err)
	}

	logger.Info("sync started", "entity", "products")
	logger.Debug("should be suppressed at the default level")

	out := buf.String()
	if !strings.Contains(out, "sync started") {
		t.Fatalf("log output does not contain the INFO event: %q", out)
	}
	if strings.Contains(out, "suppressed") {
		t.Fatalf("log output contains a DEBUG event at the default level: %q", out)
	}
}

func TestNewFromConfigJSONFormat(t *testing.T) {
	conf := config.LoggingConfig{
		Level:  "debug",
		Format: "json",
		Attributes: map[string]string{
			"component": "warehouse",
		},
	}

	var buf bytes.Buffer
	logger, err := slogutils.NewFromConfig(&buf, conf)
	if err != nil {
		t.Fatalf("failed to create logger: %s", err)
	}

	logger.Debug("records written", "count", 42)

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("log output is not valid JSON: %s", err)
	}

	if event["msg"] != "records written" {
		t.Fatalf("unexpected msg attribute: %v", event["msg"])
	}
	if event["component"] != "warehouse" {
		t.Fatalf("default attribute is missing from the event: %v", event)
	}
}

func TestNewFromConfigInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	_, err := slogutils.NewFromConfig(&buf, config.LoggingConfig{Level: "verbose"})
	if !errors.Is(err, slogutils.ErrInvalidLogLevel) {
		t.Fatalf("want ErrInvalidLogLevel, got %v", err)
	}
}

func TestNewFromConfigInvalidFormat(t *testing.T) {
	var buf bytes.Buffer
	_, err := slogutils.NewFromConfig(&buf, config.LoggingConfig{Format: "xml"})
	if !errors.Is(err, slogutils.ErrInvalidLogFormat) {
		t.Fatalf("want ErrInvalidLogFormat, got %v", err)
	}
}
