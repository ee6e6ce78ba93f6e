// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package slog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/flexspace/warehouse/pkg/core/config"
)

// ErrInvalidLogLevel is an error, which is returned when an invalid log level
// has been configured.
var ErrInvalidLogLevel = errors.New("invalid log level")

// ErrInvalidLogFormat is an error, which is returned when an invalid log
// format has been configured.
var ErrInvalidLogFormat = errors.New("invalid log format")

// LogLevel represents the minimum level of emitted log events.
type LogLevel string

const (
	// LevelDebug specifies DEBUG log level.
	LevelDebug LogLevel = "debug"
	// LevelInfo specifies INFO log level.
	LevelInfo LogLevel = "info"
	// LevelWarn specifies WARN log level.
	LevelWarn LogLevel = "warn"
	// LevelError specifies ERROR log level.
	LevelError LogLevel = "error"
)

// LogFormat represents the output format of log events.
type LogFormat string

const (
	// FormatText specifies text log format.
	FormatText LogFormat = "text"
	// FormatJSON specifies JSON log format.
	FormatJSON LogFormat = "json"
)

// NewFromConfig creates a new [slog.Logger] based on the provided
// [config.LoggingConfig] spec. The returned logger emits log events to the
// given [io.Writer].
func NewFromConfig(w io.Writer, conf config.LoggingConfig) (*slog.Logger, error) {
	// Defaults, unless the config says otherwise
	logLevel := LevelInfo
	logFormat := FormatText

	if conf.Level != "" {
		logLevel = LogLevel(conf.Level)
	}
	if conf.Format != "" {
		logFormat = LogFormat(conf.Format)
	}

	var level slog.Level
	switch logLevel {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelInfo:
		level = slog.LevelInfo
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidLogLevel, logLevel)
	}

	opts := &slog.HandlerOptions{
		AddSource: conf.AddSource,
		Level:     level,
	}

	var handler slog.Handler
	switch logFormat {
	case FormatText:
		handler = slog.NewTextHandler(w, opts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidLogFormat, logFormat)
	}

	// Default attributes, which are added to each log event
	attrs := make([]slog.Attr, 0, len(conf.Attributes))
	for k, v := range conf.Attributes {
		attrs = append(attrs, slog.Any(k, v))
	}

	return slog.New(handler.WithAttrs(attrs)), nil
}
