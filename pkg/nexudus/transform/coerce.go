// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package transform provides pure functions, which map raw upstream records
// into their typed silver models.
//
// The coercion helpers in this package never panic. A value, which cannot
// be coerced into the target type yields a nil pointer, so that a single
// malformed field never fails the whole record.
package transform

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/flexspace/warehouse/pkg/nexudus/api"
	utilsstrings "github.com/flexspace/warehouse/pkg/utils/strings"
)

// ErrMissingID is returned when a record has no usable Id field.
var ErrMissingID = errors.New("record has no Id field")

// timeLayouts are the accepted upstream timestamp layouts. The API returns
// ISO 8601, usually with a Z suffix, but naive timestamps without a zone
// show up as well and are treated as UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// sourceID extracts the natural id of a record.
func sourceID(payload api.Record) (int64, error) {
	if v := asInt64(payload["Id"]); v != nil {
		return *v, nil
	}

	return 0, ErrMissingID
}

// asString coerces a value into a trimmed string. Empty strings yield nil.
func asString(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	default:
		return nil
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	return &s
}

// asInt64 coerces a value into an integer. Fractions are truncated towards
// zero, like the upstream values they mirror.
func asInt64(v any) *int64 {
	var n int64
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		n = int64(t)
	case int:
		n = int64(t)
	case int64:
		n = t
	case bool:
		if t {
			n = 1
		}
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}

	return &n
}

// asFloat coerces a value into a float.
func asFloat(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case bool:
		if t {
			f = 1
		}
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	return &f
}

// asBit coerces a value into a 0/1 bit. A missing value stays nil, which
// keeps "unknown" distinct from "false".
func asBit(v any) *int64 {
	if v == nil {
		return nil
	}

	n := asFlag(v)

	return &n
}

// asFlag coerces a value into a 0/1 bit, treating a missing value as 0.
func asFlag(v any) int64 {
	truthy := false
	switch t := v.(type) {
	case nil:
	case bool:
		truthy = t
	case float64:
		truthy = t != 0
	case int:
		truthy = t != 0
	case int64:
		truthy = t != 0
	case string:
		truthy = t != ""
	default:
		truthy = true
	}

	if truthy {
		return 1
	}

	return 0
}

// asTime coerces a value into a timestamp. Values, which do not parse with
// any of the accepted layouts yield nil.
func asTime(v any) *time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	return nil
}

// stripHTML coerces a value into a plain text string with any markup
// removed. Empty results yield nil.
func stripHTML(v any) *string {
	s := asString(v)
	if s == nil {
		return nil
	}

	cleaned := utilsstrings.StripTags(*s)
	if cleaned == "" {
		return nil
	}

	return &cleaned
}

// displayName returns the human readable name of a record, falling back
// from the Name field to the ToStringText field, and finally to the given
// default.
func displayName(payload api.Record, fallback string) string {
	if s := asString(payload["Name"]); s != nil {
		return *s
	}
	if s := asString(payload["ToStringText"]); s != nil {
		return *s
	}

	return fallback
}
