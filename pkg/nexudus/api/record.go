// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package api

// Int64 returns the value of the given key coerced to an integer. The
// boolean result reports whether the key was present with a numeric value.
// JSON numbers arrive as float64 after decoding, so that is the common case.
func (r Record) Int64(key string) (int64, bool) {
	switch v := r[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}

	return 0, false
}
