// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ptr

// Value dereferences p and returns the value it points to, or the default
// value def when p is nil.
func Value[T any](p *T, def T) T {
	if p != nil {
		return *p
	}

	return def
}

// To returns a pointer to a copy of the given value. Useful for taking the
// address of literals and other unaddressable operands.
func To[T any](v T) *T {
	return &v
}
