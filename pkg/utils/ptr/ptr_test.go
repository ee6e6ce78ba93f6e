// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ptr_test

import (
	"testing"

	"github.com/flexspace/warehouse/pkg/utils/ptr"
)

func TestValueWithStringPointer(t *testing.T) {
	name := "Meeting Room 1"

	testCases := []struct {
		desc string
		in   *string
		def  string
		want string
	}{
		{
			desc: "nil pointer returns empty default",
			in:   nil,
			def:  "",
			want: "",
		},
		{
			desc: "nil pointer returns non-empty default",
			in:   nil,
			def:  "unknown",
			want: "unknown",
		},
		{
			desc: "non-nil pointer ignores default",
			in:   &name,
			def:  "unknown",
			want: name,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got := ptr.Value(tc.in, tc.def)
			if got != tc.want {
				t.Fatalf("want %q got %q", tc.want, got)
			}
		})
	}
}

func TestValueWithInt64Pointer(t *testing.T) {
	id := int64(1000)

	if got := ptr.Value[int64](nil, 0); got != 0 {
		t.Fatalf("want 0 got %d", got)
	}
	if got := ptr.Value(&id, 0); got != id {
		t.Fatalf("want %d got %d", id, got)
	}
}

func TestTo(t *testing.T) {
	s := ptr.To("Hot Desk")
	if s == nil || *s != "Hot Desk" {
		t.Fatalf("To returned %v, want pointer to %q", s, "Hot Desk")
	}

	f := ptr.To(31.5)
	if f == nil || *f != 31.5 {
		t.Fatalf("To returned %v, want pointer to %v", f, 31.5)
	}

	b := ptr.To(true)
	if b == nil || !*b {
		t.Fatalf("To returned %v, want pointer to true", b)
	}
}
