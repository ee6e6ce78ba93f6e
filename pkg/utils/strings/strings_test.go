// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package strings

import (
	"testing"
)

var emptyString = ""
var nonEmptyString = "abc"
var flagtests = []struct {
	in  *string
	out string
}{
	{nil, ""},
	{&emptyString, ""},
	{&nonEmptyString, nonEmptyString},
}

func TestStringFromPointer(t *testing.T) {
	for _, tt := range flagtests {
		out := StringFromPointer(tt.in)

		if tt.out != out {
			t.Fatalf(`StringFromPointer(%v) == %q, expected %q.`, tt.in, out, tt.out)
		}
	}
}

func TestStripTags(t *testing.T) {
	testCases := []struct {
		in  string
		out string
	}{
		{"", ""},
		{"coworking space", "coworking space"},
		{"<p>A <b>great</b> place to work.</p>", "A great place to work."},
		{`<div class="intro"><p>Open <em>daily</em></p></div>`, "Open daily"},
		{"too   many\n\nspaces", "too many spaces"},
		{"<br/><hr>", ""},
	}

	for _, tt := range testCases {
		out := StripTags(tt.in)
		if tt.out != out {
			t.Fatalf(`StripTags(%q) == %q, expected %q.`, tt.in, out, tt.out)
		}
	}
}
