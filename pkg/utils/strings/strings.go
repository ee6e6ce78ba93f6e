// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package strings

import (
	"regexp"
	"strings"
)

var (
	htmlTagRegexp    = regexp.MustCompile(`<[^>]+>`)
	whitespaceRegexp = regexp.MustCompile(`\s+`)
)

// StringFromPointer returns the string value of a pointer to a string or an empty string if the pointer is nil.
func StringFromPointer(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// StripTags removes HTML tags from the given string and collapses any runs of
// whitespace into a single space. Useful for rich-text fields, which contain
// markup, but are stored as plain text.
func StripTags(s string) string {
	text := htmlTagRegexp.ReplaceAllString(s, " ")
	text = whitespaceRegexp.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
