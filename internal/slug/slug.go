// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug normalizes titles and term names into URL-friendly slugs.
package slug

import (
	"regexp"
	"strings"
)

var (
	// disallowed matches anything that isn't a lowercase letter, digit,
	// whitespace, or hyphen.
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace matches one or more whitespace characters of any kind.
	whitespace = regexp.MustCompile(`\s+`)
	// repeatedHyphens collapses consecutive hyphens into one.
	repeatedHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = disallowed.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = repeatedHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// WithFallback generates a slug from s, falling back to the given value
// when normalization strips everything (e.g. a title written entirely in
// CJK characters).
func WithFallback(s, fallback string) string {
	if out := Generate(s); out != "" {
		return out
	}
	return fallback
}
