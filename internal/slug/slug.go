// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings,
// plus collection-unique minting with numeric suffixing.
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// ExistsFunc reports whether a slug is already taken within some
// uniqueness scope (typically the non-deleted rows of one collection).
type ExistsFunc func(slug string) (bool, error)

// Unique derives a slug from free text and resolves collisions by
// numeric suffixing: "books", "books-2", "books-3", and so on.
// Text that yields an empty slug falls back to "untitled".
func Unique(text string, exists ExistsFunc) (string, error) {
	base := Generate(text)
	if base == "" {
		base = "untitled"
	}

	candidate := base
	for n := 2; ; n++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("slug uniqueness check: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
