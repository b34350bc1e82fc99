// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package slug derives URL-safe identifiers from post titles and guarantees
// their uniqueness within a scope.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackSlug is used when a title normalizes to nothing, e.g. a title made
// entirely of symbols.
const FallbackSlug = "post"

var (
	// slugRegex matches non-alphanumeric characters (except hyphens)
	slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// separatorRegex matches runs of whitespace, underscores and hyphens
	separatorRegex = regexp.MustCompile(`[\s_-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Normalize converts a title to a URL-friendly slug candidate.
// It strips accents, transliterates non-Latin scripts to ASCII, lowercases,
// replaces separator runs with single hyphens and drops everything else.
// An empty result falls back to FallbackSlug.
func Normalize(title string) string {
	// Decompose accented characters and drop the combining marks.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, title)

	// Transliterate whatever is still outside ASCII (CJK, Cyrillic, ...).
	result = unidecode.Unidecode(result)

	result = strings.ToLower(result)
	result = separatorRegex.ReplaceAllString(result, "-")
	result = slugRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if result == "" {
		return FallbackSlug
	}
	return result
}

// IsValid checks if a string is a valid slug format.
func IsValid(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	return !strings.Contains(s, "--")
}
