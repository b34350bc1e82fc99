// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render converts stored markdown post bodies into sanitized HTML for
// the public blog surface.
package render

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// htmlSanitizer provides a reusable HTML sanitization policy for post bodies.
// UGCPolicy allows safe HTML tags for user-generated content while stripping
// scripts and event handlers.
var htmlSanitizer = bluemonday.UGCPolicy()

// markdown is the shared converter. GFM gives tables, strikethrough, and
// autolinks, which authors use in travel itineraries.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Markdown converts a markdown source to sanitized HTML.
// Generated or hand-written markdown may embed raw HTML; everything goes
// through the sanitizer before it reaches a browser.
func Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// Excerpt returns the post excerpt as sanitized plain-ish HTML. Excerpts are
// short and shown in list views, so the same policy applies.
func Excerpt(source string) string {
	return htmlSanitizer.Sanitize(source)
}
