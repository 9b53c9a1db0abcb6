// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown renders post and comment source text into HTML using
// goldmark and sanitizes the result with bluemonday.
package markdown

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting( // syntax highlighting for fenced code blocks
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // raw HTML passes through; sanitization happens after render
	),
)

var (
	// ugc allows the tag set acceptable in reader-submitted content.
	ugc = bluemonday.UGCPolicy()
	// strict strips every tag; used for excerpts.
	strict = bluemonday.StrictPolicy()
)

// ToHTML converts Markdown source into sanitized HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return string(ugc.SanitizeBytes(buf.Bytes())), nil
}

// Sanitize strips disallowed tags and attributes from already-rendered HTML.
// Comment content goes through this before storage.
func Sanitize(html string) string {
	return ugc.Sanitize(html)
}

// Excerpt strips all markup from rendered HTML and truncates the plain text
// to at most n runes, appending an ellipsis when the text was cut.
func Excerpt(html string, n int) string {
	text := strings.Join(strings.Fields(strict.Sanitize(html)), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
