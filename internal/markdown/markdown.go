// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown renders catalog prose and example snippets to HTML with
// goldmark. Raw HTML in prose is omitted; example code is shown
// highlighted, never executed.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Style is the chroma style used for code blocks.
const Style = "github"

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle(Style),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Code renders code as a highlighted block for the given chroma lexer
// name ("html", "css", ...).
func Code(lang, code string) (string, error) {
	fence := strings.Repeat("`", max(3, longestRun(code, '`')+1))
	var src strings.Builder
	src.WriteString(fence)
	src.WriteString(lang)
	src.WriteByte('\n')
	src.WriteString(code)
	if !strings.HasSuffix(code, "\n") {
		src.WriteByte('\n')
	}
	src.WriteString(fence)
	src.WriteByte('\n')
	return ToHTML(src.String())
}

func longestRun(s string, c byte) int {
	best, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			cur++
			best = max(best, cur)
		} else {
			cur = 0
		}
	}
	return best
}
