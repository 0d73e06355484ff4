package handlers

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validation limits for playground and snippet inputs.
const (
	maxTitleLen = 120
	maxHTMLLen  = 100_000
	maxCSSLen   = 50_000
)

// validateBuffers checks editor contents and returns the first error found.
func validateBuffers(html, css string) string {
	if utf8.RuneCountInString(html) > maxHTMLLen {
		return "HTML is too long (max 100,000 characters)."
	}
	if utf8.RuneCountInString(css) > maxCSSLen {
		return "CSS is too long (max 50,000 characters)."
	}
	return ""
}

// validateSnippet checks a share request. The title is optional; an empty
// snippet is refused.
func validateSnippet(title, html, css string) string {
	if utf8.RuneCountInString(strings.TrimSpace(title)) > maxTitleLen {
		return "Title is too long (max 120 characters)."
	}
	if strings.TrimSpace(html) == "" && strings.TrimSpace(css) == "" {
		return "Nothing to share: the editor is empty."
	}
	return validateBuffers(html, css)
}

// parseExampleIndex reads the ?example= parameter. Missing or malformed
// values select the first example; out-of-range values are reported.
func parseExampleIndex(raw string, count int) (int, bool) {
	if raw == "" {
		return 0, count > 0
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 || i >= count {
		return 0, false
	}
	return i, true
}
