// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package preview

import "strings"

const (
	// ExportFilename is the fixed name offered for downloaded exports.
	ExportFilename = "tailwind-playground.html"

	// DefaultScriptURL is the hosted Tailwind build referenced by exports
	// and by the preview frame.
	DefaultScriptURL = "https://cdn.tailwindcss.com"
)

// Standalone wraps the user's HTML and CSS in a minimal self-contained
// document: doctype, UTF-8 charset, responsive viewport, a script tag for
// the hosted Tailwind build and, when css is non-empty, an inline style
// block. html becomes the body contents verbatim.
func Standalone(html, css, scriptURL string) string {
	if scriptURL == "" {
		scriptURL = DefaultScriptURL
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n")
	b.WriteString("<head>\n")
	b.WriteString("  <meta charset=\"UTF-8\">\n")
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("  <title>Tailwind Playground Export</title>\n")
	b.WriteString("  <script src=\"" + scriptURL + "\"></script>\n")
	if css != "" {
		b.WriteString("  <style>\n")
		b.WriteString(css)
		b.WriteString("\n  </style>\n")
	}
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	b.WriteString(html)
	b.WriteString("\n</body>\n")
	b.WriteString("</html>\n")
	return b.String()
}

// DefaultSeedBody is the playground's starting markup when no example is
// selected.
const DefaultSeedBody = `<div class="max-w-sm mx-auto rounded-xl bg-white p-6 shadow-lg">
  <h2 class="text-xl font-semibold text-gray-900">Hello, Tailwind</h2>
  <p class="mt-2 text-gray-600">Edit the HTML or CSS and watch the preview update.</p>
</div>`

// SeedDocument wraps body in the editable document the playground starts
// from. The head loads the Tailwind runtime, so utility classes work in
// the preview, and provides the </head> that Combine inserts CSS before.
func SeedDocument(body, scriptURL string) string {
	if scriptURL == "" {
		scriptURL = DefaultScriptURL
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("  <script src=\"" + scriptURL + "\"></script>\n")
	b.WriteString("</head>\n<body class=\"p-6\">\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}
