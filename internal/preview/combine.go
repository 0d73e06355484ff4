// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package preview turns the playground's HTML and CSS buffers into a single
// document and pushes it into an isolated rendering surface. It owns the
// debounce/auto-refresh state machine and the standalone export format.
package preview

import "strings"

// headClose is the injection point for the combined <style> block.
const headClose = "</head>"

// Combine merges css into html by inserting a <style> block immediately
// before the first closing </head> tag. An empty css returns html
// unchanged. When html has no </head>, the css is dropped and html is
// returned as-is.
func Combine(html, css string) string {
	if css == "" {
		return html
	}
	return strings.Replace(html, headClose, "<style>"+css+"</style>"+headClose, 1)
}
