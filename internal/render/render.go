// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site.
// It supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"tailwindplay/internal/catalog"
	"tailwindplay/internal/markdown"
	"tailwindplay/internal/middleware"
	"tailwindplay/internal/preview"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title      string             // Page title for <title> tag
	Section    string             // Active nav section ("docs", "playground", "search")
	CSRFToken  string             // CSRF token for forms and HTMX headers
	Categories []catalog.Category // Sidebar navigation
	Data       map[string]any     // Page-specific data
	Flashes    []Flash            // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer handles template parsing and execution for site pages.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New parses every page template from the embedded filesystem, each paired
// with the base layout. When devMode is true, templates load HTMX from a
// CDN; otherwise they reference local static files. scriptURL is the
// Tailwind build the site and the preview frame use.
func New(devMode bool, scriptURL string) (*Renderer, error) {
	if scriptURL == "" {
		scriptURL = preview.DefaultScriptURL
	}
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "bg-gray-900 text-white"
				}
				return "text-gray-300 hover:bg-gray-700 hover:text-white"
			},
			"isDev": func() bool {
				return devMode
			},
			"scriptURL": func() string {
				return scriptURL
			},
			// markdown renders catalog prose. Raw HTML in the source is dropped.
			"markdown": func(s string) template.HTML {
				out, err := markdown.ToHTML(s)
				if err != nil {
					slog.Warn("markdown render failed", "error", err)
					return template.HTML(template.HTMLEscapeString(s))
				}
				return template.HTML(out)
			},
			"code": func(lang, src string) template.HTML {
				out, err := markdown.Code(lang, src)
				if err != nil {
					slog.Warn("code highlight failed", "error", err)
					return template.HTML("<pre><code>" + template.HTMLEscapeString(src) + "</code></pre>")
				}
				return template.HTML(out)
			},
			"colorClass": colorClass,
			"join":       strings.Join,
			"devices": func() []preview.Device {
				return []preview.Device{preview.DeviceMobile, preview.DeviceTablet, preview.DeviceDesktop}
			},
		},
	}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	for _, page := range pages {
		name := page[len("templates/"):]
		if name == "base.html" {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			templateFS, "templates/base.html", page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Has reports whether a page template with the given name exists.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// Page renders a full page or an HTMX partial with status 200.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus renders a page with the given status code. For HTMX requests
// only the "content" block is sent.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	var buf bytes.Buffer
	if err := rn.Render(&buf, r, name, data); err != nil {
		slog.Error("render page failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// Render executes a page into out. The output is buffered by callers so a
// template error never leaves a half-written response, and so catalog
// pages can be stored in the page cache.
func (rn *Renderer) Render(out io.Writer, r *http.Request, name string, data *PageData) error {
	tmpl, ok := rn.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	if data == nil {
		data = &PageData{}
	}
	data.CSRFToken = middleware.CSRFToken(r)

	execName := "base.html"
	if IsHTMX(r) {
		execName = "content"
	}
	return tmpl.ExecuteTemplate(out, execName, data)
}

// NotFound renders the generic not-found page with a link back home.
func (rn *Renderer) NotFound(w http.ResponseWriter, r *http.Request, categories []catalog.Category) {
	rn.PageStatus(w, r, http.StatusNotFound, "not_found", &PageData{
		Title:      "Not found",
		Categories: categories,
	})
}

// IsHTMX returns true if the request was made by HTMX (has HX-Request header).
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// colorClass maps a category accent colour to badge classes. Unknown
// colours fall back to gray so the dataset cannot inject arbitrary classes.
func colorClass(color string) string {
	switch color {
	case "indigo", "sky", "emerald", "amber", "rose", "violet", "teal", "orange", "pink", "lime", "slate":
		return "bg-" + color + "-100 text-" + color + "-800"
	default:
		return "bg-gray-100 text-gray-800"
	}
}
