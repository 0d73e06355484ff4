// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"tailwindplay/internal/catalog"
	"tailwindplay/internal/models"
	"tailwindplay/internal/preview"
	"tailwindplay/internal/render"
	"tailwindplay/internal/store"
)

// maxFormBytes bounds playground form bodies.
const maxFormBytes = 1 << 20

// Publisher uploads standalone exports and returns their public URL.
type Publisher interface {
	PublishExport(ctx context.Context, doc string) (string, error)
}

// Playground groups the editor page, the stateless preview/export
// endpoints and shared snippets. The live preview itself runs over the
// WebSocket endpoint in package live.
type Playground struct {
	renderer  *render.Renderer
	catalog   *catalog.Catalog
	snippets  *store.SnippetStore
	publisher Publisher
	opts      preview.Options
	baseURL   string
}

// NewPlayground creates a Playground handler group. publisher may be nil
// when S3 is not configured; publishing is then unavailable.
func NewPlayground(renderer *render.Renderer, cat *catalog.Catalog, snippets *store.SnippetStore, publisher Publisher, opts preview.Options, baseURL string) *Playground {
	return &Playground{
		renderer:  renderer,
		catalog:   cat,
		snippets:  snippets,
		publisher: publisher,
		opts:      opts,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// source is the catalog example a playground session was seeded from.
type source struct {
	Category *catalog.Category
	Function *catalog.Function
}

// editorState is everything the playground template needs.
type editorState struct {
	HTML, CSS  string
	CategoryID string
	FunctionID string
	Source     *source
	Snippet    *models.Snippet
	DeleteKey  string
	Published  string
}

// Page renders the editor. ?category=&function=&example= seed it from a
// catalog example; without them the default document is used.
func (p *Playground) Page(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := editorState{
		HTML: preview.SeedDocument(preview.DefaultSeedBody, p.opts.ScriptURL),
	}
	var flashes []render.Flash

	catID, fnID := q.Get("category"), q.Get("function")
	if catID != "" || fnID != "" {
		c, _ := p.catalog.FindCategory(catID)
		fn, ok := p.catalog.FindFunction(catID, fnID)
		if !ok {
			p.renderer.NotFound(w, r, p.catalog.List())
			return
		}
		idx, ok := parseExampleIndex(q.Get("example"), len(fn.Examples))
		if ok {
			state.HTML = preview.SeedDocument(fn.Examples[idx].Code, p.opts.ScriptURL)
		} else {
			flashes = append(flashes, render.Flash{Type: "warning", Message: "That example does not exist; showing the default document."})
		}
		state.CategoryID = c.ID
		state.FunctionID = fn.ID
		state.Source = &source{Category: c, Function: fn}
	}

	p.page(w, r, http.StatusOK, state, flashes)
}

// Preview combines the posted buffers and returns the document for the
// preview frame. It is the non-JavaScript fallback for the live session;
// the router serves it with the sandbox policy.
func (p *Playground) Preview(w http.ResponseWriter, r *http.Request) {
	html, css, ok := p.readBuffers(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(preview.Combine(html, css)))
}

// Export downloads the standalone document as tailwind-playground.html.
func (p *Playground) Export(w http.ResponseWriter, r *http.Request) {
	html, css, ok := p.readBuffers(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", preview.ExportFilename))
	w.Write([]byte(preview.Standalone(html, css, p.opts.ScriptURL)))
}

// Copy returns the clipboard payload as plain text.
func (p *Playground) Copy(w http.ResponseWriter, r *http.Request) {
	html, css, ok := p.readBuffers(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(preview.Standalone(html, css, p.opts.ScriptURL)))
}

// Publish uploads the standalone document to object storage and shows
// its public URL.
func (p *Playground) Publish(w http.ResponseWriter, r *http.Request) {
	if p.publisher == nil {
		p.renderer.NotFound(w, r, p.catalog.List())
		return
	}
	html, css, ok := p.readBuffers(w, r)
	if !ok {
		return
	}

	url, err := p.publisher.PublishExport(r.Context(), preview.Standalone(html, css, p.opts.ScriptURL))
	if err != nil {
		slog.Error("publish export failed", "error", err)
		p.page(w, r, http.StatusBadGateway, editorState{HTML: html, CSS: css}, []render.Flash{
			{Type: "error", Message: "Publishing failed. Please try again later."},
		})
		return
	}
	slog.Info("export published", "url", url)
	p.page(w, r, http.StatusOK, editorState{HTML: html, CSS: css, Published: url}, nil)
}

// readBuffers parses and validates the html/css form fields. On failure it
// writes a 400 response and returns ok=false.
func (p *Playground) readBuffers(w http.ResponseWriter, r *http.Request) (html, css string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return "", "", false
	}
	html, css = r.PostFormValue("html"), r.PostFormValue("css")
	if msg := validateBuffers(html, css); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return "", "", false
	}
	return html, css, true
}

// clientOptions is the option bag playground.js sends with its init message.
type clientOptions struct {
	DebounceMS  int            `json:"debounce_ms"`
	LoadingMS   int            `json:"loading_ms"`
	AutoRefresh bool           `json:"auto_refresh"`
	Device      preview.Device `json:"device"`
}

func (p *Playground) page(w http.ResponseWriter, r *http.Request, status int, state editorState, flashes []render.Flash) {
	opts, _ := json.Marshal(clientOptions{
		DebounceMS:  int(p.opts.DebounceWindow.Milliseconds()),
		LoadingMS:   int(p.opts.LoadingDelay.Milliseconds()),
		AutoRefresh: p.opts.AutoRefresh,
		Device:      p.opts.Device,
	})

	title := "Playground"
	if state.Snippet != nil {
		title = state.Snippet.DisplayTitle()
	}

	p.renderer.PageStatus(w, r, status, "playground", &render.PageData{
		Title:      title,
		Section:    "playground",
		Categories: p.catalog.List(),
		Flashes:    flashes,
		Data: map[string]any{
			"HTML":           state.HTML,
			"CSS":            state.CSS,
			"CategoryID":     state.CategoryID,
			"FunctionID":     state.FunctionID,
			"Source":         state.Source,
			"Snippet":        state.Snippet,
			"DeleteKey":      state.DeleteKey,
			"Published":      state.Published,
			"PublishEnabled": p.publisher != nil,
			"AutoRefresh":    p.opts.AutoRefresh,
			"Device":         p.opts.Device,
			"Options":        string(opts),
		},
	})
}
