// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the documentation site
// and the playground. Handlers are grouped by concern (docs, playground,
// health) and receive their dependencies through the handler struct.
package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tailwindplay/internal/cache"
	"tailwindplay/internal/catalog"
	"tailwindplay/internal/middleware"
	"tailwindplay/internal/models"
	"tailwindplay/internal/recent"
	"tailwindplay/internal/render"
	"tailwindplay/internal/store"
)

// latestSnippets is how many shared snippets the home page lists.
const latestSnippets = 5

// Docs groups the catalog browsing handlers. Category and function pages
// are the same for every visitor and go through the L2 page cache; the
// home page carries the visitor's recent list and is always rendered.
type Docs struct {
	renderer  *render.Renderer
	catalog   *catalog.Catalog
	recent    *recent.Store
	snippets  *store.SnippetStore
	pageCache *cache.PageCache
}

// NewDocs creates a Docs handler group. snippets and pageCache may be nil.
func NewDocs(renderer *render.Renderer, cat *catalog.Catalog, recentStore *recent.Store, snippets *store.SnippetStore, pageCache *cache.PageCache) *Docs {
	return &Docs{
		renderer:  renderer,
		catalog:   cat,
		recent:    recentStore,
		snippets:  snippets,
		pageCache: pageCache,
	}
}

// Home renders the catalog overview with the visitor's recent categories.
func (d *Docs) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var recentCats []catalog.Category
	if owner := middleware.VisitorID(ctx); owner != "" {
		for _, id := range d.recent.List(ctx, owner) {
			// Stale ids from an older dataset are skipped.
			if c, ok := d.catalog.FindCategory(id); ok {
				recentCats = append(recentCats, *c)
			}
		}
	}

	var latest []models.Snippet
	if d.snippets != nil {
		var err error
		latest, err = d.snippets.ListRecent(ctx, latestSnippets)
		if err != nil {
			slog.Error("list recent snippets failed", "error", err)
		}
	}

	d.renderer.Page(w, r, "home", &render.PageData{
		Section:    "docs",
		Categories: d.catalog.List(),
		Data: map[string]any{
			"FunctionCount": d.catalog.FunctionCount(),
			"Recent":        recentCats,
			"Snippets":      latest,
		},
	})
}

// Category renders one category and its functions.
func (d *Docs) Category(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "category")
	c, ok := d.catalog.FindCategory(id)
	if !ok {
		d.NotFound(w, r)
		return
	}
	d.visit(r, c.ID)

	d.cachedPage(w, r, cache.CategoryKey(c.ID), "category", &render.PageData{
		Title:      c.Name,
		Section:    "docs",
		Categories: d.catalog.List(),
		Data:       map[string]any{"Category": c},
	})
}

// Function renders one utility with its variants and examples, and
// records the category as recently viewed.
func (d *Docs) Function(w http.ResponseWriter, r *http.Request) {
	catID := chi.URLParam(r, "category")
	fnID := chi.URLParam(r, "function")

	fn, ok := d.catalog.FindFunction(catID, fnID)
	if !ok {
		d.NotFound(w, r)
		return
	}
	c, _ := d.catalog.FindCategory(catID)
	d.visit(r, c.ID)

	d.cachedPage(w, r, cache.FunctionKey(c.ID, fn.ID), "function", &render.PageData{
		Title:      fn.Name + " · " + c.Name,
		Section:    "docs",
		Categories: d.catalog.List(),
		Data:       map[string]any{"Category": c, "Function": fn},
	})
}

// Search lists categories and functions matching ?q=.
func (d *Docs) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	var hits []catalog.Hit
	if q != "" {
		hits = d.catalog.Search(q)
	}

	d.renderer.Page(w, r, "search", &render.PageData{
		Title:      "Search",
		Section:    "search",
		Categories: d.catalog.List(),
		Data:       map[string]any{"Query": q, "Hits": hits},
	})
}

// recentEntry is one item of the /recent JSON response.
type recentEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Recent returns the visitor's recently viewed categories as JSON, most
// recent first. Anonymous visitors get an empty list.
func (d *Docs) Recent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries := []recentEntry{}
	if owner := middleware.VisitorID(ctx); owner != "" {
		for _, id := range d.recent.List(ctx, owner) {
			if c, ok := d.catalog.FindCategory(id); ok {
				entries = append(entries, recentEntry{ID: c.ID, Name: c.Name})
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(entries)
}

// NotFound renders the generic 404 page.
func (d *Docs) NotFound(w http.ResponseWriter, r *http.Request) {
	d.renderer.NotFound(w, r, d.catalog.List())
}

func (d *Docs) visit(r *http.Request, categoryID string) {
	if owner := middleware.VisitorID(r.Context()); owner != "" {
		d.recent.Visit(r.Context(), owner, categoryID)
	}
}

// cachedPage serves a visitor-independent page from the page cache,
// rendering and storing it on a miss. HTMX fragments are cached under
// their own key.
func (d *Docs) cachedPage(w http.ResponseWriter, r *http.Request, key, name string, data *render.PageData) {
	ctx := r.Context()
	if render.IsHTMX(r) {
		key = cache.PartialKey(key)
	}

	if cached, ok := d.pageCache.Get(ctx, key); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(cached)
		return
	}

	var buf bytes.Buffer
	if err := d.renderer.Render(&buf, r, name, data); err != nil {
		slog.Error("render page failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	d.pageCache.Set(ctx, key, buf.Bytes())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
