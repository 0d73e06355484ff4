// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"tailwindplay/internal/models"
	"tailwindplay/internal/render"
	"tailwindplay/internal/slug"
	"tailwindplay/internal/store"
)

// qrSize is the edge length of snippet QR codes in pixels.
const qrSize = 256

// Share stores the posted buffers as a snippet and shows it with its
// one-time delete key.
func (p *Playground) Share(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.PostFormValue("title"))
	html, css := r.PostFormValue("html"), r.PostFormValue("css")
	if msg := validateSnippet(title, html, css); msg != "" {
		p.page(w, r, http.StatusUnprocessableEntity, editorState{HTML: html, CSS: css}, []render.Flash{
			{Type: "error", Message: msg},
		})
		return
	}

	sn := &models.Snippet{Title: title, HTML: html, CSS: css}
	// Catalog references are kept only when they still resolve.
	if fn, ok := p.catalog.FindFunction(r.PostFormValue("category"), r.PostFormValue("function")); ok {
		sn.CategoryID = r.PostFormValue("category")
		sn.FunctionID = fn.ID
	}

	key, err := p.snippets.Create(r.Context(), sn)
	if err != nil {
		slog.Error("create snippet failed", "error", err)
		p.page(w, r, http.StatusInternalServerError, editorState{HTML: html, CSS: css}, []render.Flash{
			{Type: "error", Message: "The snippet could not be saved. Please try again."},
		})
		return
	}
	slog.Info("snippet shared", "slug", sn.Slug)

	w.Header().Set("HX-Push-Url", "/s/"+sn.Slug)
	p.page(w, r, http.StatusCreated, p.snippetState(sn, key), []render.Flash{
		{Type: "success", Message: "Snippet saved."},
	})
}

// Snippet loads a shared snippet into the playground.
func (p *Playground) Snippet(w http.ResponseWriter, r *http.Request) {
	sn, ok := p.findSnippet(w, r)
	if !ok {
		return
	}
	p.page(w, r, http.StatusOK, p.snippetState(sn, ""), nil)
}

// SnippetQR serves a PNG QR code of the snippet's absolute URL.
func (p *Playground) SnippetQR(w http.ResponseWriter, r *http.Request) {
	sn, ok := p.findSnippet(w, r)
	if !ok {
		return
	}

	png, err := qrcode.Encode(p.baseURL+"/s/"+sn.Slug, qrcode.Medium, qrSize)
	if err != nil {
		slog.Error("qr encode failed", "slug", sn.Slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(png)
}

// DeleteSnippet removes a snippet when the posted key matches.
func (p *Playground) DeleteSnippet(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")
	if !slug.Valid(slugParam) {
		p.renderer.NotFound(w, r, p.catalog.List())
		return
	}

	deleted, err := p.snippets.Delete(r.Context(), slugParam, strings.TrimSpace(r.PostFormValue("key")))
	switch {
	case errors.Is(err, store.ErrInvalidDeleteKey):
		p.renderer.PageStatus(w, r, http.StatusForbidden, "error", &render.PageData{
			Title:      "Not allowed",
			Categories: p.catalog.List(),
			Data: map[string]any{
				"Heading": "Wrong delete key",
				"Message": "The key does not match this snippet.",
			},
		})
		return
	case err != nil:
		slog.Error("delete snippet failed", "slug", slugParam, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	case !deleted:
		p.renderer.NotFound(w, r, p.catalog.List())
		return
	}

	slog.Info("snippet deleted", "slug", slugParam)
	if render.IsHTMX(r) {
		w.Header().Set("HX-Redirect", "/playground")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/playground", http.StatusSeeOther)
}

// findSnippet resolves {slug}, writing a 404 or 500 when it cannot.
func (p *Playground) findSnippet(w http.ResponseWriter, r *http.Request) (*models.Snippet, bool) {
	slugParam := chi.URLParam(r, "slug")
	if !slug.Valid(slugParam) {
		p.renderer.NotFound(w, r, p.catalog.List())
		return nil, false
	}

	sn, err := p.snippets.FindBySlug(r.Context(), slugParam)
	if err != nil {
		slog.Error("find snippet failed", "slug", slugParam, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if sn == nil {
		p.renderer.NotFound(w, r, p.catalog.List())
		return nil, false
	}
	return sn, true
}

func (p *Playground) snippetState(sn *models.Snippet, deleteKey string) editorState {
	state := editorState{
		HTML:       sn.HTML,
		CSS:        sn.CSS,
		CategoryID: sn.CategoryID,
		FunctionID: sn.FunctionID,
		Snippet:    sn,
		DeleteKey:  deleteKey,
	}
	if fn, ok := p.catalog.FindFunction(sn.CategoryID, sn.FunctionID); ok {
		c, _ := p.catalog.FindCategory(sn.CategoryID)
		state.Source = &source{Category: c, Function: fn}
	}
	return state
}
