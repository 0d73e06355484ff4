// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// documentation site and playground.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tailwindplay/internal/handlers"
	"tailwindplay/internal/middleware"
	"tailwindplay/internal/session"
)

// Options carries the router's non-handler settings.
type Options struct {
	// Secure marks cookies Secure (production over HTTPS).
	Secure bool
	// Static is served under /static/. Nil disables static files.
	Static fs.FS
	// ShareLimiter throttles share and publish. Nil disables limiting.
	ShareLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, docs *handlers.Docs, playground *handlers.Playground, live http.Handler, health http.Handler, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check and assets: no session, no CSRF.
	r.Method(http.MethodGet, "/health", health)
	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", staticHandler(opts.Static)))
	}

	// The live socket checks its own origin; CSRF does not apply to upgrades.
	r.Method(http.MethodGet, "/playground/live", live)

	limit := func(h http.HandlerFunc) http.Handler {
		if opts.ShareLimiter == nil {
			return h
		}
		return opts.ShareLimiter.Middleware(h)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadVisitor(sessionStore))
		r.Use(middleware.NewCSRF(opts.Secure))

		// Catalog
		r.Get("/", docs.Home)
		r.Get("/search", docs.Search)
		r.Get("/recent", docs.Recent)
		r.Get("/c/{category}", docs.Category)
		r.Get("/c/{category}/{function}", docs.Function)

		// Playground
		r.Route("/playground", func(r chi.Router) {
			r.Get("/", playground.Page)
			r.With(middleware.PreviewSandbox).Post("/preview", playground.Preview)
			r.Post("/export", playground.Export)
			r.Post("/copy", playground.Copy)
			r.Method(http.MethodPost, "/share", limit(playground.Share))
			r.Method(http.MethodPost, "/publish", limit(playground.Publish))
		})

		// Shared snippets
		r.Route("/s/{slug}", func(r chi.Router) {
			r.Get("/", playground.Snippet)
			r.Get("/qr.png", playground.SnippetQR)
			r.Post("/delete", playground.DeleteSnippet)
		})

		r.NotFound(docs.NotFound)
	})

	return r
}

// staticHandler serves embedded assets with a short cache lifetime.
func staticHandler(files fs.FS) http.Handler {
	fileServer := http.FileServerFS(files)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	})
}
