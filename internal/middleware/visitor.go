// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"tailwindplay/internal/session"
)

type visitorKey struct{}

// LoadVisitor makes sure every request carries a visitor session. Session
// storage failures are logged and the request continues anonymously.
func LoadVisitor(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Ensure(r.Context(), w, r)
			if err != nil {
				slog.Warn("visitor session unavailable", "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithVisitor(r.Context(), data)))
		})
	}
}

// WithVisitor returns a copy of ctx carrying the visitor.
func WithVisitor(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, visitorKey{}, data)
}

// VisitorFromCtx returns the visitor loaded by LoadVisitor, or nil.
func VisitorFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(visitorKey{}).(*session.Data)
	return data
}

// VisitorID returns the visitor id as a string, or "" when anonymous.
func VisitorID(ctx context.Context) string {
	if data := VisitorFromCtx(ctx); data != nil {
		return data.VisitorID.String()
	}
	return ""
}
