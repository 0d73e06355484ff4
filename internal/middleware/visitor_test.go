package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tailwindplay/internal/session"
)

func TestLoadVisitor(t *testing.T) {
	store := session.NewStore(nil, false)

	var got string
	handler := LoadVisitor(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = VisitorID(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if got == "" {
		t.Fatal("expected a visitor id in context")
	}

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected visitor cookie")
	}

	first := got
	req := httptest.NewRequest(http.MethodGet, "/c/layout", nil)
	req.AddCookie(cookie)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if got != first {
		t.Errorf("visitor changed between requests: %q -> %q", first, got)
	}
}

func TestVisitorFromEmptyContext(t *testing.T) {
	if VisitorFromCtx(context.Background()) != nil {
		t.Error("expected nil visitor")
	}
	if VisitorID(context.Background()) != "" {
		t.Error("expected empty visitor id")
	}
}
