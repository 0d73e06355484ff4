// handler_test.go provides shared test infrastructure for handler tests.
// Everything runs on in-memory SQLite and the in-memory recent store, so
// no external services are needed.
package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tailwindplay/internal/catalog"
	"tailwindplay/internal/database"
	"tailwindplay/internal/middleware"
	"tailwindplay/internal/preview"
	"tailwindplay/internal/recent"
	"tailwindplay/internal/render"
	"tailwindplay/internal/session"
	"tailwindplay/internal/store"
)

// fakePublisher records published documents.
type fakePublisher struct {
	mu   sync.Mutex
	docs []string
	err  error
}

func (f *fakePublisher) PublishExport(_ context.Context, doc string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.docs = append(f.docs, doc)
	return "https://cdn.example.test/exports/1.html", nil
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	DB         *sql.DB
	Catalog    *catalog.Catalog
	Recent     *recent.Store
	Snippets   *store.SnippetStore
	Publisher  *fakePublisher
	Docs       *Docs
	Playground *Playground
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Connect(context.Background(), database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db, database.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	renderer, err := render.New(true, "")
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	recentStore := recent.NewStore(recent.NewMemoryKV(), recent.DefaultLimit)
	snippets := store.NewSnippetStore(db, database.DriverSQLite)
	pub := &fakePublisher{}

	return &testEnv{
		DB:         db,
		Catalog:    cat,
		Recent:     recentStore,
		Snippets:   snippets,
		Publisher:  pub,
		Docs:       NewDocs(renderer, cat, recentStore, snippets, nil),
		Playground: NewPlayground(renderer, cat, snippets, pub, preview.DefaultOptions(), "http://example.test/"),
	}
}

// withParams attaches chi URL parameters to req, as the router would.
func withParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// withVisitor attaches a visitor session to req.
func withVisitor(req *http.Request, id uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithVisitor(req.Context(), &session.Data{VisitorID: id}))
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

var errPublish = errors.New("bucket on fire")
