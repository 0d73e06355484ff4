package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tailwindplay/internal/database"
	"tailwindplay/internal/models"
)

// backends runs fn against every available database.
func backends(t *testing.T, fn func(t *testing.T, s *SnippetStore)) {
	t.Run("sqlite", func(t *testing.T) {
		s := NewSnippetStore(testSQLite(t), database.DriverSQLite)
		s.cost = bcrypt.MinCost
		fn(t, s)
	})
	t.Run("postgres", func(t *testing.T) {
		db := testPostgres(t)
		t.Cleanup(func() { db.Exec("DELETE FROM snippets WHERE title LIKE 'test %'") })
		s := NewSnippetStore(db, database.DriverPostgres)
		s.cost = bcrypt.MinCost
		fn(t, s)
	})
}

func TestSnippetCreateAndFind(t *testing.T) {
	backends(t, func(t *testing.T, s *SnippetStore) {
		ctx := context.Background()
		in := &models.Snippet{
			Title:      "test Hero Card",
			HTML:       `<div class="p-4">Hi</div>`,
			CSS:        "body{color:red}",
			CategoryID: "layout",
			FunctionID: "container",
		}

		key, err := s.Create(ctx, in)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if key == "" || len(key) != deleteKeyBytes*2 {
			t.Errorf("delete key: %q", key)
		}
		if !strings.HasPrefix(in.Slug, "test-hero-card-") {
			t.Errorf("slug: %q", in.Slug)
		}
		if in.DeleteKeyHash == key {
			t.Error("delete key must be stored hashed")
		}

		got, err := s.FindBySlug(ctx, in.Slug)
		if err != nil {
			t.Fatalf("FindBySlug: %v", err)
		}
		if got == nil {
			t.Fatal("expected snippet")
		}
		if got.ID != in.ID || got.HTML != in.HTML || got.CSS != in.CSS {
			t.Errorf("got %+v, want %+v", got, in)
		}
		if got.CategoryID != "layout" || got.FunctionID != "container" {
			t.Errorf("catalog refs: %q/%q", got.CategoryID, got.FunctionID)
		}
		if !got.CreatedAt.Equal(in.CreatedAt) {
			t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, in.CreatedAt)
		}
	})
}

func TestSnippetFindMissing(t *testing.T) {
	backends(t, func(t *testing.T, s *SnippetStore) {
		got, err := s.FindBySlug(context.Background(), "no-such-snippet")
		if err != nil {
			t.Fatalf("FindBySlug: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})
}

func TestSnippetDelete(t *testing.T) {
	backends(t, func(t *testing.T, s *SnippetStore) {
		ctx := context.Background()
		in := &models.Snippet{Title: "test delete me", HTML: "<p>x</p>"}
		key, err := s.Create(ctx, in)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		ok, err := s.Delete(ctx, in.Slug, "wrong")
		if !errors.Is(err, ErrInvalidDeleteKey) || ok {
			t.Fatalf("wrong key: ok=%v err=%v", ok, err)
		}

		ok, err = s.Delete(ctx, in.Slug, key)
		if err != nil || !ok {
			t.Fatalf("Delete: ok=%v err=%v", ok, err)
		}

		if got, _ := s.FindBySlug(ctx, in.Slug); got != nil {
			t.Error("snippet still present after delete")
		}

		ok, err = s.Delete(ctx, in.Slug, key)
		if err != nil || ok {
			t.Errorf("second delete: ok=%v err=%v", ok, err)
		}
	})
}

func TestSnippetListRecent(t *testing.T) {
	db := testSQLite(t)
	s := NewSnippetStore(db, database.DriverSQLite)
	s.cost = bcrypt.MinCost

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	ctx := context.Background()
	var slugs []string
	for _, title := range []string{"first", "second", "third"} {
		sn := &models.Snippet{Title: title, HTML: "<p>" + title + "</p>"}
		if _, err := s.Create(ctx, sn); err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
		slugs = append(slugs, sn.Slug)
	}

	got, err := s.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len: got %d, want 2", len(got))
	}
	if got[0].Slug != slugs[2] || got[1].Slug != slugs[1] {
		t.Errorf("order: got %s, %s", got[0].Slug, got[1].Slug)
	}

	n, err := s.Count(ctx)
	if err != nil || n != 3 {
		t.Errorf("Count: %d, %v", n, err)
	}
}

func TestRebind(t *testing.T) {
	sqlite := &SnippetStore{driver: database.DriverSQLite}
	pg := &SnippetStore{driver: database.DriverPostgres}

	q := "SELECT * FROM t WHERE a = $1 AND b = $12 AND c = '$'"
	if got := sqlite.rebind(q); got != "SELECT * FROM t WHERE a = ?1 AND b = ?12 AND c = '$'" {
		t.Errorf("sqlite: %q", got)
	}
	if got := pg.rebind(q); got != q {
		t.Errorf("postgres should be unchanged: %q", got)
	}
}
