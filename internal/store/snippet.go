// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tailwindplay/internal/database"
	"tailwindplay/internal/models"
	"tailwindplay/internal/slug"
)

// ErrInvalidDeleteKey is returned by Delete when the key does not match.
var ErrInvalidDeleteKey = errors.New("store: invalid delete key")

const (
	deleteKeyBytes = 16
	slugAttempts   = 5
)

const snippetColumns = `id, slug, title, html, css, category_id, function_id, delete_key_hash, created_at`

// SnippetStore persists shared playground snippets.
type SnippetStore struct {
	db     *sql.DB
	driver string
	cost   int
	now    func() time.Time
}

// NewSnippetStore returns a SnippetStore for a database opened with driver.
func NewSnippetStore(db *sql.DB, driver string) *SnippetStore {
	return &SnippetStore{
		db:     db,
		driver: driver,
		cost:   bcrypt.DefaultCost,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func scanSnippet(scanner interface{ Scan(...any) error }) (*models.Snippet, error) {
	var s models.Snippet
	err := scanner.Scan(
		&s.ID, &s.Slug, &s.Title, &s.HTML, &s.CSS,
		&s.CategoryID, &s.FunctionID, &s.DeleteKeyHash, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}

// Create stores sn under a fresh id and slug and returns the plain-text
// delete key. Only its bcrypt hash is kept.
func (s *SnippetStore) Create(ctx context.Context, sn *models.Snippet) (string, error) {
	key, err := newDeleteKey()
	if err != nil {
		return "", fmt.Errorf("create snippet: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash delete key: %w", err)
	}

	sn.ID = uuid.New()
	sn.DeleteKeyHash = string(hash)
	sn.CreatedAt = s.now().Truncate(time.Microsecond)

	for attempt := 0; ; attempt++ {
		sn.Slug = slug.Unique(sn.Title)
		existing, err := s.FindBySlug(ctx, sn.Slug)
		if err != nil {
			return "", err
		}
		if existing == nil {
			break
		}
		if attempt == slugAttempts {
			return "", fmt.Errorf("create snippet: no free slug for %q", sn.Title)
		}
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO snippets (`+snippetColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`), sn.ID, sn.Slug, sn.Title, sn.HTML, sn.CSS,
		sn.CategoryID, sn.FunctionID, sn.DeleteKeyHash, sn.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert snippet: %w", err)
	}
	return key, nil
}

// FindBySlug returns the snippet with the given slug, or nil if none exists.
func (s *SnippetStore) FindBySlug(ctx context.Context, sl string) (*models.Snippet, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT `+snippetColumns+` FROM snippets WHERE slug = $1
	`), sl)
	sn, err := scanSnippet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find snippet by slug: %w", err)
	}
	return sn, nil
}

// Delete removes the snippet if key matches its delete key. It reports
// false when no such snippet exists.
func (s *SnippetStore) Delete(ctx context.Context, sl, key string) (bool, error) {
	sn, err := s.FindBySlug(ctx, sl)
	if err != nil || sn == nil {
		return false, err
	}
	if bcrypt.CompareHashAndPassword([]byte(sn.DeleteKeyHash), []byte(key)) != nil {
		return false, ErrInvalidDeleteKey
	}
	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM snippets WHERE id = $1`), sn.ID); err != nil {
		return false, fmt.Errorf("delete snippet: %w", err)
	}
	return true, nil
}

// ListRecent returns the newest snippets first.
func (s *SnippetStore) ListRecent(ctx context.Context, limit int) ([]models.Snippet, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT `+snippetColumns+` FROM snippets
		ORDER BY created_at DESC, slug
		LIMIT $1
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("list snippets: %w", err)
	}
	defer rows.Close()

	var items []models.Snippet
	for rows.Next() {
		sn, err := scanSnippet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snippet: %w", err)
		}
		items = append(items, *sn)
	}
	return items, rows.Err()
}

// Count returns the number of stored snippets.
func (s *SnippetStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snippets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snippets: %w", err)
	}
	return n, nil
}

// rebind rewrites $N placeholders to SQLite's ?N form.
func (s *SnippetStore) rebind(query string) string {
	if s.driver != database.DriverSQLite {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		c := query[i]
		if c == '$' && i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
			j := i + 1
			for j < len(query) && query[j] >= '0' && query[j] <= '9' {
				j++
			}
			n, _ := strconv.Atoi(query[i+1 : j])
			b.WriteString("?" + strconv.Itoa(n))
			i = j - 1
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func newDeleteKey() (string, error) {
	b := make([]byte, deleteKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
