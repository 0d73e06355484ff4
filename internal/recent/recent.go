// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package recent remembers the last few catalog categories a visitor has
// opened. The list lives in an injected key/value store; any storage
// failure degrades to "nothing remembered" and is only logged.
package recent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultLimit is how many category ids are kept per visitor.
const DefaultLimit = 5

// keyPrefix namespaces the per-visitor list in the store.
const keyPrefix = "recent:"

// ErrStorageUnavailable is returned by KV implementations when the backing
// store cannot be reached. Store never lets it escape.
var ErrStorageUnavailable = errors.New("recent: storage unavailable")

// KV is the minimal key/value store the recent list needs.
// Get reports ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, key string) error
}

// Updater is implemented by stores that can read-modify-write one key
// atomically. fn receives the current value (ok=false when missing) and
// returns the value to store. Store.Visit uses it when available so two
// concurrent visits by the same owner do not drop one another.
type Updater interface {
	Update(ctx context.Context, key string, fn func(value string, ok bool) (string, error)) error
}

// Store reads and updates recent-category lists.
type Store struct {
	kv    KV
	limit int
}

// NewStore creates a Store over kv. A limit <= 0 uses DefaultLimit.
func NewStore(kv KV, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{kv: kv, limit: limit}
}

// Key returns the store key holding owner's list.
func Key(owner string) string {
	return keyPrefix + owner
}

// List returns owner's recent category ids, most recent first. Missing,
// corrupted or unreadable values yield an empty list.
func (s *Store) List(ctx context.Context, owner string) []string {
	ids, err := s.load(ctx, owner)
	if err != nil {
		slog.Warn("recent categories unavailable", "owner", owner, "error", err)
		return []string{}
	}
	return ids
}

// Visit moves categoryID to the front of owner's list, dropping any earlier
// occurrence and trimming to the limit. It returns the updated list; when
// the store cannot be written the list is still returned but not kept.
func (s *Store) Visit(ctx context.Context, owner, categoryID string) []string {
	if categoryID == "" {
		return s.List(ctx, owner)
	}

	if u, ok := s.kv.(Updater); ok {
		var next []string
		err := u.Update(ctx, Key(owner), func(raw string, present bool) (string, error) {
			ids, err := s.decode(raw, present)
			if err != nil {
				slog.Warn("recent categories unreadable, starting over", "owner", owner, "error", err)
			}
			next = s.prepend(ids, categoryID)
			b, err := json.Marshal(next)
			return string(b), err
		})
		if err != nil {
			slog.Warn("recent categories not saved", "owner", owner, "error", err)
			if next == nil {
				next = []string{categoryID}
			}
		}
		return next
	}

	ids, err := s.load(ctx, owner)
	if err != nil {
		slog.Warn("recent categories unreadable, starting over", "owner", owner, "error", err)
		ids = nil
	}

	next := s.prepend(ids, categoryID)
	raw, err := json.Marshal(next)
	if err != nil {
		slog.Warn("encode recent categories", "owner", owner, "error", err)
		return next
	}
	if err := s.kv.Set(ctx, Key(owner), string(raw)); err != nil {
		slog.Warn("recent categories not saved", "owner", owner, "error", err)
	}
	return next
}

// Clear forgets owner's list.
func (s *Store) Clear(ctx context.Context, owner string) {
	if err := s.kv.Clear(ctx, Key(owner)); err != nil {
		slog.Warn("recent categories not cleared", "owner", owner, "error", err)
	}
}

func (s *Store) load(ctx context.Context, owner string) ([]string, error) {
	raw, ok, err := s.kv.Get(ctx, Key(owner))
	if err != nil {
		return nil, err
	}
	return s.decode(raw, ok)
}

// prepend puts categoryID in front of ids, dropping its earlier occurrence
// and trimming to the limit.
func (s *Store) prepend(ids []string, categoryID string) []string {
	next := make([]string, 0, s.limit)
	next = append(next, categoryID)
	for _, id := range ids {
		if len(next) == s.limit {
			break
		}
		if id != categoryID {
			next = append(next, id)
		}
	}
	return next
}

func (s *Store) decode(raw string, ok bool) ([]string, error) {
	if !ok || raw == "" {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode recent categories: %w", err)
	}

	// Values written by older or foreign clients may break the invariants.
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, min(len(ids), s.limit))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		if len(out) == s.limit {
			break
		}
	}
	return out, nil
}
