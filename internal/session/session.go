// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session tracks anonymous visitors. Each browser gets a cookie;
// with Valkey configured the cookie holds a random session id and the
// visitor record lives in Valkey with a sliding TTL, otherwise the cookie
// carries the visitor id itself.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the visitor cookie sent to the browser.
	CookieName = "tp_session"

	// DefaultTTL is how long an idle visitor is remembered.
	DefaultTTL = 30 * 24 * time.Hour

	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Data is the visitor record.
type Data struct {
	VisitorID uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

// Store manages visitor sessions.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store. A nil client selects cookie-only mode.
// When secure is true, cookies get the Secure flag.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// Ensure returns the visitor for r, creating one (and setting the cookie)
// when the request has none or its session has expired.
func (s *Store) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Data, error) {
	data, err := s.Get(ctx, r)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return s.Create(ctx, w)
	}
	if s.client != nil && time.Since(data.LastSeen) > time.Hour {
		data.LastSeen = time.Now().UTC()
		if err := s.Update(ctx, r, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// Create starts a new visitor session and sets the cookie.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter) (*Data, error) {
	now := time.Now().UTC()
	data := &Data{VisitorID: uuid.New(), CreatedAt: now, LastSeen: now}

	value := data.VisitorID.String()
	if s.client != nil {
		id, err := generateID()
		if err != nil {
			return nil, fmt.Errorf("session create: %w", err)
		}
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("session marshal: %w", err)
		}
		if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
			return nil, fmt.Errorf("session store: %w", err)
		}
		value = id
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return data, nil
}

// Get returns the visitor for the request cookie, or nil if there is none.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	if s.client == nil {
		id, err := uuid.Parse(cookie.Value)
		if err != nil {
			return nil, nil // Foreign cookie value; start over.
		}
		return &Data{VisitorID: id}, nil
	}

	payload, err := s.client.Get(ctx, keyPrefix+cookie.Value).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &data, nil
}

// Update rewrites the visitor record and resets its TTL. It is a no-op in
// cookie-only mode.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	if s.client == nil {
		return nil
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return errors.New("session update: no cookie")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+cookie.Value, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session update: %w", err)
	}
	return nil
}

// Destroy forgets the visitor and expires the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	if s.client != nil {
		if err := s.client.Del(ctx, keyPrefix+cookie.Value).Err(); err != nil {
			return fmt.Errorf("session destroy: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})
	return nil
}

func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
