// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCounter reports open live preview sessions.
type SessionCounter interface {
	Active() int
}

// Health reports process and dependency status.
type Health struct {
	db     *sql.DB
	valkey *redis.Client
	live   SessionCounter
}

// NewHealth creates a Health handler. valkey and live may be nil.
func NewHealth(db *sql.DB, valkey *redis.Client, live SessionCounter) *Health {
	return &Health{db: db, valkey: valkey, live: live}
}

type healthResponse struct {
	Status       string `json:"status"`
	Database     string `json:"database"`
	Valkey       string `json:"valkey"`
	LiveSessions int    `json:"live_sessions"`
}

// ServeHTTP returns 200 when the database answers and 503 otherwise.
// Valkey is optional, so its state is reported without affecting status.
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok", Valkey: "disabled"}
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			resp.Status, resp.Database = "degraded", "unreachable"
			code = http.StatusServiceUnavailable
		}
	}
	if h.valkey != nil {
		resp.Valkey = "ok"
		if err := h.valkey.Ping(ctx).Err(); err != nil {
			resp.Valkey = "unreachable"
		}
	}
	if h.live != nil {
		resp.LiveSessions = h.live.Active()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}
