// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package live serves the playground's WebSocket endpoint. Each connection
// owns one preview pipeline; the browser sends editor events and receives
// rendered documents for its sandboxed frame.
package live

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"tailwindplay/internal/clock"
	"tailwindplay/internal/preview"
)

const (
	// MaxMessageSize bounds a single client frame (HTML and CSS included).
	MaxMessageSize = 512 << 10

	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Handler upgrades requests and runs one preview session per connection.
type Handler struct {
	upgrader websocket.Upgrader
	opts     preview.Options
	clock    clock.Clock

	mu    sync.Mutex
	conns map[*conn]struct{}
	total atomic.Int64
}

// NewHandler creates a Handler whose sessions start from opts. A nil clk
// uses wall time. allowedOrigins lists extra origins permitted to connect;
// same-host requests are always allowed.
func NewHandler(opts preview.Options, clk clock.Clock, allowedOrigins ...string) *Handler {
	if clk == nil {
		clk = clock.Real()
	}
	h := &Handler{
		opts:  opts,
		clock: clk,
		conns: make(map[*conn]struct{}),
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowed[origin] {
				return true
			}
			return origin == "http://"+r.Host || origin == "https://"+r.Host
		},
	}
	return h
}

// Active returns the number of open sessions.
func (h *Handler) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Total returns the number of sessions served since start.
func (h *Handler) Total() int64 {
	return h.total.Load()
}

// CloseAll closes every open session. Used during shutdown, since
// http.Server.Shutdown does not track hijacked connections.
func (h *Handler) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		c.close()
	}
}

func (h *Handler) register(c *conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	h.total.Add(1)
	slog.Debug("live session opened", "active", n)
}

func (h *Handler) unregister(c *conn) {
	h.mu.Lock()
	delete(h.conns, c)
	n := len(h.conns)
	h.mu.Unlock()
	slog.Debug("live session closed", "active", n)
}

// ServeHTTP upgrades the connection and runs the session until the client
// goes away.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		slog.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer ws.Close()

	c := &conn{ws: ws}
	h.register(c)
	defer h.unregister(c)

	ws.SetReadLimit(MaxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go keepalive(c, done)

	s := &session{conn: c, handler: h}
	defer s.close()

	for {
		var msg ClientMessage
		if err := ws.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			// ReadJSON reports a truncated frame as io.ErrUnexpectedEOF.
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
				c.send(errorMessage("malformed message"))
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("live session read error", "error", err)
			}
			return
		}
		if err := s.handle(msg); err != nil {
			slog.Debug("live session ended", "error", err)
			return
		}
	}
}

func keepalive(c *conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// session holds the per-connection pipeline, created by the init message.
type session struct {
	conn     *conn
	handler  *Handler
	pipeline *preview.Pipeline
}

func (s *session) close() {
	if s.pipeline != nil {
		s.pipeline.Close()
	}
}

// handle applies one client message. A non-nil error ends the session.
func (s *session) handle(msg ClientMessage) error {
	if msg.Type == MsgInit {
		return s.init(msg)
	}
	if s.pipeline == nil {
		return s.conn.send(errorMessage("session not initialised"))
	}

	p := s.pipeline
	switch msg.Type {
	case MsgEdit:
		switch {
		case msg.HTML != nil && msg.CSS != nil:
			p.Edit(preview.Buffers{HTML: *msg.HTML, CSS: *msg.CSS})
		case msg.HTML != nil:
			p.SetHTML(*msg.HTML)
		case msg.CSS != nil:
			p.SetCSS(*msg.CSS)
		}
		return nil

	case MsgAuto:
		if msg.On == nil {
			return s.conn.send(errorMessage("auto: missing \"on\""))
		}
		p.SetAutoRefresh(*msg.On)

	case MsgRefresh:
		if err := p.Refresh(); err != nil {
			return s.renderFailed(err)
		}

	case MsgReset:
		if err := p.Reset(); err != nil {
			return s.renderFailed(err)
		}
		return s.conn.send(resetStateMessage(p.Snapshot()))

	case MsgDevice:
		if !p.SetDevice(msg.Device) {
			return s.conn.send(errorMessage(fmt.Sprintf("unknown device %q", msg.Device)))
		}

	case MsgCopy:
		if err := s.conn.send(ServerMessage{Type: MsgClipboard, Text: p.Copy()}); err != nil {
			return err
		}

	default:
		return s.conn.send(errorMessage(fmt.Sprintf("unknown message type %q", msg.Type)))
	}

	return s.conn.send(stateMessage(p.Snapshot()))
}

func (s *session) init(msg ClientMessage) error {
	if s.pipeline != nil {
		return s.conn.send(errorMessage("session already initialised"))
	}

	opts := s.handler.opts
	if len(msg.Options) > 0 {
		parsed, err := preview.ParseOptions(msg.Options, opts)
		if err != nil {
			return s.conn.send(errorMessage(err.Error()))
		}
		opts = parsed
	}

	seed := preview.Buffers{HTML: msg.SeedHTML, CSS: msg.SeedCSS}
	s.pipeline = preview.NewPipeline(seed, surface{c: s.conn}, s.handler.clock, opts)

	if err := s.pipeline.Refresh(); err != nil {
		return s.renderFailed(err)
	}
	return s.conn.send(stateMessage(s.pipeline.Snapshot()))
}

// renderFailed reports a failed render inline. A detached surface means
// the socket is gone, so the session ends.
func (s *session) renderFailed(err error) error {
	if errors.Is(err, preview.ErrSurfaceDetached) {
		return err
	}
	return s.conn.send(errorMessage(s.pipeline.Snapshot().LastError))
}
