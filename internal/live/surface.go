// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package live

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tailwindplay/internal/preview"
)

const writeWait = 10 * time.Second

// conn serializes writes to a WebSocket; gorilla allows one concurrent
// writer, and the pipeline's loading timer writes from its own goroutine.
type conn struct {
	ws     *websocket.Conn
	mu     sync.Mutex
	closed bool
}

func (c *conn) send(msg ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return preview.ErrSurfaceDetached
	}
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(msg); err != nil {
		c.closed = true
		return fmt.Errorf("write %s: %w", msg.Type, err)
	}
	return nil
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return preview.ErrSurfaceDetached
	}
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

// surface is the preview frame in the browser, reached over the socket.
type surface struct {
	c *conn
}

var (
	_ preview.Surface       = surface{}
	_ preview.ErrorReporter = surface{}
)

// Replace pushes the whole document; the browser swaps it into the
// sandboxed frame's srcdoc, discarding the old one.
func (s surface) Replace(doc string) error {
	if err := s.c.send(ServerMessage{Type: MsgRender, Document: doc}); err != nil {
		return fmt.Errorf("%w: %v", preview.ErrSurfaceDetached, err)
	}
	return nil
}

func (s surface) SetLoading(on bool) {
	_ = s.c.send(loadingMessage(on))
}

// ReportError shows a failed debounced render as an inline error.
func (s surface) ReportError(msg string) {
	_ = s.c.send(errorMessage(msg))
}
