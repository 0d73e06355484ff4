// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package live

import (
	"encoding/json"

	"tailwindplay/internal/preview"
)

// Client → server message types.
const (
	MsgInit    = "init"
	MsgEdit    = "edit"
	MsgAuto    = "auto"
	MsgRefresh = "refresh"
	MsgReset   = "reset"
	MsgDevice  = "device"
	MsgCopy    = "copy"
)

// Server → client message types.
const (
	MsgLoading   = "loading"
	MsgRender    = "render"
	MsgError     = "error"
	MsgClipboard = "clipboard"
	MsgState     = "state"
)

// ClientMessage is one frame sent by playground.js. Only the fields that
// belong to Type are read.
type ClientMessage struct {
	Type string `json:"type"`

	// init
	SeedHTML string          `json:"seed_html,omitempty"`
	SeedCSS  string          `json:"seed_css,omitempty"`
	Options  json.RawMessage `json:"options,omitempty"`

	// edit; a nil field leaves that buffer unchanged
	HTML *string `json:"html,omitempty"`
	CSS  *string `json:"css,omitempty"`

	// auto
	On *bool `json:"on,omitempty"`

	// device
	Device preview.Device `json:"device,omitempty"`
}

// ServerMessage is one frame pushed to the browser.
type ServerMessage struct {
	Type     string            `json:"type"`
	On       *bool             `json:"on,omitempty"`
	Document string            `json:"document,omitempty"`
	Message  string            `json:"message,omitempty"`
	Text     string            `json:"text,omitempty"`
	State    *preview.Snapshot `json:"state,omitempty"`

	// Buffers accompanies the state frame after a reset only; other state
	// frames leave the editor alone so in-flight typing is not overwritten.
	Buffers *preview.Buffers `json:"buffers,omitempty"`
}

func loadingMessage(on bool) ServerMessage {
	return ServerMessage{Type: MsgLoading, On: &on}
}

func errorMessage(msg string) ServerMessage {
	return ServerMessage{Type: MsgError, Message: msg}
}

func stateMessage(s preview.Snapshot) ServerMessage {
	return ServerMessage{Type: MsgState, State: &s}
}

func resetStateMessage(s preview.Snapshot) ServerMessage {
	msg := stateMessage(s)
	msg.Buffers = &s.Buffers
	return msg
}
