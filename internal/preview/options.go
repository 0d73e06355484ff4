// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package preview

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Device is the viewport preset the preview frame is sized to.
type Device string

const (
	DeviceMobile  Device = "mobile"
	DeviceTablet  Device = "tablet"
	DeviceDesktop Device = "desktop"
)

// Width returns the frame width in CSS pixels, or 0 for full width.
func (d Device) Width() int {
	switch d {
	case DeviceMobile:
		return 375
	case DeviceTablet:
		return 768
	default:
		return 0
	}
}

// Valid reports whether d is one of the known presets.
func (d Device) Valid() bool {
	return d == DeviceMobile || d == DeviceTablet || d == DeviceDesktop
}

// Defaults for Options.
const (
	DefaultDebounce     = 300 * time.Millisecond
	DefaultLoadingDelay = 150 * time.Millisecond
	MaxDebounce         = 5 * time.Second
)

// ErrUnknownOption is returned by ParseOptions when the payload carries a
// field that is not part of Options.
var ErrUnknownOption = errors.New("unknown preview option")

// Options configures a Pipeline.
type Options struct {
	// DebounceWindow is the quiet period after the last edit before an
	// auto-refresh render runs.
	DebounceWindow time.Duration
	// LoadingDelay is how long the loading indicator stays up after a render.
	LoadingDelay time.Duration
	// AutoRefresh starts the pipeline in auto-refresh mode.
	AutoRefresh bool
	// Device is the initial viewport preset.
	Device Device
	// ScriptURL is the Tailwind build referenced by exports. Server-side only.
	ScriptURL string
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		DebounceWindow: DefaultDebounce,
		LoadingDelay:   DefaultLoadingDelay,
		AutoRefresh:    true,
		Device:         DeviceDesktop,
		ScriptURL:      DefaultScriptURL,
	}
}

// wireOptions is the client-facing JSON shape. Every field is optional;
// absent fields keep their defaults.
type wireOptions struct {
	DebounceMS  *int    `json:"debounce_ms" validate:"omitempty,min=0,max=5000"`
	LoadingMS   *int    `json:"loading_ms" validate:"omitempty,min=0,max=5000"`
	AutoRefresh *bool   `json:"auto_refresh"`
	Device      *string `json:"device" validate:"omitempty,oneof=mobile tablet desktop"`
}

var optionsValidator = validator.New()

// ParseOptions decodes a client option bag on top of base. Unrecognized
// fields are rejected with ErrUnknownOption; out-of-range values fail
// validation. An empty payload returns base unchanged.
func ParseOptions(data []byte, base Options) (Options, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return base, nil
	}

	var w wireOptions
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			return base, fmt.Errorf("%w: %s", ErrUnknownOption, strings.TrimPrefix(err.Error(), "json: unknown field "))
		}
		return base, fmt.Errorf("decode preview options: %w", err)
	}
	if err := optionsValidator.Struct(w); err != nil {
		return base, fmt.Errorf("validate preview options: %w", err)
	}

	opts := base
	if w.DebounceMS != nil {
		opts.DebounceWindow = time.Duration(*w.DebounceMS) * time.Millisecond
	}
	if w.LoadingMS != nil {
		opts.LoadingDelay = time.Duration(*w.LoadingMS) * time.Millisecond
	}
	if w.AutoRefresh != nil {
		opts.AutoRefresh = *w.AutoRefresh
	}
	if w.Device != nil {
		opts.Device = Device(*w.Device)
	}
	return opts, nil
}
