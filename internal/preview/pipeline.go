// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package preview

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tailwindplay/internal/clock"
)

// State is the refresh state of a Pipeline.
type State int

const (
	// StateIdle means no render is scheduled.
	StateIdle State = iota
	// StatePending means an auto-refresh render is waiting for its deadline.
	StatePending
	// StateRendering means a document is being written to the surface.
	StateRendering
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateRendering:
		return "rendering"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Buffers holds the two editable sources.
type Buffers struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

// Snapshot is a read-only view of a pipeline's session state.
type Snapshot struct {
	Buffers     Buffers   `json:"-"`
	AutoRefresh bool      `json:"auto_refresh"`
	Device      Device    `json:"device"`
	State       string    `json:"state"`
	Deadline    time.Time `json:"deadline,omitzero"`
	Rendered    string    `json:"-"`
	Renders     int       `json:"renders"`
	LastError   string    `json:"last_error,omitempty"`
	LastReset   time.Time `json:"last_reset,omitzero"`
	LastCopied  time.Time `json:"last_copied,omitzero"`
}

// Pipeline owns one editor session: the seed and current buffers, the
// refresh policy and the surface the combined document is written to.
//
// With auto-refresh on, every edit (re)starts a debounce timer; only the
// edit that survives a full quiet window is rendered. With auto-refresh
// off, edits accumulate until Refresh is called. Reset always restores the
// seed and renders immediately.
type Pipeline struct {
	mu      sync.Mutex
	clock   clock.Clock
	surface Surface
	opts    Options

	seed   Buffers
	buf    Buffers
	auto   bool
	device Device

	state    State
	deadline time.Time
	gen      uint64
	timer    clock.Timer
	loading  clock.Timer

	rendered   string
	renders    int
	lastErr    string
	lastReset  time.Time
	lastCopied time.Time
}

// NewPipeline creates an idle pipeline seeded with seed. Nothing is
// rendered until the first Refresh, Reset or debounced edit.
func NewPipeline(seed Buffers, surface Surface, clk clock.Clock, opts Options) *Pipeline {
	if clk == nil {
		clk = clock.Real()
	}
	if opts.DebounceWindow < 0 {
		opts.DebounceWindow = 0
	}
	if opts.DebounceWindow > MaxDebounce {
		opts.DebounceWindow = MaxDebounce
	}
	if !opts.Device.Valid() {
		opts.Device = DeviceDesktop
	}
	return &Pipeline{
		clock:   clk,
		surface: surface,
		opts:    opts,
		seed:    seed,
		buf:     seed,
		auto:    opts.AutoRefresh,
		device:  opts.Device,
	}
}

// Edit replaces both buffers.
func (p *Pipeline) Edit(b Buffers) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buf = b
	p.editedLocked()
}

// SetHTML replaces the HTML buffer.
func (p *Pipeline) SetHTML(html string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buf.HTML = html
	p.editedLocked()
}

// SetCSS replaces the CSS buffer.
func (p *Pipeline) SetCSS(css string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buf.CSS = css
	p.editedLocked()
}

// SetAutoRefresh switches the refresh policy. Turning it off cancels any
// pending render; turning it on schedules one for the current buffers.
func (p *Pipeline) SetAutoRefresh(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.auto == on {
		return
	}
	p.auto = on
	if on {
		p.scheduleLocked()
	} else {
		p.cancelLocked()
	}
}

// SetDevice changes the viewport preset. Unknown presets are ignored.
func (p *Pipeline) SetDevice(d Device) bool {
	if !d.Valid() {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.device = d
	return true
}

// Refresh cancels any pending render and renders the current buffers now.
func (p *Pipeline) Refresh() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	return p.renderLocked()
}

// Reset restores the seed buffers and renders them immediately, whatever
// the refresh mode.
func (p *Pipeline) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buf = p.seed
	p.lastReset = p.clock.Now()
	p.cancelLocked()
	return p.renderLocked()
}

// Export returns the standalone document for the current buffers.
func (p *Pipeline) Export() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Standalone(p.buf.HTML, p.buf.CSS, p.opts.ScriptURL)
}

// Copy returns the clipboard payload for the current buffers and records
// the copy time.
func (p *Pipeline) Copy() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastCopied = p.clock.Now()
	return Standalone(p.buf.HTML, p.buf.CSS, p.opts.ScriptURL)
}

// Close stops all timers. The pipeline must not be used afterwards.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	if p.loading != nil {
		p.loading.Stop()
		p.loading = nil
	}
}

// Snapshot returns the current session state.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Snapshot{
		Buffers:     p.buf,
		AutoRefresh: p.auto,
		Device:      p.device,
		State:       p.state.String(),
		Rendered:    p.rendered,
		Renders:     p.renders,
		LastError:   p.lastErr,
		LastReset:   p.lastReset,
		LastCopied:  p.lastCopied,
	}
	if p.state == StatePending {
		s.Deadline = p.deadline
	}
	return s
}

// State returns the current refresh state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) editedLocked() {
	if p.auto {
		p.scheduleLocked()
	}
}

// scheduleLocked supersedes any pending render with a new one due a full
// debounce window from now.
func (p *Pipeline) scheduleLocked() {
	if p.timer != nil {
		p.timer.Stop()
	}
	p.gen++
	gen := p.gen
	p.state = StatePending
	p.deadline = p.clock.Now().Add(p.opts.DebounceWindow)
	p.timer = p.clock.AfterFunc(p.opts.DebounceWindow, func() { p.fire(gen) })
}

func (p *Pipeline) cancelLocked() {
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.state == StatePending {
		p.state = StateIdle
	}
	p.deadline = time.Time{}
}

// fire runs a debounced render unless it has been superseded.
func (p *Pipeline) fire(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.state != StatePending {
		return
	}
	p.timer = nil
	if err := p.renderLocked(); err != nil {
		slog.Debug("debounced preview render failed", "error", err)
		if r, ok := p.surface.(ErrorReporter); ok {
			r.ReportError(p.lastErr)
		}
	}
}

// renderLocked combines the buffers and replaces the surface contents. On
// failure the previous document stays in place and the error is kept for
// display.
func (p *Pipeline) renderLocked() error {
	p.state = StateRendering
	defer func() { p.state = StateIdle }()

	doc := Combine(p.buf.HTML, p.buf.CSS)

	if p.surface == nil {
		p.lastErr = "Preview error: " + ErrSurfaceDetached.Error()
		return ErrSurfaceDetached
	}

	p.surface.SetLoading(true)
	if err := p.surface.Replace(doc); err != nil {
		p.surface.SetLoading(false)
		p.lastErr = "Preview error: " + err.Error()
		return fmt.Errorf("replace preview: %w", err)
	}

	p.rendered = doc
	p.renders++
	p.lastErr = ""

	if p.loading != nil {
		p.loading.Stop()
	}
	surface := p.surface
	p.loading = p.clock.AfterFunc(p.opts.LoadingDelay, func() { surface.SetLoading(false) })
	return nil
}
