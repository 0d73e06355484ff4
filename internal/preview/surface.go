// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package preview

import "errors"

// ErrSurfaceDetached is returned by a Surface that has nothing attached to
// write into (e.g. the preview frame is not mounted yet).
var ErrSurfaceDetached = errors.New("preview surface is not attached")

// Surface is an isolated rendering target. Replace discards whatever the
// surface showed before and loads doc in its place. Replace is called with
// the pipeline lock held and must not call back into the pipeline.
// SetLoading(false) may arrive from a timer goroutine.
type Surface interface {
	Replace(doc string) error
	SetLoading(loading bool)
}

// ErrorReporter is an optional Surface extension. Debounced renders have no
// caller to return a failure to, so the pipeline hands the inline error
// message to the surface instead.
type ErrorReporter interface {
	ReportError(msg string)
}
