// Package web provides embedded static assets (CSS, JS) for the site and
// the playground, served at /static/.
package web

import (
	"embed"
	"io/fs"
)

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS

// Static returns the asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		// Only possible if the embed directive above is wrong.
		panic(err)
	}
	return sub
}
