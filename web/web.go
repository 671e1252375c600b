// Package web holds the page template and static assets served by the gateway.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// Templates is rooted at web/templates.
func Templates() fs.FS {
	sub, _ := fs.Sub(files, "templates")
	return sub
}

// Static is rooted at web/static.
func Static() fs.FS {
	sub, _ := fs.Sub(files, "static")
	return sub
}
