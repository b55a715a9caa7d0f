// Package web embeds the browser preview page served by the API at "/".
//
// The page posts a funding document to /api/v1/render and shows the
// returned SVG.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// StaticFS returns a filesystem rooted at the embedded static/ directory.
func StaticFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic("web.StaticFS: " + err.Error())
	}
	return sub
}
