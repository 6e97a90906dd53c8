// Package web holds the browser page and its assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var files embed.FS

// IndexHTML returns the page served at "/".
func IndexHTML() []byte {
	b, err := files.ReadFile("static/index.html")
	if err != nil {
		panic("web: index.html missing from embedded assets: " + err.Error())
	}
	return b
}

// Assets is the filesystem mounted under /static.
func Assets() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic("web: " + err.Error())
	}
	return sub
}
