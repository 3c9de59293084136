// Package web carries the server-rendered pages.
package web

import (
	"embed"
	"html/template"
)

//go:embed *.tmpl
var FS embed.FS

// Templates parses every page and the shared partials.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(FS, "*.tmpl")
}
