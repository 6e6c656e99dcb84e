// Package web embeds the HTML templates of the estimate form.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded templates
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}
