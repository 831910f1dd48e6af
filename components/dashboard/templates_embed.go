package dashboard

import (
	"embed"
	"io/fs"
	"os"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html templates/sections/*.html
var embeddedTemplates embed.FS

// NewTemplateRenderer creates a go-template renderer for the page and section
// templates. When root is set, templates are read from root/templates on disk
// instead of the embedded copy.
func NewTemplateRenderer(root string) (Renderer, error) {
	var fsys fs.FS = embeddedTemplates
	if root != "" {
		fsys = os.DirFS(root)
	}
	return template.NewRenderer(
		template.WithFS(fsys),
		template.WithBaseDir("templates"),
		template.WithExtension(".html"),
	)
}
