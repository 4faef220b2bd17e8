package frontend

import (
	"embed"
	"html/template"

	"github.com/hwalton/wildtubs-configurator/internal/service"
)

//go:embed templates/*.html templates/partials/*.html
var TemplatesFS embed.FS

// BuildTemplates parses partials and pages. Call once at startup.
func BuildTemplates() (*template.Template, error) {
	t := template.New("app").Funcs(template.FuncMap{
		"eur":   service.FormatEUR,
		"hours": service.FormatHours,
		"qty":   service.FormatQty,
	})
	// partials first so pages can use them
	if _, err := t.ParseFS(TemplatesFS, "templates/partials/*.html"); err != nil {
		return nil, err
	}
	if _, err := t.ParseFS(TemplatesFS, "templates/*.html"); err != nil {
		return nil, err
	}
	return t, nil
}
