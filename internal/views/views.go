package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/folioworks/portfolio/internal/session"
	"github.com/folioworks/portfolio/types"
)

//go:embed templates/*.html
var templateFiles embed.FS

const layoutFile = "templates/layout.html"

// Viewer is what the navigation needs to know about the logged-in user.
type Viewer struct {
	Username string
	Initial  string
	IsAdmin  bool
}

// Page is the model handed to every template.
type Page struct {
	Title   string
	Viewer  *Viewer
	Flashes []session.Flash
	Data    any
}

// Templates renders the embedded pages, each wrapped in the shared layout.
type Templates struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"ist": types.FormatIST,
	"stars": func(rating int) string {
		if rating < 0 {
			rating = 0
		}
		if rating > 5 {
			rating = 5
		}
		return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
	},
}

// New parses every page under templates/.
func New() (*Templates, error) {
	entries, err := fs.Glob(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	t := &Templates{pages: map[string]*template.Template{}}
	for _, path := range entries {
		if path == layoutFile {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFiles, layoutFile, path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		t.pages[name] = tmpl
	}
	return t, nil
}

// Render executes the named page into w.
func (t *Templates) Render(w io.Writer, name string, page Page) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if err := tmpl.ExecuteTemplate(w, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}
