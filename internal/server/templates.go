package server

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"
)

// templateSet holds one parsed template per page, each paired with the
// shared layout.
type templateSet struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	// optInt renders an optional integer field, "-" when absent.
	"optInt": func(v *int) string {
		if v == nil {
			return "-"
		}
		return strconv.Itoa(*v)
	},
	// optFloat renders an optional numeric field, "-" when absent.
	"optFloat": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	},
	// optIntValue renders an optional integer as a form value, "" when absent.
	"optIntValue": func(v *int) string {
		if v == nil {
			return ""
		}
		return strconv.Itoa(*v)
	},
	"optFloatValue": func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	},
}

func parseTemplates(webFS fs.FS) (*templateSet, error) {
	names, err := fs.Glob(webFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	set := &templateSet{pages: make(map[string]*template.Template)}
	for _, name := range names {
		base := path.Base(name)
		if base == "layout.html" {
			continue
		}
		t, err := template.New(base).Funcs(templateFuncs).ParseFS(webFS, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", base, err)
		}
		set.pages[strings.TrimSuffix(base, ".html")] = t
	}

	if len(set.pages) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}
	return set, nil
}

func (ts *templateSet) execute(w io.Writer, page string, data any) error {
	t, ok := ts.pages[page]
	if !ok {
		return fmt.Errorf("unknown page template %q", page)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}
