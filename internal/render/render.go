// Package render turns loaded content into HTML documents using the shared
// "base" layout.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"bayshorebuild.com/site-web/internal/cms"
	"bayshorebuild.com/site-web/internal/format"
)

// Options configures a Renderer.
type Options struct {
	// Templates holds *.tmpl files at any depth.
	Templates fs.FS
	// Dev reparses templates on every render.
	Dev bool
	// BaseURL overrides the business URL for canonical and schema links.
	BaseURL   string
	Analytics Analytics
}

// Renderer executes the page layouts. It is safe for concurrent use.
type Renderer struct {
	opts  Options
	cache *template.Template
}

// New parses the templates once so layout errors surface at startup,
// even in dev mode.
func New(opts Options) (*Renderer, error) {
	if opts.Templates == nil {
		return nil, errors.New("render: templates fs is required")
	}
	t, err := parseTemplates(opts.Templates)
	if err != nil {
		return nil, err
	}
	return &Renderer{opts: opts, cache: t}, nil
}

// Page renders p as a complete HTML document.
func (r *Renderer) Page(w io.Writer, site *cms.Site, p *cms.Page) error {
	data := BuildPageData(site, p, r.opts.BaseURL)
	data.Analytics = r.opts.Analytics
	if err := r.execute(w, data); err != nil {
		return fmt.Errorf("render %s: %w", p.Route, err)
	}
	return nil
}

// NotFound renders the 404 document.
func (r *Renderer) NotFound(w io.Writer, site *cms.Site) error {
	data := NotFoundData(site)
	data.Analytics = r.opts.Analytics
	if err := r.execute(w, data); err != nil {
		return fmt.Errorf("render 404: %w", err)
	}
	return nil
}

// execute buffers the output so a failing template never writes a partial page.
func (r *Renderer) execute(w io.Writer, data PageData) error {
	t, err := r.templates()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("template exec: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func (r *Renderer) templates() (*template.Template, error) {
	if r.opts.Dev {
		return parseTemplates(r.opts.Templates)
	}
	return r.cache, nil
}

// FuncMap is shared by every layout.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"now": time.Now,
		// jsonld marks an already-serialized schema as safe script content.
		"jsonld": func(s string) template.JS { return template.JS(s) },
		"telHref": func(raw string) template.URL {
			return template.URL("tel:" + strings.TrimPrefix(raw, "tel:"))
		},
		"priceRange": format.PriceRange,
		"dollars":    format.Dollars,
		"date":       format.FmtDate,
		"isoDate":    format.ISODate,
	}
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	// Recursively discover all .tmpl files. Note: ParseFS globs don't support **.
	var files []string
	if err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("render: walk templates: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("render: no templates found")
	}
	t, err := template.New("_root").Funcs(FuncMap()).ParseFS(fsys, files...)
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	return t, nil
}
