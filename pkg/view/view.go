// Package view renders html/template pages. Every page template is parsed
// together with the shared layouts and partials so it can fill the layout's
// blocks and call the partials' templates:
//
//	{{define "title"}}Products{{end}}
//	{{define "content"}}...{{end}}
package view

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/shopspring/decimal"
)

// Data is the template context of a page.
type Data map[string]any

// Engine holds one parsed template set per page.
type Engine struct {
	pages map[string]*template.Template
}

// New parses every *.html under fsys except those in layouts/ and
// partials/, each paired with all layouts and partials. Pages are addressed
// by path without extension, e.g. "products/index".
func New(fsys fs.FS, funcs template.FuncMap) (*Engine, error) {
	all := template.FuncMap{
		"money": Money,
	}
	for k, v := range funcs {
		all[k] = v
	}

	var shared []string
	for _, dir := range []string{"layouts", "partials"} {
		files, err := fs.Glob(fsys, dir+"/*.html")
		if err != nil {
			return nil, fmt.Errorf("view: glob %s: %w", dir, err)
		}
		shared = append(shared, files...)
	}
	if len(shared) == 0 {
		return nil, fmt.Errorf("view: no layouts found")
	}

	e := &Engine{pages: map[string]*template.Template{}}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" || strings.HasPrefix(p, "layouts/") || strings.HasPrefix(p, "partials/") {
			return nil
		}

		files := append(append([]string(nil), shared...), p)
		t, err := template.New(path.Base(files[0])).Funcs(all).ParseFS(fsys, files...)
		if err != nil {
			return fmt.Errorf("view: parse %s: %w", p, err)
		}
		e.pages[strings.TrimSuffix(p, ".html")] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Has reports whether a page named name was parsed.
func (e *Engine) Has(name string) bool {
	_, ok := e.pages[name]
	return ok
}

// Render executes the "layout" template of page name. The body is buffered
// so a template error never produces a half written page.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data Data) error {
	t, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("view: render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Money formats d with two decimals and thousands separators: 1234.5 → "1,234.50".
func Money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

type ctxKey struct{}

func WithEngine(ctx context.Context, e *Engine) context.Context {
	return context.WithValue(ctx, ctxKey{}, e)
}

func FromCtx(ctx context.Context) *Engine {
	e, _ := ctx.Value(ctxKey{}).(*Engine)
	return e
}

// Middleware makes e available to handlers through FromCtx.
func Middleware(e *Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithEngine(r.Context(), e)))
		})
	}
}
