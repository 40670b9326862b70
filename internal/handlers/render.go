package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
)

const (
	templateNotFound    = "core/404.html"
	templateServerError = "core/500.html"
	templateLogin       = "users/login.html"
	templateSignup      = "users/signup.html"
	templateLoggedOut   = "users/logged_out.html"
)

// Renderer holds one template set per page, each built on the shared base
// layout and includes.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page under templates/ in fsys. Page names are
// their paths relative to templates/, e.g. "posts/index.html".
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	shared := []string{"templates/base.html", "templates/includes/*.html"}
	pages, err := fs.Glob(fsys, "templates/*/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, p := range pages {
		dir := path.Base(path.Dir(p))
		if dir == "includes" {
			continue
		}
		name := dir + "/" + path.Base(p)
		t, err := template.New(name).ParseFS(fsys, append(shared, p)...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page name with data. The page is executed into a buffer
// first so that a failing template never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data map[string]any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
