package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/pagebuild/internal/manifest"
	"git.home.luguber.info/inful/pagebuild/internal/markdown"
)

// SnippetRenderer turns a markdown file into HTML.
type SnippetRenderer interface {
	RenderFile(path string) (string, error)
}

// Renderer renders manifest pages.
type Renderer struct {
	snippets SnippetRenderer
	resolve  func(string) string
}

// NewRenderer creates a page renderer. resolve maps template, partial and
// snippet paths to filesystem paths; nil leaves them untouched.
func NewRenderer(snippets SnippetRenderer, resolve func(string) string) *Renderer {
	if snippets == nil {
		snippets = markdown.NewRenderer()
	}
	if resolve == nil {
		resolve = func(p string) string { return p }
	}
	return &Renderer{snippets: snippets, resolve: resolve}
}

// RenderPage executes the page template against page.Context. Context
// values are HTML-escaped; snippet output from the "render" helper is not.
//
// Each entry of page.Partials is parsed as a named template the page can
// include with {{template "name" .}}. Partials are scoped to the page.
// The "render" helper embeds a markdown snippet as HTML:
//
//	{{render "content/intro.md"}}
func (r *Renderer) RenderPage(page manifest.Page) ([]byte, error) {
	if page.Template == "" {
		return nil, fmt.Errorf("page %q has no template", page.Target)
	}

	funcs := template.FuncMap{
		"render": func(path string) (template.HTML, error) {
			html, err := r.snippets.RenderFile(r.resolve(path))
			// #nosec G203 -- snippets are operator-authored markdown rendered to trusted HTML.
			return template.HTML(html), err
		},
	}

	body, err := r.read(page.Template)
	if err != nil {
		return nil, err
	}
	tpl, err := template.New(filepath.Base(page.Template)).Funcs(funcs).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", page.Template, err)
	}

	names := make([]string, 0, len(page.Partials))
	for name := range page.Partials {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		partial, err := r.read(page.Partials[name])
		if err != nil {
			return nil, err
		}
		if _, err := tpl.New(name).Parse(partial); err != nil {
			return nil, fmt.Errorf("parse partial %s: %w", name, err)
		}
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, page.Context); err != nil {
		return nil, fmt.Errorf("render template %s: %w", page.Template, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) read(path string) (string, error) {
	// #nosec G304 -- template paths come from the operator's manifest.
	data, err := os.ReadFile(r.resolve(path))
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	return string(data), nil
}
