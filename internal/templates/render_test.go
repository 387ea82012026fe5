package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagebuild/internal/manifest"
	"git.home.luguber.info/inful/pagebuild/internal/markdown"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newTestRenderer(dir string) *Renderer {
	return NewRenderer(markdown.NewRenderer(), func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	})
}

func TestRenderPage(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "page.tmpl",
		`<html><head>{{range .stylesheets}}<link rel="stylesheet" href="/stylesheets/{{.}}">{{end}}</head>`+
			`<body>{{template "header" .}}{{render "content/intro.md"}}</body></html>`)
	writeTemplate(t, dir, "partials/header.tmpl", `<h1>{{.title}}</h1>`)
	writeTemplate(t, dir, "content/intro.md", "Welcome *home*\n")

	page := manifest.Page{
		Template: "page.tmpl",
		Partials: map[string]string{"header": "partials/header.tmpl"},
		Context: map[string]any{
			"title":       "Home",
			"stylesheets": []any{"main.css"},
		},
		Target: "index.html",
	}

	out, err := newTestRenderer(dir).RenderPage(page)
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `<link rel="stylesheet" href="/stylesheets/main.css">`)
	assert.Contains(t, html, "<h1>Home</h1>")
	assert.Contains(t, html, "<p>Welcome <em>home</em></p>")
}

func TestRenderPage_EscapesContextValues(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "page.tmpl", `<h1>{{.title}}</h1>{{template "footer" .}}{{render "body.md"}}`)
	writeTemplate(t, dir, "footer.tmpl", `<footer>{{.owner}}</footer>`)
	writeTemplate(t, dir, "body.md", "Some <b>raw</b> **html**\n")

	out, err := newTestRenderer(dir).RenderPage(manifest.Page{
		Template: "page.tmpl",
		Partials: map[string]string{"footer": "footer.tmpl"},
		Context: map[string]any{
			"title": "Tom & <b>Jerry</b>",
			"owner": `<script>alert("x")</script>`,
		},
	})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<h1>Tom &amp; &lt;b&gt;Jerry&lt;/b&gt;</h1>")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "<footer>&lt;script&gt;")
	// Snippet HTML is embedded as-is.
	assert.Contains(t, html, "<p>Some <b>raw</b> <strong>html</strong></p>")
}

func TestRenderPage_PartialsAreScopedPerPage(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "page.tmpl", `{{template "nav" .}}`)
	writeTemplate(t, dir, "nav-a.tmpl", `A`)
	writeTemplate(t, dir, "plain.tmpl", `{{template "nav" .}}`)
	r := newTestRenderer(dir)

	out, err := r.RenderPage(manifest.Page{Template: "page.tmpl", Partials: map[string]string{"nav": "nav-a.tmpl"}})
	require.NoError(t, err)
	assert.Equal(t, "A", string(out))

	// A later page that does not declare the partial must not see the earlier one.
	_, err = r.RenderPage(manifest.Page{Template: "plain.tmpl"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "nav"), err.Error())
}

func TestRenderPage_Errors(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "bad.tmpl", `{{if}}`)
	writeTemplate(t, dir, "snippet.tmpl", `{{render "missing.md"}}`)
	r := newTestRenderer(dir)

	_, err := r.RenderPage(manifest.Page{Target: "x.html"})
	require.Error(t, err)

	_, err = r.RenderPage(manifest.Page{Template: "missing.tmpl"})
	require.Error(t, err)

	_, err = r.RenderPage(manifest.Page{Template: "bad.tmpl"})
	require.Error(t, err)

	_, err = r.RenderPage(manifest.Page{Template: "snippet.tmpl"})
	require.Error(t, err)

	_, err = r.RenderPage(manifest.Page{Template: "snippet.tmpl", Partials: map[string]string{"p": "nope.tmpl"}})
	require.Error(t, err)
}
