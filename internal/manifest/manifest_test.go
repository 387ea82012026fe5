package manifest

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadJSONList(t *testing.T) {
	path := writeManifest(t, "pages.json", `[
  {
    "template": "templates/page.tmpl",
    "partials": {"header": "templates/header.tmpl"},
    "context": {"title": "Home", "stylesheets": ["main.css", "home.css"]},
    "target": "index.html"
  },
  {
    "template": "templates/page.tmpl",
    "partials": {},
    "context": {"title": "About", "stylesheets": ["main.css"]},
    "target": "about/index.html"
  }
]`)

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Pages, 2)
	assert.Equal(t, "templates/page.tmpl", m.Pages[0].Template)
	assert.Equal(t, "templates/header.tmpl", m.Pages[0].Partials["header"])
	assert.Equal(t, "Home", m.Pages[0].Context["title"])
	assert.Equal(t, "about/index.html", m.Pages[1].Target)
	assert.Equal(t, filepath.Dir(path), m.BaseDir)
	assert.Equal(t, []string{"main.css", "home.css"}, m.Stylesheets())
}

func TestLoadJSONObject(t *testing.T) {
	path := writeManifest(t, "pages.json", `{"pages": [{"template": "a.tmpl", "target": "a.html"}]}`)

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Pages, 1)
	assert.Empty(t, m.Pages[0].Stylesheets())
	assert.Empty(t, m.Stylesheets())
}

func TestLoadYAML(t *testing.T) {
	path := writeManifest(t, "pages.yaml", `
- template: page.tmpl
  partials:
    footer: footer.tmpl
  context:
    title: Docs
    stylesheets: [docs.css, main.css]
  target: docs/index.html
- template: page.tmpl
  context:
    stylesheets: [main.css, print.css]
  target: print.html
`)

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Pages, 2)
	assert.Equal(t, "footer.tmpl", m.Pages[0].Partials["footer"])
	assert.Equal(t, []string{"docs.css", "main.css", "print.css"}, m.Stylesheets())
}

func TestLoadYAMLObject(t *testing.T) {
	path := writeManifest(t, "site.yml", "pages:\n  - template: a.tmpl\n    target: a.html\n")

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Pages, 1)
	assert.Equal(t, "a.html", m.Pages[0].Target)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = Load(writeManifest(t, "broken.json", `[{"template": `))
	require.Error(t, err)
}

func TestPageStylesheetsIgnoresNonStrings(t *testing.T) {
	p := Page{Context: map[string]any{"stylesheets": []any{"a.css", 3, "", "b.css"}}}
	assert.Equal(t, []string{"a.css", "b.css"}, p.Stylesheets())

	p = Page{Context: map[string]any{"stylesheets": "a.css"}}
	assert.Nil(t, p.Stylesheets())
}

func TestResolve(t *testing.T) {
	m := &Manifest{BaseDir: "/site"}
	assert.Equal(t, filepath.Join("/site", "templates", "a.tmpl"), m.Resolve("templates/a.tmpl"))
	assert.Equal(t, "/abs/a.tmpl", m.Resolve("/abs/a.tmpl"))
	assert.Equal(t, "", m.Resolve(""))
}
