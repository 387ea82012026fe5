// Package manifest loads the list of page descriptors a build renders.
//
// A manifest is a JSON or YAML list of pages. Each page names a template, a
// set of named partials, a free-form render context and a target path under
// the output directory. Relative template, partial and snippet paths resolve
// against the manifest's directory.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// StylesheetsKey is the context key listing the stylesheets a page links.
const StylesheetsKey = "stylesheets"

// Page describes one rendered page.
type Page struct {
	Template string            `json:"template" yaml:"template"`
	Partials map[string]string `json:"partials,omitempty" yaml:"partials,omitempty"`
	Context  map[string]any    `json:"context,omitempty" yaml:"context,omitempty"`
	Target   string            `json:"target" yaml:"target"`
}

// Manifest is a loaded page list.
type Manifest struct {
	Pages []Page `json:"pages" yaml:"pages"`

	// BaseDir is the directory relative page paths resolve against.
	BaseDir string `json:"-" yaml:"-"`
}

// Load reads a manifest. Files ending in .yaml or .yml are YAML, anything else is JSON.
// Both formats accept either a bare list of pages or an object with a "pages" key.
func Load(path string) (*Manifest, error) {
	// #nosec G304 -- the manifest path is operator supplied.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m *Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		m, err = parseYAML(data)
	default:
		m, err = parseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolve manifest dir: %w", err)
	}
	m.BaseDir = abs
	return m, nil
}

func parseJSON(data []byte) (*Manifest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pages []Page
		if err := json.Unmarshal(trimmed, &pages); err != nil {
			return nil, err
		}
		return &Manifest{Pages: pages}, nil
	}
	var m Manifest
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func parseYAML(data []byte) (*Manifest, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return &Manifest{}, nil
	}
	doc := root.Content[0]
	if doc.Kind == yaml.SequenceNode {
		var pages []Page
		if err := doc.Decode(&pages); err != nil {
			return nil, err
		}
		return &Manifest{Pages: pages}, nil
	}
	var m Manifest
	if err := doc.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Resolve makes a manifest-relative path absolute.
func (m *Manifest) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || m.BaseDir == "" {
		return p
	}
	return filepath.Join(m.BaseDir, p)
}

// Stylesheets returns the page's context.stylesheets entries. Non-string entries are skipped.
func (p Page) Stylesheets() []string {
	raw, ok := p.Context[StylesheetsKey]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Stylesheets returns every stylesheet referenced by any page, once, in first-seen order.
func (m *Manifest) Stylesheets() []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	var out []string
	for _, p := range m.Pages {
		for _, s := range p.Stylesheets() {
			if seen.Add(s) {
				out = append(out, s)
			}
		}
	}
	return out
}
