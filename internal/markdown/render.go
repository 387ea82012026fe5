package markdown

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown snippets to HTML (CommonMark plus GFM tables,
// strikethrough, autolinks and task lists). Raw HTML in snippets is kept.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Convert renders a markdown body to HTML.
func (r *Renderer) Convert(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// RenderFile reads a markdown file and renders it to HTML.
func (r *Renderer) RenderFile(path string) (string, error) {
	// #nosec G304 -- snippet paths come from templates the operator controls.
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read markdown snippet: %w", err)
	}
	return r.Convert(data)
}
