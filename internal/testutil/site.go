// Package testutil provides on-disk site fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Site is a project directory rooted in a test temp dir.
type Site struct {
	t    *testing.T
	Root string
}

// NewSite creates an empty site under t.TempDir().
func NewSite(t *testing.T) *Site {
	t.Helper()
	return &Site{t: t, Root: t.TempDir()}
}

// Path joins rel (slash separated) onto the site root.
func (s *Site) Path(rel string) string {
	return filepath.Join(s.Root, filepath.FromSlash(rel))
}

// WriteFile writes content to rel, creating parent directories.
func (s *Site) WriteFile(rel, content string) *Site {
	s.t.Helper()
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		s.t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		s.t.Fatalf("write %s: %v", path, err)
	}
	return s
}

// Remove deletes rel.
func (s *Site) Remove(rel string) *Site {
	s.t.Helper()
	if err := os.Remove(s.Path(rel)); err != nil {
		s.t.Fatalf("remove %s: %v", rel, err)
	}
	return s
}

// WithLayout writes a page template with a header partial, a markdown
// snippet, one stylesheet and the favicon. Pages are left to the caller.
func (s *Site) WithLayout() *Site {
	s.t.Helper()
	return s.
		WriteFile("templates/page.html",
			`<html>{{template "header" .}}<h1>{{.title}}</h1>{{render "content/intro.md"}}</html>`).
		WriteFile("templates/header.html", `<header>{{.title}}</header>`).
		WriteFile("content/intro.md", "# Intro\n\nHello **world**.\n").
		WriteFile("resources/stylesheets/main.css", "body{}").
		WriteFile("resources/favicon.png", "png")
}

// AssertFileExists validates that a file exists.
func (s *Site) AssertFileExists(rel string) *Site {
	s.t.Helper()
	if _, err := os.Stat(s.Path(rel)); err != nil {
		s.t.Errorf("Expected file to exist: %s", rel)
	}
	return s
}

// AssertFileNotExists validates that a file does not exist.
func (s *Site) AssertFileNotExists(rel string) *Site {
	s.t.Helper()
	if _, err := os.Stat(s.Path(rel)); err == nil {
		s.t.Errorf("Expected file to not exist: %s", rel)
	}
	return s
}

// AssertFileContains validates that a file contains expected content.
func (s *Site) AssertFileContains(rel, expected string) *Site {
	s.t.Helper()
	content, err := os.ReadFile(s.Path(rel))
	if err != nil {
		s.t.Errorf("Failed to read file %s: %v", rel, err)
		return s
	}
	if !strings.Contains(string(content), expected) {
		s.t.Errorf("Expected file %s to contain %q\nActual content:\n%s", rel, expected, content)
	}
	return s
}
