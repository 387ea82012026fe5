// Package templates renders manifest pages with html/template and writes
// them under the output directory.
package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidTarget is wrapped by WritePage when a page target is empty or
// would resolve outside the output root.
var ErrInvalidTarget = errors.New("invalid page target")

// WritePage writes rendered page content to outputRoot/target.
//
// The function ensures:
//   - The target is relative to outputRoot (no path traversal)
//   - Parent directories are created if needed
//   - Existing files are overwritten; pages are always re-rendered
//
// Returns the full path of the written file.
func WritePage(outputRoot, target string, content []byte) (string, error) {
	if outputRoot == "" {
		return "", errors.New("output directory is required")
	}
	if target == "" {
		return "", fmt.Errorf("%w: target is required", ErrInvalidTarget)
	}

	cleanRel := filepath.Clean(filepath.FromSlash(target))
	if filepath.IsAbs(cleanRel) || cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: must be relative to the output directory: %s", ErrInvalidTarget, target)
	}

	fullPath := filepath.Join(outputRoot, cleanRel)
	rel, err := filepath.Rel(outputRoot, fullPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: escapes output directory: %s", ErrInvalidTarget, target)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	// #nosec G306 -- generated pages are meant to be served.
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return "", fmt.Errorf("write page: %w", err)
	}
	return fullPath, nil
}
