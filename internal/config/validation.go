package config

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/pagebuild/internal/errors"
)

// Validate checks the configuration before a build.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.ConfigRequired("output_dir")
	}
	if strings.TrimSpace(c.Manifest) == "" {
		return errors.ConfigRequired("manifest")
	}
	if c.Concurrency < 1 {
		return errors.ValidationFailed("concurrency", "must be at least 1")
	}
	if filepath.IsAbs(c.Favicon) || strings.HasPrefix(filepath.Clean(c.Favicon), "..") {
		return errors.ValidationFailed("favicon", "must be relative to resources_dir")
	}
	for _, pattern := range c.Static {
		if !doublestar.ValidatePattern(pattern) {
			return errors.ValidationFailed("static", "invalid glob pattern: "+pattern)
		}
		if filepath.IsAbs(pattern) || strings.HasPrefix(pattern, "..") {
			return errors.ValidationFailed("static", "pattern must be relative to resources_dir: "+pattern)
		}
	}
	return nil
}
