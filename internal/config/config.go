// Package config holds the build configuration: where pages come from, where
// assets live and where output goes. Values are layered: defaults, then an
// optional YAML file, then the process environment, then CLI flags.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pagebuild/internal/errors"
)

// DefaultPath is the config file picked up from the working directory when no --config is given.
const DefaultPath = "pagebuild.yaml"

// Config represents the application configuration.
type Config struct {
	// OutputDir is the root every page, stylesheet and favicon is written under.
	OutputDir    string   `yaml:"output_dir"`
	ResourcesDir string   `yaml:"resources_dir"`
	Manifest     string   `yaml:"manifest"`
	Favicon      string   `yaml:"favicon"`
	Static       []string `yaml:"static,omitempty"` // doublestar globs relative to ResourcesDir
	Concurrency  int      `yaml:"concurrency"`
	// Strict turns asset sync failures into a failed build.
	Strict  bool          `yaml:"strict,omitempty"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// TextfilePath, when set, receives a node-exporter textfile after each build.
	TextfilePath string `yaml:"textfile,omitempty"`
}

// Load builds a Config from defaults, the YAML file at configPath (if any)
// and the environment. An empty configPath skips the file.
func Load(configPath string) (*Config, error) {
	LoadEnvFiles()

	cfg := Default()
	if configPath != "" {
		if err := cfg.mergeFile(configPath); err != nil {
			return nil, err
		}
	}
	ApplyEnv(cfg)
	return cfg, nil
}

func (c *Config) mergeFile(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return errors.ConfigNotFound(configPath)
	}

	// #nosec G304 -- config path is operator supplied.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "failed to read config file").
			WithContext("path", configPath)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "failed to unmarshal config").
			WithContext("path", configPath)
	}
	c.applyDefaults()
	return nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Default()
	example.Static = []string{"images/**/*.{png,jpg,svg}"}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// #nosec G306 -- config file holds no secrets.
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
