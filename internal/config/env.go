package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables recognised by ApplyEnv.
const (
	EnvOutputDir    = "PAGEBUILD_OUTPUT_DIR"
	EnvResourcesDir = "PAGEBUILD_RESOURCES_DIR"
	EnvManifest     = "PAGEBUILD_MANIFEST"
	EnvConcurrency  = "PAGEBUILD_CONCURRENCY"
	EnvLogLevel     = "PAGEBUILD_LOG_LEVEL"
	EnvLogFormat    = "PAGEBUILD_LOG_FORMAT"
	EnvMetricsFile  = "PAGEBUILD_METRICS_FILE"

	// EnvNpmOutputDir is what npm exports for "config.output_dir" in package.json.
	EnvNpmOutputDir = "npm_package_config_output_dir"
)

// envFiles are tried in order; godotenv never overrides variables that are
// already set, so the first file wins over the later ones.
var envFiles = []string{".env.local", ".env"}

// LoadEnvFiles loads .env.local and .env from the working directory when present.
func LoadEnvFiles() []string {
	var loaded []string
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err == nil {
			loaded = append(loaded, name)
		}
	}
	return loaded
}

// ApplyEnv overrides cfg with values from the process environment.
// Invalid numeric values are ignored and left to Validate.
func ApplyEnv(cfg *Config) {
	if v := firstEnv(EnvOutputDir, EnvNpmOutputDir); v != "" {
		cfg.OutputDir = v
	}
	if v := firstEnv(EnvResourcesDir); v != "" {
		cfg.ResourcesDir = v
	}
	if v := firstEnv(EnvManifest); v != "" {
		cfg.Manifest = v
	}
	if v := firstEnv(EnvConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Concurrency = n
		}
	}
	if v := firstEnv(EnvLogLevel); v != "" {
		cfg.Logging.Level = NormalizeLogLevel(v)
	}
	if v := firstEnv(EnvLogFormat); v != "" {
		cfg.Logging.Format = NormalizeLogFormat(v)
	}
	if v := firstEnv(EnvMetricsFile); v != "" {
		cfg.Metrics.TextfilePath = v
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
