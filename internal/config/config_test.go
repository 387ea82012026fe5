package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagebuild/internal/errors"
)

// clearEnv blanks every variable ApplyEnv reads so host settings don't leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvOutputDir, EnvResourcesDir, EnvManifest, EnvConcurrency, EnvLogLevel, EnvLogFormat, EnvMetricsFile, EnvNpmOutputDir} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultResourcesDir, cfg.ResourcesDir)
	assert.Equal(t, DefaultManifest, cfg.Manifest)
	assert.Equal(t, DefaultFavicon, cfg.Favicon)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileWithEnvExpansion(t *testing.T) {
	clearEnv(t)
	t.Setenv("SITE_ROOT", "/srv/site")

	path := filepath.Join(t.TempDir(), "pagebuild.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_dir: ${SITE_ROOT}/public
resources_dir: assets
manifest: pages.yaml
static:
  - "images/**/*.png"
concurrency: 3
logging:
  level: DEBUG
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/site/public", cfg.OutputDir)
	assert.Equal(t, "assets", cfg.ResourcesDir)
	assert.Equal(t, "pages.yaml", cfg.Manifest)
	assert.Equal(t, []string{"images/**/*.png"}, cfg.Static)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, DefaultFavicon, cfg.Favicon)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "pagebuild.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: from-file\nconcurrency: 2\n"), 0o600))
	t.Setenv(EnvOutputDir, "from-env")
	t.Setenv(EnvConcurrency, "5")
	t.Setenv(EnvMetricsFile, "/tmp/pagebuild.prom")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OutputDir)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, "/tmp/pagebuild.prom", cfg.Metrics.TextfilePath)
}

func TestNpmOutputDirFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvNpmOutputDir, "dist")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dist", cfg.OutputDir)

	t.Setenv(EnvOutputDir, "explicit")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.OutputDir)
}

func TestInvalidConcurrencyEnvIsIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConcurrency, "many")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("concurrency: [oops\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PAGEBUILD_TEST_ONLY", "")
	require.NoError(t, os.Unsetenv("PAGEBUILD_TEST_ONLY"))
	t.Setenv("PAGEBUILD_TEST_PRESET", "kept")
	require.NoError(t, os.WriteFile(".env", []byte("PAGEBUILD_TEST_ONLY=from-env\nPAGEBUILD_TEST_PRESET=overwritten\n"), 0o600))
	require.NoError(t, os.WriteFile(".env.local", []byte("PAGEBUILD_TEST_ONLY=from-local\n"), 0o600))

	loaded := LoadEnvFiles()
	assert.Equal(t, []string{".env.local", ".env"}, loaded)
	assert.Equal(t, "from-local", os.Getenv("PAGEBUILD_TEST_ONLY"))
	assert.Equal(t, "kept", os.Getenv("PAGEBUILD_TEST_PRESET"))
}

func TestInitWritesLoadableConfig(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "pagebuild.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.Static)
}
