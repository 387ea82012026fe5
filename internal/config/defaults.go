package config

// Defaults match the conventional npm project layout: pages.json beside
// resources/ and a public/ output dir.
const (
	DefaultOutputDir    = "./public"
	DefaultResourcesDir = "./resources"
	DefaultManifest     = "./pages.json"
	DefaultFavicon      = "favicon.png"
	DefaultConcurrency  = 8
)

// Default returns a Config populated with defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.ResourcesDir == "" {
		c.ResourcesDir = DefaultResourcesDir
	}
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}
	if c.Favicon == "" {
		c.Favicon = DefaultFavicon
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))
}
