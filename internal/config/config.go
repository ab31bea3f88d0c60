package config

import "os"

// Config holds runtime configuration for the server.
type Config struct {
	Port     string
	DataDir  string
	CacheTTL Duration
	Tenup    TenupConfig
	Headless HeadlessConfig
	Metrics  MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:     envOrDefault(envPort, defaultPort),
		DataDir:  envOrDefault(envDataDir, defaultDataDir),
		CacheTTL: durationEnvOrDefault(envCacheTTL, defaultCacheTTL),
		Tenup:    loadTenup(),
		Headless: loadHeadless(),
		Metrics:  loadMetrics(),
	}
}

// HeadlessConfig controls the browser-based cookie refresh tier.
type HeadlessConfig struct {
	// Disabled short-circuits the headless tier; serverless platforms
	// cannot launch a browser, so the tier must fail fast there.
	Disabled bool
}

func loadHeadless() HeadlessConfig {
	return HeadlessConfig{
		Disabled: boolEnvOrDefault(envHeadlessOff, false) || os.Getenv(envServerless) == "1",
	}
}
