package config

import (
	"os"
	"strings"
	"time"
)

// Duration aliases time.Duration so Config reads clearly; CACHE_TTL is
// the only duration knob today.
type Duration = time.Duration

// envOrDefault backs the TENUP_* endpoint and port settings; an empty
// variable falls back to the built-in default.
func envOrDefault(key, defaultValue string) string {
	val := os.Getenv(key)
	if val != "" {
		return val
	}
	return defaultValue
}

func durationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

// boolEnvOrDefault accepts the usual truthy/falsy spellings so
// HEADLESS_DISABLED=yes and METRICS_ENABLED=0 both behave; anything
// unrecognized keeps the default.
func boolEnvOrDefault(key string, defaultValue bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	if raw == "1" || strings.EqualFold(raw, "true") || strings.EqualFold(raw, "yes") {
		return true
	}
	if raw == "0" || strings.EqualFold(raw, "false") || strings.EqualFold(raw, "no") {
		return false
	}
	return defaultValue
}
