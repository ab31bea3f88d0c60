package config

import "time"

const (
	envPort         = "PORT"
	envDataDir      = "TENUP_DATA_DIR"
	envTokenURL     = "TENUP_TOKEN_URL"
	envAPIBase      = "TENUP_API_BASE"
	envWebBase      = "TENUP_WEB_BASE"
	envClientID     = "TENUP_CLIENT_ID"
	envCacheTTL     = "CACHE_TTL"
	envHeadlessOff  = "HEADLESS_DISABLED"
	envServerless   = "VERCEL"
	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort        = "8001"
	defaultDataDir     = "data/tenup"
	defaultTokenURL    = "https://login.fft.fr/realms/connect/protocol/openid-connect/token"
	defaultAPIBase     = "https://api.fft.fr/fft/v1"
	defaultWebBase     = "https://tenup.fft.fr"
	defaultClientID    = "tenup-app"
	defaultCacheTTL    = Duration(time.Hour)
	defaultMetricsPort = "9090"

	// UserAgent mirrors a desktop Chrome; the scraped site serves the
	// anti-bot challenge to anything that looks unusual.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)
