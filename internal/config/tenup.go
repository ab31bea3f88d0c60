package config

// TenupConfig describes how we reach the federation's identity provider,
// its mobile REST API, and the scraped web site.
type TenupConfig struct {
	TokenURL string
	APIBase  string
	WebBase  string
	ClientID string
}

func loadTenup() TenupConfig {
	return TenupConfig{
		TokenURL: envOrDefault(envTokenURL, defaultTokenURL),
		APIBase:  envOrDefault(envAPIBase, defaultAPIBase),
		WebBase:  envOrDefault(envWebBase, defaultWebBase),
		ClientID: envOrDefault(envClientID, defaultClientID),
	}
}
