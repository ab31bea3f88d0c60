package credstore

import (
	"encoding/json"
	"fmt"
	"os"
)

// Diagnostics reports credential presence and shape without exposing any
// secret values. Served by the debug endpoint.
type Diagnostics struct {
	TokenStatus     string `json:"token_status"`
	CookieEnvLength int    `json:"cookie_env_len"`
	DataDir         string `json:"data_dir"`
	TokenPath       string `json:"token_path"`
	TokenFileExists bool   `json:"token_file_exists"`
}

// Describe inspects the store's current credential material.
func (s *Store) Describe() Diagnostics {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := Diagnostics{
		TokenStatus: "missing",
		DataDir:     s.dataDir,
		TokenPath:   s.tokenPath(),
	}

	if raw := s.getenv(envToken); raw != "" {
		var probe struct {
			ExpiresIn int `json:"expires_in"`
		}
		if json.Unmarshal([]byte(raw), &probe) == nil {
			d.TokenStatus = fmt.Sprintf("present (valid JSON), access expires: %d", probe.ExpiresIn)
		} else {
			d.TokenStatus = "present (invalid JSON)"
		}
	}

	if _, err := os.Stat(s.tokenPath()); err == nil {
		d.TokenFileExists = true
		if d.TokenStatus == "missing" {
			d.TokenStatus = "file only"
		}
	}

	d.CookieEnvLength = len(s.getenv(envCookie))
	return d
}
