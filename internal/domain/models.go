package domain

// Source names reported to callers alongside results.
const (
	SourceMobileAPI = "mobile_api"
	SourceTenupWeb  = "tenup_web"
)

// SearchResult is the normalized payload returned to callers.
// TotalAPI carries the web source's self-reported result count, which can
// exceed the collected count when pagination stops early; it is absent for
// the mobile source.
type SearchResult struct {
	Count    int          `json:"count"`
	Items    []Tournament `json:"items"`
	Source   string       `json:"source"`
	TotalAPI *int         `json:"total_api,omitempty"`
}

// TokenBundle is the OAuth token pair issued by the identity provider.
type TokenBundle struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	ExpiresIn        int    `json:"expires_in,omitempty"`
	RefreshExpiresIn int    `json:"refresh_expires_in,omitempty"`
	TokenType        string `json:"token_type,omitempty"`
	Scope            string `json:"scope,omitempty"`
	IDToken          string `json:"id_token,omitempty"`
}
