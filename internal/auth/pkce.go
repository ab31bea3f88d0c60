package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
)

// NewPKCE generates a code verifier and its S256 challenge.
func NewPKCE() (verifier, challenge string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("auth: generating PKCE verifier: %w", err)
	}
	verifier = base64.RawURLEncoding.EncodeToString(raw)
	sum := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(sum[:])
	return verifier, challenge, nil
}

// AuthCodeURL builds the browser URL for the authorization-code flow.
func AuthCodeURL(authURL, clientID, redirectURI, scope, challenge string) string {
	params := url.Values{
		"client_id":             {clientID},
		"response_type":         {"code"},
		"redirect_uri":          {redirectURI},
		"scope":                 {scope},
		"code_challenge":        {challenge},
		"code_challenge_method": {"S256"},
	}
	return authURL + "?" + params.Encode()
}

// ParseCodeFromRedirect extracts the authorization code from a pasted
// redirect URL; some flows place it in the fragment instead of the query.
func ParseCodeFromRedirect(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if code := parsed.Query().Get("code"); code != "" {
		return code
	}
	if frag, err := url.ParseQuery(parsed.Fragment); err == nil {
		return frag.Get("code")
	}
	return ""
}
