// Package auth talks to the federation's OpenID Connect identity
// provider: refresh-token exchange for the running service and the
// authorization-code + PKCE flow for the bootstrap CLI.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tenup-padel-service/internal/domain"
	"tenup-padel-service/internal/providers"
)

const defaultHTTPTimeout = 15 * time.Second

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls how the refresher reaches the identity provider.
type Config struct {
	TokenURL   string
	ClientID   string
	HTTPClient *http.Client
}

// Refresher exchanges tokens against the identity provider.
type Refresher struct {
	tokenURL   string
	clientID   string
	httpClient httpDoer
}

// NewRefresher constructs a Refresher with the provided configuration.
func NewRefresher(cfg Config) *Refresher {
	var client httpDoer = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Refresher{
		tokenURL:   cfg.TokenURL,
		clientID:   cfg.ClientID,
		httpClient: client,
	}
}

// Refresh exchanges a refresh token for a new token bundle. The caller is
// responsible for persisting the bundle before using it.
func (r *Refresher) Refresh(ctx context.Context, refreshToken string) (domain.TokenBundle, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {r.clientID},
		"refresh_token": {refreshToken},
	}
	return r.tokenRequest(ctx, form)
}

// Exchange trades an authorization code (plus its PKCE verifier) for a
// token bundle. Used by the interactive bootstrap flow.
func (r *Refresher) Exchange(ctx context.Context, code, redirectURI, verifier, scope string) (domain.TokenBundle, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {r.clientID},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"code_verifier": {verifier},
		"scope":         {scope},
	}
	return r.tokenRequest(ctx, form)
}

func (r *Refresher) tokenRequest(ctx context.Context, form url.Values) (domain.TokenBundle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.TokenBundle{}, fmt.Errorf("auth: building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-APPLICATION-ID", r.clientID)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return domain.TokenBundle{}, fmt.Errorf("auth: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.TokenBundle{}, &providers.AuthError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	var bundle domain.TokenBundle
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return domain.TokenBundle{}, fmt.Errorf("auth: decoding token response: %w", err)
	}
	if bundle.AccessToken == "" {
		return domain.TokenBundle{}, fmt.Errorf("auth: token response missing access_token")
	}
	return bundle, nil
}
