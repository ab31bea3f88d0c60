package providers

import (
	"errors"
	"fmt"
)

// Sentinel errors that drive the orchestrator's fallback transitions.
var (
	// ErrUnauthorized marks a 401 from the resource server, as opposed
	// to other upstream failures; it is the only mobile failure that
	// triggers a token refresh.
	ErrUnauthorized = errors.New("upstream rejected access token")

	// ErrBotWallDetected marks a redirect into the anti-bot queuing
	// service; the session cookies are invalid or expired.
	ErrBotWallDetected = errors.New("anti-bot queue redirect detected")

	// ErrUnsupportedEnvironment marks an environment that cannot launch
	// a browser; the headless tier must fail fast rather than hang.
	ErrUnsupportedEnvironment = errors.New("browser automation not supported in this environment")

	// ErrNoCookiesObtained marks a headless run that produced no cookies.
	ErrNoCookiesObtained = errors.New("headless browser returned no cookies")
)

// AuthError captures a rejection from the identity provider.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("identity provider rejected token exchange (status=%d): %s", e.Status, e.Body)
}

// UpstreamError captures any other non-2xx response from a data source.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.Status, e.Body)
}

// AsUpstreamError attempts to unwrap an error into an UpstreamError.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}

// NegotiationFailed means the dynamic form tokens could not be extracted
// from the search page. Snippet holds the start of the last HTML body for
// diagnostics.
type NegotiationFailed struct {
	Snippet string
}

func (e *NegotiationFailed) Error() string {
	return fmt.Sprintf("could not extract form tokens from search page; snippet: %s", e.Snippet)
}
