package providers

import (
	"context"

	"tenup-padel-service/internal/domain"
)

// MobileSource fetches tournaments from the authenticated mobile REST API.
// The access token is passed per call because the orchestrator may swap
// it between the first attempt and the post-refresh retry.
type MobileSource interface {
	FetchTournaments(ctx context.Context, accessToken string, q domain.Query) ([]domain.Tournament, error)
}

// WebSource fetches tournaments by driving the scraped web site's AJAX
// search form with the given raw cookie header.
type WebSource interface {
	FetchTournaments(ctx context.Context, cookieHeader string, q domain.Query) (domain.SearchResult, error)
}

// TokenRefresher exchanges a refresh token for a new bundle.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (domain.TokenBundle, error)
}

// CookieRefresher obtains a fresh session cookie header, typically by
// driving a real browser through the anti-bot challenge.
type CookieRefresher interface {
	RefreshCookies(ctx context.Context) (string, error)
}
