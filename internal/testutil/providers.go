package testutil

import (
	"context"

	"tenup-padel-service/internal/domain"
)

// StubMobile returns canned tournaments after recording the token it saw.
type StubMobile struct {
	Items  []domain.Tournament
	Err    error
	Calls  int
	Tokens []string
}

func (m *StubMobile) FetchTournaments(ctx context.Context, accessToken string, q domain.Query) ([]domain.Tournament, error) {
	_ = ctx
	_ = q
	m.Calls++
	m.Tokens = append(m.Tokens, accessToken)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Items, nil
}

// FlakyMobile fails with Errs[i] on call i and succeeds once Errs run out.
type FlakyMobile struct {
	Errs   []error
	Items  []domain.Tournament
	Calls  int
	Tokens []string
}

func (m *FlakyMobile) FetchTournaments(ctx context.Context, accessToken string, q domain.Query) ([]domain.Tournament, error) {
	_ = ctx
	_ = q
	call := m.Calls
	m.Calls++
	m.Tokens = append(m.Tokens, accessToken)
	if call < len(m.Errs) && m.Errs[call] != nil {
		return nil, m.Errs[call]
	}
	return m.Items, nil
}

// StubWeb returns a canned result after recording the cookie header it saw.
type StubWeb struct {
	Result  domain.SearchResult
	Err     error
	Calls   int
	Cookies []string
}

func (w *StubWeb) FetchTournaments(ctx context.Context, cookieHeader string, q domain.Query) (domain.SearchResult, error) {
	_ = ctx
	_ = q
	w.Calls++
	w.Cookies = append(w.Cookies, cookieHeader)
	if w.Err != nil {
		return domain.SearchResult{}, w.Err
	}
	return w.Result, nil
}

// FlakyWeb fails with Errs[i] on call i and succeeds once Errs run out.
type FlakyWeb struct {
	Errs    []error
	Result  domain.SearchResult
	Calls   int
	Cookies []string
}

func (w *FlakyWeb) FetchTournaments(ctx context.Context, cookieHeader string, q domain.Query) (domain.SearchResult, error) {
	_ = ctx
	_ = q
	call := w.Calls
	w.Calls++
	w.Cookies = append(w.Cookies, cookieHeader)
	if call < len(w.Errs) && w.Errs[call] != nil {
		return domain.SearchResult{}, w.Errs[call]
	}
	return w.Result, nil
}

// StubTokenRefresher returns a canned bundle.
type StubTokenRefresher struct {
	Bundle domain.TokenBundle
	Err    error
	Calls  int
	Seen   []string
}

func (r *StubTokenRefresher) Refresh(ctx context.Context, refreshToken string) (domain.TokenBundle, error) {
	_ = ctx
	r.Calls++
	r.Seen = append(r.Seen, refreshToken)
	if r.Err != nil {
		return domain.TokenBundle{}, r.Err
	}
	return r.Bundle, nil
}

// StubCookieRefresher returns a canned cookie header.
type StubCookieRefresher struct {
	Header string
	Err    error
	Calls  int
}

func (r *StubCookieRefresher) RefreshCookies(ctx context.Context) (string, error) {
	_ = ctx
	r.Calls++
	if r.Err != nil {
		return "", r.Err
	}
	return r.Header, nil
}

// MemCredStore is an in-memory credential store.
type MemCredStore struct {
	Bundle       domain.TokenBundle
	HasBundle    bool
	CookieHeader string
	HasCookie    bool
	SaveErr      error
	SavedBundles []domain.TokenBundle
	SavedCookies []string
}

func (s *MemCredStore) LoadTokenBundle() (domain.TokenBundle, bool) {
	return s.Bundle, s.HasBundle
}

func (s *MemCredStore) SaveTokenBundle(bundle domain.TokenBundle) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Bundle = bundle
	s.HasBundle = true
	s.SavedBundles = append(s.SavedBundles, bundle)
	return nil
}

func (s *MemCredStore) LoadCookieHeader() (string, bool) {
	return s.CookieHeader, s.HasCookie
}

func (s *MemCredStore) SaveCookieHeader(header string) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.CookieHeader = header
	s.HasCookie = true
	s.SavedCookies = append(s.SavedCookies, header)
	return nil
}

// SampleTournament returns a minimal tournament fixture with the given id.
func SampleTournament(id string) domain.Tournament {
	return domain.Tournament{
		"id":           id,
		"libelle":      "Open " + id,
		"dateDebut":    map[string]any{"date": "2026-09-05 00:00:00"},
		"dateFin":      map[string]any{"date": "2026-09-07 00:00:00"},
		"installation": map[string]any{"ville": "Paris"},
	}
}

// SampleTournaments builds fixtures for each id.
func SampleTournaments(ids ...string) []domain.Tournament {
	out := make([]domain.Tournament, 0, len(ids))
	for _, id := range ids {
		out = append(out, SampleTournament(id))
	}
	return out
}
