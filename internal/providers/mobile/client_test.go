package mobile

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"tenup-padel-service/internal/domain"
	"tenup-padel-service/internal/providers"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(rt roundTripperFunc) *Client {
	return NewClient(Config{
		BaseURL:    "https://api.example/fft/v1",
		HTTPClient: &http.Client{Transport: rt},
	})
}

func testQuery() domain.Query {
	return domain.Query{
		Latitude:  48.8566,
		Longitude: 2.3522,
		RadiusKm:  100,
		DateStart: "2026-01-15",
		DateEnd:   "2026-04-15",
		Level:     "P250",
	}
}

func TestFetchTournamentsBuildsFilterParams(t *testing.T) {
	var captured url.Values
	var capturedAuth string

	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/fft/v1/competition/tournois" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		captured = req.URL.Query()
		capturedAuth = req.Header.Get("Authorization")
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"items":[{"id":"t1","startDate":"2026-03-01"}]}`)),
			Header:     make(http.Header),
		}, nil
	})

	items, err := c.FetchTournaments(context.Background(), "tok", testQuery())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	checks := map[string]string{
		"practice":   "PADEL",
		"latitude":   "48.8566",
		"longitude":  "2.3522",
		"distance":   "100",
		"startDate":  "2026-01-15",
		"endDate":    "2026-04-15",
		"offset":     "0",
		"limit":      "100",
		"categories": "P250",
	}
	for key, want := range checks {
		if got := captured.Get(key); got != want {
			t.Errorf("param %s = %q, want %q", key, got, want)
		}
	}
	if capturedAuth != "Bearer tok" {
		t.Errorf("expected bearer auth, got %q", capturedAuth)
	}

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	debut, ok := items[0]["dateDebut"].(map[string]any)
	if !ok || debut["date"] != "2026-03-01" {
		t.Errorf("expected normalized dateDebut, got %v", items[0]["dateDebut"])
	}
}

func TestFetchTournamentsOmitsCategoriesWithoutLevel(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Query().Has("categories") {
			t.Error("categories must be omitted when level is empty")
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"items":[]}`)),
			Header:     make(http.Header),
		}, nil
	})

	q := testQuery()
	q.Level = ""
	if _, err := c.FetchTournaments(context.Background(), "tok", q); err != nil {
		t.Fatalf("fetch: %v", err)
	}
}

func TestFetchTournamentsUnauthorized(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(strings.NewReader(`expired`)),
			Header:     make(http.Header),
		}, nil
	})

	_, err := c.FetchTournaments(context.Background(), "stale", testQuery())
	if !errors.Is(err, providers.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestFetchTournamentsOtherStatusIsUpstreamError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader(`upstream down`)),
			Header:     make(http.Header),
		}, nil
	})

	_, err := c.FetchTournaments(context.Background(), "tok", testQuery())
	upErr, ok := providers.AsUpstreamError(err)
	if !ok {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upErr.Status != http.StatusBadGateway || upErr.Provider != providerName {
		t.Errorf("unexpected error: %+v", upErr)
	}
	if errors.Is(err, providers.ErrUnauthorized) {
		t.Error("a 502 must not classify as unauthorized")
	}
}

func TestFetchTournamentsContentFieldFallback(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"content":[{"id":"c1"},{"id":"c2"}]}`)),
			Header:     make(http.Header),
		}, nil
	})

	items, err := c.FetchTournaments(context.Background(), "tok", testQuery())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected items from content field, got %d", len(items))
	}
}

func TestFetchRawHitsArbitraryEndpoint(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/fft/v1/licences/me" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		if got := req.URL.Query().Get("statut"); got != "A" {
			t.Errorf("statut = %q", got)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"numero":"123"}`)),
			Header:     make(http.Header),
		}, nil
	})

	body, err := c.FetchRaw(context.Background(), "tok", "/licences/me", url.Values{"statut": {"A"}})
	if err != nil {
		t.Fatalf("fetch raw: %v", err)
	}
	if string(body) != `{"numero":"123"}` {
		t.Errorf("body = %s", body)
	}
}

func TestFetchRawUnauthorized(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(strings.NewReader(`{"error":"expired"}`)),
			Header:     make(http.Header),
		}, nil
	})

	_, err := c.FetchRaw(context.Background(), "stale", "licences/me", nil)
	if !errors.Is(err, providers.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
