// Package mobile queries the federation's authenticated mobile REST API,
// the primary tournament source.
package mobile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tenup-padel-service/internal/domain"
	"tenup-padel-service/internal/providers"
)

// Config controls how the mobile client reaches the upstream API.
type Config struct {
	BaseURL    string
	AppID      string
	UserAgent  string
	HTTPClient *http.Client
	Limit      int
}

// Client fetches tournaments from the mobile API and normalizes their
// date fields.
type Client struct {
	baseURL    string
	appID      string
	userAgent  string
	httpClient httpDoer
	limit      int
}

// NewClient constructs a mobile client with the provided configuration.
func NewClient(cfg Config) *Client {
	appID := cfg.AppID
	if appID == "" {
		appID = defaultAppID
	}
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		appID:      appID,
		userAgent:  cfg.UserAgent,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		limit:      resolveLimit(cfg.Limit),
	}
}

type tournamentsResponse struct {
	Items   []domain.Tournament `json:"items"`
	Content []domain.Tournament `json:"content"`
}

// FetchTournaments queries the tournament endpoint with the query's geo,
// date, and category filters. A 401 is reported as ErrUnauthorized so the
// caller can refresh the token and retry exactly once; any other non-2xx
// becomes an UpstreamError.
func (c *Client) FetchTournaments(ctx context.Context, accessToken string, q domain.Query) ([]domain.Tournament, error) {
	req, err := c.buildRequest(ctx, accessToken, q)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mobile: fetching tournaments: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("mobile: %w", providers.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &providers.UpstreamError{
			Provider: providerName,
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(body)),
		}
	}

	var payload tournamentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("mobile: decoding response: %w", err)
	}

	items := payload.Items
	if len(items) == 0 {
		items = payload.Content
	}
	return domain.NormalizeDates(items), nil
}

func (c *Client) buildRequest(ctx context.Context, accessToken string, q domain.Query) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/competition/tournois", nil)
	if err != nil {
		return nil, fmt.Errorf("mobile: building request: %w", err)
	}

	query := req.URL.Query()
	query.Set("practice", practicePadel)
	query.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	query.Set("distance", strconv.Itoa(q.RadiusKm))
	query.Set("startDate", q.DateStart)
	query.Set("endDate", q.DateEnd)
	query.Set("offset", "0")
	query.Set("limit", strconv.Itoa(c.limit))
	if q.Level != "" {
		query.Set("categories", q.Level)
	}
	req.URL.RawQuery = query.Encode()

	c.authorize(req, accessToken)
	return req, nil
}

func (c *Client) authorize(req *http.Request, accessToken string) {
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-APPLICATION-ID", c.appID)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

// FetchRaw performs an authenticated GET against an arbitrary API endpoint
// and returns the raw response body. It backs the bootstrap CLI's ad-hoc
// queries; the server only ever calls FetchTournaments.
func (c *Client) FetchRaw(ctx context.Context, accessToken, endpoint string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+strings.TrimPrefix(endpoint, "/"), nil)
	if err != nil {
		return nil, fmt.Errorf("mobile: building request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	c.authorize(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mobile: fetching %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("mobile: %w", providers.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &providers.UpstreamError{
			Provider: providerName,
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(body)),
		}
	}
	return io.ReadAll(resp.Body)
}
