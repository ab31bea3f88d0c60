// Package tenupweb drives the scraped web site's AJAX tournament search,
// the fallback source when the mobile API is unavailable. The protocol is
// a Drupal form: negotiate two short-lived tokens from the search page,
// then submit the form once per result page.
package tenupweb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tenup-padel-service/internal/domain"
	"tenup-padel-service/internal/providers"
)

// errMalformedPage marks a page whose body was not the expected directive
// array. The site occasionally serves HTML error pages with a 200; those
// are logged and skipped rather than failing the whole fetch.
var errMalformedPage = errors.New("ajax response was not a directive array")

// Config controls how the web client reaches the scraped site.
type Config struct {
	BaseURL      string
	UserAgent    string
	HTTPTimeout  time.Duration
	MaxPages     int
	PollInterval time.Duration
	Transport    http.RoundTripper
	Logger       *slog.Logger
}

// Client fetches tournaments via the site's paginated AJAX search.
type Client struct {
	baseURL      *url.URL
	userAgent    string
	timeout      time.Duration
	maxPages     int
	pollInterval time.Duration
	transport    http.RoundTripper
	logger       *slog.Logger
}

// NewClient constructs a web client with the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = defaultBaseURL
	}
	base, err := url.Parse(strings.TrimSuffix(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("tenupweb: parsing base URL: %w", err)
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &Client{
		baseURL:      base,
		userAgent:    cfg.UserAgent,
		timeout:      timeout,
		maxPages:     maxPages,
		pollInterval: pollInterval,
		transport:    cfg.Transport,
		logger:       cfg.Logger,
	}, nil
}

// FetchTournaments runs the full search: parse and install the cookie
// header, negotiate form tokens, then page through results until the
// reported total is collected, a page adds nothing new, the page cap is
// hit, or a later page fails. Later-page failures never discard what was
// already collected.
func (c *Client) FetchTournaments(ctx context.Context, cookieHeader string, q domain.Query) (domain.SearchResult, error) {
	sess, err := newSession(c.baseURL, cookieHeader, c.userAgent, c.timeout, c.transport)
	if err != nil {
		return domain.SearchResult{}, err
	}

	state, err := c.negotiate(ctx, sess)
	if err != nil {
		return domain.SearchResult{}, err
	}

	payload := buildPayload(q, state)
	themeToken := state.themeToken
	col := newCollector()
	total := 0

	markSearch(payload)
	dirs, err := c.submitPage(ctx, sess, payload)
	switch {
	case err == nil:
		added, pageTotal, totalSeen := col.apply(dirs, &themeToken)
		if totalSeen {
			total = pageTotal
		}
		providers.LogTier(ctx, c.logger, slog.LevelInfo, providerName, "search page collected",
			slog.Int("page", 0), slog.Int("new_items", added), slog.Int("reported_total", total))
	case errors.Is(err, errMalformedPage):
		providers.LogTier(ctx, c.logger, slog.LevelWarn, providerName, "discarding malformed search page",
			slog.Int("page", 0), "error", err)
	default:
		return domain.SearchResult{}, err
	}

	for page := 1; page < c.maxPages; page++ {
		if len(col.items) >= total {
			break
		}

		markNextPage(payload, page, themeToken)
		dirs, err := c.submitPage(ctx, sess, payload)
		if err != nil {
			// Partial results are still worth returning.
			providers.LogTier(ctx, c.logger, slog.LevelWarn, providerName, "pagination stopped on error",
				slog.Int("page", page), "error", err)
			break
		}

		added, _, _ := col.apply(dirs, &themeToken)
		providers.LogTier(ctx, c.logger, slog.LevelInfo, providerName, "search page collected",
			slog.Int("page", page), slog.Int("new_items", added))
		if added == 0 {
			break
		}
	}

	return domain.SearchResult{
		Count:    len(col.items),
		Items:    col.items,
		Source:   domain.SourceTenupWeb,
		TotalAPI: &total,
	}, nil
}

func (c *Client) submitPage(ctx context.Context, sess *session, payload url.Values) ([]directive, error) {
	resp, err := sess.postForm(ctx, c.baseURL.String()+ajaxPath, payload)
	if err != nil {
		return nil, fmt.Errorf("tenupweb: submitting search form: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &providers.UpstreamError{
			Provider: providerName,
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(body)),
		}
	}

	var dirs []directive
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&dirs); err != nil {
		return nil, fmt.Errorf("%w: %s", errMalformedPage, err)
	}
	return dirs, nil
}
