package tenupweb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"tenup-padel-service/internal/providers"
)

// formState holds the two short-lived tokens the AJAX search protocol
// requires, obtained from the search page per negotiation.
type formState struct {
	buildID    string
	themeToken string
}

var (
	// The markup patterns are fragile by nature; keeping them here,
	// behind the negotiator, means a site change only touches this file.
	formBuildIDPattern  = regexp.MustCompile(`name="form_build_id"[^>]*value="([^"]+)"`)
	themeTokenPattern   = regexp.MustCompile(`"theme_token":"([^"]+)"`)
	clientRedirectRegex = regexp.MustCompile(`decodeURIComponent\('([^']+)'\)`)
)

// negotiate walks the search page until both form tokens can be
// extracted. It primes session cookies against the site root first, then
// follows at most negotiationAttempts redirect/retry hops, pausing
// between iterations. A redirect into the queuing service means the
// cookies are dead and the headless tier must take over.
func (c *Client) negotiate(ctx context.Context, sess *session) (formState, error) {
	if resp, err := sess.get(ctx, c.baseURL.String()+"/"); err == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
	}

	pause := backoff.NewConstantBackOff(c.pollInterval)
	pageURL := c.baseURL.JoinPath(SearchPath)
	var html string

	for attempt := 0; attempt < negotiationAttempts; attempt++ {
		if strings.Contains(pageURL.String(), queueItHost) {
			return formState{}, fmt.Errorf("negotiation landed on %s: %w", pageURL.Host, providers.ErrBotWallDetected)
		}

		resp, err := sess.get(ctx, pageURL.String())
		if err != nil {
			return formState{}, fmt.Errorf("tenupweb: loading search page: %w", err)
		}

		if isRedirect(resp.StatusCode) {
			location := resp.Header.Get("Location")
			resp.Body.Close()
			if strings.Contains(location, queueItHost) {
				return formState{}, fmt.Errorf("redirect to %s: %w", queueItHost, providers.ErrBotWallDetected)
			}
			pageURL = resolveRef(c.baseURL, location)
			if err := c.pause(ctx, pause); err != nil {
				return formState{}, err
			}
			continue
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		html = string(body)

		// Some sessions get a confirmation page that redirects via JS
		// with a URL-encoded target; follow it and set the cookie the
		// page would have set.
		if redirPath, ok := clientSideRedirect(html); ok {
			pageURL = resolveRef(c.baseURL, redirPath)
			sess.setCookie("cookietest", "1")
			if err := c.pause(ctx, pause); err != nil {
				return formState{}, err
			}
			continue
		}

		if state, ok := extractFormState(html); ok {
			return state, nil
		}
		if err := c.pause(ctx, pause); err != nil {
			return formState{}, err
		}
	}

	return formState{}, &providers.NegotiationFailed{Snippet: snippet(html)}
}

// pause waits for the next backoff interval or for the caller to give up.
func (c *Client) pause(ctx context.Context, policy backoff.BackOff) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(policy.NextBackOff()):
		return nil
	}
}

// extractFormState pulls form_build_id from the parsed form and
// theme_token from the inline page-state JS.
func extractFormState(html string) (formState, bool) {
	var state formState

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		if val, ok := doc.Find(`input[name="form_build_id"]`).Attr("value"); ok {
			state.buildID = val
		}
	}
	if state.buildID == "" {
		if m := formBuildIDPattern.FindStringSubmatch(html); m != nil {
			state.buildID = m[1]
		}
	}
	if m := themeTokenPattern.FindStringSubmatch(html); m != nil {
		state.themeToken = m[1]
	}

	return state, state.buildID != "" && state.themeToken != ""
}

func clientSideRedirect(html string) (string, bool) {
	if !strings.Contains(html, "decodeURIComponent") || !strings.Contains(html, "cookietest") {
		return "", false
	}
	m := clientRedirectRegex.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	decoded, err := url.QueryUnescape(m[1])
	if err != nil {
		return "", false
	}
	return decoded, true
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func resolveRef(base *url.URL, ref string) *url.URL {
	parsed, err := url.Parse(ref)
	if err != nil {
		return base
	}
	return base.ResolveReference(parsed)
}

func snippet(html string) string {
	if html == "" {
		return "no HTML received"
	}
	if len(html) > snippetLimit {
		return html[:snippetLimit]
	}
	return html
}
