package tenupweb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// session bundles the two HTTP clients used against the scraped site:
// navigation GETs must not follow redirects (redirect targets are how
// the bot wall announces itself), while form POSTs may. Both share one
// cookie jar so session cookies set during negotiation reach the AJAX
// endpoint.
type session struct {
	nav     *http.Client
	post    *http.Client
	jar     http.CookieJar
	base    *url.URL
	headers map[string]string
}

func newSession(base *url.URL, cookieHeader, userAgent string, timeout time.Duration, transport http.RoundTripper) (*session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("tenupweb: creating cookie jar: %w", err)
	}
	jar.SetCookies(base, parseCookieHeader(cookieHeader))

	s := &session{
		nav: &http.Client{
			Jar:     jar,
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
			Transport: transport,
		},
		post: &http.Client{
			Jar:       jar,
			Timeout:   timeout,
			Transport: transport,
		},
		jar:  jar,
		base: base,
		headers: map[string]string{
			"User-Agent":                userAgent,
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
			"Accept-Language":           "fr-FR,fr;q=0.9,en-US;q=0.8",
			"Cache-Control":             "max-age=0",
			"Upgrade-Insecure-Requests": "1",
		},
	}
	return s, nil
}

// get performs a navigation GET without following redirects.
func (s *session) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("tenupweb: building request for %s: %w", target, err)
	}
	s.applyHeaders(req)
	return s.nav.Do(req)
}

// postForm submits a form-encoded payload, following redirects.
func (s *session) postForm(ctx context.Context, target string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("tenupweb: building form request: %w", err)
	}
	s.applyHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	return s.post.Do(req)
}

func (s *session) setCookie(name, value string) {
	s.jar.SetCookies(s.base, []*http.Cookie{{Name: name, Value: value}})
}

func (s *session) applyHeaders(req *http.Request) {
	for k, v := range s.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
}
