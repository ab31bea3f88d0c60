package tenupweb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"tenup-padel-service/internal/providers"
)

const searchPageHTML = `<html><body>
<form action="/system/ajax">
<input type="hidden" name="form_build_id" value="form-abc123"/>
</form>
<script>jQuery.extend(Drupal.settings, {"ajaxPageState":{"theme":"met","theme_token":"theme-xyz789"}});
var x = {"theme_token":"theme-xyz789"};</script>
</body></html>`

func newNegotiationClient(t *testing.T, srvURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:      srvURL,
		UserAgent:    "test-agent",
		PollInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func newTestSession(t *testing.T, c *Client, cookieHeader string) *session {
	t.Helper()
	sess, err := newSession(c.baseURL, cookieHeader, c.userAgent, c.timeout, nil)
	if err != nil {
		t.Fatal(err)
	}
	return sess
}

func TestNegotiateExtractsTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.WriteHeader(http.StatusOK)
		case SearchPath:
			fmt.Fprint(w, searchPageHTML)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newNegotiationClient(t, srv.URL)
	state, err := c.negotiate(context.Background(), newTestSession(t, c, "sess=abc"))
	if err != nil {
		t.Fatalf("negotiate: %v", err)
	}
	if state.buildID != "form-abc123" {
		t.Errorf("buildID = %q", state.buildID)
	}
	if state.themeToken != "theme-xyz789" {
		t.Errorf("themeToken = %q", state.themeToken)
	}
}

func TestNegotiateDetectsBotWallRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == SearchPath {
			w.Header().Set("Location", "https://site.queue-it.net/?c=fft")
			w.WriteHeader(http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newNegotiationClient(t, srv.URL)
	_, err := c.negotiate(context.Background(), newTestSession(t, c, "sess=stale"))
	if !errors.Is(err, providers.ErrBotWallDetected) {
		t.Fatalf("expected ErrBotWallDetected, got %v", err)
	}
}

func TestNegotiateFollowsClientSideRedirect(t *testing.T) {
	confirmPath := "/confirmed"
	page := fmt.Sprintf(`<html><script>
window.location = decodeURIComponent('%s');
// cookietest marker
var cookietest = true;
</script></html>`, url.QueryEscape(confirmPath))

	var sawCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SearchPath:
			fmt.Fprint(w, page)
		case confirmPath:
			if cookie, err := r.Cookie("cookietest"); err == nil && cookie.Value == "1" {
				sawCookie = true
			}
			fmt.Fprint(w, searchPageHTML)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	c := newNegotiationClient(t, srv.URL)
	state, err := c.negotiate(context.Background(), newTestSession(t, c, "sess=abc"))
	if err != nil {
		t.Fatalf("negotiate: %v", err)
	}
	if state.buildID == "" {
		t.Error("expected tokens after following the confirmation redirect")
	}
	if !sawCookie {
		t.Error("expected cookietest=1 cookie on the confirmation request")
	}
}

func TestNegotiateGivesUpWithSnippet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>nothing useful here</html>")
	}))
	defer srv.Close()

	c := newNegotiationClient(t, srv.URL)
	_, err := c.negotiate(context.Background(), newTestSession(t, c, "sess=abc"))

	var negErr *providers.NegotiationFailed
	if !errors.As(err, &negErr) {
		t.Fatalf("expected NegotiationFailed, got %v", err)
	}
	if negErr.Snippet == "" {
		t.Error("expected an HTML snippet for diagnostics")
	}
}

func TestNegotiateStopsWhenContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>retry me</html>")
	}))
	defer srv.Close()

	c := newNegotiationClient(t, srv.URL)
	c.pollInterval = time.Hour // cancellation must win over the pause

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.negotiate(ctx, newTestSession(t, c, "sess=abc"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtractFormStateRegexFallback(t *testing.T) {
	// Markup inside a script element is text to the HTML parser, so only
	// the raw-regex path can recover the build id.
	html := `<script>var f = '<input name="form_build_id" value="fallback-id">';</script> {"theme_token":"tt"}`
	state, ok := extractFormState(html)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if state.buildID != "fallback-id" || state.themeToken != "tt" {
		t.Errorf("unexpected state %+v", state)
	}
}

func TestExtractFormStateRequiresBothTokens(t *testing.T) {
	if _, ok := extractFormState(`<input name="form_build_id" value="only-id">`); ok {
		t.Error("expected failure without theme token")
	}
	if _, ok := extractFormState(`{"theme_token":"only-theme"}`); ok {
		t.Error("expected failure without form build id")
	}
}
