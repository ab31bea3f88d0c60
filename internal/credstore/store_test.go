package credstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tenup-padel-service/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	s.getenv = func(string) string { return "" }
	return s
}

func TestSaveAndLoadTokenBundle(t *testing.T) {
	s := newTestStore(t)

	bundle := domain.TokenBundle{AccessToken: "acc", RefreshToken: "ref", ExpiresIn: 300}
	if err := s.SaveTokenBundle(bundle); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := s.LoadTokenBundle()
	if !ok {
		t.Fatal("expected bundle after save")
	}
	if got.AccessToken != "acc" || got.RefreshToken != "ref" || got.ExpiresIn != 300 {
		t.Errorf("unexpected bundle: %+v", got)
	}
}

func TestLoadTokenBundleFileWinsOverEnv(t *testing.T) {
	s := newTestStore(t)
	s.getenv = func(key string) string {
		if key == envToken {
			return `{"access_token":"from-env"}`
		}
		return ""
	}

	if err := s.SaveTokenBundle(domain.TokenBundle{AccessToken: "from-file"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := s.LoadTokenBundle()
	if !ok || got.AccessToken != "from-file" {
		t.Errorf("expected file bundle to win, got %+v ok=%v", got, ok)
	}
}

func TestLoadTokenBundleEnvFallback(t *testing.T) {
	s := newTestStore(t)
	s.getenv = func(key string) string {
		if key == envToken {
			return `{"access_token":"from-env","refresh_token":"r"}`
		}
		return ""
	}

	got, ok := s.LoadTokenBundle()
	if !ok || got.AccessToken != "from-env" {
		t.Errorf("expected env bundle, got %+v ok=%v", got, ok)
	}
}

func TestLoadTokenBundleAbsent(t *testing.T) {
	s := newTestStore(t)
	if _, ok := s.LoadTokenBundle(); ok {
		t.Error("expected no bundle")
	}
}

func TestSaveTokenBundleRejectsEmptyAccessToken(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveTokenBundle(domain.TokenBundle{}); err == nil {
		t.Error("expected error for empty access token")
	}
}

func TestCookiePrecedenceEnvOverFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(filepath.Join(s.dataDir, cookieFile), []byte("file=1"), 0o644); err != nil {
		t.Fatal(err)
	}
	s.getenv = func(key string) string {
		if key == envCookie {
			return "Cookie: env=1"
		}
		return ""
	}

	got, ok := s.LoadCookieHeader()
	if !ok || got != "env=1" {
		t.Errorf("expected env cookie with prefix stripped, got %q ok=%v", got, ok)
	}
}

func TestCookieFileOrderAndNewlineCollapse(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(filepath.Join(s.dataDir, cookieFileAlt), []byte("alt=1"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, ok := s.LoadCookieHeader()
	if !ok || got != "alt=1" {
		t.Errorf("expected fallback cookie file, got %q ok=%v", got, ok)
	}

	// cookie.txt takes precedence over cookies.txt and newlines collapse.
	if err := os.WriteFile(filepath.Join(s.dataDir, cookieFile), []byte("a=1\nb=2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, ok = s.LoadCookieHeader()
	if !ok || got != "a=1; b=2" {
		t.Errorf("expected collapsed primary cookie file, got %q ok=%v", got, ok)
	}
}

func TestSaveCookieHeaderPersists(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveCookieHeader("sess=abc; QueueITAccepted=yes"); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := s.LoadCookieHeader()
	if !ok || !strings.Contains(got, "QueueITAccepted=yes") {
		t.Errorf("expected persisted cookie header, got %q ok=%v", got, ok)
	}
}

func TestDescribeNeverLeaksSecrets(t *testing.T) {
	s := newTestStore(t)
	s.getenv = func(key string) string {
		switch key {
		case envToken:
			return `{"access_token":"super-secret","expires_in":600}`
		case envCookie:
			return "secret-cookie=value"
		}
		return ""
	}

	d := s.Describe()
	if strings.Contains(d.TokenStatus, "super-secret") {
		t.Error("token status leaked the access token")
	}
	if !strings.Contains(d.TokenStatus, "600") {
		t.Errorf("expected expiry shape in status, got %q", d.TokenStatus)
	}
	if d.CookieEnvLength != len("secret-cookie=value") {
		t.Errorf("unexpected cookie length %d", d.CookieEnvLength)
	}
}
