package headless

import (
	"context"
	"errors"
	"testing"
	"time"

	"tenup-padel-service/internal/providers"
)

type recordingSaver struct {
	header string
	err    error
}

func (s *recordingSaver) SaveCookieHeader(header string) error {
	s.header = header
	return s.err
}

func TestRefreshCookiesFailsFastWhenDisabled(t *testing.T) {
	r := NewRefresher(Config{Disabled: true}, &recordingSaver{})

	start := time.Now()
	_, err := r.RefreshCookies(context.Background())
	if !errors.Is(err, providers.ErrUnsupportedEnvironment) {
		t.Fatalf("expected ErrUnsupportedEnvironment, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("disabled refresh took %v, want immediate failure", elapsed)
	}
}

func TestRefreshCookiesPersistsAssembledHeader(t *testing.T) {
	saver := &recordingSaver{}
	r := NewRefresher(Config{TargetURL: "https://tenup.fft.fr", CookieDomain: "fft.fr"}, saver)
	r.harvest = func(ctx context.Context) ([]*cookie, error) {
		return []*cookie{
			{name: "QueueITAccepted", value: "token123", domain: ".tenup.fft.fr"},
			{name: "SSESS", value: "abc", domain: "tenup.fft.fr"},
			{name: "tracker", value: "x", domain: "analytics.example.com"},
		}, nil
	}

	header, err := r.RefreshCookies(context.Background())
	if err != nil {
		t.Fatalf("RefreshCookies: %v", err)
	}

	want := "QueueITAccepted=token123; SSESS=abc"
	if header != want {
		t.Errorf("header = %q, want %q", header, want)
	}
	if saver.header != want {
		t.Errorf("saved header = %q, want %q", saver.header, want)
	}
}

func TestRefreshCookiesKeepsAllWhenDomainFilterMatchesNothing(t *testing.T) {
	r := NewRefresher(Config{CookieDomain: "fft.fr"}, &recordingSaver{})
	r.harvest = func(ctx context.Context) ([]*cookie, error) {
		return []*cookie{{name: "session", value: "v", domain: "other.example"}}, nil
	}

	header, err := r.RefreshCookies(context.Background())
	if err != nil {
		t.Fatalf("RefreshCookies: %v", err)
	}
	if header != "session=v" {
		t.Errorf("header = %q", header)
	}
}

func TestRefreshCookiesReportsEmptyJar(t *testing.T) {
	r := NewRefresher(Config{}, &recordingSaver{})
	r.harvest = func(ctx context.Context) ([]*cookie, error) {
		return nil, nil
	}

	_, err := r.RefreshCookies(context.Background())
	if !errors.Is(err, providers.ErrNoCookiesObtained) {
		t.Fatalf("expected ErrNoCookiesObtained, got %v", err)
	}
}

func TestRefreshCookiesSurfacesSaveFailure(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	r := NewRefresher(Config{}, saver)
	r.harvest = func(ctx context.Context) ([]*cookie, error) {
		return []*cookie{{name: "s", value: "v"}}, nil
	}

	if _, err := r.RefreshCookies(context.Background()); err == nil {
		t.Fatal("expected save failure to propagate")
	}
}
