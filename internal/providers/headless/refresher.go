// Package headless refreshes site session cookies with a real browser.
// The search site sits behind a queuing service that vets clients with
// JavaScript, so when plain HTTP sessions get bounced the only way back
// in is to let a browser pass the check and harvest the cookies it earns.
package headless

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"tenup-padel-service/internal/providers"
)

const (
	defaultNavigationTimeout = 60 * time.Second
	defaultSettleDelay       = 5 * time.Second
)

// cookieSaver persists a harvested Cookie header for the HTTP tiers.
type cookieSaver interface {
	SaveCookieHeader(header string) error
}

// Config controls the browser run. Disabled short-circuits the whole
// refresher for environments with no Chrome to drive.
type Config struct {
	TargetURL         string
	CookieDomain      string
	UserAgent         string
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	Disabled          bool
	Logger            *slog.Logger
}

type Refresher struct {
	targetURL    string
	cookieDomain string
	userAgent    string
	navTimeout   time.Duration
	settleDelay  time.Duration
	disabled     bool
	saver        cookieSaver
	logger       *slog.Logger

	// harvest is swapped out in tests to avoid launching a browser.
	harvest func(ctx context.Context) ([]*cookie, error)
}

type cookie struct {
	name   string
	value  string
	domain string
}

func NewRefresher(cfg Config, saver cookieSaver) *Refresher {
	navTimeout := cfg.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = defaultNavigationTimeout
	}
	settleDelay := cfg.SettleDelay
	if settleDelay <= 0 {
		settleDelay = defaultSettleDelay
	}

	r := &Refresher{
		targetURL:    cfg.TargetURL,
		cookieDomain: cfg.CookieDomain,
		userAgent:    cfg.UserAgent,
		navTimeout:   navTimeout,
		settleDelay:  settleDelay,
		disabled:     cfg.Disabled,
		saver:        saver,
		logger:       cfg.Logger,
	}
	r.harvest = r.browseAndCollect
	return r
}

// RefreshCookies drives a browser through the target page, waits for the
// bot check to settle, and persists the resulting cookies as a single
// Cookie header. It fails fast when the environment cannot run a browser
// so callers can skip the tier instead of timing out inside it.
func (r *Refresher) RefreshCookies(ctx context.Context) (string, error) {
	if r.disabled {
		return "", fmt.Errorf("headless: browser disabled in this environment: %w", providers.ErrUnsupportedEnvironment)
	}

	providers.LogTier(ctx, r.logger, slog.LevelInfo, "headless", "starting browser cookie refresh",
		slog.String("target", r.targetURL))

	cookies, err := r.harvest(ctx)
	if err != nil {
		return "", fmt.Errorf("headless: %w", err)
	}

	header := r.assembleHeader(cookies)
	if header == "" {
		return "", fmt.Errorf("headless: browser session yielded nothing: %w", providers.ErrNoCookiesObtained)
	}

	if r.saver != nil {
		if err := r.saver.SaveCookieHeader(header); err != nil {
			return "", fmt.Errorf("headless: persisting cookies: %w", err)
		}
	}

	providers.LogTier(ctx, r.logger, slog.LevelInfo, "headless", "browser cookie refresh complete",
		slog.Int("cookies", len(cookies)))
	return header, nil
}

func (r *Refresher) browseAndCollect(ctx context.Context) ([]*cookie, error) {
	ctx, cancel := context.WithTimeout(ctx, r.navTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(r.userAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var raw []*cookie
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(r.targetURL),
		chromedp.WaitReady("body"),
		// The queuing service redirects back once its check passes;
		// give it time to finish before reading the jar.
		chromedp.Sleep(r.settleDelay),
		chromedp.ActionFunc(func(ctx context.Context) error {
			browserCookies, err := storage.GetCookies().Do(ctx)
			if err != nil {
				return fmt.Errorf("reading browser cookies: %w", err)
			}
			for _, bc := range browserCookies {
				raw = append(raw, &cookie{name: bc.Name, value: bc.Value, domain: bc.Domain})
			}
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("driving browser: %w", err)
	}
	return raw, nil
}

// assembleHeader builds a Cookie header from cookies scoped to the target
// domain. When domain filtering leaves nothing, every cookie is kept; a
// badly scoped cookie beats an empty session.
func (r *Refresher) assembleHeader(cookies []*cookie) string {
	matched := make([]*cookie, 0, len(cookies))
	for _, c := range cookies {
		if r.cookieDomain == "" || strings.Contains(c.domain, r.cookieDomain) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		matched = cookies
	}

	pairs := make([]string, 0, len(matched))
	for _, c := range matched {
		if c.name == "" {
			continue
		}
		pairs = append(pairs, c.name+"="+c.value)
	}
	return strings.Join(pairs, "; ")
}
