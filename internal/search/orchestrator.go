// Package search coordinates the tiered tournament lookup: cached
// results first, then the mobile API, then the scraped web site, with a
// headless browser as the last resort for earning fresh session cookies.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tenup-padel-service/internal/cache"
	"tenup-padel-service/internal/domain"
	"tenup-padel-service/internal/metrics"
	"tenup-padel-service/internal/providers"
)

// ErrSourcesExhausted means every tier was tried and none produced a
// result. Callers should surface it as a bad-gateway condition.
var ErrSourcesExhausted = errors.New("all tournament sources failed")

// CredentialStore supplies the tokens and cookies the tiers need and
// persists refreshed ones.
type CredentialStore interface {
	LoadTokenBundle() (domain.TokenBundle, bool)
	SaveTokenBundle(bundle domain.TokenBundle) error
	LoadCookieHeader() (string, bool)
}

type state int

const (
	stateCacheCheck state = iota
	stateMobilePrimary
	stateMobileRefreshRetry
	stateWebSecondary
	stateHeadlessRefresh
	stateWebRetry
	stateDone
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateCacheCheck:
		return "cache_check"
	case stateMobilePrimary:
		return "mobile_primary"
	case stateMobileRefreshRetry:
		return "mobile_refresh_retry"
	case stateWebSecondary:
		return "web_secondary"
	case stateHeadlessRefresh:
		return "headless_refresh"
	case stateWebRetry:
		return "web_retry"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// Orchestrator walks the tiers for one search. Any tier dependency may
// be nil, in which case that tier is skipped.
type Orchestrator struct {
	mobile   providers.MobileSource
	web      providers.WebSource
	tokens   providers.TokenRefresher
	cookies  providers.CookieRefresher
	creds    CredentialStore
	cache    *cache.Cache
	recorder *metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

type Config struct {
	Mobile   providers.MobileSource
	Web      providers.WebSource
	Tokens   providers.TokenRefresher
	Cookies  providers.CookieRefresher
	Creds    CredentialStore
	Cache    *cache.Cache
	Recorder *metrics.Recorder
	Logger   *slog.Logger
}

func NewOrchestrator(cfg Config) *Orchestrator {
	return &Orchestrator{
		mobile:   cfg.Mobile,
		web:      cfg.Web,
		tokens:   cfg.Tokens,
		cookies:  cfg.Cookies,
		creds:    cfg.Creds,
		cache:    cfg.Cache,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
		now:      time.Now,
	}
}

// run carries the mutable pieces one search threads through its states.
type run struct {
	query        domain.Query
	fingerprint  string
	bundle       domain.TokenBundle
	cookieHeader string
	result       domain.SearchResult
	lastErr      error
	// surfaceErr marks lastErr as a terminal upstream failure that must
	// reach the caller unwrapped rather than as source exhaustion.
	surfaceErr bool
}

// Search resolves a query through the tier cascade. The first tier that
// yields a result wins; its output is cached and returned. When the
// cascade bottoms out, the last tier error is wrapped in
// ErrSourcesExhausted, except for a web upstream failure that no cookie
// refresh could cure, which is returned as-is.
func (o *Orchestrator) Search(ctx context.Context, q domain.Query) (domain.SearchResult, error) {
	started := o.now()
	r := &run{query: q, fingerprint: q.Fingerprint()}

	st := stateCacheCheck
	for st != stateDone && st != stateFailed {
		if err := ctx.Err(); err != nil {
			return domain.SearchResult{}, err
		}
		next := o.step(ctx, st, r)
		o.logf(ctx, slog.LevelDebug, "search transition",
			slog.String("from", st.String()), slog.String("to", next.String()))
		st = next
	}

	if st == stateFailed {
		o.recorder.RecordSearch("failed", o.now().Sub(started))
		switch {
		case r.surfaceErr:
			return domain.SearchResult{}, r.lastErr
		case r.lastErr != nil:
			return domain.SearchResult{}, fmt.Errorf("%w: %w", ErrSourcesExhausted, r.lastErr)
		}
		return domain.SearchResult{}, ErrSourcesExhausted
	}

	o.recorder.RecordSearch(r.result.Source, o.now().Sub(started))
	return r.result, nil
}

func (o *Orchestrator) step(ctx context.Context, st state, r *run) state {
	switch st {
	case stateCacheCheck:
		return o.checkCache(ctx, r)
	case stateMobilePrimary:
		return o.tryMobile(ctx, r, stateMobileRefreshRetry)
	case stateMobileRefreshRetry:
		return o.refreshAndRetryMobile(ctx, r)
	case stateWebSecondary:
		return o.tryWeb(ctx, r, stateHeadlessRefresh)
	case stateHeadlessRefresh:
		return o.refreshCookies(ctx, r)
	case stateWebRetry:
		return o.tryWeb(ctx, r, stateFailed)
	}
	return stateFailed
}

func (o *Orchestrator) checkCache(ctx context.Context, r *run) state {
	if o.cache != nil {
		if result, ok := o.cache.Get(r.fingerprint); ok {
			o.recorder.RecordCacheLookup(true)
			o.logf(ctx, slog.LevelInfo, "serving cached result", slog.Int("count", result.Count))
			r.result = result
			return stateDone
		}
		o.recorder.RecordCacheLookup(false)
	}
	return stateMobilePrimary
}

func (o *Orchestrator) tryMobile(ctx context.Context, r *run, onUnauthorized state) state {
	if o.mobile == nil {
		return stateWebSecondary
	}
	if r.bundle.AccessToken == "" {
		if o.creds == nil {
			return stateWebSecondary
		}
		bundle, ok := o.creds.LoadTokenBundle()
		if !ok || bundle.AccessToken == "" {
			o.logf(ctx, slog.LevelInfo, "no access token available, skipping mobile tier")
			return stateWebSecondary
		}
		r.bundle = bundle
	}

	started := o.now()
	items, err := o.mobile.FetchTournaments(ctx, r.bundle.AccessToken, r.query)
	o.recorder.RecordTierAttempt(domain.SourceMobileAPI, o.now().Sub(started), err)

	switch {
	case err == nil:
		r.result = domain.SearchResult{
			Count:  len(items),
			Items:  items,
			Source: domain.SourceMobileAPI,
		}
		o.finish(ctx, r)
		return stateDone
	case errors.Is(err, providers.ErrUnauthorized):
		o.logf(ctx, slog.LevelWarn, "mobile tier rejected access token")
		r.lastErr = err
		return onUnauthorized
	default:
		o.logf(ctx, slog.LevelWarn, "mobile tier failed", "error", err)
		r.lastErr = err
		return stateWebSecondary
	}
}

// refreshAndRetryMobile trades the refresh token for a new bundle and
// gives the mobile tier exactly one more shot. Any failure here drops to
// the web tier rather than aborting the search.
func (o *Orchestrator) refreshAndRetryMobile(ctx context.Context, r *run) state {
	if o.tokens == nil || r.bundle.RefreshToken == "" {
		o.logf(ctx, slog.LevelInfo, "no refresh token available, falling through to web tier")
		return stateWebSecondary
	}

	bundle, err := o.tokens.Refresh(ctx, r.bundle.RefreshToken)
	if err != nil {
		o.logf(ctx, slog.LevelWarn, "token refresh failed", "error", err)
		r.lastErr = err
		return stateWebSecondary
	}

	if o.creds != nil {
		if err := o.creds.SaveTokenBundle(bundle); err != nil {
			o.logf(ctx, slog.LevelWarn, "could not persist refreshed tokens", "error", err)
		}
	}
	r.bundle = bundle

	// A second 401 goes straight to the web tier; one refresh per search.
	return o.tryMobile(ctx, r, stateWebSecondary)
}

func (o *Orchestrator) tryWeb(ctx context.Context, r *run, onFailure state) state {
	if o.web == nil {
		r.lastErr = coalesce(r.lastErr, errors.New("web tier unavailable"))
		return stateFailed
	}
	if r.cookieHeader == "" && o.creds != nil {
		if header, ok := o.creds.LoadCookieHeader(); ok {
			r.cookieHeader = header
		}
	}
	if r.cookieHeader == "" {
		if onFailure == stateHeadlessRefresh {
			o.logf(ctx, slog.LevelInfo, "no session cookies on hand, refreshing via browser")
			return stateHeadlessRefresh
		}
		r.lastErr = coalesce(r.lastErr, errors.New("no session cookies available"))
		return stateFailed
	}

	started := o.now()
	result, err := o.web.FetchTournaments(ctx, r.cookieHeader, r.query)
	o.recorder.RecordTierAttempt(domain.SourceTenupWeb, o.now().Sub(started), err)

	if err != nil {
		r.lastErr = err
		if errors.Is(err, providers.ErrBotWallDetected) {
			o.logf(ctx, slog.LevelWarn, "web tier blocked by anti-bot queue")
			return onFailure
		}
		o.logf(ctx, slog.LevelWarn, "web tier failed", "error", err)
		// Fresh cookies cannot cure an upstream failure. On the first
		// pass the error reaches the caller as-is; after a cookie
		// refresh it counts as exhaustion.
		if onFailure == stateHeadlessRefresh {
			r.surfaceErr = true
		}
		return stateFailed
	}

	r.result = result
	o.finish(ctx, r)
	return stateDone
}

func (o *Orchestrator) refreshCookies(ctx context.Context, r *run) state {
	if o.cookies == nil {
		r.lastErr = coalesce(r.lastErr, errors.New("cookie refresher unavailable"))
		return stateFailed
	}

	started := o.now()
	header, err := o.cookies.RefreshCookies(ctx)
	o.recorder.RecordTierAttempt("headless", o.now().Sub(started), err)

	if err != nil {
		if errors.Is(err, providers.ErrUnsupportedEnvironment) {
			o.logf(ctx, slog.LevelWarn, "browser refresh unsupported here, giving up")
		} else {
			o.logf(ctx, slog.LevelWarn, "browser cookie refresh failed", "error", err)
		}
		r.lastErr = coalesce(err, r.lastErr)
		return stateFailed
	}

	r.cookieHeader = header
	return stateWebRetry
}

func (o *Orchestrator) finish(ctx context.Context, r *run) {
	if o.cache != nil {
		o.cache.Put(r.fingerprint, r.result)
	}
	o.logf(ctx, slog.LevelInfo, "search complete",
		slog.String("source", r.result.Source), slog.Int("count", r.result.Count))
}

func (o *Orchestrator) logf(ctx context.Context, level slog.Level, msg string, args ...any) {
	if o.logger == nil {
		return
	}
	o.logger.Log(ctx, level, msg, args...)
}

func coalesce(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
