package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/stovelib/stove/core/logger"
	"github.com/stovelib/stove/core/session"
	"github.com/stovelib/stove/core/webview"
	"github.com/stovelib/stove/pkg/clock"
)

const (
	defaultSettleDelay      = 2 * time.Second
	defaultMemberRetries    = 3
	defaultMemberRetryDelay = time.Second
)

// Extractor reads the signed-in session out of the browser profile.
type Extractor struct {
	browser          webview.Factory
	endpoints        Endpoints
	sources          []MemberSource
	clock            clock.Clock
	logger           *slog.Logger
	settleDelay      time.Duration
	memberRetries    int
	memberRetryDelay time.Duration
}

// NewExtractor creates an Extractor over browser.
func NewExtractor(browser webview.Factory, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		browser:          browser,
		endpoints:        DefaultEndpoints(),
		sources:          DefaultMemberSources,
		clock:            clock.New(),
		logger:           logger.Discard(),
		settleDelay:      defaultSettleDelay,
		memberRetries:    defaultMemberRetries,
		memberRetryDelay: defaultMemberRetryDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.endpoints = e.endpoints.withDefaults()
	return e
}

// Extract returns the session found in the browser cookies. ok is false when
// no unexpired bearer token with a member number could be found; failures
// are logged and never returned.
func (e *Extractor) Extract(ctx context.Context) (sess session.Session, ok bool) {
	log := e.logger.With(logger.Component("auth.extractor"))

	view, err := e.browser.NewOffscreen(ctx)
	if err != nil {
		log.WarnContext(ctx, "cannot open offscreen view", logger.Error(err))
		return session.Session{}, false
	}
	defer view.Close()

	// The bearer cookie appears after visiting the store; if it does not,
	// the account service may need to refresh it first.
	landings := []string{e.endpoints.storeRoot(), e.endpoints.accountsRoot(), e.endpoints.storeRoot()}

	var cookies []webview.Cookie
	var token string
	for _, landing := range landings {
		cookies = e.visit(ctx, view, landing)
		if ctx.Err() != nil {
			return session.Session{}, false
		}
		if token = cookieValue(cookies, CookieBearer); token != "" {
			break
		}
		log.DebugContext(ctx, "bearer cookie not present", logger.URL(landing))
	}
	if token == "" {
		log.InfoContext(ctx, "no bearer cookie, not signed in")
		return session.Session{}, false
	}

	claims, err := parseBearer(token)
	if err != nil {
		log.DebugContext(ctx, "bearer payload unreadable", logger.Error(err))
	}
	if !claims.ExpiresAt.IsZero() && !e.clock.Now().Before(claims.ExpiresAt) {
		log.InfoContext(ctx, "bearer token expired", slog.Time("expires_at", claims.ExpiresAt))
		return session.Session{}, false
	}

	memberNo, found := e.memberNo(ctx, cookies, claims)
	for attempt := 1; !found && attempt <= e.memberRetries; attempt++ {
		if e.clock.Sleep(ctx, e.memberRetryDelay) != nil {
			return session.Session{}, false
		}
		cookies = e.readCookies(ctx, view)
		memberNo, found = e.memberNo(ctx, cookies, claims)
		log.DebugContext(ctx, "member number retry", logger.RetryCount(attempt))
	}
	if !found {
		cookies = e.visit(ctx, view, e.endpoints.storeRoot())
		memberNo, found = e.memberNo(ctx, cookies, claims)
	}
	if !found {
		log.WarnContext(ctx, "bearer token found but member number unavailable")
		return session.Session{}, false
	}

	log.InfoContext(ctx, "session extracted", logger.MemberNo(memberNo))
	return session.Session{
		AccessToken: token,
		MemberNo:    memberNo,
		IssuedVia:   session.SourceCookie,
		ExpiresAt:   claims.ExpiresAt,
	}, true
}

func (e *Extractor) visit(ctx context.Context, view webview.View, rawURL string) []webview.Cookie {
	if err := view.Navigate(ctx, rawURL); err != nil {
		e.logger.DebugContext(ctx, "navigation failed", logger.URL(rawURL), logger.Error(err))
		return nil
	}
	if e.clock.Sleep(ctx, e.settleDelay) != nil {
		return nil
	}
	return e.readCookies(ctx, view)
}

func (e *Extractor) readCookies(ctx context.Context, view webview.View) []webview.Cookie {
	cookies, err := view.Cookies(ctx)
	if err != nil {
		e.logger.DebugContext(ctx, "reading cookies failed", logger.Error(err))
		return nil
	}
	return cookies
}

func (e *Extractor) memberNo(ctx context.Context, cookies []webview.Cookie, claims bearerClaims) (int64, bool) {
	for _, source := range e.sources {
		var (
			n   int64
			err error
		)
		switch source {
		case MemberFromBearer:
			if claims.MemberNo > 0 {
				return claims.MemberNo, true
			}
			continue
		case MemberFromProfile:
			v := cookieValue(cookies, CookieProfile)
			if v == "" {
				continue
			}
			n, err = memberFromProfile(v)
		case MemberFromIdentity:
			v := cookieValue(cookies, CookieIdentity)
			if v == "" {
				continue
			}
			n, err = memberFromIdentity(v)
		default:
			continue
		}
		if err == nil {
			return n, true
		}
		e.logger.DebugContext(ctx, "member decoder failed", slog.String("source", string(source)), logger.Error(err))
	}
	return 0, false
}

func cookieValue(cookies []webview.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name && c.Value != "" {
			return c.Value
		}
	}
	return ""
}
