package auth_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stovelib/stove/core/auth"
	"github.com/stovelib/stove/core/session"
	"github.com/stovelib/stove/core/webview"
	"github.com/stovelib/stove/core/webview/webviewtest"
	"github.com/stovelib/stove/pkg/clock"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func token(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-side"))
	require.NoError(t, err)
	return s
}

func bearer(value string) webview.Cookie {
	return webview.Cookie{Name: auth.CookieBearer, Value: value, Domain: ".onstove.com", Path: "/"}
}

func newExtractor(browser *webviewtest.Browser, fake *clock.Fake) *auth.Extractor {
	return auth.NewExtractor(browser, auth.WithExtractorClock(fake))
}

func TestExtractor_BearerWithMember(t *testing.T) {
	t.Parallel()

	exp := testNow.Add(time.Hour)
	tok := token(t, jwt.MapClaims{"member_no": 1001, "exp": exp.Unix()})

	browser := webviewtest.New()
	browser.Handle("https://store.onstove.com/", webviewtest.Page{SetCookies: []webview.Cookie{bearer(tok)}})
	fake := clock.NewFake(testNow)

	sess, ok := newExtractor(browser, fake).Extract(context.Background())
	require.True(t, ok)
	assert.Equal(t, tok, sess.AccessToken)
	assert.Equal(t, int64(1001), sess.MemberNo)
	assert.Equal(t, session.SourceCookie, sess.IssuedVia)
	assert.True(t, sess.ExpiresAt.Equal(exp))

	assert.Equal(t, []string{"https://store.onstove.com/"}, browser.Navigations())
	assert.Equal(t, 2*time.Second, fake.Slept())
	assert.Equal(t, 1, browser.Closed())
}

func TestExtractor_FallsBackToAccounts(t *testing.T) {
	t.Parallel()

	tok := token(t, jwt.MapClaims{"member_no": 5})

	browser := webviewtest.New()
	browser.Handle("https://accounts.onstove.com/", webviewtest.Page{SetCookies: []webview.Cookie{bearer(tok)}})

	sess, ok := newExtractor(browser, clock.NewFake(testNow)).Extract(context.Background())
	require.True(t, ok)
	assert.Equal(t, int64(5), sess.MemberNo)
	assert.Equal(t, []string{"https://store.onstove.com/", "https://accounts.onstove.com/"}, browser.Navigations())
}

func TestExtractor_NoBearer(t *testing.T) {
	t.Parallel()

	browser := webviewtest.New()

	_, ok := newExtractor(browser, clock.NewFake(testNow)).Extract(context.Background())
	assert.False(t, ok)
	assert.Equal(t, []string{
		"https://store.onstove.com/",
		"https://accounts.onstove.com/",
		"https://store.onstove.com/",
	}, browser.Navigations())
}

func TestExtractor_ExpiredToken(t *testing.T) {
	t.Parallel()

	browser := webviewtest.New()
	browser.AddCookie(bearer(token(t, jwt.MapClaims{"member_no": 1, "exp": testNow.Add(-time.Minute).Unix()})))

	_, ok := newExtractor(browser, clock.NewFake(testNow)).Extract(context.Background())
	assert.False(t, ok)
}

func TestExtractor_MemberFromProfileCookie(t *testing.T) {
	t.Parallel()

	browser := webviewtest.New()
	browser.AddCookie(bearer(token(t, jwt.MapClaims{"sub": "not-a-number"})))
	browser.AddCookie(webview.Cookie{
		Name:   auth.CookieProfile,
		Value:  base64.StdEncoding.EncodeToString([]byte(`{"member_no":2002}`)),
		Domain: ".onstove.com",
	})

	sess, ok := newExtractor(browser, clock.NewFake(testNow)).Extract(context.Background())
	require.True(t, ok)
	assert.Equal(t, int64(2002), sess.MemberNo)
	assert.True(t, sess.ExpiresAt.IsZero())
}

func TestExtractor_MemberFromLegacyCookie(t *testing.T) {
	t.Parallel()

	browser := webviewtest.New()
	browser.AddCookie(bearer("opaque"))
	browser.AddCookie(webview.Cookie{
		Name:   auth.CookieIdentity,
		Value:  url.QueryEscape(url.QueryEscape(`{"member_no":3003}`)),
		Domain: ".onstove.com",
	})

	sess, ok := newExtractor(browser, clock.NewFake(testNow)).Extract(context.Background())
	require.True(t, ok)
	assert.Equal(t, int64(3003), sess.MemberNo)
}

func TestExtractor_SourceOrder(t *testing.T) {
	t.Parallel()

	browser := webviewtest.New()
	browser.AddCookie(bearer(token(t, jwt.MapClaims{"member_no": 1})))
	browser.AddCookie(webview.Cookie{
		Name:   auth.CookieProfile,
		Value:  base64.StdEncoding.EncodeToString([]byte(`{"member_no":2}`)),
		Domain: ".onstove.com",
	})

	x := auth.NewExtractor(browser,
		auth.WithExtractorClock(clock.NewFake(testNow)),
		auth.WithMemberSources(auth.MemberFromProfile, auth.MemberFromBearer),
	)
	sess, ok := x.Extract(context.Background())
	require.True(t, ok)
	assert.Equal(t, int64(2), sess.MemberNo)
}

func TestExtractor_MemberRetriesThenGivesUp(t *testing.T) {
	t.Parallel()

	browser := webviewtest.New()
	browser.AddCookie(bearer("opaque"))
	fake := clock.NewFake(testNow)

	_, ok := newExtractor(browser, fake).Extract(context.Background())
	assert.False(t, ok)

	// settle, three 1s retries, one more navigation and settle
	assert.Equal(t, 2*time.Second+3*time.Second+2*time.Second, fake.Slept())
	assert.Equal(t, []string{"https://store.onstove.com/", "https://store.onstove.com/"}, browser.Navigations())
}

func TestExtractor_MemberAppearsAfterRenavigation(t *testing.T) {
	t.Parallel()

	browser := webviewtest.New()
	browser.AddCookie(bearer("opaque"))
	browser.Handle("https://store.onstove.com/", webviewtest.Page{
		SetCookies: []webview.Cookie{{
			Name:   auth.CookieProfile,
			Value:  base64.StdEncoding.EncodeToString([]byte(`{"member_no":4004}`)),
			Domain: ".onstove.com",
		}},
		CookiesFromVisit: 2,
	})

	sess, ok := newExtractor(browser, clock.NewFake(testNow)).Extract(context.Background())
	require.True(t, ok)
	assert.Equal(t, int64(4004), sess.MemberNo)
	assert.Equal(t, 2, browser.Visits("https://store.onstove.com/"))
}

func TestExtractor_OffscreenError(t *testing.T) {
	t.Parallel()

	browser := webviewtest.New()
	browser.OffscreenErr = errors.New("no browser")

	_, ok := newExtractor(browser, clock.NewFake(testNow)).Extract(context.Background())
	assert.False(t, ok)
}
