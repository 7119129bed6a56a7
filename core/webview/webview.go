package webview

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
)

// Cookie is a browser cookie as seen by the embedded view.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expires  time.Time
	Secure   bool
	HTTPOnly bool
}

// MatchesHost reports whether the cookie would be sent to host.
func (c Cookie) MatchesHost(host string) bool {
	domain := strings.TrimPrefix(strings.ToLower(c.Domain), ".")
	host = strings.ToLower(host)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// View is a browser surface driven by code. All methods may block on the
// underlying browser and honour ctx.
type View interface {
	// Navigate starts loading rawURL. It returns once navigation has begun;
	// callers poll PageSource for content.
	Navigate(ctx context.Context, rawURL string) error
	// Cookies returns every cookie in the browser profile.
	Cookies(ctx context.Context) ([]Cookie, error)
	SetCookie(ctx context.Context, rawURL string, c Cookie) error
	// DeleteCookies removes cookies called name that rawURL would receive.
	DeleteCookies(ctx context.Context, rawURL, name string) error
	// PageSource returns the current document HTML, or "" while loading.
	PageSource(ctx context.Context) (string, error)
	// Address is the URL currently displayed, after redirects.
	Address() string
	Close() error
}

// Dialog is a visible browser window the user interacts with.
type Dialog interface {
	View
	// OnLoadingChanged registers fn to run with the current address whenever
	// a page finishes loading.
	OnLoadingChanged(fn func(address string))
	// Open shows the window and blocks until it is closed or ctx is done.
	Open(ctx context.Context) error
}

// Factory creates browser surfaces sharing one cookie profile.
type Factory interface {
	NewOffscreen(ctx context.Context) (View, error)
	NewDialog(ctx context.Context, width, height int) (Dialog, error)
}

// Host returns the lower-cased host of rawURL, or "".
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// ErrUnavailable is returned by the Factory of Unavailable.
var ErrUnavailable = errors.New("webview: no browser available")

// Unavailable returns a Factory for hosts without an embedded browser. Every
// surface request fails with ErrUnavailable.
func Unavailable() Factory {
	return unavailable{}
}

type unavailable struct{}

func (unavailable) NewOffscreen(context.Context) (View, error) { return nil, ErrUnavailable }

func (unavailable) NewDialog(context.Context, int, int) (Dialog, error) { return nil, ErrUnavailable }
