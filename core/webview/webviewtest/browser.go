// Package webviewtest implements webview.Factory in memory with scripted pages.
package webviewtest

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/stovelib/stove/core/webview"
)

// Page scripts what a URL shows.
type Page struct {
	// Sources are returned by successive PageSource calls after a visit; the
	// last one repeats.
	Sources []string
	// Render, when set, replaces Sources. read counts PageSource calls since
	// the visit started.
	Render func(read int, cookies []webview.Cookie) string
	// RedirectTo makes navigation land on another URL.
	RedirectTo string
	// SetCookies are stored in the profile when the page is visited.
	SetCookies []webview.Cookie
	// CookiesFromVisit delays SetCookies until the n-th visit (1-based).
	CookiesFromVisit int
	// DeleteCookies are removed from the profile when the page is visited.
	DeleteCookies []string
}

// Deletion records one DeleteCookies call.
type Deletion struct {
	Host string
	Name string
}

// Browser is a fake cookie profile plus a URL to Page table.
type Browser struct {
	mu          sync.Mutex
	pages       map[string]Page
	visits      map[string]int
	jar         []webview.Cookie
	navigations []string
	deletions   []Deletion
	setCookies  []webview.Cookie
	dialogSizes [][2]int
	closed      int

	// Login scripts the user's behaviour inside a Dialog. Nil closes the
	// dialog immediately, as a user dismissing the window would.
	Login func(ctx context.Context, d *Dialog)
	// OffscreenErr makes NewOffscreen fail.
	OffscreenErr error
}

// New returns an empty browser.
func New() *Browser {
	return &Browser{pages: make(map[string]Page), visits: make(map[string]int)}
}

// Handle scripts rawURL. A key ending in "*" matches by prefix.
func (b *Browser) Handle(rawURL string, p Page) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pages[rawURL] = p
}

// AddCookie seeds the profile.
func (b *Browser) AddCookie(c webview.Cookie) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.putCookie(c)
}

// Jar returns a copy of the profile cookies.
func (b *Browser) Jar() []webview.Cookie {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]webview.Cookie(nil), b.jar...)
}

// Navigations lists every requested URL in order.
func (b *Browser) Navigations() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.navigations...)
}

// CountNavigations counts requested URLs containing substr.
func (b *Browser) CountNavigations(substr string) int {
	n := 0
	for _, u := range b.Navigations() {
		if strings.Contains(u, substr) {
			n++
		}
	}
	return n
}

// Visits counts navigations that landed on rawURL.
func (b *Browser) Visits(rawURL string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visits[rawURL]
}

// Deletions lists DeleteCookies calls in order.
func (b *Browser) Deletions() []Deletion {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Deletion(nil), b.deletions...)
}

// SetCookies lists cookies set through a view.
func (b *Browser) SetCookies() []webview.Cookie {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]webview.Cookie(nil), b.setCookies...)
}

// DialogSizes lists the width and height of every dialog created.
func (b *Browser) DialogSizes() [][2]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][2]int(nil), b.dialogSizes...)
}

// Closed counts closed views.
func (b *Browser) Closed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *Browser) NewOffscreen(ctx context.Context) (webview.View, error) {
	if b.OffscreenErr != nil {
		return nil, b.OffscreenErr
	}
	return &View{browser: b}, nil
}

func (b *Browser) NewDialog(ctx context.Context, width, height int) (webview.Dialog, error) {
	b.mu.Lock()
	b.dialogSizes = append(b.dialogSizes, [2]int{width, height})
	b.mu.Unlock()
	return &Dialog{View: View{browser: b}, done: make(chan struct{})}, nil
}

func (b *Browser) lookup(rawURL string) (Page, bool) {
	if p, ok := b.pages[rawURL]; ok {
		return p, true
	}
	best, found := "", false
	for key := range b.pages {
		prefix, ok := strings.CutSuffix(key, "*")
		if ok && strings.HasPrefix(rawURL, prefix) && len(prefix) >= len(best) {
			best, found = key, true
		}
	}
	if !found {
		return Page{}, false
	}
	return b.pages[best], true
}

func (b *Browser) putCookie(c webview.Cookie) {
	for i, existing := range b.jar {
		if existing.Name == c.Name && strings.EqualFold(existing.Domain, c.Domain) {
			b.jar[i] = c
			return
		}
	}
	b.jar = append(b.jar, c)
}

// View is an offscreen surface of a Browser.
type View struct {
	browser *Browser

	mu      sync.Mutex
	address string
	page    Page
	reads   int
	closed  bool
}

var errClosed = errors.New("webviewtest: view closed")

func (v *View) Navigate(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b := v.browser
	b.mu.Lock()
	b.navigations = append(b.navigations, rawURL)

	address := rawURL
	page, _ := b.lookup(rawURL)
	for hops := 0; page.RedirectTo != "" && hops < 5; hops++ {
		b.applyVisit(address, page)
		address = page.RedirectTo
		page, _ = b.lookup(address)
	}
	b.applyVisit(address, page)
	b.mu.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return errClosed
	}
	v.address = address
	v.page = page
	v.reads = 0
	return nil
}

func (b *Browser) applyVisit(address string, p Page) {
	b.visits[address]++
	if b.visits[address] >= p.CookiesFromVisit {
		for _, c := range p.SetCookies {
			b.putCookie(c)
		}
	}
	for _, name := range p.DeleteCookies {
		kept := b.jar[:0]
		for _, c := range b.jar {
			if c.Name != name {
				kept = append(kept, c)
			}
		}
		b.jar = kept
	}
}

func (v *View) Cookies(ctx context.Context) ([]webview.Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.browser.Jar(), nil
}

func (v *View) SetCookie(ctx context.Context, rawURL string, c webview.Cookie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.Domain == "" {
		c.Domain = webview.Host(rawURL)
	}
	b := v.browser
	b.mu.Lock()
	defer b.mu.Unlock()
	b.putCookie(c)
	b.setCookies = append(b.setCookies, c)
	return nil
}

func (v *View) DeleteCookies(ctx context.Context, rawURL, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	host := webview.Host(rawURL)

	b := v.browser
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletions = append(b.deletions, Deletion{Host: host, Name: name})

	kept := b.jar[:0]
	for _, c := range b.jar {
		if c.Name == name && c.MatchesHost(host) {
			continue
		}
		kept = append(kept, c)
	}
	b.jar = kept
	return nil
}

func (v *View) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	v.mu.Lock()
	page, read := v.page, v.reads
	v.reads++
	v.mu.Unlock()

	if page.Render != nil {
		return page.Render(read, v.browser.Jar()), nil
	}
	if len(page.Sources) == 0 {
		return "", nil
	}
	return page.Sources[min(read, len(page.Sources)-1)], nil
}

func (v *View) Address() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.address
}

func (v *View) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.closed = true

	v.browser.mu.Lock()
	v.browser.closed++
	v.browser.mu.Unlock()
	return nil
}

// Dialog is a fake visible window. Open runs Browser.Login.
type Dialog struct {
	View

	mu        sync.Mutex
	listeners []func(string)
	done      chan struct{}
	closeOnce sync.Once
}

func (d *Dialog) OnLoadingChanged(fn func(address string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

// Navigate loads the URL and notifies loading listeners, as a user clicking
// through the login pages would.
func (d *Dialog) Navigate(ctx context.Context, rawURL string) error {
	if err := d.View.Navigate(ctx, rawURL); err != nil {
		return err
	}

	d.mu.Lock()
	listeners := slices.Clone(d.listeners)
	d.mu.Unlock()

	address := d.Address()
	for _, fn := range listeners {
		fn(address)
	}
	return nil
}

func (d *Dialog) Open(ctx context.Context) error {
	if login := d.browser.Login; login != nil {
		go login(ctx, d)
	} else {
		_ = d.Close()
	}

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		_ = d.Close()
		return ctx.Err()
	}
}

func (d *Dialog) Close() error {
	d.closeOnce.Do(func() {
		_ = d.View.Close()
		close(d.done)
	})
	return nil
}
