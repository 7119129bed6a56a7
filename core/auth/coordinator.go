package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/stovelib/stove/core/logger"
	"github.com/stovelib/stove/core/session"
	"github.com/stovelib/stove/core/webview"
	"github.com/stovelib/stove/pkg/clock"
)

const (
	loginWidth       = 520
	loginHeight      = 700
	loginSettleDelay = 2 * time.Second
	logoutDelay      = 3 * time.Second
)

// SessionExtractor obtains a session from outside the store, normally the
// browser profile.
type SessionExtractor interface {
	Extract(ctx context.Context) (session.Session, bool)
}

// Coordinator resolves the current session and runs the login and logout
// browser flows.
type Coordinator struct {
	store     *session.Store
	extractor SessionExtractor
	browser   webview.Factory
	endpoints Endpoints
	clock     clock.Clock
	logger    *slog.Logger

	extracting singleflight.Group
}

// NewCoordinator wires a Coordinator.
func NewCoordinator(store *session.Store, extractor SessionExtractor, browser webview.Factory, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:     store,
		extractor: extractor,
		browser:   browser,
		endpoints: DefaultEndpoints(),
		clock:     clock.New(),
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.endpoints = c.endpoints.withDefaults()
	c.logger = c.logger.With(logger.Component("auth.coordinator"))
	return c
}

// IsLoggedIn reports whether a valid session is cached, persisted or can be
// extracted from the browser.
func (c *Coordinator) IsLoggedIn(ctx context.Context) bool {
	_, err := c.Session(ctx)
	return err == nil
}

// Session returns a valid session: the cached one, the persisted one, or a
// freshly extracted one. An expired session is never returned.
func (c *Coordinator) Session(ctx context.Context) (session.Session, error) {
	if sess, ok := c.store.Current(); ok {
		return sess, nil
	}

	sess, ok, err := c.store.Load(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "loading stored session failed", logger.Error(err))
	}
	if ok {
		return sess, nil
	}

	return c.extract(ctx)
}

// Refresh discards the current session and extracts a new one.
func (c *Coordinator) Refresh(ctx context.Context) (session.Session, error) {
	if err := c.Invalidate(ctx); err != nil {
		c.logger.WarnContext(ctx, "invalidate before refresh failed", logger.Error(err))
	}
	return c.extract(ctx)
}

// Invalidate drops the cached and persisted token without network activity.
func (c *Coordinator) Invalidate(ctx context.Context) error {
	return c.store.Invalidate(ctx)
}

// Concurrent callers share one browser extraction.
func (c *Coordinator) extract(ctx context.Context) (session.Session, error) {
	v, err, shared := c.extracting.Do("extract", func() (any, error) {
		sess, ok := c.extractor.Extract(ctx)
		if !ok {
			return session.Session{}, ErrNotAuthenticated
		}
		if err := c.store.Save(ctx, sess); err != nil {
			c.logger.WarnContext(ctx, "persisting session failed", logger.Error(err))
		}
		return sess, nil
	})
	if shared {
		c.logger.DebugContext(ctx, "joined in-flight extraction")
	}
	if err != nil {
		return session.Session{}, err
	}
	return v.(session.Session), nil
}

// Login clears the stored session and shows the interactive login window.
// It returns nil once the window reaches the storefront and has been closed,
// and ErrLoginCancelled if the user closes it first.
func (c *Coordinator) Login(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.WarnContext(ctx, "clearing session before login failed", logger.Error(err))
	}

	dialog, err := c.browser.NewDialog(ctx, loginWidth, loginHeight)
	if err != nil {
		return fmt.Errorf("open login window: %w", err)
	}
	closeDialog := sync.OnceFunc(func() { _ = dialog.Close() })
	defer closeDialog()

	completed := make(chan struct{})
	var once sync.Once
	dialog.OnLoadingChanged(func(address string) {
		if c.isLoginComplete(address) {
			once.Do(func() { close(completed) })
		}
	})

	openDone := make(chan struct{})
	defer close(openDone)
	go func() {
		select {
		case <-completed:
			c.logger.InfoContext(ctx, "login completed")
			_ = c.clock.Sleep(ctx, loginSettleDelay)
			select {
			case <-openDone:
			default:
				closeDialog()
			}
		case <-openDone:
		}
	}()

	if err := dialog.Navigate(ctx, c.endpoints.loginURL()); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}

	if err := dialog.Open(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	select {
	case <-completed:
		return nil
	default:
		c.logger.InfoContext(ctx, "login window closed before completion")
		return ErrLoginCancelled
	}
}

func (c *Coordinator) isLoginComplete(address string) bool {
	return strings.HasPrefix(address, c.endpoints.WWW+"/") ||
		strings.HasPrefix(address, c.endpoints.Store+"/")
}

// Logout signs the browser profile out and clears the stored session. The
// stored session is cleared even if the browser steps fail.
func (c *Coordinator) Logout(ctx context.Context) error {
	var errs []error

	view, err := c.browser.NewOffscreen(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("open logout view: %w", err))
	} else {
		defer view.Close()

		errs = append(errs, c.deleteAuthCookies(ctx, view))
		if err := view.Navigate(ctx, c.endpoints.logoutURL()); err != nil {
			errs = append(errs, fmt.Errorf("navigate logout: %w", err))
		}
		if err := c.clock.Sleep(ctx, logoutDelay); err != nil {
			errs = append(errs, err)
		}
		// The logout page can reissue cookies while it redirects.
		errs = append(errs, c.deleteAuthCookies(ctx, view))
	}

	if err := c.store.Clear(ctx); err != nil {
		errs = append(errs, err)
	}

	err = errors.Join(errs...)
	if err != nil {
		c.logger.WarnContext(ctx, "logout incomplete", logger.Error(err))
	} else {
		c.logger.InfoContext(ctx, "logged out")
	}
	return err
}

func (c *Coordinator) deleteAuthCookies(ctx context.Context, view webview.View) error {
	var errs []error
	for _, host := range c.endpoints.CookieHosts {
		for _, name := range []string{CookieBearer, CookieProfile, CookieIdentity} {
			if err := view.DeleteCookies(ctx, "https://"+host+"/", name); err != nil {
				errs = append(errs, fmt.Errorf("delete %s on %s: %w", name, host, err))
			}
		}
	}
	return errors.Join(errs...)
}
