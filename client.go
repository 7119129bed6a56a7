package stove

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/stovelib/stove/core/auth"
	"github.com/stovelib/stove/core/games"
	"github.com/stovelib/stove/core/health"
	"github.com/stovelib/stove/core/library"
	"github.com/stovelib/stove/core/logger"
	"github.com/stovelib/stove/core/session"
	"github.com/stovelib/stove/core/storefront"
	"github.com/stovelib/stove/core/transport"
	"github.com/stovelib/stove/core/webview"
	redisdb "github.com/stovelib/stove/integration/database/redis"
	"github.com/stovelib/stove/integration/database/sqlite"
	"github.com/stovelib/stove/pkg/clock"
	"github.com/stovelib/stove/pkg/ratelimiter"
)

// Client is the storefront account: session handling, owned games and store
// metadata behind one rate-limited transport.
type Client struct {
	cfg          Config
	logger       *slog.Logger
	clock        clock.Clock
	limiter      transport.Limiter
	backend      session.Backend
	scopeKey     []byte
	roundTripper http.RoundTripper
	browser      webview.Factory

	transport *transport.Client
	sessions  *session.Store
	auth      *auth.Coordinator
	games     *games.Fetcher
	scraper   *storefront.Scraper
	checks    []health.Check

	closeOnce sync.Once
	closeErr  error
}

// New wires a Client from cfg. browser hosts the login dialog, cookie
// extraction and page rendering. A nil browser leaves only the API calls
// working, with a session stored through SaveSession.
func New(ctx context.Context, cfg Config, browser webview.Factory, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if browser == nil {
		browser = webview.Unavailable()
	}

	c := &Client{
		cfg:     cfg,
		logger:  logger.Discard(),
		clock:   clock.New(),
		browser: browser,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.limiter == nil {
		store := ratelimiter.NewMemoryStore(
			ratelimiter.WithMemoryStoreLogger(c.logger),
			ratelimiter.WithMemoryStoreClock(c.clock.Now),
		)
		bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
			Capacity:       cfg.RateLimit,
			RefillRate:     cfg.RateLimit,
			RefillInterval: cfg.RateInterval,
		})
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		c.limiter = bucket
	}

	tOpts := []transport.Option{
		transport.WithLimiter(c.limiter),
		transport.WithTimeout(cfg.HTTPTimeout),
		transport.WithLogger(c.logger),
		transport.WithClock(c.clock.Now),
		transport.WithHeaders(transport.Headers{
			Locale:     cfg.Locale,
			DeviceType: cfg.DeviceType,
			Timezone:   cfg.Timezone,
			UserAgent:  cfg.UserAgent,
			Origin:     cfg.StoreURL,
		}),
	}
	if c.roundTripper != nil {
		tOpts = append(tOpts, transport.WithRoundTripper(c.roundTripper))
	}
	tc, err := transport.New(tOpts...)
	if err != nil {
		return nil, err
	}
	c.transport = tc

	if c.backend == nil {
		if err := c.openBackend(ctx); err != nil {
			_ = tc.Close()
			return nil, err
		}
	}

	sOpts := []session.Option{session.WithLogger(c.logger), session.WithClock(c.clock.Now)}
	if c.scopeKey != nil {
		sOpts = append(sOpts, session.WithScopeKey(c.scopeKey))
	}
	c.sessions = session.NewStore(c.backend, cfg.AppSecret, sOpts...)

	endpoints := auth.Endpoints{Store: cfg.StoreURL, Accounts: cfg.AccountsURL, WWW: cfg.WWWURL}
	extractor := auth.NewExtractor(browser,
		auth.WithExtractorEndpoints(endpoints),
		auth.WithExtractorClock(c.clock),
		auth.WithExtractorLogger(c.logger),
	)
	c.auth = auth.NewCoordinator(c.sessions, extractor, browser,
		auth.WithEndpoints(endpoints),
		auth.WithClock(c.clock),
		auth.WithLogger(c.logger),
	)

	c.games = games.NewFetcher(tc, c.auth,
		games.WithBaseURL(cfg.APIURL),
		games.WithPageSize(cfg.PageSize),
		games.WithClock(c.clock.Now),
		games.WithLogger(c.logger),
	)

	c.scraper = c.newScraper(cfg.AllowAdultContent)

	return c, nil
}

func (c *Client) newScraper(allowAdult bool) *storefront.Scraper {
	return storefront.NewScraper(c.transport, c.browser,
		storefront.WithEndpoints(storefront.Endpoints{API: c.cfg.APIURL, Store: c.cfg.StoreURL, Image: c.cfg.ImageURL}),
		storefront.WithAdultContent(allowAdult),
		storefront.WithClock(c.clock),
		storefront.WithLogger(c.logger),
	)
}

func (c *Client) openBackend(ctx context.Context) error {
	switch strings.ToLower(c.cfg.SessionBackend) {
	case "", BackendMemory:
		c.backend = session.NewMemoryBackend()

	case BackendFile:
		c.backend = session.NewFileBackend(c.cfg.SessionFile)

	case BackendRedis:
		client, err := redisdb.Connect(ctx, c.cfg.Redis)
		if err != nil {
			return fmt.Errorf("stove: session backend: %w", err)
		}
		c.backend = session.NewRedisBackend(client, c.cfg.RedisPrefix)
		c.checks = append(c.checks, health.Named(BackendRedis, redisdb.Healthcheck(client)))

	case BackendSQLite:
		db, err := sqlite.Open(ctx, c.cfg.SQLite)
		if err != nil {
			return fmt.Errorf("stove: session backend: %w", err)
		}
		if err := sqlite.Migrate(ctx, db, c.logger); err != nil {
			_ = db.Close()
			return fmt.Errorf("stove: session backend: %w", err)
		}
		c.backend = session.NewSQLiteBackend(db)
		c.checks = append(c.checks, health.Named(BackendSQLite, sqlite.Healthcheck(db)))

	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.cfg.SessionBackend)
	}

	c.logger.Debug("session backend ready", slog.String("backend", c.cfg.SessionBackend))
	return nil
}

// IsLoggedIn reports whether a usable session exists or can be extracted.
func (c *Client) IsLoggedIn(ctx context.Context) bool {
	return c.auth.IsLoggedIn(ctx)
}

// Session returns the current session, extracting one from the browser when
// nothing valid is stored.
func (c *Client) Session(ctx context.Context) (session.Session, error) {
	return c.auth.Session(ctx)
}

// SaveSession stores a session obtained elsewhere, e.g. pasted by an operator.
func (c *Client) SaveSession(ctx context.Context, sess session.Session) error {
	if sess.IssuedVia == "" {
		sess.IssuedVia = session.SourceManual
	}
	return c.sessions.Save(ctx, sess)
}

// Login opens the interactive login dialog.
func (c *Client) Login(ctx context.Context) error {
	return c.auth.Login(ctx)
}

// Logout signs out of the browser profile and forgets the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.auth.Logout(ctx)
}

// InvalidateSession drops the stored token; the next call re-extracts.
func (c *Client) InvalidateSession(ctx context.Context) error {
	return c.auth.Invalidate(ctx)
}

// ClearSession forgets the stored token and member number without touching
// the browser profile.
func (c *Client) ClearSession(ctx context.Context) error {
	return c.sessions.Clear(ctx)
}

// OwnedGames fetches every owned game of the signed-in account.
func (c *Client) OwnedGames(ctx context.Context) ([]games.OwnedGame, error) {
	sess, err := c.auth.Session(ctx)
	if err != nil {
		return nil, err
	}
	return c.games.FetchAll(ctx, sess)
}

func (c *Client) StoreDetails(ctx context.Context, productNo int64) (*storefront.Listing, error) {
	return c.scraper.StoreDetails(ctx, productNo)
}

func (c *Client) Description(ctx context.Context, storeURL string) (string, error) {
	return c.scraper.Description(ctx, storeURL)
}

func (c *Client) Developer(ctx context.Context, gameID string) (string, error) {
	return c.scraper.Developer(ctx, gameID)
}

func (c *Client) Publisher(ctx context.Context, gameID string) (string, error) {
	return c.scraper.Publisher(ctx, gameID)
}

func (c *Client) RenderPage(ctx context.Context, rawURL, marker string) (string, error) {
	return c.scraper.RenderPage(ctx, rawURL, marker)
}

func (c *Client) Listing(ctx context.Context, productNo int64) (*storefront.Listing, error) {
	return c.scraper.Listing(ctx, productNo)
}

func (c *Client) ProfileGameIDs(ctx context.Context, profileURL string) ([]string, error) {
	return c.scraper.ProfileGameIDs(ctx, profileURL)
}

// NewImporter returns a library importer reading this client's account.
func (c *Client) NewImporter(n library.Notifier, settings library.Settings) *library.Importer {
	return library.NewImporter(c, n, settings,
		library.WithStoreURL(c.cfg.StoreURL),
		library.WithClock(c.clock),
		library.WithLogger(c.logger),
	)
}

// NewMetadataProvider returns a metadata provider reading this client's store.
// settings.AllowAdultGames enables adult pages for this provider even when
// the client configuration does not.
func (c *Client) NewMetadataProvider(settings library.Settings) *library.MetadataProvider {
	var store library.StoreReader = c
	if settings.AllowAdultGames && !c.cfg.AllowAdultContent {
		store = c.newScraper(true)
	}
	return library.NewMetadataProvider(store, settings, library.WithMetadataLogger(c.logger))
}

// Health probes the session backend.
func (c *Client) Health(ctx context.Context) error {
	return health.Readiness(ctx, c.logger, c.checks...)
}

// Close releases HTTP connections and the session backend.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = errors.Join(c.transport.Close(), c.sessions.Close())
	})
	return c.closeErr
}
