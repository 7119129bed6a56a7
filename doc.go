// Package stove is a client for the STOVE storefront library: it signs in
// through an embedded browser, keeps the session encrypted at rest, lists
// the account's owned games and scrapes store metadata, with every API call
// going through one shared rate limiter.
//
// # Getting started
//
//	cfg, err := stove.LoadConfig()
//	if err != nil {
//		return err
//	}
//	client, err := stove.New(ctx, cfg, browser, stove.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	owned, err := client.OwnedGames(ctx)
//	if stove.IsAuthError(err) {
//		err = client.Login(ctx)
//	}
//
// The browser argument implements webview.Factory on top of the host's
// embedded web view. Every other collaborator is built from Config.
//
// # Packages
//
//	github.com/stovelib/stove/core/auth        - Cookie session extraction, login and logout flows
//	github.com/stovelib/stove/core/config      - Environment configuration loading
//	github.com/stovelib/stove/core/games       - Owned games pagination with one refresh on 401
//	github.com/stovelib/stove/core/health      - Backend readiness probes
//	github.com/stovelib/stove/core/library     - Launcher import and metadata provider
//	github.com/stovelib/stove/core/logger      - slog setup and attribute helpers
//	github.com/stovelib/stove/core/session     - Encrypted session store and backends
//	github.com/stovelib/stove/core/storefront  - Store API, page rendering and HTML parsing
//	github.com/stovelib/stove/core/transport   - Rate-limited HTTP client with storefront headers
//	github.com/stovelib/stove/core/webview     - Browser abstraction and a scripted fake
//	github.com/stovelib/stove/pkg/async        - Futures for concurrent lookups
//	github.com/stovelib/stove/pkg/clock        - Injectable time source
//	github.com/stovelib/stove/pkg/ratelimiter  - Token bucket limiter
//	github.com/stovelib/stove/pkg/secrets      - AES-GCM with derived keys
//	github.com/stovelib/stove/integration/database/redis  - Redis connection with retry
//	github.com/stovelib/stove/integration/database/sqlite - SQLite connection and migrations
//
// # Configuration
//
// Config is read from STOVE_* variables. STOVE_SESSION_BACKEND selects where
// the session lives: memory (default), file, redis or sqlite.
package stove
