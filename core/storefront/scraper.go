package storefront

import (
	"context"
	"log/slog"
	"time"

	"github.com/stovelib/stove/core/logger"
	"github.com/stovelib/stove/core/webview"
	"github.com/stovelib/stove/pkg/clock"
)

const (
	DefaultRenderTimeout = 30 * time.Second
	DefaultPollInterval  = 300 * time.Millisecond
	DefaultSettleDelay   = 1200 * time.Millisecond
	gatePause            = 500 * time.Millisecond

	productMergeComponent = "645adb9a10e0716de3792b41"
	notFoundMarker        = "requested page cannot be found"
	featuresMarker        = "features="
	gameLinkMarker        = "/en/games/"
)

// JSONGetter issues GETs and decodes JSON.
type JSONGetter interface {
	GetJSON(ctx context.Context, rawURL, token string, dst any) error
}

// Scraper reads store metadata from the JSON API and from pages rendered in
// an offscreen browser.
type Scraper struct {
	client     JSONGetter
	browser    webview.Factory
	endpoints  Endpoints
	allowAdult bool
	clock      clock.Clock
	logger     *slog.Logger
	observer   func(url string, from, to RenderState)

	renderTimeout time.Duration
	pollInterval  time.Duration
	settleDelay   time.Duration
}

// NewScraper creates a Scraper. browser may be nil when only the JSON
// endpoints are used.
func NewScraper(client JSONGetter, browser webview.Factory, opts ...Option) *Scraper {
	s := &Scraper{
		client:        client,
		browser:       browser,
		endpoints:     DefaultEndpoints(),
		clock:         clock.New(),
		logger:        logger.Discard(),
		renderTimeout: DefaultRenderTimeout,
		pollInterval:  DefaultPollInterval,
		settleDelay:   DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("storefront"))
	return s
}

// GamePageURL is the English store page of a product.
func (s *Scraper) GamePageURL(productNo int64) string {
	return s.endpoints.Store + "/en/games/" + itoa(productNo)
}
