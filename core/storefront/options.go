package storefront

import (
	"log/slog"
	"strings"
	"time"

	"github.com/stovelib/stove/pkg/clock"
)

// Endpoints are the storefront hosts the scraper talks to.
type Endpoints struct {
	API   string // JSON API root
	Store string // rendered store pages
	Image string // image resize service
}

// DefaultEndpoints returns the production hosts.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		API:   "https://api.onstove.com",
		Store: "https://store.onstove.com",
		Image: "https://image.onstove.com",
	}
}

func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.API == "" {
		e.API = d.API
	}
	if e.Store == "" {
		e.Store = d.Store
	}
	if e.Image == "" {
		e.Image = d.Image
	}
	e.API = strings.TrimRight(e.API, "/")
	e.Store = strings.TrimRight(e.Store, "/")
	e.Image = strings.TrimRight(e.Image, "/")
	return e
}

// Option configures a Scraper.
type Option func(*Scraper)

func WithEndpoints(e Endpoints) Option {
	return func(s *Scraper) {
		s.endpoints = e.withDefaults()
	}
}

// WithAdultContent injects the age agreement cookie before every render so
// the age gate never appears.
func WithAdultContent(allow bool) Option {
	return func(s *Scraper) {
		s.allowAdult = allow
	}
}

func WithClock(c clock.Clock) Option {
	return func(s *Scraper) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scraper) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRenderTimings overrides the render wait bounds. Zero values keep the
// defaults.
func WithRenderTimings(timeout, poll, settle time.Duration) Option {
	return func(s *Scraper) {
		if timeout > 0 {
			s.renderTimeout = timeout
		}
		if poll > 0 {
			s.pollInterval = poll
		}
		if settle > 0 {
			s.settleDelay = settle
		}
	}
}

// WithObserver registers fn to receive every render state transition.
func WithObserver(fn func(url string, from, to RenderState)) Option {
	return func(s *Scraper) {
		s.observer = fn
	}
}
