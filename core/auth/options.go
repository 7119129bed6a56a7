package auth

import (
	"log/slog"
	"time"

	"github.com/stovelib/stove/pkg/clock"
)

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithExtractorEndpoints overrides the storefront addresses.
func WithExtractorEndpoints(e Endpoints) ExtractorOption {
	return func(x *Extractor) { x.endpoints = e }
}

// WithMemberSources sets the member number decoder order. Empty is ignored.
func WithMemberSources(sources ...MemberSource) ExtractorOption {
	return func(x *Extractor) {
		if len(sources) > 0 {
			x.sources = sources
		}
	}
}

// WithExtractorClock sets the clock used for settle and retry delays.
func WithExtractorClock(c clock.Clock) ExtractorOption {
	return func(x *Extractor) {
		if c != nil {
			x.clock = c
		}
	}
}

// WithExtractorLogger sets the logger.
func WithExtractorLogger(l *slog.Logger) ExtractorOption {
	return func(x *Extractor) {
		if l != nil {
			x.logger = l
		}
	}
}

// WithSettleDelay sets the pause after each navigation before reading cookies.
func WithSettleDelay(d time.Duration) ExtractorOption {
	return func(x *Extractor) {
		if d >= 0 {
			x.settleDelay = d
		}
	}
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithEndpoints overrides the storefront addresses.
func WithEndpoints(e Endpoints) CoordinatorOption {
	return func(c *Coordinator) { c.endpoints = e }
}

// WithClock sets the clock used for login and logout delays.
func WithClock(cl clock.Clock) CoordinatorOption {
	return func(c *Coordinator) {
		if cl != nil {
			c.clock = cl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}
