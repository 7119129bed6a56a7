package library

import (
	"log/slog"

	"github.com/stovelib/stove/pkg/clock"
)

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithStoreURL sets the store root used for store page links.
func WithStoreURL(u string) ImporterOption {
	return func(im *Importer) {
		if u != "" {
			im.store = u
		}
	}
}

func WithClock(c clock.Clock) ImporterOption {
	return func(im *Importer) {
		if c != nil {
			im.clock = c
		}
	}
}

func WithLogger(l *slog.Logger) ImporterOption {
	return func(im *Importer) {
		if l != nil {
			im.logger = l
		}
	}
}

// MetadataOption configures a MetadataProvider.
type MetadataOption func(*MetadataProvider)

func WithMetadataLogger(l *slog.Logger) MetadataOption {
	return func(p *MetadataProvider) {
		if l != nil {
			p.logger = l
		}
	}
}
