package library

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/stovelib/stove/core/auth"
	"github.com/stovelib/stove/core/logger"
	"github.com/stovelib/stove/core/storefront"
	"github.com/stovelib/stove/pkg/async"
)

// StoreReader is the storefront surface metadata is read from.
type StoreReader interface {
	StoreDetails(ctx context.Context, productNo int64) (*storefront.Listing, error)
	Description(ctx context.Context, storeURL string) (string, error)
	Developer(ctx context.Context, gameID string) (string, error)
	Publisher(ctx context.Context, gameID string) (string, error)
}

// MetadataProvider fills in store metadata for imported games.
type MetadataProvider struct {
	store    StoreReader
	settings Settings
	logger   *slog.Logger
}

// NewMetadataProvider creates a MetadataProvider.
func NewMetadataProvider(store StoreReader, settings Settings, opts ...MetadataOption) *MetadataProvider {
	p := &MetadataProvider{store: store, settings: settings, logger: logger.Discard()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetMetadata returns store metadata for game. Description, developers and
// publishers are fetched concurrently and each is left empty when its lookup
// fails. Only authentication errors are returned; every other failure yields
// empty metadata.
func (p *MetadataProvider) GetMetadata(ctx context.Context, game GameMetadata) (GameMetadata, error) {
	if !p.settings.ImportMetadata {
		return GameMetadata{}, nil
	}

	log := p.logger.With(logger.Component("metadata"), logger.GameID(game.GameID))

	storeURL := game.StorePageURL()
	productNo, ok := productFromStoreURL(storeURL)
	if !ok {
		log.WarnContext(ctx, "no usable store page link", logger.URL(storeURL))
		return GameMetadata{}, nil
	}

	details, err := p.store.StoreDetails(ctx, productNo)
	if err != nil {
		if errors.Is(err, auth.ErrAuthenticationExpired) {
			return GameMetadata{}, err
		}
		log.WarnContext(ctx, "store details unavailable", logger.ProductNo(productNo), logger.Error(err))
		return GameMetadata{}, nil
	}

	description := async.Async(ctx, storeURL, p.store.Description)
	developer := async.Async(ctx, game.GameID, p.store.Developer)
	publisher := async.Async(ctx, game.GameID, p.store.Publisher)

	meta := GameMetadata{
		Name:     details.Title,
		IconURL:  details.IconURL,
		CoverURL: details.CoverURL,
		Genres:   tagNames(details.Genres),
	}
	if p.settings.ImportTags {
		meta.Tags = tagNames(details.Tags)
	}

	if v, err := description.Await(); err != nil {
		log.DebugContext(ctx, "description unavailable", logger.Error(err))
	} else {
		meta.Description = v
	}
	if v, err := developer.Await(); err != nil {
		log.DebugContext(ctx, "developer unavailable", logger.Error(err))
	} else {
		meta.Developers = splitNames(v)
	}
	if v, err := publisher.Await(); err != nil {
		log.DebugContext(ctx, "publisher unavailable", logger.Error(err))
	} else {
		meta.Publishers = splitNames(v)
	}

	return meta, nil
}

// productFromStoreURL reads the trailing product number of a store link.
func productFromStoreURL(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(path.Base(strings.TrimRight(u.Path, "/")), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func tagNames(tags []storefront.Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}
