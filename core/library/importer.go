package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stovelib/stove/core/auth"
	"github.com/stovelib/stove/core/games"
	"github.com/stovelib/stove/core/logger"
	"github.com/stovelib/stove/pkg/clock"
)

const (
	ImportErrorID          = "stove-import-error"
	ConfigurationMissingID = "stove-configuration-missing"

	importAttempts   = 3
	importRetryDelay = 2 * time.Second
	placeholderTitle = "STOVE Game"
)

// Account is the signed-in storefront account.
type Account interface {
	IsLoggedIn(ctx context.Context) bool
	OwnedGames(ctx context.Context) ([]games.OwnedGame, error)
}

// Importer turns the account's owned games into catalog entries.
type Importer struct {
	account  Account
	notifier Notifier
	settings Settings
	store    string
	clock    clock.Clock
	logger   *slog.Logger

	missingOnce sync.Once
}

// NewImporter creates an Importer.
func NewImporter(account Account, notifier Notifier, settings Settings, opts ...ImporterOption) *Importer {
	im := &Importer{
		account:  account,
		notifier: notifier,
		settings: settings,
		store:    "https://store.onstove.com",
		clock:    clock.New(),
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(im)
	}
	im.store = strings.TrimRight(im.store, "/")
	return im
}

// ImportGames returns the owned games as catalog entries.
//
// Without ConnectAccount it notifies the user once per Importer and returns
// ErrConfigurationMissing before any network activity. Otherwise it tries up
// to three times, two seconds apart. Authentication failures stop the
// retries. A failed import leaves an error notification; a successful one
// removes it.
func (im *Importer) ImportGames(ctx context.Context) ([]GameMetadata, error) {
	if !im.settings.ConnectAccount {
		im.missingOnce.Do(func() {
			im.notify(Notification{
				ID:       ConfigurationMissingID,
				Text:     "STOVE: connect your account in the library settings to import games.",
				Severity: SeverityInfo,
			})
		})
		return nil, ErrConfigurationMissing
	}

	log := im.logger.With(logger.Component("library"), logger.CorrelationID(uuid.NewString()))

	owned, err := im.fetchWithRetry(ctx, log)
	if err != nil {
		text := "STOVE library import failed: " + err.Error()
		if errors.Is(err, auth.ErrAuthenticationExpired) {
			text += "\nSign in to STOVE again from the library settings."
		}
		im.notify(Notification{ID: ImportErrorID, Text: text, Severity: SeverityError})
		log.ErrorContext(ctx, "import failed", logger.Error(err))
		return nil, err
	}
	if im.notifier != nil {
		im.notifier.Remove(ImportErrorID)
	}

	result := im.toCatalog(owned)
	log.InfoContext(ctx, "import finished",
		logger.Count("owned", len(owned)),
		logger.Count("imported", len(result)),
	)
	return result, nil
}

func (im *Importer) fetchWithRetry(ctx context.Context, log *slog.Logger) ([]games.OwnedGame, error) {
	var lastErr error
	for attempt := 1; attempt <= importAttempts; attempt++ {
		if attempt > 1 {
			if err := im.clock.Sleep(ctx, importRetryDelay); err != nil {
				return nil, err
			}
		}

		if !im.account.IsLoggedIn(ctx) {
			// Only the first attempt tolerates a missing session.
			if attempt == 1 {
				log.InfoContext(ctx, "not logged in yet, retrying", logger.RetryCount(attempt))
				lastErr = auth.ErrNotAuthenticated
				continue
			}
			return nil, auth.ErrNotAuthenticated
		}

		owned, err := im.account.OwnedGames(ctx)
		if err == nil {
			log.InfoContext(ctx, "owned games retrieved", logger.RetryCount(attempt), logger.Count("games", len(owned)))
			return owned, nil
		}
		if errors.Is(err, auth.ErrAuthenticationExpired) || ctx.Err() != nil {
			return nil, err
		}

		log.WarnContext(ctx, "owned games attempt failed", logger.RetryCount(attempt), logger.Error(err))
		lastErr = err
	}
	return nil, fmt.Errorf("after %d attempts: %w", importAttempts, lastErr)
}

func (im *Importer) toCatalog(owned []games.OwnedGame) []GameMetadata {
	result := make([]GameMetadata, 0, len(owned))
	seen := make(map[string]struct{}, len(owned))

	for _, g := range owned {
		if skip(g) {
			continue
		}

		id := g.GameID
		if id == "" {
			id = strconv.FormatInt(g.ProductNo, 10)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		result = append(result, GameMetadata{
			GameID:          id,
			Name:            strings.TrimSpace(g.Title),
			Source:          SourceName,
			Links:           []Link{{Name: StorePageLink, URL: im.store + "/en/games/" + strconv.FormatInt(g.ProductNo, 10)}},
			Platforms:       []string{PlatformWindows},
			PlaytimeSeconds: g.PlaySeconds,
			LastActivity:    g.LastPlayedAt,
			ReleaseDate:     g.ReleaseCreatedAt,
		})
	}
	return result
}

func skip(g games.OwnedGame) bool {
	title := strings.TrimSpace(g.Title)
	return !g.HasOwnership ||
		g.Demo ||
		strings.EqualFold(g.ProductDetailType, "DLC") ||
		title == "" ||
		strings.HasPrefix(title, placeholderTitle)
}

func (im *Importer) notify(n Notification) {
	if im.notifier != nil {
		im.notifier.Add(n)
	}
}
