package games

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stovelib/stove/core/auth"
	"github.com/stovelib/stove/core/logger"
	"github.com/stovelib/stove/core/session"
	"github.com/stovelib/stove/core/transport"
)

const (
	DefaultAPIBaseURL = "https://api.onstove.com"
	DefaultPageSize   = 30
)

// JSONGetter issues authenticated GETs and decodes JSON.
type JSONGetter interface {
	GetJSON(ctx context.Context, rawURL, token string, dst any) error
}

// SessionRefresher replaces a rejected session.
type SessionRefresher interface {
	Refresh(ctx context.Context) (session.Session, error)
	Invalidate(ctx context.Context) error
}

// Fetcher pages through the owned-games endpoint.
type Fetcher struct {
	client   JSONGetter
	auth     SessionRefresher
	baseURL  string
	pageSize int
	now      func() time.Time
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(client JSONGetter, refresher SessionRefresher, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   client,
		auth:     refresher,
		baseURL:  DefaultAPIBaseURL,
		pageSize: DefaultPageSize,
		now:      time.Now,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.baseURL = strings.TrimRight(f.baseURL, "/")
	return f
}

// FetchAll returns every owned game, requesting pages one after another from
// page 1 until total_pages is passed or a page comes back empty.
//
// A 401 triggers one session refresh per call, after which the same page is
// retried. A further 401, or a failed refresh, invalidates the session and
// returns ErrUnauthorized without partial results. Any other failure ends
// pagination and returns what was collected so far with a nil error.
// Cancelling ctx returns the collected records with ctx.Err().
func (f *Fetcher) FetchAll(ctx context.Context, sess session.Session) ([]OwnedGame, error) {
	log := f.logger.With(
		logger.Component("games"),
		logger.CorrelationID(uuid.NewString()),
		logger.MemberNo(sess.MemberNo),
	)

	var (
		result     []OwnedGame
		page       = 1
		totalPages = 1
		refreshed  bool
	)

	for page <= totalPages {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		resp, err := f.fetchPage(ctx, sess, page)
		if transport.StatusCode(err) == http.StatusUnauthorized {
			if refreshed {
				log.WarnContext(ctx, "unauthorized after refresh", logger.Page(page))
				f.invalidate(ctx, log)
				return nil, ErrUnauthorized
			}
			refreshed = true

			log.InfoContext(ctx, "unauthorized, refreshing session", logger.Page(page))
			next, rerr := f.auth.Refresh(ctx)
			if rerr != nil {
				f.invalidate(ctx, log)
				return nil, fmt.Errorf("%w: %w", ErrUnauthorized, rerr)
			}
			sess = next
			continue
		}
		if err != nil {
			log.ErrorContext(ctx, "owned games page failed, returning partial result",
				logger.Page(page), logger.Count("records", len(result)), logger.Error(err))
			break
		}

		if resp.Value == nil || len(resp.Value.Content) == 0 {
			log.DebugContext(ctx, "owned games page empty", logger.Page(page))
			break
		}

		for _, r := range resp.Value.Content {
			result = append(result, r.toOwnedGame())
		}
		totalPages = resp.Value.TotalPages
		log.DebugContext(ctx, "owned games page fetched",
			logger.Page(page),
			slog.Int("total_pages", totalPages),
			logger.Count("records", len(resp.Value.Content)),
		)
		page++
	}

	log.InfoContext(ctx, "owned games fetched", logger.Count("records", len(result)))
	return result, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, sess session.Session, page int) (*ownedGamesResponse, error) {
	q := url.Values{}
	q.Set("member_no", strconv.FormatInt(sess.MemberNo, 10))
	q.Set("product_type", "GAME")
	q.Set("size", strconv.Itoa(f.pageSize))
	q.Set("page", strconv.Itoa(page))
	q.Set("timestemp", strconv.FormatInt(f.now().UnixMilli(), 10))

	var resp ownedGamesResponse
	if err := f.client.GetJSON(ctx, f.baseURL+"/myindie/v1.1/own-games?"+q.Encode(), sess.AccessToken, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (f *Fetcher) invalidate(ctx context.Context, log *slog.Logger) {
	if err := f.auth.Invalidate(ctx); err != nil {
		log.WarnContext(ctx, "session invalidation failed", logger.Error(err))
	}
}

var _ SessionRefresher = (*auth.Coordinator)(nil)
