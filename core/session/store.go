package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/stovelib/stove/core/logger"
	"github.com/stovelib/stove/pkg/secrets"
)

const (
	keyToken    = "token"
	keyMemberNo = "member_no"
)

// sealedToken is the plaintext of the encrypted blob. Expiry travels with the
// token so it can be re-checked on every load.
type sealedToken struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at,omitempty"`
	IssuedVia   Source `json:"issued_via,omitempty"`
}

// Store caches the current session in memory and persists it to a Backend.
// The token and its expiry are encrypted; the member number is stored as
// plain text.
type Store struct {
	mu       sync.Mutex
	backend  Backend
	appKey   []byte
	scopeKey []byte
	now      func() time.Time
	logger   *slog.Logger

	cached *Session
}

// NewStore creates a Store. appSecret is mixed into the application key;
// the scope key defaults to UserScopeKey.
func NewStore(backend Backend, appSecret string, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		appKey:  secrets.KeyFromParts("stove-session", appSecret),
		now:     time.Now,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scopeKey == nil {
		s.scopeKey = UserScopeKey()
	}
	return s
}

// Save persists sess and makes it the cached session.
func (s *Store) Save(ctx context.Context, sess Session) error {
	if sess.AccessToken == "" || sess.MemberNo <= 0 {
		return ErrInvalidSession
	}

	payload := sealedToken{AccessToken: sess.AccessToken, IssuedVia: sess.IssuedVia}
	if !sess.ExpiresAt.IsZero() {
		payload.ExpiresAt = sess.ExpiresAt.Unix()
	}
	plain, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveSession, err)
	}
	sealed, err := secrets.EncryptBytes(s.appKey, s.scopeKey, plain)
	clear(plain)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveSession, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Set(ctx, keyToken, sealed); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveSession, err)
	}
	if err := s.backend.Set(ctx, keyMemberNo, []byte(strconv.FormatInt(sess.MemberNo, 10))); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveSession, err)
	}

	cp := sess
	s.cached = &cp
	return nil
}

// Load returns the cached session or, failing that, the persisted one.
// ok is false when nothing usable is stored: no token, a token that does not
// decrypt under this user and machine, a missing member number or a passed
// expiry. Only backend failures produce an error.
func (s *Store) Load(ctx context.Context) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.cached != nil {
		if s.cached.Valid(now) {
			return *s.cached, true, nil
		}
		s.cached = nil
	}

	sealed, err := s.backend.Get(ctx, keyToken)
	if errors.Is(err, ErrNotFound) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("%w: %w", ErrLoadSession, err)
	}

	plain, err := secrets.DecryptBytes(s.appKey, s.scopeKey, sealed)
	if err != nil {
		s.logger.WarnContext(ctx, "stored token unreadable, ignoring", logger.Error(err))
		return Session{}, false, nil
	}
	var payload sealedToken
	err = json.Unmarshal(plain, &payload)
	clear(plain)
	if err != nil || payload.AccessToken == "" {
		s.logger.WarnContext(ctx, "stored token malformed, ignoring", logger.Error(err))
		return Session{}, false, nil
	}

	rawMember, err := s.backend.Get(ctx, keyMemberNo)
	if errors.Is(err, ErrNotFound) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("%w: %w", ErrLoadSession, err)
	}
	memberNo, err := strconv.ParseInt(string(rawMember), 10, 64)
	if err != nil {
		s.logger.WarnContext(ctx, "stored member number malformed, ignoring", logger.Error(err))
		return Session{}, false, nil
	}

	sess := Session{
		AccessToken: payload.AccessToken,
		MemberNo:    memberNo,
		IssuedVia:   payload.IssuedVia,
	}
	if sess.IssuedVia == "" {
		sess.IssuedVia = SourceCookie
	}
	if payload.ExpiresAt > 0 {
		sess.ExpiresAt = time.Unix(payload.ExpiresAt, 0)
	}

	if !sess.Valid(now) {
		s.logger.DebugContext(ctx, "stored session expired", logger.MemberNo(memberNo))
		return Session{}, false, nil
	}

	cp := sess
	s.cached = &cp
	return sess, true, nil
}

// Current returns the in-memory session if it is still valid, without
// touching the backend.
func (s *Store) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == nil || !s.cached.Valid(s.now()) {
		return Session{}, false
	}
	return *s.cached, true
}

// Invalidate drops the cached session and the persisted token. The member
// number is kept; it is not a credential.
func (s *Store) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = nil
	if err := s.backend.Delete(ctx, keyToken); err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteSession, err)
	}
	return nil
}

// Clear removes every persisted field and the cached session.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = nil
	if err := s.backend.Delete(ctx, keyToken, keyMemberNo); err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteSession, err)
	}
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
