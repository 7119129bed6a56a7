package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stovelib/stove/core/session"
	"github.com/stovelib/stove/integration/database/sqlite"
	"github.com/stovelib/stove/pkg/secrets"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var scopeA = secrets.KeyFromParts("alice", "box-1")

func newStore(backend session.Backend, opts ...session.Option) *session.Store {
	return session.NewStore(backend, "test-secret", append([]session.Option{session.WithScopeKey(scopeA)}, opts...)...)
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := session.NewMemoryBackend()

	for _, token := range []string{"x", "eyJhbGciOiJIUzI1NiJ9.eyJtZW1iZXJfbm8iOjF9.c2ln", "토큰 with spaces"} {
		want := session.Session{AccessToken: token, MemberNo: 987654, IssuedVia: session.SourceCookie}

		require.NoError(t, newStore(backend).Save(ctx, want))

		// A fresh store has no cache and must read the backend.
		got, ok, err := newStore(backend).Load(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want.AccessToken, got.AccessToken)
		assert.Equal(t, want.MemberNo, got.MemberNo)
		assert.Equal(t, session.SourceCookie, got.IssuedVia)
	}
}

func TestStore_TokenEncryptedMemberPlain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := session.NewMemoryBackend()
	store := newStore(backend)

	require.NoError(t, store.Save(ctx, session.Session{AccessToken: "secret-token", MemberNo: 42}))

	raw, err := backend.Get(ctx, "token")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-token")

	member, err := backend.Get(ctx, "member_no")
	require.NoError(t, err)
	assert.Equal(t, "42", string(member))
}

func TestStore_ExpiryPersistedAndRechecked(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	backend := session.NewMemoryBackend()

	expires := clock.Now().Add(time.Hour)
	require.NoError(t, newStore(backend, session.WithClock(clock.Now)).Save(ctx,
		session.Session{AccessToken: "t", MemberNo: 1, ExpiresAt: expires}))

	got, ok, err := newStore(backend, session.WithClock(clock.Now)).Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.ExpiresAt.Equal(expires))

	clock.Set(expires.Add(time.Second))

	_, ok, err = newStore(backend, session.WithClock(clock.Now)).Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "expired persisted session must not be reused")
}

func TestStore_CachedSessionExpires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	store := newStore(session.NewMemoryBackend(), session.WithClock(clock.Now))

	require.NoError(t, store.Save(ctx, session.Session{AccessToken: "t", MemberNo: 1, ExpiresAt: clock.Now().Add(time.Minute)}))

	_, ok := store.Current()
	assert.True(t, ok)

	clock.Set(clock.Now().Add(2 * time.Minute))

	_, ok = store.Current()
	assert.False(t, ok)
	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_OtherScopeCannotDecrypt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := session.NewMemoryBackend()

	require.NoError(t, newStore(backend).Save(ctx, session.Session{AccessToken: "t", MemberNo: 1}))

	other := session.NewStore(backend, "test-secret", session.WithScopeKey(secrets.KeyFromParts("bob", "box-2")))
	_, ok, err := other.Load(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CorruptBlobIsNoToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := session.NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, "token", []byte("garbage")))
	require.NoError(t, backend.Set(ctx, "member_no", []byte("7")))

	_, ok, err := newStore(backend).Load(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_InvalidateKeepsMember(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := session.NewMemoryBackend()
	store := newStore(backend)

	require.NoError(t, store.Save(ctx, session.Session{AccessToken: "t", MemberNo: 9}))
	require.NoError(t, store.Invalidate(ctx))

	_, ok := store.Current()
	assert.False(t, ok)
	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	member, err := backend.Get(ctx, "member_no")
	require.NoError(t, err)
	assert.Equal(t, "9", string(member))

	require.NoError(t, store.Clear(ctx))
	_, err = backend.Get(ctx, "member_no")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestStore_SaveRejectsIncomplete(t *testing.T) {
	t.Parallel()

	store := newStore(session.NewMemoryBackend())
	assert.ErrorIs(t, store.Save(context.Background(), session.Session{AccessToken: "t"}), session.ErrInvalidSession)
	assert.ErrorIs(t, store.Save(context.Background(), session.Session{MemberNo: 1}), session.ErrInvalidSession)
}

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockBackend) Set(ctx context.Context, key string, value []byte) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockBackend) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockBackend) Close() error { return nil }

func TestStore_BackendErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	boom := errors.New("disk on fire")

	backend := &mockBackend{}
	backend.On("Get", ctx, "token").Return(nil, boom)
	backend.On("Set", ctx, "token", mock.Anything).Return(boom)
	backend.On("Delete", ctx, []string{"token"}).Return(boom)

	store := newStore(backend)

	_, _, err := store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrLoadSession)
	assert.ErrorIs(t, err, boom)

	err = store.Save(ctx, session.Session{AccessToken: "t", MemberNo: 1})
	assert.ErrorIs(t, err, session.ErrSaveSession)

	err = store.Invalidate(ctx)
	assert.ErrorIs(t, err, session.ErrDeleteSession)

	backend.AssertExpectations(t)
}

func TestBackends(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	db, err := sqlite.Open(ctx, sqlite.Config{Path: filepath.Join(t.TempDir(), "s.db")})
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(ctx, db, nil))

	backends := map[string]session.Backend{
		"memory": session.NewMemoryBackend(),
		"file":   session.NewFileBackend(filepath.Join(t.TempDir(), "plugin", "session.json")),
		"sqlite": session.NewSQLiteBackend(db),
	}

	for name, backend := range backends {
		t.Run(name, func(t *testing.T) {
			defer backend.Close()

			_, err := backend.Get(ctx, "missing")
			assert.ErrorIs(t, err, session.ErrNotFound)

			require.NoError(t, backend.Set(ctx, "a", []byte("1")))
			require.NoError(t, backend.Set(ctx, "a", []byte("2")))
			require.NoError(t, backend.Set(ctx, "b", []byte{0, 1, 2}))

			v, err := backend.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, []byte("2"), v)

			v, err = backend.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, []byte{0, 1, 2}, v)

			require.NoError(t, backend.Delete(ctx, "a", "b", "never-set"))
			_, err = backend.Get(ctx, "a")
			assert.ErrorIs(t, err, session.ErrNotFound)
		})
	}
}

func TestFileBackend_SurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	require.NoError(t, newStore(session.NewFileBackend(path)).Save(ctx, session.Session{AccessToken: "persisted", MemberNo: 3}))

	got, ok, err := newStore(session.NewFileBackend(path)).Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", got.AccessToken)
}

func TestMemoryBackend_Closed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := session.NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, "a", []byte("1")))
	require.NoError(t, backend.Close())

	_, err := backend.Get(ctx, "a")
	assert.ErrorIs(t, err, session.ErrBackendClosed)
	assert.ErrorIs(t, backend.Set(ctx, "a", []byte("2")), session.ErrBackendClosed)
	assert.ErrorIs(t, backend.Delete(ctx, "a"), session.ErrBackendClosed)
	require.NoError(t, backend.Close())

	err = newStore(backend).Save(ctx, session.Session{AccessToken: "t", MemberNo: 1})
	assert.ErrorIs(t, err, session.ErrSaveSession)
	assert.ErrorIs(t, err, session.ErrBackendClosed)
}
