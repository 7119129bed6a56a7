package stove_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stovelib/stove"
	"github.com/stovelib/stove/core/config"
	"github.com/stovelib/stove/core/library"
	"github.com/stovelib/stove/core/session"
	"github.com/stovelib/stove/core/storefront"
	"github.com/stovelib/stove/core/webview"
	"github.com/stovelib/stove/core/webview/webviewtest"
	"github.com/stovelib/stove/pkg/clock"
	"github.com/stovelib/stove/pkg/secrets"
)

var testNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func testConfig(apiURL string) stove.Config {
	cfg := stove.DefaultConfig()
	cfg.APIURL = apiURL
	cfg.RateLimit = 100
	return cfg
}

func newClient(t *testing.T, cfg stove.Config, browser webview.Factory, opts ...stove.Option) *stove.Client {
	t.Helper()
	opts = append([]stove.Option{
		stove.WithClock(clock.NewFake(testNow)),
		stove.WithScopeKey(secrets.KeyFromParts("test-scope")),
	}, opts...)

	client, err := stove.New(context.Background(), cfg, browser, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func seeded() session.Session {
	return session.Session{AccessToken: "token", MemberNo: 42}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := stove.DefaultConfig()
	assert.Equal(t, "https://api.onstove.com", cfg.APIURL)
	assert.Equal(t, "https://store.onstove.com", cfg.StoreURL)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, time.Second, cfg.RateInterval)
	assert.Equal(t, 30, cfg.PageSize)
	assert.Equal(t, stove.BackendMemory, cfg.SessionBackend)
	assert.False(t, cfg.AllowAdultContent)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.ConnectionURL)
	assert.Equal(t, "stove.db", cfg.SQLite.Path)
	require.NoError(t, cfg.Validate())
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse[stove.Config](map[string]string{
		"STOVE_SESSION_BACKEND":     "sqlite",
		"STOVE_SQLITE_PATH":         "/tmp/x.db",
		"STOVE_RATE_LIMIT":          "5",
		"STOVE_ALLOW_ADULT_CONTENT": "true",
		"STOVE_LOCALE":              "ko-KR",
	})
	require.NoError(t, err)
	assert.Equal(t, stove.BackendSQLite, cfg.SessionBackend)
	assert.Equal(t, "/tmp/x.db", cfg.SQLite.Path)
	assert.Equal(t, 5, cfg.RateLimit)
	assert.True(t, cfg.AllowAdultContent)
	assert.Equal(t, "ko-KR", cfg.Locale)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := stove.DefaultConfig()
	cfg.SessionBackend = "etcd"
	assert.ErrorIs(t, cfg.Validate(), stove.ErrUnknownBackend)

	cfg = stove.DefaultConfig()
	cfg.RateLimit = 0
	assert.ErrorIs(t, cfg.Validate(), stove.ErrInvalidConfig)

	cfg = stove.DefaultConfig()
	cfg.AppSecret = ""
	assert.ErrorIs(t, cfg.Validate(), stove.ErrInvalidConfig)

	_, err := stove.New(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, stove.ErrInvalidConfig)
}

func ownedGamesServer(t *testing.T, status *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code := int(status.Load()); code != 0 {
			w.WriteHeader(code)
			return
		}
		switch r.URL.Path {
		case "/myindie/v1.1/own-games":
			assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
			assert.Equal(t, "42", r.URL.Query().Get("member_no"))
			fmt.Fprint(w, `{"code":0,"value":{"total_pages":1,"content":[
				{"product_no":1,"game_id":"A","product_name":"Alpha","has_ownership":true},
				{"product_no":2,"game_id":"B","product_name":"Beta DLC","has_ownership":true,"product_detail_type":"DLC"}
			]}}`)
		case "/store/v1.0/components/groups/product-merge":
			fmt.Fprint(w, `{"code":0,"value":{"components":[{"props":{"product_name":"Alpha","title_image_square":"https://cdn/i.png"}}]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_OwnedGamesWithSeededSession(t *testing.T) {
	t.Parallel()

	var status atomic.Int32
	srv := ownedGamesServer(t, &status)
	client := newClient(t, testConfig(srv.URL), nil)
	ctx := context.Background()

	assert.False(t, client.IsLoggedIn(ctx))

	require.NoError(t, client.SaveSession(ctx, seeded()))
	assert.True(t, client.IsLoggedIn(ctx))

	sess, err := client.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.SourceManual, sess.IssuedVia)

	owned, err := client.OwnedGames(ctx)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "Alpha", owned[0].Title)

	details, err := client.StoreDetails(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/i.png", details.IconURL)
}

func TestClient_UnauthorizedWithoutBrowser(t *testing.T) {
	t.Parallel()

	var status atomic.Int32
	status.Store(http.StatusUnauthorized)
	srv := ownedGamesServer(t, &status)
	client := newClient(t, testConfig(srv.URL), nil)
	ctx := context.Background()

	require.NoError(t, client.SaveSession(ctx, seeded()))

	_, err := client.OwnedGames(ctx)
	require.Error(t, err)
	assert.True(t, stove.IsAuthError(err))
	assert.False(t, stove.IsTransient(err))
	assert.False(t, client.IsLoggedIn(ctx))
}

func TestClient_Importer(t *testing.T) {
	t.Parallel()

	var status atomic.Int32
	srv := ownedGamesServer(t, &status)
	client := newClient(t, testConfig(srv.URL), nil)
	ctx := context.Background()
	require.NoError(t, client.SaveSession(ctx, seeded()))

	settings := library.DefaultSettings()
	settings.ConnectAccount = true

	imported, err := client.NewImporter(nil, settings).ImportGames(ctx)
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "A", imported[0].GameID)
	assert.Equal(t, "https://store.onstove.com/en/games/1", imported[0].StorePageURL())
}

const (
	gatedGameHTML = `<html><body><p>This content is not suitable for players under the age of 19.</p></body></html>`
	adultGameHTML = `<html><body><div><h3>Product Description</h3><p>Great game</p></div><a href="/en/games?features=1">#Action</a></body></html>`
)

func storeDetailsServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/store/v1.0/components/groups/product-merge" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"code":0,"value":{"components":[{"id":"x","props":{"product_no":77,"product_name":"Night Game"}}]}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_MetadataProviderAdultGames(t *testing.T) {
	t.Parallel()

	game := library.GameMetadata{
		GameID: "NIGHT",
		Links:  []library.Link{{Name: library.StorePageLink, URL: "https://store.onstove.com/en/games/77"}},
	}
	gatedUnlessAgreed := func(_ int, cookies []webview.Cookie) string {
		for _, c := range cookies {
			if c.Name == storefront.AdultCookieName && c.Value == "Y" {
				return adultGameHTML
			}
		}
		return gatedGameHTML
	}

	t.Run("setting allows adult pages", func(t *testing.T) {
		t.Parallel()

		browser := webviewtest.New()
		browser.Handle(game.StorePageURL(), webviewtest.Page{Render: gatedUnlessAgreed})
		client := newClient(t, testConfig(storeDetailsServer(t).URL), browser)

		settings := library.DefaultSettings()
		settings.AllowAdultGames = true

		meta, err := client.NewMetadataProvider(settings).GetMetadata(context.Background(), game)
		require.NoError(t, err)
		assert.Equal(t, "Night Game", meta.Name)
		assert.Contains(t, meta.Description, "Great game")
		assert.Zero(t, browser.CountNavigations("/restrictions/agree"))

		set := browser.SetCookies()
		require.Len(t, set, 1)
		assert.Equal(t, storefront.AdultCookieName, set[0].Name)
	})

	t.Run("setting off goes through the gate", func(t *testing.T) {
		t.Parallel()

		browser := webviewtest.New()
		browser.Handle(game.StorePageURL(), webviewtest.Page{Render: gatedUnlessAgreed})
		client := newClient(t, testConfig(storeDetailsServer(t).URL), browser)

		meta, err := client.NewMetadataProvider(library.DefaultSettings()).GetMetadata(context.Background(), game)
		require.NoError(t, err)
		assert.Equal(t, "Night Game", meta.Name)
		assert.NotContains(t, meta.Description, "Great game")
		assert.Equal(t, 1, browser.CountNavigations("/restrictions/agree"))
		assert.Empty(t, browser.SetCookies())
	})
}

func TestClient_LoginWithBrowser(t *testing.T) {
	t.Parallel()

	browser := webviewtest.New()
	client := newClient(t, testConfig("http://127.0.0.1:1"), browser)

	err := client.Login(context.Background())
	assert.True(t, stove.IsAuthError(err))
	assert.Equal(t, [][2]int{{520, 700}}, browser.DialogSizes())
}

func TestClient_FileBackendPersists(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://127.0.0.1:1")
	cfg.SessionBackend = stove.BackendFile
	cfg.SessionFile = filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	first := newClient(t, cfg, nil)
	require.NoError(t, first.SaveSession(ctx, seeded()))
	require.NoError(t, first.Close())
	require.NoError(t, first.Close())

	second := newClient(t, cfg, nil)
	sess, err := second.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), sess.MemberNo)
	require.NoError(t, second.Health(ctx))
}

func TestClient_ClearSessionDropsMember(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://127.0.0.1:1")
	cfg.SessionBackend = stove.BackendFile
	cfg.SessionFile = filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	first := newClient(t, cfg, nil)
	require.NoError(t, first.SaveSession(ctx, seeded()))
	require.NoError(t, first.ClearSession(ctx))
	require.NoError(t, first.Close())

	raw, err := os.ReadFile(cfg.SessionFile)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "member_no")
	assert.NotContains(t, string(raw), "42")

	second := newClient(t, cfg, nil)
	_, err = second.Session(ctx)
	assert.True(t, stove.IsAuthError(err))
}

func TestClient_SQLiteBackend(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://127.0.0.1:1")
	cfg.SessionBackend = stove.BackendSQLite
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "stove.db")
	ctx := context.Background()

	client := newClient(t, cfg, nil)
	require.NoError(t, client.SaveSession(ctx, seeded()))
	require.NoError(t, client.Health(ctx))

	err := client.Logout(ctx)
	assert.ErrorIs(t, err, webview.ErrUnavailable)

	_, err = client.Session(ctx)
	assert.True(t, stove.IsAuthError(err))
}
