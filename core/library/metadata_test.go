package library_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stovelib/stove/core/games"
	"github.com/stovelib/stove/core/library"
	"github.com/stovelib/stove/core/storefront"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) StoreDetails(ctx context.Context, productNo int64) (*storefront.Listing, error) {
	args := m.Called(ctx, productNo)
	listing, _ := args.Get(0).(*storefront.Listing)
	return listing, args.Error(1)
}

func (m *mockStore) Description(ctx context.Context, storeURL string) (string, error) {
	args := m.Called(ctx, storeURL)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Developer(ctx context.Context, gameID string) (string, error) {
	args := m.Called(ctx, gameID)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Publisher(ctx context.Context, gameID string) (string, error) {
	args := m.Called(ctx, gameID)
	return args.String(0), args.Error(1)
}

const storeURL = "https://store.onstove.com/en/games/1234"

func catalogGame() library.GameMetadata {
	return library.GameMetadata{
		GameID: "LOSTARK",
		Name:   "Lost Ark",
		Links:  []library.Link{{Name: library.StorePageLink, URL: storeURL}},
	}
}

func details() *storefront.Listing {
	return &storefront.Listing{
		ProductNo: 1234,
		Title:     "Lost Ark",
		IconURL:   "https://cdn.test/icon.png",
		CoverURL:  "https://img.test/222x294/cover.jpg",
		Genres:    []storefront.Tag{{Name: "RPG"}},
		Tags:      []storefront.Tag{{Name: "MMO"}, {Name: "Action"}},
	}
}

func TestMetadataProvider_GetMetadata(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	store.On("StoreDetails", mock.Anything, int64(1234)).Return(details(), nil)
	store.On("Description", mock.Anything, storeURL).Return("<p>story</p>", nil)
	store.On("Developer", mock.Anything, "LOSTARK").Return("Smilegate RPG, , Tripod ", nil)
	store.On("Publisher", mock.Anything, "LOSTARK").Return("Smilegate", nil)

	meta, err := library.NewMetadataProvider(store, library.DefaultSettings()).GetMetadata(context.Background(), catalogGame())
	require.NoError(t, err)

	assert.Equal(t, "<p>story</p>", meta.Description)
	assert.Equal(t, []string{"Smilegate RPG", "Tripod"}, meta.Developers)
	assert.Equal(t, []string{"Smilegate"}, meta.Publishers)
	assert.Equal(t, []string{"RPG"}, meta.Genres)
	assert.Equal(t, []string{"MMO", "Action"}, meta.Tags)
	assert.Equal(t, "https://cdn.test/icon.png", meta.IconURL)
	assert.Equal(t, "https://img.test/222x294/cover.jpg", meta.CoverURL)
	store.AssertExpectations(t)
}

func TestMetadataProvider_FieldsFailIndependently(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	store.On("StoreDetails", mock.Anything, int64(1234)).Return(details(), nil)
	store.On("Description", mock.Anything, storeURL).Return("", storefront.ErrPageNotFound)
	store.On("Developer", mock.Anything, "LOSTARK").Return("", errors.New("timeout"))
	store.On("Publisher", mock.Anything, "LOSTARK").Return("Smilegate", nil)

	meta, err := library.NewMetadataProvider(store, library.DefaultSettings()).GetMetadata(context.Background(), catalogGame())
	require.NoError(t, err)

	assert.Empty(t, meta.Description)
	assert.Empty(t, meta.Developers)
	assert.Equal(t, []string{"Smilegate"}, meta.Publishers)
	assert.Equal(t, []string{"RPG"}, meta.Genres)
}

func TestMetadataProvider_TagsDisabled(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	store.On("StoreDetails", mock.Anything, int64(1234)).Return(details(), nil)
	store.On("Description", mock.Anything, mock.Anything).Return("", nil)
	store.On("Developer", mock.Anything, mock.Anything).Return("", nil)
	store.On("Publisher", mock.Anything, mock.Anything).Return("", nil)

	settings := library.DefaultSettings()
	settings.ImportTags = false

	meta, err := library.NewMetadataProvider(store, settings).GetMetadata(context.Background(), catalogGame())
	require.NoError(t, err)
	assert.Nil(t, meta.Tags)
	assert.Equal(t, []string{"RPG"}, meta.Genres)
}

func TestMetadataProvider_Skips(t *testing.T) {
	t.Parallel()

	t.Run("metadata import disabled", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		settings := library.DefaultSettings()
		settings.ImportMetadata = false

		meta, err := library.NewMetadataProvider(store, settings).GetMetadata(context.Background(), catalogGame())
		require.NoError(t, err)
		assert.Equal(t, library.GameMetadata{}, meta)
		store.AssertNotCalled(t, "StoreDetails", mock.Anything, mock.Anything)
	})

	t.Run("no store link", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		game := catalogGame()
		game.Links = []library.Link{{Name: "Homepage", URL: "https://example.com/1"}}

		meta, err := library.NewMetadataProvider(store, library.DefaultSettings()).GetMetadata(context.Background(), game)
		require.NoError(t, err)
		assert.Equal(t, library.GameMetadata{}, meta)
	})

	t.Run("store link without product number", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		game := catalogGame()
		game.Links[0].URL = "https://store.onstove.com/en/games/abc"

		meta, err := library.NewMetadataProvider(store, library.DefaultSettings()).GetMetadata(context.Background(), game)
		require.NoError(t, err)
		assert.Equal(t, library.GameMetadata{}, meta)
	})

	t.Run("store details unavailable", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		store.On("StoreDetails", mock.Anything, int64(1234)).Return(nil, storefront.ErrPageNotFound)

		meta, err := library.NewMetadataProvider(store, library.DefaultSettings()).GetMetadata(context.Background(), catalogGame())
		require.NoError(t, err)
		assert.Equal(t, library.GameMetadata{}, meta)
		store.AssertNotCalled(t, "Description", mock.Anything, mock.Anything)
	})

	t.Run("auth error surfaces", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		store.On("StoreDetails", mock.Anything, int64(1234)).Return(nil, games.ErrUnauthorized)

		_, err := library.NewMetadataProvider(store, library.DefaultSettings()).GetMetadata(context.Background(), catalogGame())
		assert.ErrorIs(t, err, games.ErrUnauthorized)
	})
}
