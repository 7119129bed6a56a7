package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stovelib/stove/integration/database/sqlite"
)

func TestOpenAndMigrate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.Config{Path: filepath.Join(t.TempDir(), "nested", "stove.db")})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, sqlite.Migrate(ctx, db, nil))
	// Idempotent.
	require.NoError(t, sqlite.Migrate(ctx, db, nil))

	var name string
	err = db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'session_values'`,
	).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "session_values", name)

	assert.NoError(t, sqlite.Healthcheck(db)(ctx))
}

func TestOpen_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := sqlite.Open(context.Background(), sqlite.Config{Path: " "})
	assert.ErrorIs(t, err, sqlite.ErrEmptyPath)
}
