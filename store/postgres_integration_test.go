package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vinizap/shelf/server/store"
	"github.com/vinizap/shelf/server/store/storetest"
)

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	databaseURL := os.Getenv("SHELF_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("SHELF_TEST_DATABASE_URL not set")
	}
	require.NoError(t, store.Migrate(databaseURL))

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		pg, err := store.OpenPostgres(ctx, databaseURL)
		require.NoError(t, err)
		require.NoError(t, pg.Truncate(ctx))
		t.Cleanup(func() { _ = pg.Close() })
		return pg
	})
}
