package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Vaishnavigophane/NestAway-backend/internal/database"
	"github.com/Vaishnavigophane/NestAway-backend/internal/uploads"
)

func newTestEnv(t *testing.T) (*sql.DB, *uploads.Store) {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	store, err := uploads.New(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	return db, store
}
