package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/aliceinword/legal-time-tracker/internal/database"
	"github.com/stretchr/testify/require"
)

// newTestDB opens a migrated throwaway database for one test.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

// newTestUser registers an account through the real service stack and
// returns its ID.
func newTestUser(t *testing.T, db *sql.DB, name, email string) int64 {
	t.Helper()
	refs := NewReferenceService(db)
	settings := NewSettingsService(db)
	users := NewUserService(db, refs, settings)
	user, err := users.Register(name, email, "secret123", "secret123")
	require.NoError(t, err)
	return user.ID
}
