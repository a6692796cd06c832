package services

import (
	"database/sql"
	"testing"

	"github.com/aliceinword/legal-time-tracker/internal/apperrors"
	"github.com/aliceinword/legal-time-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (*UserService, *sql.DB) {
	db := newTestDB(t)
	refs := NewReferenceService(db)
	settings := NewSettingsService(db)
	return NewUserService(db, refs, settings), db
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newUserFixture(t)

	tests := []struct {
		name     string
		userName string
		email    string
		pw       string
		pw2      string
	}{
		{"empty name", "", "a@b.com", "secret123", "secret123"},
		{"email without at", "Bob", "bob.example.com", "secret123", "secret123"},
		{"email without dot", "Bob", "bob@example", "secret123", "secret123"},
		{"password of five chars", "Bob", "bob@example.com", "12345", "12345"},
		{"mismatched passwords", "Bob", "bob@example.com", "secret123", "secret124"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(tt.userName, tt.email, tt.pw, tt.pw2)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	// exactly six characters passes
	user, err := s.Register("Bob", "bob@example.com", "123456", "123456")
	require.NoError(t, err)
	assert.Equal(t, "Bob", user.Name)
}

func TestRegisterConflictsAndFirstAdmin(t *testing.T) {
	s, _ := newUserFixture(t)

	first, err := s.Register("Alice", "alice@example.com", "secret123", "secret123")
	require.NoError(t, err)
	assert.True(t, first.IsAdmin, "first user becomes admin")

	second, err := s.Register("Bob", "bob@example.com", "secret123", "secret123")
	require.NoError(t, err)
	assert.False(t, second.IsAdmin)

	_, err = s.Register("Carol", "ALICE@example.com", "secret123", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = s.Register("alice", "carol@example.com", "secret123", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRegisterSeedsListsAndSettings(t *testing.T) {
	db := newTestDB(t)
	refs := NewReferenceService(db)
	settings := NewSettingsService(db)
	s := NewUserService(db, refs, settings)

	user, err := s.Register("Alice", "alice@example.com", "secret123", "secret123")
	require.NoError(t, err)

	clients, err := refs.List(user.ID, models.KindClient)
	require.NoError(t, err)
	assert.Len(t, clients, len(models.DefaultClients))

	cfg, err := settings.Get(user.ID)
	require.NoError(t, err)
	assert.True(t, cfg.AutoExpand)
	assert.Equal(t, "smtp.office365.com", cfg.SMTPServer)
}

func TestAuthenticate(t *testing.T) {
	s, _ := newUserFixture(t)

	_, err := s.Register("Alice", "alice@example.com", "secret123", "secret123")
	require.NoError(t, err)

	// by email, any casing
	user, err := s.Authenticate("ALICE@Example.Com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Empty(t, user.PasswordHash)

	// by display name
	_, err = s.Authenticate("alice", "secret123")
	require.NoError(t, err)

	_, err = s.Authenticate("alice", "wrongpass")
	assert.ErrorIs(t, err, apperrors.ErrAuth)

	_, err = s.Authenticate("nobody", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrAuth)
}

func TestEnsureMasterAccount(t *testing.T) {
	s, _ := newUserFixture(t)

	require.NoError(t, s.EnsureMasterAccount())

	master, err := s.Authenticate(models.MasterEmail, models.MasterPassword)
	require.NoError(t, err)
	assert.True(t, master.IsAdmin)
	assert.Equal(t, models.MasterName, master.Name)

	// password is force-reset on every startup
	require.NoError(t, s.ResetPassword(master.ID, "changed-it", "changed-it"))
	require.NoError(t, s.EnsureMasterAccount())
	_, err = s.Authenticate(models.MasterName, models.MasterPassword)
	require.NoError(t, err)

	// idempotent: still exactly one master row
	users, err := s.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestDeleteUserGuards(t *testing.T) {
	s, _ := newUserFixture(t)

	require.NoError(t, s.EnsureMasterAccount())
	master, err := s.Authenticate(models.MasterName, models.MasterPassword)
	require.NoError(t, err)

	admin, err := s.Register("Admin2", "admin2@example.com", "secret123", "secret123")
	require.NoError(t, err)

	// master account can never be deleted
	err = s.DeleteUser(admin.ID, master.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// self-deletion refused
	err = s.DeleteUser(admin.ID, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = s.DeleteUser(admin.ID, 99999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	refs := NewReferenceService(db)
	settings := NewSettingsService(db)
	s := NewUserService(db, refs, settings)
	entries := NewEntryService(db, settings)

	admin, err := s.Register("Admin", "admin@example.com", "secret123", "secret123")
	require.NoError(t, err)
	victim, err := s.Register("Victim", "victim@example.com", "secret123", "secret123")
	require.NoError(t, err)

	_, err = entries.Save(victim.ID, models.Entry{Client: "c", Matter: "m", DateOfWork: "2024-01-01"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(admin.ID, victim.ID))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM entries WHERE user_id = ?", victim.ID).Scan(&count))
	assert.Zero(t, count)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM reference_items WHERE user_id = ?", victim.ID).Scan(&count))
	assert.Zero(t, count)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM user_settings WHERE user_id = ?", victim.ID).Scan(&count))
	assert.Zero(t, count)
}

func TestResetPasswordValidation(t *testing.T) {
	s, _ := newUserFixture(t)

	user, err := s.Register("Alice", "alice@example.com", "secret123", "secret123")
	require.NoError(t, err)

	assert.ErrorIs(t, s.ResetPassword(user.ID, "", ""), apperrors.ErrValidation)
	assert.ErrorIs(t, s.ResetPassword(user.ID, "newpass1", "newpass2"), apperrors.ErrValidation)

	require.NoError(t, s.ResetPassword(user.ID, "newpass1", "newpass1"))
	_, err = s.Authenticate("Alice", "newpass1")
	require.NoError(t, err)
}
