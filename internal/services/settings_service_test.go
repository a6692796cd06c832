package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsLazyCreation(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "Tester", "tester@example.com")
	s := NewSettingsService(db)

	// the row exists by now; drop it to simulate a pre-settings account
	_, err := db.Exec("DELETE FROM user_settings WHERE user_id = ?", userID)
	require.NoError(t, err)

	cfg, err := s.Get(userID)
	require.NoError(t, err)
	assert.Equal(t, userID, cfg.UserID)
	assert.True(t, cfg.AutoExpand)
	assert.Equal(t, "smtp.office365.com", cfg.SMTPServer)
	assert.Equal(t, "587", cfg.SMTPPort)
	assert.True(t, cfg.SMTPUseTLS)
}

func TestSettingsSaveRoundTrip(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "Tester", "tester@example.com")
	s := NewSettingsService(db)

	cfg, err := s.Get(userID)
	require.NoError(t, err)

	cfg.AutoExpand = false
	cfg.SMTPServer = "mail.example.com"
	cfg.SMTPPort = "465"
	cfg.SMTPUseTLS = true
	cfg.AdminEmail = "admin@example.com"
	cfg.ManagerEmail = "manager@example.com"
	require.NoError(t, s.Save(cfg))

	got, err := s.Get(userID)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
