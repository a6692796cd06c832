package services

import (
	"database/sql"

	"github.com/aliceinword/legal-time-tracker/internal/models"
)

// SettingsServiceProvider defines the interface for settings services.
type SettingsServiceProvider interface {
	Get(userID int64) (models.Settings, error)
	Save(settings models.Settings) error
}

// SettingsService manages the per-user preference record.
type SettingsService struct {
	db *sql.DB
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(db *sql.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the user's settings, creating the row with defaults on first
// access.
func (s *SettingsService) Get(userID int64) (models.Settings, error) {
	settings, err := s.scan(userID)
	if err == sql.ErrNoRows {
		if _, err := s.db.Exec("INSERT INTO user_settings (user_id) VALUES (?)", userID); err != nil {
			return models.Settings{}, err
		}
		return s.scan(userID)
	}
	return settings, err
}

// Save persists the full settings record for its user.
func (s *SettingsService) Save(settings models.Settings) error {
	if _, err := s.Get(settings.UserID); err != nil {
		return err
	}
	_, err := s.db.Exec(`UPDATE user_settings
		SET auto_expand = ?, smtp_server = ?, smtp_port = ?, smtp_username = ?,
		    smtp_from = ?, smtp_use_tls = ?, admin_email = ?, manager_email = ?
		WHERE user_id = ?`,
		boolToInt(settings.AutoExpand), settings.SMTPServer, settings.SMTPPort,
		settings.SMTPUsername, settings.SMTPFrom, boolToInt(settings.SMTPUseTLS),
		settings.AdminEmail, settings.ManagerEmail, settings.UserID)
	return err
}

func (s *SettingsService) scan(userID int64) (models.Settings, error) {
	var settings models.Settings
	var autoExpand, useTLS int
	row := s.db.QueryRow(`SELECT user_id, auto_expand, smtp_server, smtp_port,
		smtp_username, smtp_from, smtp_use_tls, admin_email, manager_email
		FROM user_settings WHERE user_id = ?`, userID)
	err := row.Scan(&settings.UserID, &autoExpand, &settings.SMTPServer,
		&settings.SMTPPort, &settings.SMTPUsername, &settings.SMTPFrom,
		&useTLS, &settings.AdminEmail, &settings.ManagerEmail)
	if err != nil {
		return models.Settings{}, err
	}
	settings.AutoExpand = autoExpand == 1
	settings.SMTPUseTLS = useTLS == 1
	return settings, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
