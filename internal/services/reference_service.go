package services

import (
	"database/sql"
	"strings"

	"github.com/aliceinword/legal-time-tracker/internal/models"
)

// ReferenceServiceProvider defines the interface for reference-list services.
type ReferenceServiceProvider interface {
	EnsureDefaults(userID int64) error
	ReplaceAll(userID int64, kind models.ReferenceKind, lines []string) error
	List(userID int64, kind models.ReferenceKind) ([]string, error)
}

// ReferenceService manages the per-user client/matter/rate suggestion lists.
type ReferenceService struct {
	db *sql.DB
}

// NewReferenceService creates a new ReferenceService.
func NewReferenceService(db *sql.DB) *ReferenceService {
	return &ReferenceService{db: db}
}

// EnsureDefaults seeds the built-in default set for each list kind that has
// zero rows for the user. Non-empty lists are left untouched.
func (s *ReferenceService) EnsureDefaults(userID int64) error {
	defaults := map[models.ReferenceKind][]string{
		models.KindClient: models.DefaultClients,
		models.KindMatter: models.DefaultMatters,
		models.KindRate:   models.DefaultRates,
	}

	for kind, names := range defaults {
		var count int
		err := s.db.QueryRow("SELECT COUNT(*) FROM reference_items WHERE user_id = ? AND kind = ?", userID, kind).Scan(&count)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		for _, name := range names {
			if _, err := s.db.Exec("INSERT INTO reference_items (user_id, kind, name) VALUES (?, ?, ?)", userID, kind, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReplaceAll deletes every row of the given kind for the user and inserts one
// row per non-blank trimmed input line. Repeated lines collapse to one row.
// A concurrent reader may observe the empty intermediate state.
func (s *ReferenceService) ReplaceAll(userID int64, kind models.ReferenceKind, lines []string) error {
	if _, err := s.db.Exec("DELETE FROM reference_items WHERE user_id = ? AND kind = ?", userID, kind); err != nil {
		return err
	}
	for _, line := range lines {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if _, err := s.db.Exec("INSERT OR IGNORE INTO reference_items (user_id, kind, name) VALUES (?, ?, ?)", userID, kind, name); err != nil {
			return err
		}
	}
	return nil
}

// List returns the user's reference names of one kind in alphabetical order.
func (s *ReferenceService) List(userID int64, kind models.ReferenceKind) ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM reference_items WHERE user_id = ? AND kind = ? ORDER BY name", userID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
