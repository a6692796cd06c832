package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/aliceinword/legal-time-tracker/internal/apperrors"
	"github.com/aliceinword/legal-time-tracker/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(name, email, password, passwordConfirm string) (models.User, error)
	Authenticate(identifier, password string) (models.User, error)
	GetUserByID(id int64) (models.User, error)
	ListUsers() ([]models.User, error)
	CreateUser(name, email, password string, isAdmin bool) (models.User, error)
	DeleteUser(callerID, targetID int64) error
	ResetPassword(targetID int64, newPassword, confirm string) error
	EnsureMasterAccount() error
}

// UserService provides business logic for account management.
type UserService struct {
	db       *sql.DB
	refs     ReferenceServiceProvider
	settings SettingsServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, refs ReferenceServiceProvider, settings SettingsServiceProvider) *UserService {
	return &UserService{db: db, refs: refs, settings: settings}
}

// Register validates and creates a self-service account. The first account
// ever created becomes an admin. Reference-list defaults and an empty
// settings record are seeded for the new user.
func (s *UserService) Register(name, email, password, passwordConfirm string) (models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return models.User{}, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return models.User{}, fmt.Errorf("%w: a valid email is required", apperrors.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return models.User{}, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, MinPasswordLength)
	}
	if password != passwordConfirm {
		return models.User{}, fmt.Errorf("%w: passwords do not match", apperrors.ErrValidation)
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return models.User{}, err
	}

	return s.insertUser(name, email, password, total == 0)
}

// CreateUser is the admin variant of account creation: no confirmation field
// and an explicit admin flag.
func (s *UserService) CreateUser(name, email, password string, isAdmin bool) (models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: name, email, and password are required", apperrors.ErrValidation)
	}
	return s.insertUser(name, email, password, isAdmin)
}

func (s *UserService) insertUser(name, email, password string, isAdmin bool) (models.User, error) {
	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE lower(email) = ?", email).Scan(&exists); err != nil {
		return models.User{}, err
	}
	if exists > 0 {
		return models.User{}, fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE lower(name) = ?", strings.ToLower(name)).Scan(&exists); err != nil {
		return models.User{}, err
	}
	if exists > 0 {
		return models.User{}, fmt.Errorf("%w: username is already taken", apperrors.ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.Exec("INSERT INTO users (email, name, password_hash, is_admin) VALUES (?, ?, ?, ?)",
		email, name, string(hashedPassword), boolToInt(isAdmin))
	if err != nil {
		return models.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	if err := s.refs.EnsureDefaults(id); err != nil {
		return models.User{}, err
	}
	if _, err := s.settings.Get(id); err != nil {
		return models.User{}, err
	}

	return s.GetUserByID(id)
}

// Authenticate verifies credentials. The identifier matches the email or the
// display name, case-insensitively.
func (s *UserService) Authenticate(identifier, password string) (models.User, error) {
	ident := strings.ToLower(strings.TrimSpace(identifier))

	var user models.User
	var isAdmin int
	row := s.db.QueryRow(`SELECT id, email, name, password_hash, is_admin, created_at
		FROM users WHERE lower(email) = ? OR lower(name) = ?`, ident, ident)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &isAdmin, &user.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: unknown email or username", apperrors.ErrAuth)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("%w: wrong password", apperrors.ErrAuth)
	}

	user.IsAdmin = isAdmin == 1
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	var isAdmin int
	row := s.db.QueryRow("SELECT id, email, name, is_admin, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &isAdmin, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("%w: user %d", apperrors.ErrNotFound, id)
		}
		return models.User{}, err
	}
	user.IsAdmin = isAdmin == 1
	return user, nil
}

// ListUsers returns all accounts ordered by ID for the admin screen.
func (s *UserService) ListUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, email, name, is_admin, created_at FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		var isAdmin int
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &isAdmin, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.IsAdmin = isAdmin == 1
		users = append(users, user)
	}
	return users, rows.Err()
}

// DeleteUser removes an account. Deleting yourself or the master account is
// refused. Entries, reference lists, and settings go with the user via
// cascading foreign keys.
func (s *UserService) DeleteUser(callerID, targetID int64) error {
	target, err := s.GetUserByID(targetID)
	if err != nil {
		return err
	}
	if target.ID == callerID {
		return fmt.Errorf("%w: you cannot delete your own account", apperrors.ErrForbidden)
	}
	if target.IsMaster() {
		return fmt.Errorf("%w: master account cannot be deleted", apperrors.ErrForbidden)
	}

	_, err = s.db.Exec("DELETE FROM users WHERE id = ?", targetID)
	return err
}

// ResetPassword sets a new password for the target account.
func (s *UserService) ResetPassword(targetID int64, newPassword, confirm string) error {
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: new password is required", apperrors.ErrValidation)
	}
	if newPassword != confirm {
		return fmt.Errorf("%w: passwords do not match", apperrors.ErrValidation)
	}
	if _, err := s.GetUserByID(targetID); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	_, err = s.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", string(hashedPassword), targetID)
	return err
}

// EnsureMasterAccount finds or creates the recovery account and force-resets
// its password and admin flag. Run at every startup so the operator always
// has a known-good login.
func (s *UserService) EnsureMasterAccount() error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(models.MasterPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash master password: %w", err)
	}

	var id int64
	row := s.db.QueryRow("SELECT id FROM users WHERE lower(email) = ? OR lower(name) = ?",
		models.MasterEmail, strings.ToLower(models.MasterName))
	err = row.Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		res, err := s.db.Exec("INSERT INTO users (email, name, password_hash, is_admin) VALUES (?, ?, ?, 1)",
			models.MasterEmail, models.MasterName, string(hashedPassword))
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		_, err = s.db.Exec("UPDATE users SET name = ?, is_admin = 1, password_hash = ? WHERE id = ?",
			models.MasterName, string(hashedPassword), id)
		if err != nil {
			return err
		}
	}

	if err := s.refs.EnsureDefaults(id); err != nil {
		return err
	}
	_, err = s.settings.Get(id)
	return err
}
