// Package apperrors defines the error taxonomy shared by services and
// handlers. Services wrap these sentinels with context via fmt.Errorf and
// %w; handlers map them to HTTP status codes with errors.Is.
package apperrors

import "errors"

var (
	// ErrValidation marks user-correctable input problems (bad registration
	// fields, empty passwords, malformed settings).
	ErrValidation = errors.New("validation error")

	// ErrConflict marks duplicate email or display name.
	ErrConflict = errors.New("already exists")

	// ErrAuth marks failed credential checks.
	ErrAuth = errors.New("invalid credentials")

	// ErrForbidden marks admin-only access violations and attempts to delete
	// the caller's own or the master account.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks operations on nonexistent records or records owned
	// by another user.
	ErrNotFound = errors.New("not found")
)
