package models

import "time"

// Master account credentials, ensured at every startup as the operator's
// known-good recovery login.
const (
	MasterEmail    = "law@local"
	MasterName     = "Law"
	MasterPassword = "ilovemyjob"
)

// User represents a user account in the system.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsMaster reports whether this is the non-deletable recovery account.
func (u User) IsMaster() bool {
	return u.Email == MasterEmail
}
