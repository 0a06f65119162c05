// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered club member account.
//
// PasswordHash holds the bcrypt output, never the plaintext. The json:"-"
// tag is a second line of defence: even if a *User is ever encoded directly,
// the hash cannot leak. External responses should still go through Public()
// so the wire shape is explicit rather than relying on tags alone.
//
// IsAdmin is derived from the email domain at credential-write time
// (see service.AuthService.Register). It is never read from client input.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	Email        string    `json:"email"     db:"email"` // lowercase-normalized
	PasswordHash string    `json:"-"         db:"password_hash"`
	IsAdmin      bool      `json:"isAdmin"   db:"is_admin"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicUser is the sanitized projection returned by every auth endpoint.
// It is the only shape that ever crosses the API boundary for a user.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public returns the sanitized projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
