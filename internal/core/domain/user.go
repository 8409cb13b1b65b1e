package domain

import (
	"errors"
	"time"
)

const (
	AuthorityUser  = "ROLE_USER"
	AuthorityAdmin = "ROLE_ADMIN"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTooManyAttempts = errors.New("too many login attempts")

// DefaultAuthorities returns the authority set attached to every new
// registration. Caller-supplied authorities are never honoured.
func DefaultAuthorities() []string {
	return []string{AuthorityUser}
}

// User models one registered principal.
//
// PasswordHash is a bcrypt hash; it encodes its own cost and salt, so
// verification keeps working after the configured cost changes for new
// registrations. It is never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Authorities  []string  `json:"authorities"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasAuthority reports whether the user carries the given authority string.
func (u *User) HasAuthority(authority string) bool {
	for _, a := range u.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}
