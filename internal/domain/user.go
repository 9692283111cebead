package domain

import "time"

// Role is the authorization role carried inside access tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an account record. PasswordHash is empty for accounts that cannot
// log in with a password; OAuth-created accounts store an undisclosed
// placeholder hash instead so password login stays impossible either way.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	Name          string
	Role          Role
	AvatarURL     string
	EmailVerified *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users []User
	Total int
	Page  int
	Pages int
}
