package domain

import "time"

// Session is an audit record of a login event. It is append-only and never
// consulted for authorization; access tokens are self-contained.
type Session struct {
	ID        string
	UserID    string
	UserAgent string
	IPAddress string
	ExpiresAt time.Time
	CreatedAt time.Time
}
