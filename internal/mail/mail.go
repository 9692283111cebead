// Package mail delivers transactional email. Production uses SMTP, dev
// environments fall back to logging the message.
package mail

import "context"

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
