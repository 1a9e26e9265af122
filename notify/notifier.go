// Package notify delivers transactional mail to students.
package notify

import "context"

// Message is a single outbound notification.
type Message struct {
	Recipient string
	Subject   string
	TextBody  string
	HTMLBody  string // optional alternative part
}

// Notifier sends a notification to a single recipient. Implementations must
// bound their own I/O; a slow mail server must not hang a login attempt
// beyond the configured timeout.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
