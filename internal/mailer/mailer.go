// Package mailer relays contact-form messages to the operator mailbox.
package mailer

import "context"

// ContactMessage carries the raw contact-form fields.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Mailer sends a contact message. One-shot, synchronous, no retry or
// queueing; the caller decides what to do with a failure.
type Mailer interface {
	Send(ctx context.Context, msg ContactMessage) error
}
