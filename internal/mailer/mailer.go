package mailer

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Message is a single outbound email.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers transactional mail.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Console logs messages instead of delivering them. Used in dev and tests.
type Console struct{}

// Send logs the message.
func (Console) Send(_ context.Context, msg Message) error {
	log.WithFields(log.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("mail (console)")
	return nil
}
