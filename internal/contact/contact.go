package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"academy/internal/mailer"
	"academy/internal/metrics"
)

// ErrMailFailed reports that the admin notification could not be sent.
// The stored message remains.
var ErrMailFailed = errors.New("contact mail delivery failed")

// Message is a stored contact-form submission.
type Message struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	Subject          string    `json:"subject"`
	Message          string    `json:"message"`
	PreferredContact string    `json:"preferred_contact,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Repository persists contact messages.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores a new contact message.
func (r *Repository) Insert(ctx context.Context, msg Message) (Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (id, name, email, phone, subject, message, preferred_contact)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING created_at
	`, msg.ID, msg.Name, msg.Email, msg.Phone, msg.Subject, msg.Message, msg.PreferredContact)
	if err := row.Scan(&msg.CreatedAt); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// Store is the persistence needed by the service.
type Store interface {
	Insert(ctx context.Context, msg Message) (Message, error)
}

// Service stores submissions and notifies the academy inbox.
type Service struct {
	store Store
	mail  mailer.Mailer
	inbox string
}

// NewService creates the contact service.
func NewService(store Store, mail mailer.Mailer, inbox string) *Service {
	return &Service{store: store, mail: mail, inbox: inbox}
}

// Submit stores the message and mails the academy inbox. The mail is
// part of the contract: a delivery failure fails the request, though
// the stored row remains.
func (s *Service) Submit(ctx context.Context, msg Message) (Message, error) {
	stored, err := s.store.Insert(ctx, msg)
	if err != nil {
		return Message{}, fmt.Errorf("save contact message: %w", err)
	}

	notification := mailer.ContactMail(s.inbox, stored.Name, stored.Email, stored.Phone,
		stored.Subject, stored.Message, stored.PreferredContact)
	if err := s.mail.Send(ctx, notification); err != nil {
		metrics.MailSent.WithLabelValues("contact", "error").Inc()
		return stored, ErrMailFailed
	}
	metrics.MailSent.WithLabelValues("contact", "ok").Inc()
	return stored, nil
}
