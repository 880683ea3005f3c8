package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"academy/internal/auth"
)

// Login errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("admin account is not active")
)

// Store is the persistence needed by the service.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	ListApplications(ctx context.Context) ([]Application, error)
	UpdateApplicationStatus(ctx context.Context, id, status string) error
	InsertFeedback(ctx context.Context, studentID, text string) (Feedback, error)
	UpdateFeedback(ctx context.Context, id, text string) error
}

// TokenConfig describes the session tokens minted at login.
type TokenConfig struct {
	Issuer string
	Key    string
	TTL    time.Duration
}

// Service implements admin auth and back-office operations.
type Service struct {
	store Store
	token TokenConfig
}

// NewService creates the admin service.
func NewService(store Store, token TokenConfig) *Service {
	if token.TTL <= 0 {
		token.TTL = time.Hour
	}
	return &Service{store: store, token: token}
}

// Login checks the password against the stored bcrypt hash and issues a
// session token. Unknown emails and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (auth.Token, *Admin, error) {
	a, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return auth.Token{}, nil, fmt.Errorf("lookup admin: %w", err)
	}
	if a == nil {
		return auth.Token{}, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return auth.Token{}, nil, ErrInvalidCredentials
	}
	if a.Status != "active" {
		return auth.Token{}, nil, ErrAccountInactive
	}

	token, err := auth.Issue(a.ID, a.Email, a.Name, auth.RoleAdmin, s.token.Issuer, s.token.Key, s.token.TTL)
	if err != nil {
		return auth.Token{}, nil, fmt.Errorf("issue token: %w", err)
	}
	return token, a, nil
}

// Applications returns all enrollment applications.
func (s *Service) Applications(ctx context.Context) ([]Application, error) {
	return s.store.ListApplications(ctx)
}

// SetApplicationStatus updates one application's status.
func (s *Service) SetApplicationStatus(ctx context.Context, id, status string) error {
	return s.store.UpdateApplicationStatus(ctx, id, status)
}

// AddFeedback stores a feedback note for a student.
func (s *Service) AddFeedback(ctx context.Context, studentID, text string) (Feedback, error) {
	return s.store.InsertFeedback(ctx, studentID, text)
}

// SetFeedback replaces a feedback note's text.
func (s *Service) SetFeedback(ctx context.Context, id, text string) error {
	return s.store.UpdateFeedback(ctx, id, text)
}
