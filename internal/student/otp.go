package student

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	log "github.com/sirupsen/logrus"

	"academy/internal/auth"
	"academy/internal/mailer"
	"academy/internal/metrics"
)

// OTP lifecycle errors.
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrOTPNotFound     = errors.New("otp not found")
	ErrOTPExpired      = errors.New("otp expired")
	ErrOTPInvalid      = errors.New("invalid otp")
	ErrTooManySends    = errors.New("too many otp requests")
	ErrMailFailed      = errors.New("otp mail delivery failed")
)

// Store is the persistence needed by the OTP service.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*Student, error)
	InsertOTP(ctx context.Context, email, code string, expiresAt time.Time) (OTP, error)
	LatestOTP(ctx context.Context, email string) (*OTP, error)
	ConsumeOTP(ctx context.Context, id string) (bool, error)
}

// Limiter caps issuance per email.
type Limiter interface {
	Allow(ctx context.Context, email string) (bool, error)
}

// TokenConfig describes the session tokens minted on verification.
type TokenConfig struct {
	Issuer string
	Key    string
	TTL    time.Duration
}

// Service implements the OTP login lifecycle.
type Service struct {
	store   Store
	limiter Limiter
	mail    mailer.Mailer
	digits  int
	ttl     time.Duration
	token   TokenConfig
}

// NewService creates the OTP service.
func NewService(store Store, limiter Limiter, mail mailer.Mailer, digits int, ttl time.Duration, token TokenConfig) *Service {
	if digits <= 0 {
		digits = 6
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if token.TTL <= 0 {
		token.TTL = time.Hour
	}
	return &Service{store: store, limiter: limiter, mail: mail, digits: digits, ttl: ttl, token: token}
}

// GenerateCode draws a uniform random code of the given digit length,
// zero-padded.
func GenerateCode(digits int) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

// Issue generates, stores and mails a fresh login code for the email.
// The code row is written before the mail goes out; a mail failure
// leaves the row in place and is reported as ErrMailFailed.
func (s *Service) Issue(ctx context.Context, email string) error {
	st, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup student: %w", err)
	}
	if st == nil {
		return ErrStudentNotFound
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, email)
		if err != nil {
			// Limiter outage must not block logins.
			log.WithError(err).Warn("otp send limiter unavailable")
		} else if !ok {
			return ErrTooManySends
		}
	}

	code, err := GenerateCode(s.digits)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	if _, err := s.store.InsertOTP(ctx, email, code, time.Now().Add(s.ttl)); err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	metrics.OTPIssued.Inc()

	if err := s.mail.Send(ctx, mailer.OTPMail(email, st.Name, code, s.ttl)); err != nil {
		metrics.MailSent.WithLabelValues("otp", "error").Inc()
		log.WithError(err).WithField("email", email).Error("otp mail failed")
		return ErrMailFailed
	}
	metrics.MailSent.WithLabelValues("otp", "ok").Inc()
	return nil
}

// Verify checks the candidate code against the newest stored code for
// the email and mints a session token on success. A code verifies at
// most once; the guarded consume settles concurrent attempts.
func (s *Service) Verify(ctx context.Context, email, candidate string) (auth.Token, *Student, error) {
	rec, err := s.store.LatestOTP(ctx, email)
	if err != nil {
		return auth.Token{}, nil, fmt.Errorf("lookup otp: %w", err)
	}
	if rec == nil {
		metrics.OTPVerified.WithLabelValues("not_found").Inc()
		return auth.Token{}, nil, ErrOTPNotFound
	}

	if time.Now().After(rec.ExpiresAt) {
		metrics.OTPVerified.WithLabelValues("expired").Inc()
		return auth.Token{}, nil, ErrOTPExpired
	}
	if rec.Code != candidate || rec.ConsumedAt != nil {
		metrics.OTPVerified.WithLabelValues("invalid").Inc()
		return auth.Token{}, nil, ErrOTPInvalid
	}

	ok, err := s.store.ConsumeOTP(ctx, rec.ID)
	if err != nil {
		return auth.Token{}, nil, fmt.Errorf("consume otp: %w", err)
	}
	if !ok {
		metrics.OTPVerified.WithLabelValues("invalid").Inc()
		return auth.Token{}, nil, ErrOTPInvalid
	}

	st, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return auth.Token{}, nil, fmt.Errorf("lookup student: %w", err)
	}
	if st == nil {
		return auth.Token{}, nil, ErrStudentNotFound
	}

	token, err := auth.Issue(st.ID, st.Email, st.Name, auth.RoleStudent, s.token.Issuer, s.token.Key, s.token.TTL)
	if err != nil {
		return auth.Token{}, nil, fmt.Errorf("issue token: %w", err)
	}
	metrics.OTPVerified.WithLabelValues("ok").Inc()
	return token, st, nil
}
