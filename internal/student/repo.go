package student

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Student is a registered student account.
type Student struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Course string `json:"course,omitempty"`
}

// OTP is a stored login code. Rows are append-only; later requests
// supersede earlier ones and verification always reads the newest row.
type OTP struct {
	ID         string
	Email      string
	Code       string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// Repository persists students and their login codes in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetByEmail returns the student with the given email, or nil when absent.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, course FROM students WHERE email = $1
	`, email)
	var s Student
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// GetByID returns the student with the given id, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, course FROM students WHERE id = $1
	`, id)
	var s Student
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// InsertOTP stores a new login code. Prior rows are left untouched.
func (r *Repository) InsertOTP(ctx context.Context, email, code string, expiresAt time.Time) (OTP, error) {
	rec := OTP{
		ID:        uuid.NewString(),
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt,
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO student_otps (id, email, otp, otp_expires)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, rec.ID, rec.Email, rec.Code, rec.ExpiresAt)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		return OTP{}, err
	}
	return rec, nil
}

// LatestOTP returns the most recently created code for an email, or nil.
func (r *Repository) LatestOTP(ctx context.Context, email string) (*OTP, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, otp, otp_expires, consumed_at, created_at
		FROM student_otps
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, email)
	var rec OTP
	if err := row.Scan(&rec.ID, &rec.Email, &rec.Code, &rec.ExpiresAt, &rec.ConsumedAt, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// ConsumeOTP marks a code used. Returns false when the row was already
// consumed, so concurrent verifications settle on a single winner.
func (r *Repository) ConsumeOTP(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE student_otps SET consumed_at = NOW()
		WHERE id = $1 AND consumed_at IS NULL
	`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
