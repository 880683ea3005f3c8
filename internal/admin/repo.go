package admin

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Admin is a staff account. Passwords are stored as bcrypt hashes.
type Admin struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	PasswordHash string `json:"-"`
}

// Application is a prospective student's enrollment application.
type Application struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Course    string    `json:"course,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Feedback is a teacher's note on a student.
type Feedback struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists admin accounts, applications and feedback.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetByEmail returns the admin with the given email, or nil when absent.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, role, status, password_hash
		FROM admins WHERE email = $1
	`, email)
	var a Admin
	if err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Role, &a.Status, &a.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// ListApplications returns all enrollment applications.
func (r *Repository) ListApplications(ctx context.Context) ([]Application, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, course, status, created_at
		FROM student_applications
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Application
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Course, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// UpdateApplicationStatus sets an application's status.
func (r *Repository) UpdateApplicationStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE student_applications SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// InsertFeedback stores a new feedback note.
func (r *Repository) InsertFeedback(ctx context.Context, studentID, text string) (Feedback, error) {
	fb := Feedback{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Feedback:  text,
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO feedback (id, student_id, feedback)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, fb.ID, fb.StudentID, fb.Feedback)
	if err := row.Scan(&fb.CreatedAt); err != nil {
		return Feedback{}, err
	}
	return fb, nil
}

// UpdateFeedback replaces a feedback note's text.
func (r *Repository) UpdateFeedback(ctx context.Context, id, text string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE feedback SET feedback = $2 WHERE id = $1
	`, id, text)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
