package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is a single stored attendance row. Rows are immutable after
// insert except for admin status corrections.
type Record struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id"`
	Date         string    `json:"date"`
	Timing       string    `json:"timing"`
	Status       string    `json:"status"`
	SessionLabel string    `json:"session_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository persists attendance data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertAndCount writes a new record and returns the student's running
// session total including it. Both run in one transaction holding a row
// lock on the student, so concurrent check-ins for the same student
// serialize and each total is observed exactly once.
func (r *Repository) InsertAndCount(ctx context.Context, rec Record) (Record, int, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var lockedID string
	if err := tx.QueryRowContext(ctx, `
		SELECT id FROM students WHERE id = $1 FOR UPDATE
	`, rec.StudentID).Scan(&lockedID); err != nil {
		if err == sql.ErrNoRows {
			return Record{}, 0, fmt.Errorf("student %s not found", rec.StudentID)
		}
		return Record{}, 0, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO attendance (id, student_id, date, timing, status, session_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, rec.ID, rec.StudentID, rec.Date, rec.Timing, rec.Status, rec.SessionLabel)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		return Record{}, 0, err
	}

	var count int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM attendance WHERE student_id = $1
	`, rec.StudentID).Scan(&count); err != nil {
		return Record{}, 0, err
	}

	if err := tx.Commit(); err != nil {
		return Record{}, 0, err
	}
	return rec, count, nil
}

// UpdateStatus corrects the status of an existing record.
func (r *Repository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE attendance SET status = $2 WHERE id = $1
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

// ListByStudent returns a student's records, newest first.
func (r *Repository) ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, date, timing, status, session_name, created_at
		FROM attendance
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, studentID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.Date, &rec.Timing, &rec.Status, &rec.SessionLabel, &rec.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}
