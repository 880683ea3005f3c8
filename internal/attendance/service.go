package attendance

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"academy/internal/metrics"
	"academy/internal/queue"
	"academy/internal/student"
)

// MilestoneEvery is the session interval that triggers a congratulatory
// mail: every 4th recorded session.
const MilestoneEvery = 4

// Result is the outcome of recording one attendance session.
type Result struct {
	Record           Record
	MilestoneReached bool
	TotalSessions    int
}

// Recorder is the persistence needed by the service.
type Recorder interface {
	InsertAndCount(ctx context.Context, rec Record) (Record, int, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]Record, error)
}

// StudentDirectory resolves student profiles for milestone mail.
type StudentDirectory interface {
	GetByID(ctx context.Context, id string) (*student.Student, error)
}

// Service records attendance and detects session milestones.
type Service struct {
	repo     Recorder
	students StudentDirectory
	jobs     queue.Queue
}

// NewService creates the attendance service.
func NewService(repo Recorder, students StudentDirectory, jobs queue.Queue) *Service {
	return &Service{repo: repo, students: students, jobs: jobs}
}

// Record inserts the session, counts the student's total and, on every
// 4th session, queues a congratulatory mail job. Queue failures are
// logged and do not fail the request.
func (s *Service) Record(ctx context.Context, rec Record) (Result, error) {
	if rec.StudentID == "" {
		return Result{}, errors.New("student id required")
	}

	stored, count, err := s.repo.InsertAndCount(ctx, rec)
	if err != nil {
		return Result{}, fmt.Errorf("record attendance: %w", err)
	}

	st, err := s.students.GetByID(ctx, rec.StudentID)
	if err != nil {
		return Result{}, fmt.Errorf("load student: %w", err)
	}
	if st == nil {
		return Result{}, fmt.Errorf("load student: %s not found", rec.StudentID)
	}

	res := Result{
		Record:           stored,
		MilestoneReached: count > 0 && count%MilestoneEvery == 0,
		TotalSessions:    count,
	}

	if res.MilestoneReached {
		metrics.MilestonesFired.Inc()
		msg, err := queue.NewMilestoneMessage(queue.MilestoneJob{
			Email:    st.Email,
			Name:     st.Name,
			Sessions: count,
		})
		if err == nil {
			err = s.jobs.Publish(ctx, msg)
		}
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"student":  st.ID,
				"sessions": count,
			}).Error("milestone mail job publish failed")
		} else {
			log.WithFields(log.Fields{
				"student":  st.ID,
				"sessions": count,
			}).Info("milestone reached")
		}
	}

	return res, nil
}

// UpdateStatus corrects a stored record's status.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	return s.repo.UpdateStatus(ctx, id, status)
}

// History returns a student's records, newest first.
func (s *Service) History(ctx context.Context, studentID string, limit, offset int) ([]Record, error) {
	return s.repo.ListByStudent(ctx, studentID, limit, offset)
}
