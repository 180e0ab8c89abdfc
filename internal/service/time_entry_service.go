package service

import (
	"context"
	"errors"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrOpenEntryExists = errors.New("user already has an open time entry")
	ErrEndBeforeStart  = errors.New("end time before start time")
)

// TimeEntryService derives durations and guards the one-open-entry-per-user
// rule. The rule is backed by a partial unique index, so the pre-check only
// exists to produce a friendly error ahead of the constraint.
type TimeEntryService struct {
	repo *repository.TimeEntryRepository
}

func NewTimeEntryService(db *pgxpool.Pool) *TimeEntryService {
	return &TimeEntryService{repo: repository.NewTimeEntryRepository(db)}
}

// durationSeconds is floor((end-start)/1s), nil while the entry is open.
func durationSeconds(start time.Time, end *time.Time) *int64 {
	if end == nil {
		return nil
	}
	secs := int64(end.Sub(start) / time.Second)
	return &secs
}

func (s *TimeEntryService) Create(ctx context.Context, userID, taskID int64, start time.Time, end *time.Time) (*domain.TimeEntry, error) {
	if end != nil && end.Before(start) {
		return nil, ErrEndBeforeStart
	}

	if end == nil {
		open, err := s.repo.HasOpenEntry(ctx, userID)
		if err != nil {
			return nil, err
		}
		if open {
			return nil, ErrOpenEntryExists
		}
	}

	e := &domain.TimeEntry{
		TaskID:          taskID,
		UserID:          userID,
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: durationSeconds(start, end),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrOpenEntryExists
		}
		return nil, err
	}
	return e, nil
}

// Update recomputes duration from whichever of the new and stored timestamps
// apply, preferring newly supplied values.
func (s *TimeEntryService) Update(ctx context.Context, e *domain.TimeEntry, newStart, newEnd *time.Time, clearEnd bool) (*domain.TimeEntry, error) {
	if newStart != nil {
		e.StartTime = *newStart
	}
	if clearEnd {
		e.EndTime = nil
	} else if newEnd != nil {
		e.EndTime = newEnd
	}
	if e.EndTime != nil && e.EndTime.Before(e.StartTime) {
		return nil, ErrEndBeforeStart
	}
	e.DurationSeconds = durationSeconds(e.StartTime, e.EndTime)

	if err := s.repo.Update(ctx, e); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrOpenEntryExists
		}
		return nil, err
	}
	return e, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
