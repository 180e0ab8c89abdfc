package repository

import (
	"context"

	"taskflow/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TimeEntryRepository struct {
	db *pgxpool.Pool
}

func NewTimeEntryRepository(db *pgxpool.Pool) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

func (r *TimeEntryRepository) Create(ctx context.Context, e *domain.TimeEntry) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO time_entries (task_id, user_id, start_time, end_time, duration_seconds)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		e.TaskID, e.UserID, e.StartTime, e.EndTime, e.DurationSeconds,
	).Scan(&e.ID, &e.CreatedAt)
}

func (r *TimeEntryRepository) GetByID(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	var e domain.TimeEntry
	err := r.db.QueryRow(ctx,
		`SELECT id, task_id, user_id, start_time, end_time, duration_seconds, created_at
		 FROM time_entries WHERE id = $1`, id,
	).Scan(&e.ID, &e.TaskID, &e.UserID, &e.StartTime, &e.EndTime, &e.DurationSeconds, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *TimeEntryRepository) ListByTask(ctx context.Context, taskID int64) ([]*domain.TimeEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, task_id, user_id, start_time, end_time, duration_seconds, created_at
		 FROM time_entries WHERE task_id = $1
		 ORDER BY start_time DESC`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.TimeEntry
	for rows.Next() {
		var e domain.TimeEntry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.UserID, &e.StartTime, &e.EndTime, &e.DurationSeconds, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &e)
	}
	return res, rows.Err()
}

func (r *TimeEntryRepository) Update(ctx context.Context, e *domain.TimeEntry) error {
	_, err := r.db.Exec(ctx,
		`UPDATE time_entries SET start_time = $1, end_time = $2, duration_seconds = $3 WHERE id = $4`,
		e.StartTime, e.EndTime, e.DurationSeconds, e.ID,
	)
	return err
}

func (r *TimeEntryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	return err
}

// HasOpenEntry reports whether the user has an entry with no end time.
func (r *TimeEntryRepository) HasOpenEntry(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM time_entries WHERE user_id = $1 AND end_time IS NULL)`,
		userID,
	).Scan(&exists)
	return exists, err
}
