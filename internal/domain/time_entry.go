package domain

import "time"

// TimeEntry records work on a task. An entry with a nil EndTime is "open";
// DurationSeconds is derived and nil while the entry is open.
type TimeEntry struct {
	ID              int64      `db:"id" json:"id"`
	TaskID          int64      `db:"task_id" json:"task_id"`
	UserID          int64      `db:"user_id" json:"user_id"`
	StartTime       time.Time  `db:"start_time" json:"start_time"`
	EndTime         *time.Time `db:"end_time" json:"end_time,omitempty"`
	DurationSeconds *int64     `db:"duration_seconds" json:"duration_seconds,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
