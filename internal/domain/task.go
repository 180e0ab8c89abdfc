package domain

import "time"

type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusReview     TaskStatus = "REVIEW"
	StatusDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID           int64        `db:"id" json:"id"`
	ProjectID    *int64       `db:"project_id" json:"project_id,omitempty"`
	SectionID    *int64       `db:"section_id" json:"section_id,omitempty"`
	ParentTaskID *int64       `db:"parent_task_id" json:"parent_task_id,omitempty"`
	CreatorID    int64        `db:"creator_id" json:"creator_id"`
	Title        string       `db:"title" json:"title"`
	Description  string       `db:"description" json:"description"`
	Status       TaskStatus   `db:"status" json:"status"`
	Priority     TaskPriority `db:"priority" json:"priority"`
	Position     int          `db:"position" json:"position"`
	DueDate      *time.Time   `db:"due_date" json:"due_date,omitempty"`
	CompletedAt  *time.Time   `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

type TaskAssignment struct {
	ID        int64     `db:"id" json:"id"`
	TaskID    int64     `db:"task_id" json:"task_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TaskWithAssignees is the detail view returned by the task endpoints.
type TaskWithAssignees struct {
	Task
	AssignedUsers []User `json:"assigned_users"`
}
