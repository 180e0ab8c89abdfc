package domain

import "time"

type NotificationType string

const (
	NotifTaskAssigned   NotificationType = "TASK_ASSIGNED"
	NotifTaskUnassigned NotificationType = "TASK_UNASSIGNED"
	NotifCommentMention NotificationType = "COMMENT_MENTION"
)

type Notification struct {
	ID        int64            `db:"id" json:"id"`
	UserID    int64            `db:"user_id" json:"user_id"`
	Type      NotificationType `db:"type" json:"type"`
	Content   string           `db:"content" json:"content"`
	TaskID    *int64           `db:"task_id" json:"task_id,omitempty"`
	Read      bool             `db:"read" json:"read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
