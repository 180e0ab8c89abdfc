package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAlreadyAssigned = errors.New("user already assigned")

// Notifier delivers a committed notification to connected clients. The ws hub
// implements it; a nil Notifier disables push.
type Notifier interface {
	Push(userID int64, n *domain.Notification)
}

// TaskService owns the task status/completion coupling and the assignment
// sync. All writes for one update happen in a single transaction.
type TaskService struct {
	db       *pgxpool.Pool
	notifier Notifier
}

func NewTaskService(db *pgxpool.Pool) *TaskService {
	return &TaskService{db: db}
}

func (s *TaskService) SetNotifier(n Notifier) {
	s.notifier = n
}

// TaskPatch carries a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	DueDate     *time.Time
	ClearDue    bool
	SectionID   *int64
	Position    *int
	// AssignedUserIDs, when non-nil, is the full desired assignee set.
	AssignedUserIDs *[]int64
}

// applyStatus returns the completion timestamp implied by a status patch:
// entering DONE stamps now, any other explicit status clears it, an omitted
// status keeps the current value.
func applyStatus(current domain.TaskStatus, currentCompleted *time.Time, patch *domain.TaskStatus, now time.Time) (domain.TaskStatus, *time.Time) {
	if patch == nil {
		return current, currentCompleted
	}
	if *patch == domain.StatusDone {
		if current != domain.StatusDone {
			return *patch, &now
		}
		return *patch, currentCompleted
	}
	return *patch, nil
}

// diffAssignees computes the additions and removals taking the current set to
// the desired set.
func diffAssignees(current, desired []int64) (toAdd, toRemove []int64) {
	cur := make(map[int64]bool, len(current))
	for _, id := range current {
		cur[id] = true
	}
	des := make(map[int64]bool, len(desired))
	for _, id := range desired {
		if des[id] {
			continue
		}
		des[id] = true
		if !cur[id] {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if !des[id] {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

// Update applies a patch to the task, syncs assignments and inserts
// TASK_ASSIGNED notifications for new assignees other than the actor, all in
// one transaction. Pushes to the notifier only after commit.
func (s *TaskService) Update(ctx context.Context, actorID int64, t *domain.Task, patch TaskPatch) (*domain.Task, error) {
	now := time.Now()

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.SectionID != nil {
		t.SectionID = patch.SectionID
	}
	if patch.Position != nil {
		t.Position = *patch.Position
	}
	if patch.ClearDue {
		t.DueDate = nil
	} else if patch.DueDate != nil {
		t.DueDate = patch.DueDate
	}
	t.Status, t.CompletedAt = applyStatus(t.Status, t.CompletedAt, patch.Status, now)
	t.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, status = $3, priority = $4, position = $5,
		     section_id = $6, due_date = $7, completed_at = $8, updated_at = $9
		 WHERE id = $10`,
		t.Title, t.Description, t.Status, t.Priority, t.Position,
		t.SectionID, t.DueDate, t.CompletedAt, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return nil, err
	}

	var queued []*domain.Notification
	if patch.AssignedUserIDs != nil {
		queued, err = s.syncAssignments(ctx, tx, actorID, t, *patch.AssignedUserIDs)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		for _, n := range queued {
			s.notifier.Push(n.UserID, n)
		}
	}
	return t, nil
}

func (s *TaskService) syncAssignments(ctx context.Context, tx pgx.Tx, actorID int64, t *domain.Task, desired []int64) ([]*domain.Notification, error) {
	rows, err := tx.Query(ctx, `SELECT user_id FROM task_assignments WHERE task_id = $1`, t.ID)
	if err != nil {
		return nil, err
	}
	var current []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		current = append(current, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	toAdd, toRemove := diffAssignees(current, desired)

	for _, uid := range toRemove {
		if _, err := tx.Exec(ctx,
			`DELETE FROM task_assignments WHERE task_id = $1 AND user_id = $2`, t.ID, uid); err != nil {
			return nil, err
		}
	}

	var queued []*domain.Notification
	for _, uid := range toAdd {
		if _, err := tx.Exec(ctx,
			`INSERT INTO task_assignments (task_id, user_id) VALUES ($1, $2)`, t.ID, uid); err != nil {
			return nil, err
		}
		if uid == actorID {
			continue
		}
		n := &domain.Notification{
			UserID:  uid,
			Type:    domain.NotifTaskAssigned,
			Content: fmt.Sprintf("You were assigned to task %q", t.Title),
			TaskID:  &t.ID,
		}
		err := tx.QueryRow(ctx,
			`INSERT INTO notifications (user_id, type, content, task_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`,
			n.UserID, n.Type, n.Content, n.TaskID,
		).Scan(&n.ID, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		queued = append(queued, n)
	}
	return queued, nil
}

// Assign adds a single user to the task's assignee set. Returns
// ErrAlreadyAssigned if the link already exists.
func (s *TaskService) Assign(ctx context.Context, actorID int64, t *domain.Task, userID int64) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`INSERT INTO task_assignments (task_id, user_id) VALUES ($1, $2)
		 ON CONFLICT (task_id, user_id) DO NOTHING`,
		t.ID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyAssigned
	}

	var queued *domain.Notification
	if userID != actorID {
		n := &domain.Notification{
			UserID:  userID,
			Type:    domain.NotifTaskAssigned,
			Content: fmt.Sprintf("You were assigned to task %q", t.Title),
			TaskID:  &t.ID,
		}
		err := tx.QueryRow(ctx,
			`INSERT INTO notifications (user_id, type, content, task_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`,
			n.UserID, n.Type, n.Content, n.TaskID,
		).Scan(&n.ID, &n.CreatedAt)
		if err != nil {
			return err
		}
		queued = n
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	if s.notifier != nil && queued != nil {
		s.notifier.Push(queued.UserID, queued)
	}
	return nil
}

// Unassign removes a single assignment. Removing a missing link is a no-op
// error so callers can 404.
func (s *TaskService) Unassign(ctx context.Context, taskID, userID int64) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM task_assignments WHERE task_id = $1 AND user_id = $2`,
		taskID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
