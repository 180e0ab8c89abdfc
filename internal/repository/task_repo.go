package repository

import (
	"context"
	"strconv"

	"taskflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskCols = `id, project_id, section_id, parent_task_id, creator_id, title, description,
	status, priority, position, due_date, completed_at, created_at, updated_at`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID, &t.ProjectID, &t.SectionID, &t.ParentTaskID, &t.CreatorID,
		&t.Title, &t.Description, &t.Status, &t.Priority, &t.Position,
		&t.DueDate, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (project_id, section_id, parent_task_id, creator_id, title, description, status, priority, position, due_date, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		t.ProjectID, t.SectionID, t.ParentTaskID, t.CreatorID, t.Title, t.Description,
		t.Status, t.Priority, t.Position, t.DueDate, t.CompletedAt,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return scanTask(r.db.QueryRow(ctx, `SELECT `+taskCols+` FROM tasks WHERE id = $1`, id))
}

// TaskFilter narrows ListByProject. Zero values mean "no filter".
type TaskFilter struct {
	Status     domain.TaskStatus
	AssigneeID int64
	SectionID  int64
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64, f TaskFilter) ([]*domain.Task, error) {
	q := `SELECT ` + taskCols + ` FROM tasks WHERE project_id = $1 AND parent_task_id IS NULL`
	args := []any{projectID}

	if f.Status != "" {
		args = append(args, f.Status)
		q += ` AND status = $` + strconv.Itoa(len(args))
	}
	if f.SectionID != 0 {
		args = append(args, f.SectionID)
		q += ` AND section_id = $` + strconv.Itoa(len(args))
	}
	if f.AssigneeID != 0 {
		args = append(args, f.AssigneeID)
		q += ` AND id IN (SELECT task_id FROM task_assignments WHERE user_id = $` + strconv.Itoa(len(args)) + `)`
	}
	q += ` ORDER BY position, id`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *TaskRepository) ListSubtasks(ctx context.Context, parentID int64) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskCols+` FROM tasks WHERE parent_task_id = $1 ORDER BY position, id`,
		parentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// Recent returns the most recently updated tasks the user created or is
// assigned to.
func (r *TaskRepository) Recent(ctx context.Context, userID int64, limit int) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT `+taskCols+`
		 FROM tasks
		 WHERE creator_id = $1
		    OR id IN (SELECT task_id FROM task_assignments WHERE user_id = $1)
		 ORDER BY updated_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func collectTasks(rows pgx.Rows) ([]*domain.Task, error) {
	var res []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

// ListAssignees returns the users currently assigned to a task.
func (r *TaskRepository) ListAssignees(ctx context.Context, taskID int64) ([]domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, u.email, u.image_url, u.created_at
		 FROM task_assignments ta
		 JOIN users u ON u.id = ta.user_id
		 WHERE ta.task_id = $1
		 ORDER BY ta.created_at`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.ImageURL, &u.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *TaskRepository) ListAssigneeIDs(ctx context.Context, taskID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM task_assignments WHERE task_id = $1`, taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		res = append(res, id)
	}
	return res, rows.Err()
}
