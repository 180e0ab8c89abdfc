package repository

import (
	"context"

	"taskflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectCols = `id, owner_id, client_id, name, description, public, created_at, updated_at`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.OwnerID, &p.ClientID, &p.Name, &p.Description, &p.Public, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO projects (owner_id, client_id, name, description, public)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		p.OwnerID, p.ClientID, p.Name, p.Description, p.Public,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	return scanProject(r.db.QueryRow(ctx,
		`SELECT `+projectCols+` FROM projects WHERE id = $1`, id))
}

// ListForUser returns projects the user owns or is a member of.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID int64) ([]*domain.Project, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT p.id, p.owner_id, p.client_id, p.name, p.description, p.public, p.created_at, p.updated_at
		 FROM projects p
		 LEFT JOIN project_members pm ON pm.project_id = p.id
		 WHERE p.owner_id = $1 OR pm.user_id = $1
		 ORDER BY p.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	_, err := r.db.Exec(ctx,
		`UPDATE projects SET client_id = $1, name = $2, description = $3, public = $4, updated_at = now()
		 WHERE id = $5`,
		p.ClientID, p.Name, p.Description, p.Public, p.ID,
	)
	return err
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

func (r *ProjectRepository) Touch(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE projects SET updated_at = now() WHERE id = $1`, id)
	return err
}

// GetMember returns the membership row for (projectID, userID), or pgx.ErrNoRows.
func (r *ProjectRepository) GetMember(ctx context.Context, projectID, userID int64) (*domain.ProjectMember, error) {
	var m domain.ProjectMember
	err := r.db.QueryRow(ctx,
		`SELECT id, project_id, user_id, role, created_at
		 FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	).Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ProjectRepository) AddMember(ctx context.Context, m *domain.ProjectMember) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO project_members (project_id, user_id, role)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		m.ProjectID, m.UserID, m.Role,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *ProjectRepository) ListMembers(ctx context.Context, projectID int64) ([]*domain.ProjectMemberWithUser, error) {
	rows, err := r.db.Query(ctx,
		`SELECT pm.id, pm.project_id, pm.user_id, pm.role, pm.created_at,
		        u.id, u.name, u.email, u.image_url, u.created_at
		 FROM project_members pm
		 JOIN users u ON u.id = pm.user_id
		 WHERE pm.project_id = $1
		 ORDER BY pm.created_at`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.ProjectMemberWithUser
	for rows.Next() {
		var m domain.ProjectMemberWithUser
		err := rows.Scan(
			&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt,
			&m.User.ID, &m.User.Name, &m.User.Email, &m.User.ImageURL, &m.User.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}

func (r *ProjectRepository) UpdateMemberRole(ctx context.Context, projectID, userID int64, role domain.MemberRole) error {
	_, err := r.db.Exec(ctx,
		`UPDATE project_members SET role = $1 WHERE project_id = $2 AND user_id = $3`,
		role, projectID, userID,
	)
	return err
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	)
	return err
}

// ProjectStats is the aggregate report for a project.
type ProjectStats struct {
	TasksByStatus       map[string]int64 `json:"tasks_by_status"`
	TasksByPriority     map[string]int64 `json:"tasks_by_priority"`
	TotalTrackedSeconds int64            `json:"total_tracked_seconds"`
	OpenTasksByAssignee map[int64]int64  `json:"open_tasks_by_assignee"`
}

func (r *ProjectRepository) Stats(ctx context.Context, projectID int64) (*ProjectStats, error) {
	stats := &ProjectStats{
		TasksByStatus:       make(map[string]int64),
		TasksByPriority:     make(map[string]int64),
		OpenTasksByAssignee: make(map[int64]int64),
	}

	rows, err := r.db.Query(ctx,
		`SELECT status, priority, count(*) FROM tasks WHERE project_id = $1 GROUP BY status, priority`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status, priority string
		var n int64
		if err := rows.Scan(&status, &priority, &n); err != nil {
			return nil, err
		}
		stats.TasksByStatus[status] += n
		stats.TasksByPriority[priority] += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(te.duration_seconds), 0)
		 FROM time_entries te
		 JOIN tasks t ON t.id = te.task_id
		 WHERE t.project_id = $1`,
		projectID,
	).Scan(&stats.TotalTrackedSeconds)
	if err != nil {
		return nil, err
	}

	arows, err := r.db.Query(ctx,
		`SELECT ta.user_id, count(*)
		 FROM task_assignments ta
		 JOIN tasks t ON t.id = ta.task_id
		 WHERE t.project_id = $1 AND t.status <> 'DONE'
		 GROUP BY ta.user_id`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var uid, n int64
		if err := arows.Scan(&uid, &n); err != nil {
			return nil, err
		}
		stats.OpenTasksByAssignee[uid] = n
	}
	return stats, arows.Err()
}
