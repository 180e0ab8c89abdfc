package service

import (
	"context"
	"errors"

	"taskflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound covers both missing entities and insufficient access. Handlers
// map it to 404 so that access checks never leak entity existence.
var ErrNotFound = errors.New("not found")

type AccessLevel int

const (
	LevelNone AccessLevel = iota
	LevelRead
	LevelWrite
	LevelAdmin
)

// ProjectGrant is what the resolver needs to know about a requester's
// relationship to a project.
type ProjectGrant struct {
	OwnerID  int64
	Public   bool
	IsMember bool
	Role     domain.MemberRole
}

// ResolveProject is the single permission decision for project-scoped access:
// owners get admin; OWNER/ADMIN members get admin; any member gets write;
// public projects grant read to everyone else.
func ResolveProject(userID int64, g ProjectGrant) AccessLevel {
	if userID == g.OwnerID {
		return LevelAdmin
	}
	if g.IsMember {
		if g.Role == domain.RoleOwner || g.Role == domain.RoleAdmin {
			return LevelAdmin
		}
		return LevelWrite
	}
	if g.Public {
		return LevelRead
	}
	return LevelNone
}

// ResolveTask extends ResolveProject with the creator rule: a task's creator
// always holds admin on it. Tasks without a project are private to their
// creator.
func ResolveTask(userID, creatorID int64, g *ProjectGrant) AccessLevel {
	if userID == creatorID {
		return LevelAdmin
	}
	if g == nil {
		return LevelNone
	}
	return ResolveProject(userID, *g)
}

// Access loads grants from storage and applies the resolver.
type Access struct {
	db *pgxpool.Pool
}

func NewAccess(db *pgxpool.Pool) *Access {
	return &Access{db: db}
}

func (a *Access) projectGrant(ctx context.Context, userID, projectID int64) (*ProjectGrant, error) {
	var g ProjectGrant
	err := a.db.QueryRow(ctx,
		`SELECT owner_id, public FROM projects WHERE id = $1`, projectID,
	).Scan(&g.OwnerID, &g.Public)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var role domain.MemberRole
	err = a.db.QueryRow(ctx,
		`SELECT role FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	).Scan(&role)
	switch {
	case err == nil:
		g.IsMember = true
		g.Role = role
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, err
	}
	return &g, nil
}

// ProjectLevel resolves the requester's level on a project. A missing project
// yields ErrNotFound.
func (a *Access) ProjectLevel(ctx context.Context, userID, projectID int64) (AccessLevel, error) {
	g, err := a.projectGrant(ctx, userID, projectID)
	if err != nil {
		return LevelNone, err
	}
	return ResolveProject(userID, *g), nil
}

// TaskLevel loads the task and resolves the requester's level on it.
func (a *Access) TaskLevel(ctx context.Context, userID, taskID int64) (AccessLevel, *domain.Task, error) {
	var t domain.Task
	err := a.db.QueryRow(ctx,
		`SELECT id, project_id, section_id, parent_task_id, creator_id, title, description,
		        status, priority, position, due_date, completed_at, created_at, updated_at
		 FROM tasks WHERE id = $1`, taskID,
	).Scan(
		&t.ID, &t.ProjectID, &t.SectionID, &t.ParentTaskID, &t.CreatorID,
		&t.Title, &t.Description, &t.Status, &t.Priority, &t.Position,
		&t.DueDate, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LevelNone, nil, ErrNotFound
		}
		return LevelNone, nil, err
	}

	var g *ProjectGrant
	if t.ProjectID != nil {
		g, err = a.projectGrant(ctx, userID, *t.ProjectID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return LevelNone, nil, err
		}
	}
	return ResolveTask(userID, t.CreatorID, g), &t, nil
}
