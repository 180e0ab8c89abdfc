package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"taskflow/internal/domain"
	"taskflow/internal/repository"
	"taskflow/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func createUser(t *testing.T, db *pgxpool.Pool, name string) *domain.User {
	t.Helper()
	hash, err := service.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		PasswordHash: hash,
	}
	if err := repository.NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createProject(t *testing.T, db *pgxpool.Pool, owner *domain.User, public bool) *domain.Project {
	t.Helper()
	repo := repository.NewProjectRepository(db)
	p := &domain.Project{OwnerID: owner.ID, Name: "proj-" + uuid.NewString()[:8], Public: public}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("create project: %v", err)
	}
	m := &domain.ProjectMember{ProjectID: p.ID, UserID: owner.ID, Role: domain.RoleOwner}
	if err := repo.AddMember(context.Background(), m); err != nil {
		t.Fatalf("add owner member: %v", err)
	}
	return p
}

func createTask(t *testing.T, db *pgxpool.Pool, p *domain.Project, creator *domain.User) *domain.Task {
	t.Helper()
	task := &domain.Task{
		ProjectID: &p.ID,
		CreatorID: creator.ID,
		Title:     "task-" + uuid.NewString()[:8],
		Status:    domain.StatusTodo,
		Priority:  domain.PriorityMedium,
	}
	if err := repository.NewTaskRepository(db).Create(context.Background(), task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}
