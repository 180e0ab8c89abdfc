package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"taskflow/internal/db"
	"taskflow/internal/domain"
	"taskflow/internal/repository"
	"taskflow/internal/service"

	"github.com/google/uuid"
)

// Seeds a demo user with a project and a few tasks, and prints a token.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()
	users := repository.NewUserRepository(pool)
	projects := repository.NewProjectRepository(pool)
	tasks := repository.NewTaskRepository(pool)

	email := os.Getenv("SEED_EMAIL")
	if email == "" {
		email = fmt.Sprintf("demo-%s@example.com", uuid.NewString()[:8])
	}

	u, err := users.GetByEmail(ctx, email)
	if err != nil {
		hash, err := service.HashPassword("password123")
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		u = &domain.User{Name: "Demo User", Email: email, PasswordHash: hash}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create user: %v", err)
		}
		log.Printf("user created id=%d email=%s", u.ID, u.Email)
	} else {
		log.Printf("user already exists id=%d", u.ID)
	}

	p := &domain.Project{OwnerID: u.ID, Name: "Getting Started", Description: "Demo project"}
	if err := projects.Create(ctx, p); err != nil {
		log.Fatalf("create project: %v", err)
	}
	member := &domain.ProjectMember{ProjectID: p.ID, UserID: u.ID, Role: domain.RoleOwner}
	if err := projects.AddMember(ctx, member); err != nil {
		log.Fatalf("add owner member: %v", err)
	}

	titles := []string{"Invite your team", "Create your first task", "Track some time"}
	for i, title := range titles {
		t := &domain.Task{
			ProjectID: &p.ID,
			CreatorID: u.ID,
			Title:     title,
			Status:    domain.StatusTodo,
			Priority:  domain.PriorityMedium,
			Position:  i,
		}
		if err := tasks.Create(ctx, t); err != nil {
			log.Fatalf("create task: %v", err)
		}
	}

	service.InitJWT()
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	log.Printf("project id=%d", p.ID)
	log.Printf("token=%s", token)
}
