package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskflow/internal/repository"
	"taskflow/internal/service"
)

func TestSingleOpenTimeEntryPerUser(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner, false)
	task := createTask(t, db, project, owner)

	svc := service.NewTimeEntryService(db)
	repo := repository.NewTimeEntryRepository(db)

	start := time.Now().Add(-time.Hour)
	open, err := svc.Create(ctx, owner.ID, task.ID, start, nil)
	if err != nil {
		t.Fatalf("create open entry: %v", err)
	}
	if open.EndTime != nil || open.DurationSeconds != nil {
		t.Fatalf("open entry: end=%v duration=%v; want nil", open.EndTime, open.DurationSeconds)
	}

	// a second open entry for the same user must be rejected and leave no row
	if _, err := svc.Create(ctx, owner.ID, task.ID, time.Now(), nil); !errors.Is(err, service.ErrOpenEntryExists) {
		t.Fatalf("second open entry err = %v; want ErrOpenEntryExists", err)
	}
	entries, err := repo.ListByTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d; want 1", len(entries))
	}

	// a closed entry is always allowed
	endStart := time.Now().Add(-30 * time.Minute)
	end := endStart.Add(90 * time.Second)
	closed, err := svc.Create(ctx, owner.ID, task.ID, endStart, &end)
	if err != nil {
		t.Fatalf("create closed entry: %v", err)
	}
	if closed.DurationSeconds == nil || *closed.DurationSeconds != 90 {
		t.Fatalf("closed duration = %v; want 90", closed.DurationSeconds)
	}

	// closing the open entry frees the slot and fills the duration
	stop := start.Add(2 * time.Hour)
	updated, err := svc.Update(ctx, open, nil, &stop, false)
	if err != nil {
		t.Fatalf("close entry: %v", err)
	}
	if updated.DurationSeconds == nil || *updated.DurationSeconds != 7200 {
		t.Fatalf("duration = %v; want 7200", updated.DurationSeconds)
	}
	if _, err := svc.Create(ctx, owner.ID, task.ID, time.Now(), nil); err != nil {
		t.Fatalf("open entry after close: %v", err)
	}
}

func TestTimeEntryEndBeforeStart(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner, false)
	task := createTask(t, db, project, owner)

	svc := service.NewTimeEntryService(db)

	start := time.Now()
	end := start.Add(-time.Minute)
	if _, err := svc.Create(ctx, owner.ID, task.ID, start, &end); !errors.Is(err, service.ErrEndBeforeStart) {
		t.Fatalf("err = %v; want ErrEndBeforeStart", err)
	}
}
