package integration

import (
	"context"
	"testing"

	"taskflow/internal/domain"
	"taskflow/internal/repository"
	"taskflow/internal/service"
)

func TestTaskStatusCompletionCoupling(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner, false)
	task := createTask(t, db, project, owner)

	svc := service.NewTaskService(db)
	repo := repository.NewTaskRepository(db)

	done := domain.StatusDone
	if _, err := svc.Update(ctx, owner.ID, task, service.TaskPatch{Status: &done}); err != nil {
		t.Fatalf("update to DONE: %v", err)
	}

	got, err := repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Status != domain.StatusDone || got.CompletedAt == nil {
		t.Fatalf("after DONE: status=%s completedAt=%v", got.Status, got.CompletedAt)
	}

	todo := domain.StatusTodo
	if _, err := svc.Update(ctx, owner.ID, got, service.TaskPatch{Status: &todo}); err != nil {
		t.Fatalf("update to TODO: %v", err)
	}

	got, err = repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Status != domain.StatusTodo || got.CompletedAt != nil {
		t.Fatalf("after TODO: status=%s completedAt=%v", got.Status, got.CompletedAt)
	}
}

func TestAssignmentSyncWithNotifications(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	project := createProject(t, db, owner, false)
	task := createTask(t, db, project, owner)

	svc := service.NewTaskService(db)
	repo := repository.NewTaskRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	// owner assigns themselves plus alice and bob
	desired := []int64{owner.ID, alice.ID, bob.ID}
	if _, err := svc.Update(ctx, owner.ID, task, service.TaskPatch{AssignedUserIDs: &desired}); err != nil {
		t.Fatalf("sync assignments: %v", err)
	}

	ids, err := repo.ListAssigneeIDs(ctx, task.ID)
	if err != nil {
		t.Fatalf("list assignees: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("assignees = %v; want 3", ids)
	}

	// the actor gets no notification, the others exactly one each
	ownerNotifs, err := notifRepo.ListByUser(ctx, owner.ID, false, 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(ownerNotifs) != 0 {
		t.Fatalf("owner notifications = %d; want 0", len(ownerNotifs))
	}
	for _, u := range []*domain.User{alice, bob} {
		notifs, err := notifRepo.ListByUser(ctx, u.ID, false, 10)
		if err != nil {
			t.Fatalf("list notifications: %v", err)
		}
		if len(notifs) != 1 || notifs[0].Type != domain.NotifTaskAssigned {
			t.Fatalf("user %d notifications = %+v; want one TASK_ASSIGNED", u.ID, notifs)
		}
	}

	// shrink the set; removed user keeps their old notification but no new one
	desired = []int64{alice.ID}
	if _, err := svc.Update(ctx, owner.ID, task, service.TaskPatch{AssignedUserIDs: &desired}); err != nil {
		t.Fatalf("shrink assignments: %v", err)
	}
	ids, err = repo.ListAssigneeIDs(ctx, task.ID)
	if err != nil {
		t.Fatalf("list assignees: %v", err)
	}
	if len(ids) != 1 || ids[0] != alice.ID {
		t.Fatalf("assignees = %v; want [%d]", ids, alice.ID)
	}
	notifs, err := notifRepo.ListByUser(ctx, alice.ID, false, 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notifs) != 1 {
		t.Fatalf("alice notifications = %d; want 1 (no duplicate)", len(notifs))
	}
}
