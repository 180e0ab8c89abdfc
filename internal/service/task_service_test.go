package service

import (
	"reflect"
	"testing"
	"time"

	"taskflow/internal/domain"
)

func TestApplyStatus(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)
	done := domain.StatusDone
	todo := domain.StatusTodo
	review := domain.StatusReview

	t.Run("entering done stamps completion", func(t *testing.T) {
		status, completed := applyStatus(domain.StatusInProgress, nil, &done, now)
		if status != domain.StatusDone {
			t.Fatalf("status = %s", status)
		}
		if completed == nil || !completed.Equal(now) {
			t.Fatalf("completedAt = %v; want %v", completed, now)
		}
	})

	t.Run("staying done keeps original stamp", func(t *testing.T) {
		_, completed := applyStatus(domain.StatusDone, &earlier, &done, now)
		if completed == nil || !completed.Equal(earlier) {
			t.Fatalf("completedAt = %v; want %v", completed, earlier)
		}
	})

	t.Run("leaving done clears stamp", func(t *testing.T) {
		status, completed := applyStatus(domain.StatusDone, &earlier, &todo, now)
		if status != domain.StatusTodo || completed != nil {
			t.Fatalf("got status=%s completed=%v", status, completed)
		}
	})

	t.Run("non-done patch clears stamp regardless", func(t *testing.T) {
		_, completed := applyStatus(domain.StatusInProgress, &earlier, &review, now)
		if completed != nil {
			t.Fatalf("completedAt = %v; want nil", completed)
		}
	})

	t.Run("omitted status leaves everything alone", func(t *testing.T) {
		status, completed := applyStatus(domain.StatusDone, &earlier, nil, now)
		if status != domain.StatusDone || completed == nil || !completed.Equal(earlier) {
			t.Fatalf("got status=%s completed=%v", status, completed)
		}
	})
}

func TestDiffAssignees(t *testing.T) {
	cases := []struct {
		name       string
		current    []int64
		desired    []int64
		wantAdd    []int64
		wantRemove []int64
	}{
		{"no change", []int64{1, 2}, []int64{1, 2}, nil, nil},
		{"add one", []int64{1}, []int64{1, 2}, []int64{2}, nil},
		{"remove one", []int64{1, 2}, []int64{1}, nil, []int64{2}},
		{"swap", []int64{1, 2}, []int64{2, 3}, []int64{3}, []int64{1}},
		{"clear", []int64{1, 2}, nil, nil, []int64{1, 2}},
		{"from empty", nil, []int64{4}, []int64{4}, nil},
		{"duplicate desired ids", []int64{1}, []int64{2, 2, 1}, []int64{2}, nil},
	}

	for _, tc := range cases {
		add, remove := diffAssignees(tc.current, tc.desired)
		if !reflect.DeepEqual(add, tc.wantAdd) {
			t.Fatalf("%s: add = %v; want %v", tc.name, add, tc.wantAdd)
		}
		if !reflect.DeepEqual(remove, tc.wantRemove) {
			t.Fatalf("%s: remove = %v; want %v", tc.name, remove, tc.wantRemove)
		}
	}
}
