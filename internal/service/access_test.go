package service

import (
	"testing"

	"taskflow/internal/domain"
)

func TestResolveProject(t *testing.T) {
	cases := []struct {
		name   string
		userID int64
		grant  ProjectGrant
		want   AccessLevel
	}{
		{"owner", 1, ProjectGrant{OwnerID: 1}, LevelAdmin},
		{"member owner role", 2, ProjectGrant{OwnerID: 1, IsMember: true, Role: domain.RoleOwner}, LevelAdmin},
		{"member admin role", 2, ProjectGrant{OwnerID: 1, IsMember: true, Role: domain.RoleAdmin}, LevelAdmin},
		{"plain member", 2, ProjectGrant{OwnerID: 1, IsMember: true, Role: domain.RoleMember}, LevelWrite},
		{"stranger private", 2, ProjectGrant{OwnerID: 1}, LevelNone},
		{"stranger public", 2, ProjectGrant{OwnerID: 1, Public: true}, LevelRead},
		{"member of public project", 2, ProjectGrant{OwnerID: 1, Public: true, IsMember: true, Role: domain.RoleMember}, LevelWrite},
	}

	for _, tc := range cases {
		if got := ResolveProject(tc.userID, tc.grant); got != tc.want {
			t.Fatalf("%s: ResolveProject = %d; want %d", tc.name, got, tc.want)
		}
	}
}

func TestResolveTask(t *testing.T) {
	grant := ProjectGrant{OwnerID: 1, IsMember: true, Role: domain.RoleMember}

	if got := ResolveTask(5, 5, &grant); got != LevelAdmin {
		t.Fatalf("creator should hold admin, got %d", got)
	}
	if got := ResolveTask(2, 5, &grant); got != LevelWrite {
		t.Fatalf("member should hold write, got %d", got)
	}
	if got := ResolveTask(2, 5, nil); got != LevelNone {
		t.Fatalf("projectless task should be private to creator, got %d", got)
	}
	if got := ResolveTask(5, 5, nil); got != LevelAdmin {
		t.Fatalf("creator of projectless task should hold admin, got %d", got)
	}
}

// Public projects grant read but never write or delete.
func TestPublicProjectReadOnly(t *testing.T) {
	g := ProjectGrant{OwnerID: 1, Public: true}

	level := ResolveProject(2, g)
	if level < LevelRead {
		t.Fatal("public project should grant read")
	}
	if level >= LevelWrite {
		t.Fatal("public project must not grant write")
	}
}
