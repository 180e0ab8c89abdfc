package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskflow/internal/config"
	apihttp "taskflow/internal/http"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := testPool(t)

	t.Setenv("JWT_SECRET", "integration-test-secret")
	service.InitJWT()

	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := &config.Config{
		MutationRateLimit:  1000,
		MutationRateWindow: 60,
	}
	apihttp.RegisterRoutes(r, db, cfg, "test")

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// doJSON issues a request with an optional bearer token and decodes the
// response body into a map when there is one.
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func registerUser(t *testing.T, srv *httptest.Server, name string) (token string, userID int64) {
	t.Helper()
	status, out := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name":     name,
		"email":    fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		"password": "password123",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d body %v", name, status, out)
	}
	token, _ = out["token"].(string)
	user, _ := out["user"].(map[string]any)
	id, _ := user["id"].(float64)
	if token == "" || id == 0 {
		t.Fatalf("register %s: bad response %v", name, out)
	}
	return token, int64(id)
}

// Walks a private project through membership changes and checks that task
// visibility and delete rights follow the member's role, with denied access
// indistinguishable from absence.
func TestPrivateProjectAccessLifecycle(t *testing.T) {
	srv := testServer(t)

	tokenA, _ := registerUser(t, srv, "alice")
	tokenB, userB := registerUser(t, srv, "bob")

	status, out := doJSON(t, srv, http.MethodPost, "/api/v1/projects", tokenA, map[string]any{
		"name": "private-" + uuid.NewString()[:8],
	})
	if status != http.StatusCreated {
		t.Fatalf("create project: status %d body %v", status, out)
	}
	project, _ := out["project"].(map[string]any)
	projectID := int64(project["id"].(float64))

	status, out = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/tasks", projectID), tokenA, map[string]any{
		"title": "confidential work",
	})
	if status != http.StatusCreated {
		t.Fatalf("create task: status %d body %v", status, out)
	}
	task, _ := out["task"].(map[string]any)
	taskID := int64(task["id"].(float64))

	taskPath := fmt.Sprintf("/api/v1/tasks/%d", taskID)

	// non-member sees nothing, not a 403
	if status, _ = doJSON(t, srv, http.MethodGet, taskPath, tokenB, nil); status != http.StatusNotFound {
		t.Fatalf("non-member GET task: status %d; want 404", status)
	}

	status, out = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/members", projectID), tokenA, map[string]any{
		"user_id": userB,
		"role":    "MEMBER",
	})
	if status != http.StatusCreated {
		t.Fatalf("add member: status %d body %v", status, out)
	}

	if status, out = doJSON(t, srv, http.MethodGet, taskPath, tokenB, nil); status != http.StatusOK {
		t.Fatalf("member GET task: status %d body %v; want 200", status, out)
	}

	// MEMBER can read and write but not delete
	if status, _ = doJSON(t, srv, http.MethodDelete, taskPath, tokenB, nil); status != http.StatusNotFound {
		t.Fatalf("member DELETE task: status %d; want 404", status)
	}

	status, out = doJSON(t, srv, http.MethodPatch, fmt.Sprintf("/api/v1/projects/%d/members/%d", projectID, userB), tokenA, map[string]any{
		"role": "ADMIN",
	})
	if status != http.StatusOK {
		t.Fatalf("promote member: status %d body %v", status, out)
	}

	if status, out = doJSON(t, srv, http.MethodDelete, taskPath, tokenB, nil); status != http.StatusOK {
		t.Fatalf("admin DELETE task: status %d body %v; want 200", status, out)
	}

	// gone for everyone once deleted
	if status, _ = doJSON(t, srv, http.MethodGet, taskPath, tokenA, nil); status != http.StatusNotFound {
		t.Fatalf("GET deleted task: status %d; want 404", status)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	srv := testServer(t)

	status, out := doJSON(t, srv, http.MethodGet, "/api/v1/me", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("status %d; want 401", status)
	}
	if out["error"] != "Unauthorized" {
		t.Fatalf("body %v; want {\"error\":\"Unauthorized\"}", out)
	}
}
