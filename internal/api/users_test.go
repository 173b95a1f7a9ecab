package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/shiftboard/backend/internal/types"
)

func seedAdmin(t *testing.T, env *testEnv) {
	t.Helper()
	if err := env.users.EnsureDefaultAdmin(); err != nil {
		t.Fatal(err)
	}
}

func TestLogin(t *testing.T) {
	env, _ := newTestEnv(t)
	seedAdmin(t, env)

	rec := env.do(t, http.MethodPost, "/api/login", map[string]any{
		"username": "admin",
		"password": "admin123",
	})
	wantStatus(t, rec, http.StatusOK)

	var body struct {
		Token string   `json:"token"`
		User  userView `json:"user"`
	}
	decode(t, rec, &body)
	if body.Token == "" {
		t.Error("expected a session token")
	}
	if body.User.Username != "admin" || body.User.Role != types.RoleAdmin {
		t.Errorf("unexpected user payload: %+v", body.User)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	env, _ := newTestEnv(t)
	seedAdmin(t, env)

	rec := env.do(t, http.MethodPost, "/api/login", map[string]any{
		"username": "admin",
		"password": "wrong",
	})
	wantStatus(t, rec, http.StatusUnauthorized)
}

func TestCreateAndListUsers(t *testing.T) {
	env, _ := newTestEnv(t)
	seedAdmin(t, env)

	rec := env.do(t, http.MethodPost, "/api/users", map[string]any{
		"username": "Dana",
		"password": "s3cret",
		"role":     "viewer",
	})
	wantStatus(t, rec, http.StatusCreated)

	var created userView
	decode(t, rec, &created)
	if created.Username != "Dana" || created.Role != types.RoleViewer {
		t.Errorf("unexpected created user: %+v", created)
	}

	rec = env.do(t, http.MethodGet, "/api/users", nil)
	wantStatus(t, rec, http.StatusOK)

	// Password hashes never leave the service
	if body := rec.Body.String(); strings.Contains(body, "passwordHash") || strings.Contains(body, "password") {
		t.Errorf("response leaks password material: %s", body)
	}

	var views []userView
	decode(t, rec, &views)
	if len(views) != 2 {
		t.Errorf("expected 2 users, got %d", len(views))
	}
}

func TestCreateUserValidation(t *testing.T) {
	env, _ := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users", map[string]any{
		"username": "",
		"password": "pw",
		"role":     "viewer",
	})
	wantStatus(t, rec, http.StatusBadRequest)

	rec = env.do(t, http.MethodPost, "/api/users", map[string]any{
		"username": "Dana",
		"password": "pw",
		"role":     "owner",
	})
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestDeleteLastAdminConflicts(t *testing.T) {
	env, _ := newTestEnv(t)
	seedAdmin(t, env)

	all, err := env.users.List()
	if err != nil {
		t.Fatal(err)
	}

	rec := env.do(t, http.MethodDelete, "/api/users/"+all[0].ID, nil)
	wantStatus(t, rec, http.StatusConflict)
}

func TestChangePassword(t *testing.T) {
	env, _ := newTestEnv(t)
	seedAdmin(t, env)

	all, err := env.users.List()
	if err != nil {
		t.Fatal(err)
	}

	rec := env.do(t, http.MethodPut, "/api/users/"+all[0].ID+"/password", map[string]any{
		"password": "new-password",
	})
	wantStatus(t, rec, http.StatusNoContent)

	rec = env.do(t, http.MethodPost, "/api/login", map[string]any{
		"username": "admin",
		"password": "new-password",
	})
	wantStatus(t, rec, http.StatusOK)
}
