package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shiftboard/backend/internal/types"
)

func testManager() *TokenManager {
	return NewTokenManager("test-secret", time.Hour)
}

func testUser() types.User {
	return types.User{ID: "u1", Username: "Dana", Role: types.RoleAdmin}
}

func TestIssueAndParse(t *testing.T) {
	m := testManager()

	token, err := m.Issue(testUser(), time.Now())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Username != "Dana" || claims.Role != types.RoleAdmin || claims.Subject != "u1" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := testManager()

	token, err := m.Issue(testUser(), time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := testManager().Issue(testUser(), time.Now())
	if err != nil {
		t.Fatal(err)
	}

	other := NewTokenManager("different-secret", time.Hour)
	if _, err := other.Parse(token); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}
}

func TestMiddleware(t *testing.T) {
	m := testManager()
	token, err := m.Issue(testUser(), time.Now())
	if err != nil {
		t.Fatal(err)
	}

	handler := Middleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetUserFromContext(r.Context())
		if !ok {
			t.Error("expected claims in context")
		} else if claims.Username != "Dana" {
			t.Errorf("unexpected username %s", claims.Username)
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authorize  func(*http.Request)
		wantStatus int
	}{
		{
			name:       "bearer header",
			authorize:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			wantStatus: http.StatusOK,
		},
		{
			name: "query parameter",
			authorize: func(r *http.Request) {
				q := r.URL.Query()
				q.Set("token", token)
				r.URL.RawQuery = q.Encode()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing token",
			authorize:  func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authorize:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.authorize(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	m := testManager()

	adminToken, err := m.Issue(types.User{ID: "u1", Username: "boss", Role: types.RoleAdmin}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	viewerToken, err := m.Issue(types.User{ID: "u2", Username: "watcher", Role: types.RoleViewer}, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	handler := Middleware(m)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodDelete, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected admin allowed, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+viewerToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected viewer forbidden, got %d", rec.Code)
	}
}
