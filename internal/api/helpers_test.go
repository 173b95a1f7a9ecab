package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/auth"
	"github.com/shiftboard/backend/internal/camp"
	"github.com/shiftboard/backend/internal/export"
	"github.com/shiftboard/backend/internal/report"
	"github.com/shiftboard/backend/internal/roster"
	"github.com/shiftboard/backend/internal/settings"
	"github.com/shiftboard/backend/internal/storage"
	"github.com/shiftboard/backend/internal/users"
)

// testEnv wires the full handler stack over an in-memory store
type testEnv struct {
	router   *chi.Mux
	roster   *roster.Service
	camps    *camp.Service
	reports  *report.Service
	users    *users.Service
	settings *settings.Service
}

// fakeRefresher records interval changes from the settings handler
type fakeRefresher struct {
	intervals []time.Duration
}

func (f *fakeRefresher) SetInterval(d time.Duration) {
	f.intervals = append(f.intervals, d)
}

func newTestEnv(t *testing.T) (*testEnv, *fakeRefresher) {
	t.Helper()
	logger := zerolog.New(&bytes.Buffer{})
	store := storage.NewMemoryStore()

	env := &testEnv{
		roster:   roster.NewService(store, logger),
		camps:    camp.NewService(store, logger),
		reports:  report.NewService(store, logger),
		users:    users.NewService(store, logger),
		settings: settings.NewService(store, logger),
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	refresher := &fakeRefresher{}

	agentsHandler := NewAgentsHandler(env.roster, env.camps, logger)
	campsHandler := NewCampsHandler(env.camps, env.roster, logger)
	reportsHandler := NewReportsHandler(env.reports, env.roster, export.NewXLSX(), logger)
	usersHandler := NewUsersHandler(env.users, tokens, logger)
	settingsHandler := NewSettingsHandler(env.settings, refresher, logger)

	r := chi.NewRouter()
	r.Post("/api/login", usersHandler.Login)
	r.Route("/api/agents", agentsHandler.Routes)
	r.Route("/api/camps", campsHandler.Routes)
	r.Route("/api/reports", reportsHandler.Routes)
	r.Route("/api/users", usersHandler.Routes)
	r.Get("/api/settings", settingsHandler.Get)
	r.Put("/api/settings", settingsHandler.Update)

	env.router = r
	return env, refresher
}

// do performs a request against the test router and returns the recorder
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a response body into v
func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
