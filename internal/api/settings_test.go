package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/shiftboard/backend/internal/types"
)

func TestGetSettingsDefaults(t *testing.T) {
	env, _ := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/settings", nil)
	wantStatus(t, rec, http.StatusOK)

	var got types.Settings
	decode(t, rec, &got)
	if got != types.DefaultSettings() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestUpdateSettingsNotifiesRefresher(t *testing.T) {
	env, refresher := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/settings", map[string]any{
		"darkMode":       true,
		"updateInterval": 30,
		"theme":          map[string]string{"primary": "#111111", "secondary": "#222222"},
	})
	wantStatus(t, rec, http.StatusOK)

	var saved types.Settings
	decode(t, rec, &saved)
	if saved.UpdateInterval != 30 || !saved.DarkMode {
		t.Errorf("unexpected saved settings: %+v", saved)
	}

	if len(refresher.intervals) != 1 || refresher.intervals[0] != 30*time.Second {
		t.Errorf("expected refresher notified with 30s, got %v", refresher.intervals)
	}
}

func TestUpdateSettingsInvalidInterval(t *testing.T) {
	env, refresher := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/settings", map[string]any{
		"updateInterval": 17,
	})
	wantStatus(t, rec, http.StatusBadRequest)

	if len(refresher.intervals) != 0 {
		t.Errorf("refresher must not be notified on rejected update, got %v", refresher.intervals)
	}
}
