package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/settings"
	"github.com/shiftboard/backend/internal/types"
)

// IntervalSetter is notified when the update interval changes
type IntervalSetter interface {
	SetInterval(d time.Duration)
}

// SettingsHandler serves the application settings endpoints
type SettingsHandler struct {
	settings  *settings.Service
	refresher IntervalSetter
	logger    zerolog.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsSvc *settings.Service, refresher IntervalSetter, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings:  settingsSvc,
		refresher: refresher,
		logger:    logger.With().Str("component", "settings_api").Logger(),
	}
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	current, err := h.settings.Get()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

// Update handles PUT /api/settings. A changed update interval takes
// effect on the live refresh loop immediately.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req types.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	saved, err := h.settings.Update(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if h.refresher != nil {
		h.refresher.SetInterval(time.Duration(saved.UpdateInterval) * time.Second)
	}
	writeJSON(w, http.StatusOK, saved)
}
