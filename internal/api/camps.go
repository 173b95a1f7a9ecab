package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/camp"
	"github.com/shiftboard/backend/internal/roster"
)

// CampsHandler serves the campaign tracker endpoints
type CampsHandler struct {
	camps  *camp.Service
	roster *roster.Service
	logger zerolog.Logger
}

// NewCampsHandler creates a new CampsHandler
func NewCampsHandler(campSvc *camp.Service, rosterSvc *roster.Service, logger zerolog.Logger) *CampsHandler {
	return &CampsHandler{
		camps:  campSvc,
		roster: rosterSvc,
		logger: logger.With().Str("component", "camps_api").Logger(),
	}
}

// Routes mounts the camp endpoints on a chi router
func (h *CampsHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/productivity", h.TeamProductivity)
	r.Put("/{name}/leads", h.RecordLeads)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /api/camps
func (h *CampsHandler) List(w http.ResponseWriter, r *http.Request) {
	camps, err := h.camps.List()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, camps)
}

// Create handles POST /api/camps
func (h *CampsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Target int    `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.camps.Add(req.Name, req.Target)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// TeamProductivity handles GET /api/camps/productivity
func (h *CampsHandler) TeamProductivity(w http.ResponseWriter, r *http.Request) {
	camps, err := h.camps.List()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{
		"teamProductivity": camp.TeamProductivity(camps),
	})
}

// RecordLeads handles PUT /api/camps/{name}/leads
func (h *CampsHandler) RecordLeads(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Leads int `json:"leads"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Leads < 0 {
		writeError(w, http.StatusBadRequest, "leads must not be negative")
		return
	}

	active, err := h.roster.ActiveCount()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	updated, err := h.camps.RecordLeads(chi.URLParam(r, "name"), req.Leads, active)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/camps/{id}
func (h *CampsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.camps.Delete(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
