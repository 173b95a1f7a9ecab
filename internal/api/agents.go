package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/camp"
	"github.com/shiftboard/backend/internal/kpi"
	"github.com/shiftboard/backend/internal/metrics"
	"github.com/shiftboard/backend/internal/roster"
	"github.com/shiftboard/backend/internal/types"
)

// AgentsHandler serves the roster and the shift ledger actions
type AgentsHandler struct {
	roster *roster.Service
	camps  *camp.Service
	logger zerolog.Logger
}

// NewAgentsHandler creates a new AgentsHandler
func NewAgentsHandler(rosterSvc *roster.Service, campSvc *camp.Service, logger zerolog.Logger) *AgentsHandler {
	return &AgentsHandler{
		roster: rosterSvc,
		camps:  campSvc,
		logger: logger.With().Str("component", "agents_api").Logger(),
	}
}

// Routes mounts the agent endpoints on a chi router
func (h *AgentsHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/shift/start", h.StartShift)
		r.Post("/shift/end", h.EndShift)
		r.Post("/seats", h.ChangeSeat)
		r.Put("/seats/{seatId}", h.UpdateSeat)
		r.Delete("/seats/{seatId}", h.RemoveSeat)
		r.Put("/start-time", h.CorrectStartTime)
		r.Put("/logged-time", h.SetLoggedTime)
		r.Put("/leads", h.RecordLeads)
	})
}

// List handles GET /api/agents, returning each agent with live metrics
func (h *AgentsHandler) List(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.roster.Snapshots(time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

// Create handles POST /api/agents
func (h *AgentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string    `json:"name"`
		ScheduledStart time.Time `json:"scheduledStart"`
		ScheduledEnd   time.Time `json:"scheduledEnd"`
		Notes          string    `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	agent, err := h.roster.Add(req.Name, req.ScheduledStart, req.ScheduledEnd, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, agent)
}

// Get handles GET /api/agents/{id}
func (h *AgentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	agent, err := h.roster.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.AgentSnapshot{
		Agent:   agent,
		Metrics: kpi.Compute(agent, time.Now()),
	})
}

// Update handles PUT /api/agents/{id}
func (h *AgentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var agent types.Agent
	if err := json.NewDecoder(r.Body).Decode(&agent); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	agent.ID = chi.URLParam(r, "id")

	if err := h.roster.Update(agent); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

// Delete handles DELETE /api/agents/{id}
func (h *AgentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.roster.Delete(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartShift handles POST /api/agents/{id}/shift/start
func (h *AgentsHandler) StartShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SeatName string `json:"seatName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.SeatName == "" {
		writeError(w, http.StatusBadRequest, "seatName is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.roster.StartShift(id, req.SeatName, time.Now()); err != nil {
		writeServiceError(w, err)
		return
	}

	metrics.Get().RecordShiftStarted()
	h.logger.Info().Str("agent_id", id).Str("seat", req.SeatName).Msg("shift started")
	h.respondWithAgent(w, id)
}

// EndShift handles POST /api/agents/{id}/shift/end
func (h *AgentsHandler) EndShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.roster.EndShift(id, time.Now()); err != nil {
		writeServiceError(w, err)
		return
	}

	metrics.Get().RecordShiftEnded()
	h.logger.Info().Str("agent_id", id).Msg("shift ended")
	h.respondWithAgent(w, id)
}

// ChangeSeat handles POST /api/agents/{id}/seats
func (h *AgentsHandler) ChangeSeat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SeatName   string `json:"seatName"`
		WrapUpTime int    `json:"wrapUpTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.SeatName == "" {
		writeError(w, http.StatusBadRequest, "seatName is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.roster.ChangeSeat(id, req.SeatName, req.WrapUpTime, time.Now()); err != nil {
		writeServiceError(w, err)
		return
	}

	metrics.Get().RecordSeatChange()
	h.respondWithAgent(w, id)
}

// UpdateSeat handles PUT /api/agents/{id}/seats/{seatId}
func (h *AgentsHandler) UpdateSeat(w http.ResponseWriter, r *http.Request) {
	var seat types.SeatEntry
	if err := json.NewDecoder(r.Body).Decode(&seat); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	seat.ID = chi.URLParam(r, "seatId")

	id := chi.URLParam(r, "id")
	if err := h.roster.UpdateSeat(id, seat); err != nil {
		writeServiceError(w, err)
		return
	}
	h.respondWithAgent(w, id)
}

// RemoveSeat handles DELETE /api/agents/{id}/seats/{seatId}
func (h *AgentsHandler) RemoveSeat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.roster.RemoveSeat(id, chi.URLParam(r, "seatId")); err != nil {
		writeServiceError(w, err)
		return
	}
	h.respondWithAgent(w, id)
}

// CorrectStartTime handles PUT /api/agents/{id}/start-time
func (h *AgentsHandler) CorrectStartTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartTime time.Time `json:"startTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StartTime.IsZero() {
		writeError(w, http.StatusBadRequest, "startTime is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.roster.CorrectStartTime(id, req.StartTime); err != nil {
		writeServiceError(w, err)
		return
	}
	h.respondWithAgent(w, id)
}

// SetLoggedTime handles PUT /api/agents/{id}/logged-time
func (h *AgentsHandler) SetLoggedTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Minutes < 0 {
		writeError(w, http.StatusBadRequest, "minutes must not be negative")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.roster.SetManualLoggedTime(id, req.Minutes); err != nil {
		writeServiceError(w, err)
		return
	}
	h.respondWithAgent(w, id)
}

// RecordLeads handles PUT /api/agents/{id}/leads. Besides updating the
// agent it refreshes the named camp's aggregate lead count and status.
func (h *AgentsHandler) RecordLeads(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Leads    int    `json:"leads"`
		CampName string `json:"campName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Leads < 0 {
		writeError(w, http.StatusBadRequest, "leads must not be negative")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.roster.RecordLeads(id, req.Leads, req.CampName); err != nil {
		writeServiceError(w, err)
		return
	}

	metrics.Get().RecordLeads()
	if req.CampName != "" {
		h.syncCampLeads(req.CampName)
	}
	h.respondWithAgent(w, id)
}

// syncCampLeads recomputes a camp's lead total from the roster. Agents
// may record leads against names with no matching camp, those are left
// as agent-only counts.
func (h *AgentsHandler) syncCampLeads(campName string) {
	agents, err := h.roster.List()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load roster for camp sync")
		return
	}
	total := 0
	active := 0
	for _, agent := range agents {
		for _, cl := range agent.LeadsByCamp {
			if cl.CampName == campName {
				total += cl.Leads
			}
		}
		if agent.IsActive {
			active++
		}
	}

	if _, err := h.camps.RecordLeads(campName, total, active); err != nil {
		if errors.Is(err, camp.ErrNotFound) {
			h.logger.Debug().Str("camp", campName).Msg("no camp matches lead update")
			return
		}
		h.logger.Error().Err(err).Str("camp", campName).Msg("failed to sync camp leads")
	}
}

// respondWithAgent returns the agent's fresh snapshot after a mutation
func (h *AgentsHandler) respondWithAgent(w http.ResponseWriter, id string) {
	agent, err := h.roster.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.AgentSnapshot{
		Agent:   agent,
		Metrics: kpi.Compute(agent, time.Now()),
	})
}
