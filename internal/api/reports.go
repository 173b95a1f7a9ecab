package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/export"
	"github.com/shiftboard/backend/internal/metrics"
	"github.com/shiftboard/backend/internal/report"
	"github.com/shiftboard/backend/internal/roster"
	"github.com/shiftboard/backend/internal/types"
)

// ReportsHandler serves report generation, listing and export
type ReportsHandler struct {
	reports  *report.Service
	roster   *roster.Service
	exporter export.Exporter
	logger   zerolog.Logger
}

// NewReportsHandler creates a new ReportsHandler
func NewReportsHandler(reportSvc *report.Service, rosterSvc *roster.Service, exporter export.Exporter, logger zerolog.Logger) *ReportsHandler {
	return &ReportsHandler{
		reports:  reportSvc,
		roster:   rosterSvc,
		exporter: exporter,
		logger:   logger.With().Str("component", "reports_api").Logger(),
	}
}

// Routes mounts the report endpoints on a chi router
func (h *ReportsHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/export", h.Export)
}

// List handles GET /api/reports
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.List()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// Create handles POST /api/reports, generating a report from the
// current roster snapshot
func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind types.ReportKind `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !report.ValidKind(req.Kind) {
		writeError(w, http.StatusBadRequest, "kind must be daily, weekly or monthly")
		return
	}

	agents, err := h.roster.List()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	created, err := h.reports.Create(req.Kind, agents, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	metrics.Get().RecordReportGenerated()
	h.logger.Info().Str("report_id", created.ID).Str("kind", string(req.Kind)).Msg("report generated")
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/reports/{id}
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Delete handles DELETE /api/reports/{id}
func (h *ReportsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.reports.Delete(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/reports/{id}/export, streaming the rendered
// file as a download. Responds 204 when exports are disabled.
func (h *ReportsHandler) Export(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	data, err := h.exporter.Export(rep)
	if err != nil {
		h.logger.Error().Err(err).Str("report_id", rep.ID).Msg("failed to render export")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	metrics.Get().RecordReportExported()
	w.Header().Set("Content-Type", h.exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exporter.Filename(rep)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
