// Package report snapshots all agents' current metrics into named,
// dated, typed report records.
package report

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/kpi"
	"github.com/shiftboard/backend/internal/storage"
	"github.com/shiftboard/backend/internal/timeutil"
	"github.com/shiftboard/backend/internal/types"
)

// ErrNotFound is returned when no report matches the given id.
var ErrNotFound = errors.New("report not found")

var kindLabels = map[types.ReportKind]string{
	types.ReportDaily:   "Daily",
	types.ReportWeekly:  "Weekly",
	types.ReportMonthly: "Monthly",
}

// ValidKind reports whether kind names a known report period
func ValidKind(kind types.ReportKind) bool {
	_, ok := kindLabels[kind]
	return ok
}

// Generate builds a report from the agents' current metrics. All kinds
// share the same aggregation; the kind only labels the snapshot. Rows
// follow the agents' iteration order.
func Generate(kind types.ReportKind, agents []types.Agent, now time.Time) types.Report {
	rows := make([]types.ReportRow, 0, len(agents))
	for _, agent := range agents {
		m := kpi.Compute(agent, now)
		rows = append(rows, types.ReportRow{
			Name:         agent.Name,
			Lateness:     m.Lateness,
			Adherence:    m.Adherence,
			Conformance:  m.Conformance,
			LoggedTime:   timeutil.FormatHoursMinutes(m.LoggedTime),
			WrapUpTime:   timeutil.FormatHoursMinutes(m.TotalWrapUpTime),
			Leads:        agent.Leads,
			Productivity: fmt.Sprintf("%.1f%%", m.Productivity),
		})
	}

	return types.Report{
		ID:   fmt.Sprintf("%s-%d", kind, now.UnixMilli()),
		Name: fmt.Sprintf("%s Report - %s", kindLabels[kind], now.Format("2006-01-02")),
		Date: now,
		Type: kind,
		Data: rows,
	}
}

// Service owns the stored report collection
type Service struct {
	store  storage.Store
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewService creates a report service
func NewService(store storage.Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "report").Logger(),
	}
}

// List returns all stored reports
func (s *Service) List() ([]types.Report, error) {
	return s.store.LoadReports()
}

// Get returns one stored report by id
func (s *Service) Get(id string) (types.Report, error) {
	reports, err := s.store.LoadReports()
	if err != nil {
		return types.Report{}, err
	}
	for _, r := range reports {
		if r.ID == id {
			return r, nil
		}
	}
	return types.Report{}, ErrNotFound
}

// Create generates a report from the given agents and persists it
func (s *Service) Create(kind types.ReportKind, agents []types.Agent, now time.Time) (types.Report, error) {
	generated := Generate(kind, agents, now)

	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.store.LoadReports()
	if err != nil {
		return types.Report{}, err
	}
	reports = append(reports, generated)
	if err := s.store.SaveReports(reports); err != nil {
		return types.Report{}, err
	}

	s.logger.Info().
		Str("report_id", generated.ID).
		Str("kind", string(kind)).
		Int("rows", len(generated.Data)).
		Msg("report generated")
	return generated, nil
}

// Delete removes a stored report by id
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.store.LoadReports()
	if err != nil {
		return err
	}
	for i := range reports {
		if reports[i].ID == id {
			reports = append(reports[:i], reports[i+1:]...)
			return s.store.SaveReports(reports)
		}
	}
	return ErrNotFound
}
