// Package camp tracks lead-generation campaigns against their targets.
package camp

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/storage"
	"github.com/shiftboard/backend/internal/types"
)

var (
	// ErrInvalidTarget is returned when a campaign target is not a
	// positive integer.
	ErrInvalidTarget = errors.New("campaign target must be positive")

	// ErrNotFound is returned when no campaign matches the given name.
	ErrNotFound = errors.New("campaign not found")

	// ErrDuplicateName is returned when a campaign name is already in
	// use. Names key lead attribution, so they must be unique.
	ErrDuplicateName = errors.New("campaign name already exists")
)

// DeriveStatus computes a campaign's status from its own numbers and the
// count of currently active agents. The active count is passed in
// explicitly so the derivation has no hidden store dependency.
func DeriveStatus(target, leads, activeAgents int) types.CampStatus {
	if leads >= target {
		return types.CampAchieved
	}
	if activeAgents > 0 {
		return types.CampInProgress
	}
	return types.CampNotAchieved
}

// Productivity returns the campaign's progress as a percentage of its
// target, unbounded above. Callers typically clamp for display.
func Productivity(c types.Camp) float64 {
	if c.Target == 0 {
		return 0
	}
	return float64(c.Leads) / float64(c.Target) * 100
}

// TeamProductivity returns the combined progress across all campaigns.
func TeamProductivity(camps []types.Camp) float64 {
	totalLeads, totalTargets := 0, 0
	for _, c := range camps {
		totalLeads += c.Leads
		totalTargets += c.Target
	}
	if totalTargets == 0 {
		return 0
	}
	return float64(totalLeads) / float64(totalTargets) * 100
}

// Service owns the campaign collection. Every mutation loads the full
// collection, applies the change and writes it back; the mutex is the
// per-operation transaction boundary.
type Service struct {
	store  storage.Store
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewService creates a campaign service
func NewService(store storage.Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "camp").Logger(),
	}
}

// List returns all campaigns
func (s *Service) List() ([]types.Camp, error) {
	return s.store.LoadCamps()
}

// Add creates a campaign with zero leads, starting in progress.
func (s *Service) Add(name string, target int) (types.Camp, error) {
	if target <= 0 {
		return types.Camp{}, ErrInvalidTarget
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	camps, err := s.store.LoadCamps()
	if err != nil {
		return types.Camp{}, err
	}
	for _, c := range camps {
		if c.Name == name {
			return types.Camp{}, ErrDuplicateName
		}
	}

	newCamp := types.Camp{
		ID:     uuid.New().String(),
		Name:   name,
		Target: target,
		Leads:  0,
		Status: types.CampInProgress,
	}
	camps = append(camps, newCamp)

	if err := s.store.SaveCamps(camps); err != nil {
		return types.Camp{}, err
	}

	s.logger.Info().Str("camp", name).Int("target", target).Msg("campaign added")
	return newCamp, nil
}

// RecordLeads sets a campaign's cumulative lead count and rederives its
// status. The caller supplies the current active-agent count.
func (s *Service) RecordLeads(campName string, leads, activeAgents int) (types.Camp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	camps, err := s.store.LoadCamps()
	if err != nil {
		return types.Camp{}, err
	}

	for i := range camps {
		if camps[i].Name != campName {
			continue
		}
		camps[i].Leads = leads
		camps[i].Status = DeriveStatus(camps[i].Target, leads, activeAgents)

		if err := s.store.SaveCamps(camps); err != nil {
			return types.Camp{}, err
		}
		return camps[i], nil
	}

	return types.Camp{}, ErrNotFound
}

// Delete removes a campaign by id
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	camps, err := s.store.LoadCamps()
	if err != nil {
		return err
	}

	for i := range camps {
		if camps[i].ID == id {
			camps = append(camps[:i], camps[i+1:]...)
			return s.store.SaveCamps(camps)
		}
	}
	return ErrNotFound
}
