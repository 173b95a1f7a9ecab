// Package roster manages the agent collection on top of the store.
// Every mutation follows the same discipline: load the full collection,
// apply one ledger change in memory, write the full collection back. A
// service-level mutex serializes writers; concurrent processes sharing
// one store would still clobber each other, which is a known limitation
// of the whole-collection storage contract.
package roster

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/kpi"
	"github.com/shiftboard/backend/internal/ledger"
	"github.com/shiftboard/backend/internal/storage"
	"github.com/shiftboard/backend/internal/types"
)

var (
	// ErrNotFound is returned when no agent matches the given id.
	ErrNotFound = errors.New("agent not found")

	// ErrNameRequired is returned when an agent is added without a name.
	ErrNameRequired = errors.New("agent name is required")

	// ErrInvalidSchedule is returned when the scheduled end is not after
	// the scheduled start.
	ErrInvalidSchedule = errors.New("scheduled shift end must be after start")
)

// Service owns the agent collection
type Service struct {
	store  storage.Store
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewService creates a roster service
func NewService(store storage.Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "roster").Logger(),
	}
}

// List returns all agents in stored order
func (s *Service) List() ([]types.Agent, error) {
	return s.store.LoadAgents()
}

// Get returns one agent by id
func (s *Service) Get(id string) (types.Agent, error) {
	agents, err := s.store.LoadAgents()
	if err != nil {
		return types.Agent{}, err
	}
	for _, a := range agents {
		if a.ID == id {
			return a, nil
		}
	}
	return types.Agent{}, ErrNotFound
}

// Snapshots returns every agent paired with freshly computed metrics
func (s *Service) Snapshots(now time.Time) ([]types.AgentSnapshot, error) {
	agents, err := s.store.LoadAgents()
	if err != nil {
		return nil, err
	}

	snapshots := make([]types.AgentSnapshot, 0, len(agents))
	for _, a := range agents {
		snapshots = append(snapshots, types.AgentSnapshot{
			Agent:   a,
			Metrics: kpi.Compute(a, now),
		})
	}
	return snapshots, nil
}

// ActiveCount returns how many agents currently have an open shift
func (s *Service) ActiveCount() (int, error) {
	agents, err := s.store.LoadAgents()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, a := range agents {
		if a.IsActive {
			count++
		}
	}
	return count, nil
}

// Add creates a new agent with the given name and schedule window
func (s *Service) Add(name string, scheduledStart, scheduledEnd time.Time, notes string) (types.Agent, error) {
	if name == "" {
		return types.Agent{}, ErrNameRequired
	}
	if !scheduledEnd.After(scheduledStart) {
		return types.Agent{}, ErrInvalidSchedule
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	agents, err := s.store.LoadAgents()
	if err != nil {
		return types.Agent{}, err
	}

	agent := types.Agent{
		ID:                  uuid.New().String(),
		Name:                name,
		ShiftScheduledStart: scheduledStart,
		ShiftScheduledEnd:   scheduledEnd,
		Seats:               []types.SeatEntry{},
		LeadsByCamp:         []types.CampLeads{},
		Notes:               notes,
	}
	agents = append(agents, agent)

	if err := s.store.SaveAgents(agents); err != nil {
		return types.Agent{}, err
	}

	s.logger.Info().Str("agent_id", agent.ID).Str("name", name).Msg("agent added")
	return agent, nil
}

// Update replaces an agent record wholesale, matched by id
func (s *Service) Update(updated types.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agents, err := s.store.LoadAgents()
	if err != nil {
		return err
	}
	for i := range agents {
		if agents[i].ID == updated.ID {
			agents[i] = updated
			return s.store.SaveAgents(agents)
		}
	}
	return ErrNotFound
}

// Delete removes an agent by id
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agents, err := s.store.LoadAgents()
	if err != nil {
		return err
	}
	for i := range agents {
		if agents[i].ID == id {
			agents = append(agents[:i], agents[i+1:]...)
			if err := s.store.SaveAgents(agents); err != nil {
				return err
			}
			s.logger.Info().Str("agent_id", id).Msg("agent deleted")
			return nil
		}
	}
	return ErrNotFound
}

// mutate applies one ledger change to the agent with the given id under
// the load/modify/save-all discipline. Nothing is written if fn fails.
func (s *Service) mutate(id string, fn func(*types.Agent) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agents, err := s.store.LoadAgents()
	if err != nil {
		return err
	}
	for i := range agents {
		if agents[i].ID == id {
			if err := fn(&agents[i]); err != nil {
				return err
			}
			return s.store.SaveAgents(agents)
		}
	}
	return ErrNotFound
}

// StartShift opens the agent's shift and seats them
func (s *Service) StartShift(id, seatName string, now time.Time) error {
	return s.mutate(id, func(a *types.Agent) error {
		return ledger.StartShift(a, seatName, now)
	})
}

// ChangeSeat moves the agent to a new seat, crediting wrap-up minutes to
// the one being closed
func (s *Service) ChangeSeat(id, newSeatName string, wrapUpMinutes int, now time.Time) error {
	return s.mutate(id, func(a *types.Agent) error {
		return ledger.ChangeSeat(a, newSeatName, wrapUpMinutes, now)
	})
}

// EndShift closes the agent's shift
func (s *Service) EndShift(id string, now time.Time) error {
	return s.mutate(id, func(a *types.Agent) error {
		return ledger.EndShift(a, now)
	})
}

// CorrectStartTime retroactively fixes a mis-clocked shift start
func (s *Service) CorrectStartTime(id string, newStart time.Time) error {
	return s.mutate(id, func(a *types.Agent) error {
		ledger.CorrectStartTime(a, newStart)
		return nil
	})
}

// SetManualLoggedTime overrides the computed logged time
func (s *Service) SetManualLoggedTime(id string, minutes int) error {
	return s.mutate(id, func(a *types.Agent) error {
		ledger.SetManualLoggedTime(a, minutes)
		return nil
	})
}

// RecordSeatWrapUp sets the wrap-up minutes on one seat
func (s *Service) RecordSeatWrapUp(id, seatID string, minutes int) error {
	return s.mutate(id, func(a *types.Agent) error {
		return ledger.RecordSeatWrapUp(a, seatID, minutes)
	})
}

// UpdateSeat replaces one seat entry
func (s *Service) UpdateSeat(id string, seat types.SeatEntry) error {
	return s.mutate(id, func(a *types.Agent) error {
		return ledger.UpdateSeat(a, seat)
	})
}

// RemoveSeat deletes one seat entry
func (s *Service) RemoveSeat(id, seatID string) error {
	return s.mutate(id, func(a *types.Agent) error {
		return ledger.RemoveSeat(a, seatID)
	})
}

// RecordLeads sets the agent's lead total and per-campaign attribution.
// Campaign aggregates are updated separately by the caller.
func (s *Service) RecordLeads(id string, leads int, campName string) error {
	return s.mutate(id, func(a *types.Agent) error {
		ledger.RecordLeads(a, leads, campName)
		return nil
	})
}
