package storage

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shiftboard/backend/internal/types"
)

// MemoryStore keeps all collections in process memory. Used for local
// development and tests. Values are cloned through JSON on both load and
// save so callers never share memory with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	agents   []types.Agent
	camps    []types.Camp
	users    []types.User
	reports  []types.Report
	settings *types.Settings
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func clone[T any](in T, out *T) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to clone value: %w", err)
	}
	return json.Unmarshal(data, out)
}

func (s *MemoryStore) LoadAgents() ([]types.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []types.Agent{}
	if err := clone(s.agents, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MemoryStore) SaveAgents(agents []types.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := []types.Agent{}
	if err := clone(agents, &stored); err != nil {
		return err
	}
	s.agents = stored
	return nil
}

func (s *MemoryStore) LoadCamps() ([]types.Camp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []types.Camp{}
	if err := clone(s.camps, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MemoryStore) SaveCamps(camps []types.Camp) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := []types.Camp{}
	if err := clone(camps, &stored); err != nil {
		return err
	}
	s.camps = stored
	return nil
}

func (s *MemoryStore) LoadUsers() ([]types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []types.User{}
	if err := clone(s.users, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MemoryStore) SaveUsers(users []types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := []types.User{}
	if err := clone(users, &stored); err != nil {
		return err
	}
	s.users = stored
	return nil
}

func (s *MemoryStore) LoadReports() ([]types.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []types.Report{}
	if err := clone(s.reports, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MemoryStore) SaveReports(reports []types.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := []types.Report{}
	if err := clone(reports, &stored); err != nil {
		return err
	}
	s.reports = stored
	return nil
}

func (s *MemoryStore) LoadSettings() (types.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return types.DefaultSettings(), nil
	}
	return *s.settings, nil
}

func (s *MemoryStore) SaveSettings(settings types.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &settings
	return nil
}
