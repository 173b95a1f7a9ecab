// Package settings manages the single application settings record.
package settings

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/storage"
	"github.com/shiftboard/backend/internal/types"
)

// ErrInvalidInterval is returned for update intervals outside 15-120
// seconds or not on a 15 second step.
var ErrInvalidInterval = errors.New("update interval must be 15-120 seconds in steps of 15")

const (
	minUpdateInterval  = 15
	maxUpdateInterval  = 120
	updateIntervalStep = 15
)

// Service owns the settings record
type Service struct {
	store  storage.Store
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewService creates a settings service
func NewService(store storage.Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "settings").Logger(),
	}
}

// Get returns the current settings, defaults when nothing is saved yet
func (s *Service) Get() (types.Settings, error) {
	return s.store.LoadSettings()
}

// Update validates and persists new settings
func (s *Service) Update(settings types.Settings) (types.Settings, error) {
	if err := validateInterval(settings.UpdateInterval); err != nil {
		return types.Settings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveSettings(settings); err != nil {
		return types.Settings{}, err
	}

	s.logger.Info().
		Int("update_interval", settings.UpdateInterval).
		Bool("dark_mode", settings.DarkMode).
		Msg("settings updated")
	return settings, nil
}

func validateInterval(seconds int) error {
	if seconds < minUpdateInterval || seconds > maxUpdateInterval {
		return ErrInvalidInterval
	}
	if seconds%updateIntervalStep != 0 {
		return ErrInvalidInterval
	}
	return nil
}
