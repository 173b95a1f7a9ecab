package storage

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/types"
)

// Store persists the application's logical collections. All access is
// whole-collection: load everything, save everything. Settings is a
// single record.
type Store interface {
	LoadAgents() ([]types.Agent, error)
	SaveAgents([]types.Agent) error
	LoadCamps() ([]types.Camp, error)
	SaveCamps([]types.Camp) error
	LoadUsers() ([]types.User, error)
	SaveUsers([]types.User) error
	LoadReports() ([]types.Report, error)
	SaveReports([]types.Report) error
	LoadSettings() (types.Settings, error)
	SaveSettings(types.Settings) error
}

// NewStore creates the appropriate store based on configuration
func NewStore(ctx context.Context, logger zerolog.Logger) (Store, error) {
	cfg := LoadDynamoConfig()

	switch cfg.Mode {
	case DynamoModeLocal, DynamoModeAWS:
		return NewDynamoDBStore(ctx, cfg, logger)
	default:
		logger.Info().Msg("DynamoDB disabled (DYNAMO_MODE=none), using in-memory store")
		return NewMemoryStore(), nil
	}
}
