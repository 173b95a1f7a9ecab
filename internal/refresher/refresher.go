// Package refresher runs the periodic snapshot loop that feeds the live
// dashboard. Each tick it recomputes agent metrics, updates the roster
// gauges and broadcasts a snapshot to all websocket clients.
package refresher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/camp"
	"github.com/shiftboard/backend/internal/metrics"
	"github.com/shiftboard/backend/internal/roster"
	"github.com/shiftboard/backend/internal/types"
)

// Broadcaster fans snapshot payloads out to connected dashboard clients
type Broadcaster interface {
	Broadcast(message []byte)
	ClientCount() int
}

// Refresher drives the periodic snapshot broadcasts
type Refresher struct {
	roster   *roster.Service
	camps    *camp.Service
	hub      Broadcaster
	interval chan time.Duration
	logger   zerolog.Logger
}

// New creates a refresher broadcasting at the given interval
func New(rosterSvc *roster.Service, campSvc *camp.Service, hub Broadcaster, logger zerolog.Logger) *Refresher {
	return &Refresher{
		roster:   rosterSvc,
		camps:    campSvc,
		hub:      hub,
		interval: make(chan time.Duration, 1),
		logger:   logger.With().Str("component", "refresher").Logger(),
	}
}

// SetInterval changes the tick period at runtime. Called when an admin
// saves a new update interval in the settings.
func (r *Refresher) SetInterval(d time.Duration) {
	select {
	case r.interval <- d:
	default:
		// A pending change is already queued, drop the older one
		select {
		case <-r.interval:
		default:
		}
		r.interval <- d
	}
}

// Start runs the refresh loop until the context is cancelled
func (r *Refresher) Start(ctx context.Context, initial time.Duration) {
	ticker := time.NewTicker(initial)
	defer ticker.Stop()

	m := metrics.Get()
	r.logger.Info().Dur("interval", initial).Msg("refresher started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("refresher stopped")
			return

		case d := <-r.interval:
			ticker.Reset(d)
			r.logger.Info().Dur("interval", d).Msg("refresh interval changed")

		case <-ticker.C:
			cycleStart := time.Now()

			snapshot, err := r.buildSnapshot(cycleStart)
			if err != nil {
				r.logger.Error().Err(err).Msg("failed to build snapshot")
				m.RecordRefreshError()
				continue
			}

			m.UpdateRosterStats(len(snapshot.Agents), activeCount(snapshot.Agents))

			data, err := json.Marshal(snapshot)
			if err != nil {
				r.logger.Error().Err(err).Msg("failed to marshal snapshot")
				m.RecordRefreshError()
				continue
			}

			r.hub.Broadcast(data)
			m.RecordRefreshCycle(time.Since(cycleStart))

			r.logger.Debug().
				Int("agents", len(snapshot.Agents)).
				Int("camps", len(snapshot.Camps)).
				Int("clients", r.hub.ClientCount()).
				Msg("snapshot broadcasted")
		}
	}
}

// buildSnapshot loads the roster and camps and computes fresh metrics
func (r *Refresher) buildSnapshot(now time.Time) (types.Snapshot, error) {
	agents, err := r.roster.Snapshots(now)
	if err != nil {
		return types.Snapshot{}, err
	}
	camps, err := r.camps.List()
	if err != nil {
		return types.Snapshot{}, err
	}
	return types.Snapshot{
		Type:      "snapshot",
		Timestamp: now,
		Agents:    agents,
		Camps:     camps,
	}, nil
}

func activeCount(agents []types.AgentSnapshot) int {
	active := 0
	for _, a := range agents {
		if a.Agent.IsActive {
			active++
		}
	}
	return active
}
