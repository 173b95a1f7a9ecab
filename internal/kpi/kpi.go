// Package kpi derives performance metrics from an agent's shift ledger.
// All computations are pure functions of the agent snapshot and the
// provided clock value, so results are reproducible.
package kpi

import (
	"math"
	"sort"
	"time"

	"github.com/shiftboard/backend/internal/timeutil"
	"github.com/shiftboard/backend/internal/types"
)

// latenessGraceMinutes is the window within which a late start still
// counts as full punctuality.
const latenessGraceMinutes = 5

// Compute derives all metrics for one agent. The now parameter is the
// clock used for agents whose shift is still open; it is ignored once
// ShiftActualEnd is set or ManualLoggedTime overrides the computation.
func Compute(agent types.Agent, now time.Time) types.AgentMetrics {
	m := types.AgentMetrics{}

	// Lateness: minutes past the scheduled start, clamped at zero so an
	// early arrival is not a bonus.
	if agent.ShiftActualStart != nil && !agent.ShiftScheduledStart.IsZero() {
		late := timeutil.MinutesBetween(agent.ShiftScheduledStart, *agent.ShiftActualStart)
		if late > 0 {
			m.Lateness = late
		}
	}

	// Logged time: a manual override always wins over the clocked span.
	switch {
	case agent.ManualLoggedTime != nil:
		m.LoggedTime = *agent.ManualLoggedTime
	case agent.ShiftActualStart != nil:
		end := now
		if agent.ShiftActualEnd != nil {
			end = *agent.ShiftActualEnd
		}
		m.LoggedTime = timeutil.MinutesBetween(*agent.ShiftActualStart, end)
	}

	for _, seat := range agent.Seats {
		m.TotalWrapUpTime += seat.WrapUpTime
	}

	// The percentage metrics need a sane schedule window. A missing or
	// inverted window leaves them at zero rather than dividing by it.
	if agent.ShiftScheduledStart.IsZero() || agent.ShiftScheduledEnd.IsZero() {
		return m
	}
	scheduledDuration := timeutil.MinutesBetween(agent.ShiftScheduledStart, agent.ShiftScheduledEnd)
	if scheduledDuration <= 0 {
		return m
	}

	m.Adherence = clampPercent(roundRatio(m.LoggedTime, scheduledDuration))

	startTimeAdherence := 100.0
	if m.Lateness > latenessGraceMinutes {
		startTimeAdherence = math.Max(0, 100-float64(m.Lateness)/latenessGraceMinutes)
	}
	timeSpentAdherence := clampPercent(roundRatio(m.LoggedTime, scheduledDuration))
	m.Conformance = int(math.Round((startTimeAdherence + float64(timeSpentAdherence)) / 2))

	if m.LoggedTime > 0 {
		loggedHours := float64(m.LoggedTime) / 60
		m.Productivity = float64(agent.Leads) / loggedHours * 100
	}

	return m
}

// roundRatio returns round(100 * num / den)
func roundRatio(num, den int) int {
	return int(math.Round(float64(num) / float64(den) * 100))
}

func clampPercent(v int) int {
	if v > 100 {
		return 100
	}
	return v
}

// RankByLeads returns the agents ordered by lead count, highest first.
// The input slice is not modified.
func RankByLeads(agents []types.Agent) []types.Agent {
	ranked := make([]types.Agent, len(agents))
	copy(ranked, agents)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Leads > ranked[j].Leads
	})
	return ranked
}
