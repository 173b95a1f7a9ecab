// Package ledger owns the per-agent timeline of shift and seat events.
// Mutators operate on a single agent in memory; persistence of the whole
// collection is the roster service's job.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shiftboard/backend/internal/types"
)

var (
	// ErrAlreadyActive is returned when starting a shift for an agent
	// whose shift is already open.
	ErrAlreadyActive = errors.New("agent shift already active")

	// ErrNotActive is returned when a seat change or shift end is
	// attempted while no shift is open.
	ErrNotActive = errors.New("agent shift not active")

	// ErrSeatNotFound is returned when a seat id does not exist on the agent.
	ErrSeatNotFound = errors.New("seat not found")
)

// StartShift opens the agent's shift at now and seats them. The actual
// start is recorded exactly once per shift start.
func StartShift(agent *types.Agent, seatName string, now time.Time) error {
	if agent.IsActive {
		return ErrAlreadyActive
	}

	start := now
	agent.ShiftActualStart = &start
	agent.ShiftActualEnd = nil
	agent.IsActive = true
	agent.Seats = append(agent.Seats, types.SeatEntry{
		ID:        uuid.New().String(),
		SeatName:  seatName,
		StartTime: now,
	})
	return nil
}

// ChangeSeat closes the current seat, crediting it with the given wrap-up
// minutes, and opens a new one at now. If no seat is open the new one is
// still appended, tolerating inconsistent state.
func ChangeSeat(agent *types.Agent, newSeatName string, wrapUpMinutes int, now time.Time) error {
	if !agent.IsActive {
		return ErrNotActive
	}

	if current := agent.CurrentSeat(); current != nil {
		end := now
		current.EndTime = &end
		current.WrapUpTime = wrapUpMinutes
	}

	agent.Seats = append(agent.Seats, types.SeatEntry{
		ID:        uuid.New().String(),
		SeatName:  newSeatName,
		StartTime: now,
	})
	return nil
}

// EndShift closes the open seat and the shift at now. The closing seat
// keeps whatever wrap-up value it last had.
func EndShift(agent *types.Agent, now time.Time) error {
	if !agent.IsActive {
		return ErrNotActive
	}

	if current := agent.CurrentSeat(); current != nil {
		end := now
		current.EndTime = &end
	}

	endAt := now
	agent.ShiftActualEnd = &endAt
	agent.IsActive = false
	return nil
}

// CorrectStartTime retroactively overwrites the actual shift start, and
// the first seat's start so the timeline stays aligned. The new value is
// not validated against the schedule.
func CorrectStartTime(agent *types.Agent, newStart time.Time) {
	start := newStart
	agent.ShiftActualStart = &start
	if len(agent.Seats) > 0 {
		agent.Seats[0].StartTime = newStart
	}
}

// SetManualLoggedTime overrides the computed logged time with an
// authoritative manual value.
func SetManualLoggedTime(agent *types.Agent, minutes int) {
	agent.ManualLoggedTime = &minutes
}

// RecordSeatWrapUp sets the wrap-up minutes on a specific seat,
// independent of the close flow.
func RecordSeatWrapUp(agent *types.Agent, seatID string, minutes int) error {
	for i := range agent.Seats {
		if agent.Seats[i].ID == seatID {
			agent.Seats[i].WrapUpTime = minutes
			return nil
		}
	}
	return ErrSeatNotFound
}

// UpdateSeat replaces a seat entry wholesale, matched by id.
func UpdateSeat(agent *types.Agent, seat types.SeatEntry) error {
	for i := range agent.Seats {
		if agent.Seats[i].ID == seat.ID {
			agent.Seats[i] = seat
			return nil
		}
	}
	return ErrSeatNotFound
}

// RemoveSeat deletes a seat entry unconditionally. Adjacent seats keep
// their boundaries.
func RemoveSeat(agent *types.Agent, seatID string) error {
	for i := range agent.Seats {
		if agent.Seats[i].ID == seatID {
			agent.Seats = append(agent.Seats[:i], agent.Seats[i+1:]...)
			return nil
		}
	}
	return ErrSeatNotFound
}

// RecordLeads sets the agent's total lead count to the given absolute
// value and upserts the per-campaign attribution. Campaign aggregates are
// kept in sync by the caller.
func RecordLeads(agent *types.Agent, leads int, campName string) {
	agent.Leads = leads
	if campName == "" {
		return
	}

	for i := range agent.LeadsByCamp {
		if agent.LeadsByCamp[i].CampName == campName {
			agent.LeadsByCamp[i].Leads = leads
			return
		}
	}
	agent.LeadsByCamp = append(agent.LeadsByCamp, types.CampLeads{CampName: campName, Leads: leads})
}
