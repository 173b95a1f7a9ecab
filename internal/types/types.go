package types

import "time"

// CampStatus represents the derived progress state of a campaign
type CampStatus string

const (
	CampInProgress  CampStatus = "in_progress"
	CampAchieved    CampStatus = "achieved"
	CampNotAchieved CampStatus = "not_achieved"
)

// ReportKind labels the period a report snapshot is generated for
type ReportKind string

const (
	ReportDaily   ReportKind = "daily"
	ReportWeekly  ReportKind = "weekly"
	ReportMonthly ReportKind = "monthly"
)

// Role represents a user's access level
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// SeatEntry is one work assignment an agent occupies during part of a shift.
// EndTime is nil while the seat is currently occupied.
type SeatEntry struct {
	ID         string     `json:"id"`
	SeatName   string     `json:"seatName"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime"`
	WrapUpTime int        `json:"wrapUpTime"` // minutes, set when the seat is closed
}

// CampLeads attributes part of an agent's lead total to a campaign
type CampLeads struct {
	CampName string `json:"campName"`
	Leads    int    `json:"leads"`
}

// Agent is a tracked worker with a scheduled and actual shift.
// At most one seat entry has a nil EndTime at any moment, and only
// while IsActive is true.
type Agent struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	ShiftScheduledStart time.Time   `json:"shiftScheduledStart"`
	ShiftScheduledEnd   time.Time   `json:"shiftScheduledEnd"`
	ShiftActualStart    *time.Time  `json:"shiftActualStart"`
	ShiftActualEnd      *time.Time  `json:"shiftActualEnd"`
	ManualLoggedTime    *int        `json:"manualLoggedTime"` // minutes, overrides computed logged time
	IsActive            bool        `json:"isActive"`
	Seats               []SeatEntry `json:"seats"`
	Leads               int         `json:"leads"`
	LeadsByCamp         []CampLeads `json:"leadsByCamp"`
	Notes               string      `json:"notes,omitempty"`
}

// CurrentSeat returns the open seat entry, if any
func (a *Agent) CurrentSeat() *SeatEntry {
	for i := range a.Seats {
		if a.Seats[i].EndTime == nil {
			return &a.Seats[i]
		}
	}
	return nil
}

// Camp is a lead-generation campaign with a numeric target.
// Status is derived on every lead update, never set directly.
type Camp struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Target int        `json:"target"`
	Leads  int        `json:"leads"`
	Status CampStatus `json:"status"`
}

// AgentMetrics holds the derived performance numbers for one agent.
// Recomputed on every read, never persisted.
type AgentMetrics struct {
	Lateness        int     `json:"lateness"`        // minutes
	LoggedTime      int     `json:"loggedTime"`      // minutes
	TotalWrapUpTime int     `json:"totalWrapUpTime"` // minutes
	Adherence       int     `json:"adherence"`       // 0-100
	Conformance     int     `json:"conformance"`     // 0-100
	Productivity    float64 `json:"productivity"`    // unbounded above
}

// ReportRow is one agent's metric snapshot inside a report
type ReportRow struct {
	Name         string `json:"name"`
	Lateness     int    `json:"lateness"`
	Adherence    int    `json:"adherence"`
	Conformance  int    `json:"conformance"`
	LoggedTime   string `json:"loggedTime"` // "Hh Mm"
	WrapUpTime   string `json:"wrapUpTime"` // "Hh Mm"
	Leads        int    `json:"leads"`
	Productivity string `json:"productivity"` // "123.4%"
}

// Report is an immutable snapshot of all agents' metrics at generation time
type Report struct {
	ID   string      `json:"id"` // "<kind>-<epoch-millis>"
	Name string      `json:"name"`
	Date time.Time   `json:"date"`
	Type ReportKind  `json:"type"`
	Data []ReportRow `json:"data"`
}

// User is a dashboard login. PasswordHash is a bcrypt hash.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Role         Role   `json:"role"`
}

// Theme is the dashboard color pair
type Theme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Settings is the single application settings record
type Settings struct {
	DarkMode       bool  `json:"darkMode"`
	UpdateInterval int   `json:"updateInterval"` // seconds, 15-120 in steps of 15
	Theme          Theme `json:"theme"`
}

// DefaultSettings returns the settings used before any are saved
func DefaultSettings() Settings {
	return Settings{
		DarkMode:       false,
		UpdateInterval: 60,
		Theme: Theme{
			Primary:   "#2563EB",
			Secondary: "#0D9488",
		},
	}
}

// AgentSnapshot pairs an agent with its freshly computed metrics for
// live dashboard broadcasts and list responses
type AgentSnapshot struct {
	Agent   Agent        `json:"agent"`
	Metrics AgentMetrics `json:"metrics"`
}

// Snapshot is the payload broadcast to dashboard clients every refresh tick
type Snapshot struct {
	Type      string          `json:"type"` // always "snapshot"
	Timestamp time.Time       `json:"timestamp"`
	Agents    []AgentSnapshot `json:"agents"`
	Camps     []Camp          `json:"camps"`
}
