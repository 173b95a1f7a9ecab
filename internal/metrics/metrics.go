package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Shift and ledger metrics
	ShiftsStartedTotal int64
	ShiftsEndedTotal   int64
	SeatChangesTotal   int64
	LeadsRecordedTotal int64

	// Report metrics
	ReportsGeneratedTotal int64
	ReportsExportedTotal  int64

	// WebSocket metrics
	WebSocketConnectionsTotal    int64
	WebSocketDisconnectionsTotal int64
	activeConnections            int64

	// Refresh metrics
	RefreshCyclesTotal  int64
	RefreshErrorsTotal  int64
	lastRefreshDuration time.Duration

	// Roster gauges
	totalAgents  int
	activeAgents int

	// HTTP metrics
	httpRequestsTotal    map[string]map[int]int64 // endpoint -> status -> count
	httpRequestDurations map[string][]float64     // endpoint -> durations

	// Timing
	startTime time.Time
}

// Global metrics instance
var instance *Metrics
var once sync.Once

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			httpRequestsTotal:    make(map[string]map[int]int64),
			httpRequestDurations: make(map[string][]float64),
			startTime:            time.Now(),
		}
	})
	return instance
}

// RecordShiftStarted increments the shifts started counter
func (m *Metrics) RecordShiftStarted() {
	m.mu.Lock()
	m.ShiftsStartedTotal++
	m.mu.Unlock()
}

// RecordShiftEnded increments the shifts ended counter
func (m *Metrics) RecordShiftEnded() {
	m.mu.Lock()
	m.ShiftsEndedTotal++
	m.mu.Unlock()
}

// RecordSeatChange increments the seat change counter
func (m *Metrics) RecordSeatChange() {
	m.mu.Lock()
	m.SeatChangesTotal++
	m.mu.Unlock()
}

// RecordLeads increments the lead update counter
func (m *Metrics) RecordLeads() {
	m.mu.Lock()
	m.LeadsRecordedTotal++
	m.mu.Unlock()
}

// RecordReportGenerated increments the report counter
func (m *Metrics) RecordReportGenerated() {
	m.mu.Lock()
	m.ReportsGeneratedTotal++
	m.mu.Unlock()
}

// RecordReportExported increments the export counter
func (m *Metrics) RecordReportExported() {
	m.mu.Lock()
	m.ReportsExportedTotal++
	m.mu.Unlock()
}

// RecordWebSocketConnect increments connection counters
func (m *Metrics) RecordWebSocketConnect() {
	m.mu.Lock()
	m.WebSocketConnectionsTotal++
	m.activeConnections++
	m.mu.Unlock()
}

// RecordWebSocketDisconnect increments disconnection counter
func (m *Metrics) RecordWebSocketDisconnect() {
	m.mu.Lock()
	m.WebSocketDisconnectionsTotal++
	m.activeConnections--
	m.mu.Unlock()
}

// RecordRefreshCycle records a snapshot refresh cycle
func (m *Metrics) RecordRefreshCycle(duration time.Duration) {
	m.mu.Lock()
	m.RefreshCyclesTotal++
	m.lastRefreshDuration = duration
	m.mu.Unlock()
}

// RecordRefreshError increments refresh error counter
func (m *Metrics) RecordRefreshError() {
	m.mu.Lock()
	m.RefreshErrorsTotal++
	m.mu.Unlock()
}

// UpdateRosterStats updates the roster gauges
func (m *Metrics) UpdateRosterStats(total, active int) {
	m.mu.Lock()
	m.totalAgents = total
	m.activeAgents = active
	m.mu.Unlock()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(endpoint string, statusCode int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.httpRequestsTotal[endpoint] == nil {
		m.httpRequestsTotal[endpoint] = make(map[int]int64)
	}
	m.httpRequestsTotal[endpoint][statusCode]++

	// Keep last 100 durations for percentile calculation
	if len(m.httpRequestDurations[endpoint]) >= 100 {
		m.httpRequestDurations[endpoint] = m.httpRequestDurations[endpoint][1:]
	}
	m.httpRequestDurations[endpoint] = append(m.httpRequestDurations[endpoint], duration.Seconds())
}

// GetActiveConnections returns current WebSocket connections
func (m *Metrics) GetActiveConnections() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeConnections
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		// Helper to write metric
		write := func(name string, value interface{}, labels ...string) {
			labelStr := ""
			if len(labels) > 0 {
				labelStr = "{"
				for i := 0; i < len(labels); i += 2 {
					if i > 0 {
						labelStr += ","
					}
					labelStr += labels[i] + "=\"" + labels[i+1] + "\""
				}
				labelStr += "}"
			}

			switch v := value.(type) {
			case int:
				w.Write([]byte(name + labelStr + " " + strconv.Itoa(v) + "\n"))
			case int64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatInt(v, 10) + "\n"))
			case float64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatFloat(v, 'f', 6, 64) + "\n"))
			}
		}

		// System metrics
		write("shiftboard_uptime_seconds", time.Since(m.startTime).Seconds())

		// Shift and ledger metrics
		write("shiftboard_shifts_started_total", m.ShiftsStartedTotal)
		write("shiftboard_shifts_ended_total", m.ShiftsEndedTotal)
		write("shiftboard_seat_changes_total", m.SeatChangesTotal)
		write("shiftboard_leads_recorded_total", m.LeadsRecordedTotal)

		// Report metrics
		write("shiftboard_reports_generated_total", m.ReportsGeneratedTotal)
		write("shiftboard_reports_exported_total", m.ReportsExportedTotal)

		// WebSocket metrics
		write("shiftboard_websocket_connections_total", m.WebSocketConnectionsTotal)
		write("shiftboard_websocket_disconnections_total", m.WebSocketDisconnectionsTotal)
		write("shiftboard_websocket_active_connections", m.activeConnections)

		// Refresh metrics
		write("shiftboard_refresh_cycles_total", m.RefreshCyclesTotal)
		write("shiftboard_refresh_errors_total", m.RefreshErrorsTotal)
		write("shiftboard_refresh_duration_seconds", m.lastRefreshDuration.Seconds())

		// Roster gauges
		write("shiftboard_agents_total", m.totalAgents)
		write("shiftboard_agents_active", m.activeAgents)

		// HTTP metrics
		for endpoint, statusCodes := range m.httpRequestsTotal {
			for status, count := range statusCodes {
				write("shiftboard_http_requests_total", count, "endpoint", endpoint, "status", strconv.Itoa(status))
			}
		}
	}
}
