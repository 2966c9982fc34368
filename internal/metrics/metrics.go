package metrics

import (
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Dashboard metrics
	actionsTotal       map[string]int64 // action -> count
	storeOpsTotal      map[string]map[string]int64
	lastStoreDurations map[string]time.Duration

	// Session metrics
	SessionsCreatedTotal int64
	SessionsExpiredTotal int64
	activeSessions       int64
	ToastsExpiredTotal   int64

	// WebSocket metrics
	WebSocketConnectionsTotal    int64
	WebSocketDisconnectionsTotal int64
	WebSocketMessagesTotal       int64
	WebSocketErrorsTotal         int64
	activeConnections            int64

	// Sweep metrics
	SweepCyclesTotal  int64
	lastSweepDuration time.Duration

	// Data-quality alerts currently raised, by rule
	alertsByRule map[string]int

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
		instance = newMetrics()
	})
	return instance
}

func newMetrics() *Metrics {
	return &Metrics{
		actionsTotal:         make(map[string]int64),
		storeOpsTotal:        make(map[string]map[string]int64),
		lastStoreDurations:   make(map[string]time.Duration),
		alertsByRule:         make(map[string]int),
		httpRequestsTotal:    make(map[string]map[int]int64),
		httpRequestDurations: make(map[string][]float64),
		startTime:            time.Now(),
	}
}

// RecordAction counts a dispatched dashboard action
func (m *Metrics) RecordAction(name string) {
	m.mu.Lock()
	m.actionsTotal[name]++
	m.mu.Unlock()
}

// RecordStoreOperation counts a record store call by outcome
func (m *Metrics) RecordStoreOperation(op string, err error, duration time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.storeOpsTotal[op] == nil {
		m.storeOpsTotal[op] = make(map[string]int64)
	}
	m.storeOpsTotal[op][outcome]++
	m.lastStoreDurations[op] = duration
}

// RecordSessionCreated increments the session counters
func (m *Metrics) RecordSessionCreated() {
	m.mu.Lock()
	m.SessionsCreatedTotal++
	m.activeSessions++
	m.mu.Unlock()
}

// RecordSessionsExpired records idle sessions evicted by the sweeper
func (m *Metrics) RecordSessionsExpired(n int) {
	m.mu.Lock()
	m.SessionsExpiredTotal += int64(n)
	m.activeSessions -= int64(n)
	m.mu.Unlock()
}

// RecordToastsExpired records notifications hidden by the sweeper
func (m *Metrics) RecordToastsExpired(n int) {
	m.mu.Lock()
	m.ToastsExpiredTotal += int64(n)
	m.mu.Unlock()
}

// RecordSweep records a sweep cycle
func (m *Metrics) RecordSweep(duration time.Duration) {
	m.mu.Lock()
	m.SweepCyclesTotal++
	m.lastSweepDuration = duration
	m.mu.Unlock()
}

// UpdateAlerts replaces the raised data-quality alert counts
func (m *Metrics) UpdateAlerts(byRule map[string]int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.alertsByRule = make(map[string]int, len(byRule))
	for rule, n := range byRule {
		m.alertsByRule[rule] = n
	}
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

// RecordWebSocketMessage increments message counter
func (m *Metrics) RecordWebSocketMessage() {
	m.mu.Lock()
	m.WebSocketMessagesTotal++
	m.mu.Unlock()
}

// RecordWebSocketError increments WebSocket error counter
func (m *Metrics) RecordWebSocketError() {
	m.mu.Lock()
	m.WebSocketErrorsTotal++
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

	// Keep last 100 durations per endpoint
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

// ActionCount returns how often an action was dispatched
func (m *Metrics) ActionCount(name string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.actionsTotal[name]
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

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

		write("callboard_uptime_seconds", time.Since(m.startTime).Seconds())

		for _, action := range sortedKeys(m.actionsTotal) {
			write("callboard_actions_total", m.actionsTotal[action], "action", action)
		}

		for _, op := range sortedKeys(m.storeOpsTotal) {
			for outcome, count := range m.storeOpsTotal[op] {
				write("callboard_store_operations_total", count, "operation", op, "outcome", outcome)
			}
			write("callboard_store_operation_duration_seconds", m.lastStoreDurations[op].Seconds(), "operation", op)
		}

		// Session metrics
		write("callboard_sessions_created_total", m.SessionsCreatedTotal)
		write("callboard_sessions_expired_total", m.SessionsExpiredTotal)
		write("callboard_sessions_active", m.activeSessions)
		write("callboard_toasts_expired_total", m.ToastsExpiredTotal)

		// Sweep metrics
		write("callboard_sweep_cycles_total", m.SweepCyclesTotal)
		write("callboard_sweep_duration_seconds", m.lastSweepDuration.Seconds())

		for _, rule := range sortedKeys(m.alertsByRule) {
			write("callboard_data_alerts", m.alertsByRule[rule], "rule", rule)
		}

		// WebSocket metrics
		write("callboard_websocket_connections_total", m.WebSocketConnectionsTotal)
		write("callboard_websocket_disconnections_total", m.WebSocketDisconnectionsTotal)
		write("callboard_websocket_active_connections", m.activeConnections)
		write("callboard_websocket_messages_total", m.WebSocketMessagesTotal)
		write("callboard_websocket_errors_total", m.WebSocketErrorsTotal)

		// HTTP metrics
		for endpoint, statusCodes := range m.httpRequestsTotal {
			for status, count := range statusCodes {
				write("callboard_http_requests_total", count, "endpoint", endpoint, "status", strconv.Itoa(status))
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
