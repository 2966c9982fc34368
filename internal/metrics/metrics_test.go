package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHandlerWritesCounters(t *testing.T) {
	m := newMetrics()
	m.RecordAction("save")
	m.RecordAction("save")
	m.RecordStoreOperation("lookup", nil, time.Millisecond)
	m.RecordStoreOperation("lookup", errors.New("boom"), time.Millisecond)
	m.RecordSessionCreated()
	m.RecordSessionCreated()
	m.RecordSessionsExpired(1)
	m.UpdateAlerts(map[string]int{"zero_total": 1})
	m.RecordHTTPRequest("/health", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, `callboard_actions_total{action="save"} 2`)
	assert.Contains(t, body, `callboard_store_operations_total{operation="lookup",outcome="ok"} 1`)
	assert.Contains(t, body, `callboard_store_operations_total{operation="lookup",outcome="error"} 1`)
	assert.Contains(t, body, "callboard_sessions_active 1")
	assert.Contains(t, body, `callboard_data_alerts{rule="zero_total"} 1`)
	assert.Contains(t, body, `callboard_http_requests_total{endpoint="/health",status="200"} 1`)
	assert.Equal(t, int64(2), m.ActionCount("save"))
}

func TestWebSocketGauge(t *testing.T) {
	m := newMetrics()
	m.RecordWebSocketConnect()
	m.RecordWebSocketConnect()
	m.RecordWebSocketDisconnect()
	assert.Equal(t, int64(1), m.GetActiveConnections())
}
