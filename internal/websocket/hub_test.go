package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dennisdiepolder/callboard/internal/config"
	"github.com/dennisdiepolder/callboard/internal/dashboard"
	"github.com/dennisdiepolder/callboard/internal/storage"
	"github.com/dennisdiepolder/callboard/internal/types"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.New(&bytes.Buffer{}))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
	return hub
}

func TestNewHub(t *testing.T) {
	hub := NewHub(zerolog.New(&bytes.Buffer{}))

	if hub == nil {
		t.Fatal("expected hub to be created")
	}
	if hub.clients == nil {
		t.Error("expected clients map to be initialized")
	}
	if hub.publish == nil {
		t.Error("expected publish channel to be initialized")
	}
	if hub.register == nil || hub.unregister == nil {
		t.Error("expected register channels to be initialized")
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := startHub(t)
	client := &Client{id: "test-client", sessionID: "s1", hub: hub, send: make(chan []byte, 1)}

	require.True(t, hub.Register(client))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(client)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open, "send channel should be closed on unregister")
}

func TestHubPublishRoutesBySession(t *testing.T) {
	hub := startHub(t)
	watcher1 := &Client{id: "c1", sessionID: "s1", hub: hub, send: make(chan []byte, 10)}
	watcher2 := &Client{id: "c2", sessionID: "s1", hub: hub, send: make(chan []byte, 10)}
	other := &Client{id: "c3", sessionID: "s2", hub: hub, send: make(chan []byte, 10)}
	for _, c := range []*Client{watcher1, watcher2, other} {
		require.True(t, hub.Register(c))
	}

	hub.Publish(dashboard.View{SessionID: "s1", Status: "EDIT"})

	for _, c := range []*Client{watcher1, watcher2} {
		select {
		case raw := <-c.send:
			var msg SessionMessage
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, "session", msg.Type)
			assert.Equal(t, "EDIT", msg.Session.Status)
		case <-time.After(time.Second):
			t.Fatalf("%s did not receive message", c.id)
		}
	}

	select {
	case <-other.send:
		t.Error("client of another session received the update")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := startHub(t)
	slow := &Client{id: "slow", sessionID: "s1", hub: hub, send: make(chan []byte)}
	require.True(t, hub.Register(slow))

	hub.Publish(dashboard.View{SessionID: "s1"})
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubStopsWithContext(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	client := &Client{id: "c1", sessionID: "s1", hub: hub, send: make(chan []byte, 1)}
	require.True(t, hub.Register(client))

	cancel()
	<-hub.done

	_, open := <-client.send
	assert.False(t, open)
	assert.False(t, hub.Register(&Client{id: "late"}))

	// must not block after shutdown
	for i := 0; i < 300; i++ {
		hub.Publish(dashboard.View{SessionID: "s1"})
	}
}

type sessionMap map[string]*dashboard.Controller

func (m sessionMap) Get(id string) (*dashboard.Controller, bool) {
	c, ok := m[id]
	return c, ok
}

func testConfig() *config.Config {
	return &config.Config{
		AllowedOrigins: []string{"http://localhost:5173"},
		PongWait:       time.Second,
		PingPeriod:     900 * time.Millisecond,
		WriteWait:      time.Second,
		MaxMessageSize: 512,
	}
}

func TestHandlerPushesSessionViews(t *testing.T) {
	hub := startHub(t)
	ctrl := dashboard.NewController("s1", dashboard.NewState(types.DefaultFailureReasons()),
		storage.NewMemoryStore(), dashboard.Options{OnChange: hub.Publish}, zerolog.Nop())

	srv := httptest.NewServer(NewHandler(hub, sessionMap{"s1": ctrl}, testConfig(), zerolog.Nop()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?session=s1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() SessionMessage {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg SessionMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	}

	initial := read()
	assert.Equal(t, "s1", initial.Session.SessionID)
	assert.Equal(t, "VIEW", initial.Session.Status)

	ctrl.Dispatch(context.Background(), dashboard.Edit{})
	assert.Equal(t, "EDIT", read().Session.Status)
}

func TestHandlerRejectsUnknownSession(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	h := NewHandler(hub, sessionMap{}, testConfig(), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws?session=missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"session not found"}`, rec.Body.String())
}
