package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slapulse/internal/infrastructure"
	"slapulse/pkg/contracts/domain"
	"slapulse/pkg/contracts/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	metrics, err := NewMetrics(nil)
	require.NoError(t, err)
	hub := NewHub(testLogger(), metrics)
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func newTestClient(hub *Hub) *Client {
	return NewClient(hub, newFakeConn(), DefaultOptions(), "trace-ws", testLogger())
}

func receive(t *testing.T, ch <-chan []byte) events.Message {
	t.Helper()
	select {
	case raw, ok := <-ch:
		require.True(t, ok, "client queue closed")
		var msg events.Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return events.Message{}
	}
}

func TestHubStartStopIdempotent(t *testing.T) {
	hub := NewHub(testLogger(), nil)
	assert.False(t, hub.Running())

	hub.Start()
	hub.Start()
	assert.True(t, hub.Running())

	hub.Stop()
	hub.Stop()
	assert.False(t, hub.Running())
}

func TestHubGreetsRegisteredClient(t *testing.T) {
	hub := newTestHub(t)
	client := newTestClient(hub)

	require.True(t, hub.Register(client))

	msg := receive(t, client.send)
	assert.Equal(t, events.MessageTypeConnection, msg.Type)
	assert.Equal(t, "trace-ws", msg.TraceID)
	data := msg.Data.(map[string]interface{})
	assert.Equal(t, "connected", data["status"])
	assert.Equal(t, client.ID(), data["client_id"])

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHubPublishReachesEveryClient(t *testing.T) {
	hub := newTestHub(t)
	clients := []*Client{newTestClient(hub), newTestClient(hub), newTestClient(hub)}
	for _, c := range clients {
		require.True(t, hub.Register(c))
		receive(t, c.send)
	}

	ctx := infrastructure.WithTraceID(context.Background(), "trace-publish")
	status := domain.ProcessingStatus{Status: domain.ProcessingRunning, CurrentStep: "Validando dados...", Progress: 25}
	require.NoError(t, hub.Publish(ctx, events.MessageTypeProcessingStatus, status))

	for _, c := range clients {
		msg := receive(t, c.send)
		assert.Equal(t, events.MessageTypeProcessingStatus, msg.Type)
		assert.Equal(t, "trace-publish", msg.TraceID)
		assert.NotEmpty(t, msg.ID)
		data := msg.Data.(map[string]interface{})
		assert.Equal(t, float64(25), data["progress"])
		assert.Equal(t, "Validando dados...", data["currentStep"])
	}
	assert.Equal(t, int64(1), hub.Stats()["messages_published"])
}

func TestHubPublishWhenStopped(t *testing.T) {
	hub := NewHub(testLogger(), nil)
	err := hub.Publish(context.Background(), events.MessageTypeDataRefresh, nil)
	assert.ErrorIs(t, err, ErrHubStopped)
}

func TestHubPublishEncodeError(t *testing.T) {
	hub := newTestHub(t)
	err := hub.Publish(context.Background(), events.MessageTypeError, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode error message")
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := newTestHub(t)
	slow := newTestClient(hub)
	slow.send = make(chan []byte, 1)
	require.True(t, hub.Register(slow))
	// greeting fills the single slot

	require.NoError(t, hub.Publish(context.Background(), events.MessageTypeDataRefresh, events.DataRefreshEvent{Version: 2}))

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	<-slow.send
	_, ok := <-slow.send
	assert.False(t, ok, "queue of a dropped client is closed")
}

func TestHubUnregister(t *testing.T) {
	hub := newTestHub(t)
	client := newTestClient(hub)
	require.True(t, hub.Register(client))
	receive(t, client.send)

	hub.Unregister(client)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	// unknown clients are ignored
	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubStopClosesClientQueues(t *testing.T) {
	hub := NewHub(testLogger(), nil)
	hub.Start()
	client := newTestClient(hub)
	require.True(t, hub.Register(client))
	receive(t, client.send)

	hub.Stop()

	_, ok := <-client.send
	assert.False(t, ok)
	assert.False(t, hub.Register(newTestClient(hub)))
}

func TestWritePumpWritesQueueThenCloses(t *testing.T) {
	hub := NewHub(testLogger(), nil)
	conn := newFakeConn()
	client := NewClient(hub, conn, DefaultOptions(), "", testLogger())

	client.send <- []byte(`{"type":"data_refresh"}`)
	client.send <- []byte(`{"type":"system_status"}`)
	close(client.send)

	done := make(chan struct{})
	go func() {
		client.WritePump()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write pump did not stop")
	}

	frames := conn.frames()
	require.Len(t, frames, 3)
	assert.Equal(t, gorilla.TextMessage, frames[0].kind)
	assert.True(t, bytes.Contains(frames[1].data, []byte("system_status")))
	assert.Equal(t, gorilla.CloseMessage, frames[2].kind)
	assert.True(t, conn.isClosed())
}

func TestWritePumpStopsOnWriteError(t *testing.T) {
	hub := NewHub(testLogger(), nil)
	conn := newFakeConn()
	conn.writeErr = io.ErrClosedPipe
	client := NewClient(hub, conn, DefaultOptions(), "", testLogger())
	client.send <- []byte("x")

	done := make(chan struct{})
	go func() {
		client.WritePump()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write pump did not stop")
	}
	assert.True(t, conn.isClosed())
}

func TestReadPumpUnregistersOnClose(t *testing.T) {
	hub := newTestHub(t)
	conn := newFakeConn()
	client := NewClient(hub, conn, DefaultOptions(), "", testLogger())
	require.True(t, hub.Register(client))
	receive(t, client.send)

	done := make(chan struct{})
	go func() {
		client.ReadPump()
		close(done)
	}()

	conn.push(`{"type":"heartbeat"}`)
	conn.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("read pump did not stop")
	}
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestNewClientNormalizesKeepalive(t *testing.T) {
	hub := NewHub(testLogger(), nil)
	client := NewClient(hub, newFakeConn(), Options{PingPeriod: time.Minute, PongWait: 10 * time.Second}, "", nil)
	assert.Equal(t, 10*time.Second, client.pongWait)
	assert.Equal(t, 9*time.Second, client.pingPeriod)
	assert.Equal(t, "127.0.0.1:50000", client.remoteAddr)
}

func TestHandlerEndToEnd(t *testing.T) {
	hub := newTestHub(t)
	handler := NewHandler(hub, DefaultOptions(), testLogger())
	server := httptest.NewServer(handler)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var greeting events.Message
	require.NoError(t, conn.ReadJSON(&greeting))
	assert.Equal(t, events.MessageTypeConnection, greeting.Type)

	require.NoError(t, hub.Publish(context.Background(), events.MessageTypeSystemStatus,
		domain.SystemStatus{Status: domain.SystemProcessed, Message: "Dados processados com sucesso"}))

	var msg events.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, events.MessageTypeSystemStatus, msg.Type)
	assert.Equal(t, "processed", msg.Data.(map[string]interface{})["status"])
}

func TestHandlerRejectsForeignOrigin(t *testing.T) {
	hub := newTestHub(t)
	opts := DefaultOptions()
	opts.AllowedOrigins = []string{"http://localhost:5173"}
	server := httptest.NewServer(NewHandler(hub, opts, testLogger()))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := gorilla.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header = http.Header{"Origin": []string{"http://localhost:5173"}}
	conn, _, err := gorilla.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	conn.Close()
}

func TestHandlerUnavailableWhenHubStopped(t *testing.T) {
	hub := NewHub(testLogger(), nil)
	rec := httptest.NewRecorder()
	NewHandler(hub, DefaultOptions(), nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
