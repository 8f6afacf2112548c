package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"slapulse/internal/infrastructure"
	"slapulse/pkg/contracts/events"
)

const (
	// Frames queued for the hub loop before Publish starts dropping
	broadcastQueueSize = 256

	// Frames queued per client before the client is considered stuck
	clientQueueSize = 64
)

// Publisher pushes dashboard events to connected clients
type Publisher interface {
	Publish(ctx context.Context, msgType events.MessageType, data interface{}) error
}

type frame struct {
	msgType events.MessageType
	payload []byte
}

// Hub maintains the set of active clients and fans frames out to them.
// All client set mutations happen on the Run goroutine.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan frame
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	done       chan struct{}

	mu      sync.RWMutex
	running bool
	count   int

	logger  *slog.Logger
	metrics *Metrics

	published atomic.Int64
	dropped   atomic.Int64
}

// NewHub creates a hub. metrics may be nil.
func NewHub(logger *slog.Logger, metrics *Metrics) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan frame, broadcastQueueSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		metrics:    metrics,
	}
}

// Start runs the hub loop in a new goroutine. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.run()
}

// Stop ends the hub loop and closes every client queue. It waits for the
// loop to exit and is safe to call more than once.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done
}

func (h *Hub) run() {
	defer close(h.done)

	for {
		select {
		case <-h.quit:
			for client := range h.clients {
				h.drop(client, "shutdown")
			}
			h.logger.Info("Hub shut down")
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.setCount()
			h.metrics.recordConnect(client.context())

			h.logger.InfoContext(client.context(), "Client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", len(h.clients)))

			h.greet(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client, "closed")
			}

		case f := <-h.broadcast:
			delivered, failed := 0, 0
			for client := range h.clients {
				select {
				case client.send <- f.payload:
					delivered++
				default:
					failed++
					h.metrics.recordDropped(client.context(), "client")
					h.logger.WarnContext(client.context(), "Client send buffer full, disconnecting",
						slog.String("client_id", client.id))
					h.drop(client, "slow")
				}
			}
			h.metrics.recordBroadcast(context.Background(), string(f.msgType))

			h.logger.Debug("Broadcast delivered",
				slog.String("type", string(f.msgType)),
				slog.Int("delivered", delivered),
				slog.Int("failed", failed),
				slog.Int("payload_size", len(f.payload)))
		}
	}
}

// drop removes client and closes its queue. Run goroutine only.
func (h *Hub) drop(client *Client, reason string) {
	delete(h.clients, client)
	close(client.send)
	h.setCount()

	connected := time.Since(client.connectedAt)
	h.metrics.recordDisconnect(client.context(), connected, reason)
	h.logger.InfoContext(client.context(), "Client unregistered",
		slog.String("client_id", client.id),
		slog.String("reason", reason),
		slog.Duration("connection_duration", connected),
		slog.Int("total_clients", len(h.clients)))
}

func (h *Hub) setCount() {
	h.mu.Lock()
	h.count = len(h.clients)
	h.mu.Unlock()
}

func (h *Hub) greet(client *Client) {
	payload, err := encode(client.context(), events.MessageTypeConnection, events.ConnectionEvent{
		Status:   "connected",
		Message:  "Conectado ao SLA Pulse",
		ClientID: client.id,
	})
	if err != nil {
		h.logger.ErrorContext(client.context(), "Failed to encode connection message", slog.String("error", err.Error()))
		return
	}

	select {
	case client.send <- payload:
	default:
		h.logger.WarnContext(client.context(), "Failed to send connection message - client buffer full",
			slog.String("client_id", client.id))
	}
}

// Publish queues an event for every connected client. It never blocks: when
// the hub is stopped or its queue is full the event is dropped and an error
// returned. The trace id in ctx, if any, travels with the message.
func (h *Hub) Publish(ctx context.Context, msgType events.MessageType, data interface{}) error {
	if !h.Running() {
		return ErrHubStopped
	}

	payload, err := encode(ctx, msgType, data)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", msgType, err)
	}

	select {
	case h.broadcast <- frame{msgType: msgType, payload: payload}:
		h.published.Add(1)
		return nil
	default:
		h.dropped.Add(1)
		h.metrics.recordDropped(ctx, "hub")
		h.logger.WarnContext(ctx, "Broadcast queue full, dropping message",
			slog.String("type", string(msgType)))
		return ErrQueueFull
	}
}

func encode(ctx context.Context, msgType events.MessageType, data interface{}) ([]byte, error) {
	return json.Marshal(events.Message{
		ID:        uuid.NewString(),
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		TraceID:   infrastructure.GetTraceID(ctx),
		Data:      data,
	})
}

// Register hands a client to the hub loop. It returns false when the hub is not running.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.quit:
		return false
	}
}

// Unregister detaches a client. Unknown or already dropped clients are ignored.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// Running reports whether the hub loop is active.
func (h *Hub) Running() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Stats returns hub counters for the health endpoint.
func (h *Hub) Stats() map[string]interface{} {
	return map[string]interface{}{
		"active_clients":     h.ClientCount(),
		"messages_published": h.published.Load(),
		"messages_dropped":   h.dropped.Load(),
	}
}
