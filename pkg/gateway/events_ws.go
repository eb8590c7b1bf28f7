package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/libvault/registry/pkg/events"
	"github.com/libvault/registry/pkg/httputil"
	"github.com/libvault/registry/pkg/logging"
	"github.com/libvault/registry/pkg/store"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards connect from anywhere; the stream is read-only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const wsWriteTimeout = 10 * time.Second

// wsSubscriber is one connected event stream consumer.
type wsSubscriber struct {
	conn *websocket.Conn
	// typeFilter limits delivery to one event type; empty means all.
	typeFilter string
	send       chan events.Envelope
}

// wsHub fans registry events out to websocket subscribers. Broadcast never
// blocks the publishing operation: a subscriber that cannot keep up has its
// connection dropped.
type wsHub struct {
	mu     sync.Mutex
	subs   map[*wsSubscriber]struct{}
	logger *logging.ColoredLogger
}

func newWSHub(logger *logging.ColoredLogger) *wsHub {
	return &wsHub{
		subs:   make(map[*wsSubscriber]struct{}),
		logger: logger,
	}
}

// broadcast is registered as a bus handler.
func (h *wsHub) broadcast(env events.Envelope) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if sub.typeFilter != "" && sub.typeFilter != env.Type {
			continue
		}
		select {
		case sub.send <- env:
		default:
			h.logger.ComponentWarn(logging.ComponentGateway, "dropping slow event subscriber")
			close(sub.send)
			delete(h.subs, sub)
		}
	}
	return nil
}

func (h *wsHub) add(sub *wsSubscriber) {
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
}

func (h *wsHub) remove(sub *wsSubscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		close(sub.send)
		delete(h.subs, sub)
	}
	h.mu.Unlock()
}

func (h *wsHub) closeAll() {
	h.mu.Lock()
	for sub := range h.subs {
		close(sub.send)
		delete(h.subs, sub)
	}
	h.mu.Unlock()
}

// eventsWSHandler handles GET /v1/events/ws. Each delivered frame is one
// event envelope as JSON.
func (g *Gateway) eventsWSHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.ComponentWarn(logging.ComponentGateway, "websocket upgrade failed", zap.Error(err))
		return
	}

	sub := &wsSubscriber{
		conn:       conn,
		typeFilter: httputil.QueryParam(r, "type", ""),
		send:       make(chan events.Envelope, 64),
	}
	g.hub.add(sub)

	// Reader goroutine: we ignore client frames but need the read loop to
	// notice a closed connection.
	go func() {
		defer g.hub.remove(sub)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for env := range sub.send {
		payload, err := json.Marshal(env)
		if err != nil {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			break
		}
	}
	conn.Close()
}

// recentEventsHandler handles GET /v1/events/recent?limit=N from the audit
// log. Unavailable when the daemon runs without a durable store.
func (g *Gateway) recentEventsHandler(w http.ResponseWriter, r *http.Request) {
	if g.audit == nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "audit log is not enabled")
		return
	}
	limit, _ := strconv.Atoi(httputil.QueryParam(r, "limit", "100"))
	entries, err := g.audit.RecentEvents(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to read audit log")
		return
	}
	if entries == nil {
		entries = []store.AuditEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": entries})
}
