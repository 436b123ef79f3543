package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/exp/maps"

	"shopcartConsole/internal/console/actions"
	"shopcartConsole/internal/console/form"
	"shopcartConsole/internal/console/render"
)

// Logger provides minimal logging required by the hub.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Command is sent by the browser: the current form and the action to run.
type Command struct {
	Action string            `json:"action"`
	Form   map[string]string `json:"form"`
}

// Event is pushed to the browser.
type Event struct {
	Type     string           `json:"type"`
	Session  string           `json:"session,omitempty"`
	Message  string           `json:"message,omitempty"`
	Snapshot *render.Snapshot `json:"snapshot,omitempty"`
	InFlight int64            `json:"in_flight"`
}

// ControllerFactory builds the controller for a new session.
type ControllerFactory func(state form.State) *actions.Controller

// Hub keeps one console session per WebSocket connection. Commands are
// triggered without waiting, so a session may have several requests in flight.
type Hub struct {
	upgrader      websocket.Upgrader
	logger        Logger
	newController ControllerFactory
	readLimit     int64
	origins       []string

	mu    sync.RWMutex
	conns map[string]*websocket.Conn
	wmu   map[string]*sync.Mutex
}

// NewHub builds a hub. Browsers may connect from the console's own host or
// from one of origins.
func NewHub(factory ControllerFactory, logger Logger, readLimit int64, origins []string) *Hub {
	if readLimit <= 0 {
		readLimit = 8192
	}
	h := &Hub{
		logger:        logger,
		newController: factory,
		readLimit:     readLimit,
		origins:       origins,
		conns:         make(map[string]*websocket.Conn),
		wmu:           make(map[string]*sync.Mutex),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// checkOrigin accepts clients that send no Origin header, pages served by
// the console itself and allow-listed origins.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range h.origins {
		if strings.EqualFold(strings.TrimRight(allowed, "/"), origin) {
			return true
		}
	}
	h.logger.Infof("console ws origin %q rejected", origin)
	return false
}

// ServeWS upgrades the request and starts a session.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorf("console ws upgrade failed: %v", err)
		return
	}

	sessionID := uuid.NewString()
	h.mu.Lock()
	h.conns[sessionID] = conn
	h.wmu[sessionID] = &sync.Mutex{}
	h.mu.Unlock()

	ctrl := h.newController(form.NewFormState())
	ctrl.OnRender(func(s render.Snapshot) {
		h.push(sessionID, Event{Type: "snapshot", Snapshot: &s, InFlight: ctrl.InFlight()})
	})

	snap := ctrl.Snapshot()
	h.push(sessionID, Event{Type: "hello", Session: sessionID, Snapshot: &snap})
	h.logger.Infof("console session %s opened from %s", sessionID, r.RemoteAddr)

	go h.readLoop(sessionID, conn, ctrl)
}

func (h *Hub) readLoop(sessionID string, conn *websocket.Conn, ctrl *actions.Controller) {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		conn.Close()
		h.mu.Lock()
		delete(h.conns, sessionID)
		delete(h.wmu, sessionID)
		h.mu.Unlock()
		h.logger.Infof("console session %s closed", sessionID)
	}()

	conn.SetReadLimit(h.readLimit)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		if mt != websocket.TextMessage {
			continue
		}

		trimmed := strings.TrimSpace(string(msg))
		if strings.EqualFold(trimmed, "ping") {
			h.safeWrite(sessionID, func(c *websocket.Conn) error {
				return c.WriteMessage(websocket.TextMessage, []byte("pong"))
			})
			continue
		}

		var cmd Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			h.push(sessionID, Event{Type: "error", Message: "invalid command"})
			continue
		}
		name := actions.Name(cmd.Action)
		if !ctrl.Known(name) {
			h.push(sessionID, Event{Type: "error", Message: "unknown action " + cmd.Action})
			continue
		}
		if _, err := ctrl.TriggerWith(ctx, name, cmd.Form); err != nil {
			h.push(sessionID, Event{Type: "error", Message: err.Error()})
		}
	}
}

func (h *Hub) safeWrite(sessionID string, writer func(*websocket.Conn) error) {
	h.mu.RLock()
	conn := h.conns[sessionID]
	mu := h.wmu[sessionID]
	h.mu.RUnlock()
	if conn == nil || mu == nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := writer(conn); err != nil {
		h.logger.Errorf("console session %s write failed: %v", sessionID, err)
	}
}

func (h *Hub) push(sessionID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.safeWrite(sessionID, func(conn *websocket.Conn) error {
		return conn.WriteMessage(websocket.TextMessage, data)
	})
}

// SessionIDs lists the open sessions in order.
func (h *Hub) SessionIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := maps.Keys(h.conns)
	slices.Sort(ids)
	return ids
}

// Close tells every open session that the server is going away.
func (h *Hub) Close() {
	for _, id := range h.SessionIDs() {
		h.push(id, Event{Type: "closing", Session: id, Message: "Server is shutting down"})
		h.safeWrite(id, func(conn *websocket.Conn) error {
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
			return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		})
	}
}
