package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"shopcartConsole/internal/console/actions"
	"shopcartConsole/internal/console/form"
	"shopcartConsole/internal/services"
)

type testLogger struct{}

func (testLogger) Infof(string, ...interface{})  {}
func (testLogger) Errorf(string, ...interface{}) {}

type stubDispatcher struct {
	paths chan string
}

func (s *stubDispatcher) Send(_ context.Context, method, path string, body any) (*services.Result, error) {
	s.paths <- method + " " + path
	return &services.Result{StatusCode: http.StatusOK, Body: json.RawMessage(`{"product_id":"7","user_id":"42","name":"pen"}`)}, nil
}

func dial(t *testing.T, api actions.Dispatcher) (*websocket.Conn, func()) {
	t.Helper()
	hub := NewHub(func(state form.State) *actions.Controller {
		return actions.NewController(api, state, testLogger{})
	}, testLogger{}, 0, nil)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

func TestHubRunsActionAndPushesSnapshot(t *testing.T) {
	api := &stubDispatcher{paths: make(chan string, 4)}
	conn, closeAll := dial(t, api)
	defer closeAll()

	hello := readEvent(t, conn)
	if hello.Type != "hello" || hello.Session == "" || hello.Snapshot == nil {
		t.Fatalf("unexpected hello %+v", hello)
	}

	cmd := Command{Action: string(actions.RetrieveItem), Form: map[string]string{"user_id": "42", "product_id": "7"}}
	if err := conn.WriteJSON(cmd); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-api.paths:
		if got != "GET /shopcarts/42/items/7" {
			t.Fatalf("unexpected request %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no request sent")
	}

	ev := readEvent(t, conn)
	if ev.Type != "snapshot" || ev.Snapshot == nil {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Snapshot.Status != "Success" || ev.Snapshot.Fields["name"] != "pen" {
		t.Fatalf("unexpected snapshot %+v", ev.Snapshot)
	}
}

func TestHubPreconditionAndErrors(t *testing.T) {
	api := &stubDispatcher{paths: make(chan string, 4)}
	conn, closeAll := dial(t, api)
	defer closeAll()
	readEvent(t, conn)

	if err := conn.WriteJSON(Command{Action: string(actions.RetrieveItem), Form: map[string]string{"user_id": "42"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	ev := readEvent(t, conn)
	if ev.Snapshot == nil || ev.Snapshot.Status != actions.MsgNeedUserProduct {
		t.Fatalf("unexpected event %+v", ev)
	}

	if err := conn.WriteJSON(Command{Action: "launch"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	ev = readEvent(t, conn)
	if ev.Type != "error" || !strings.Contains(ev.Message, "launch") {
		t.Fatalf("unexpected event %+v", ev)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil || string(msg) != "pong" {
		t.Fatalf("expected pong, got %q %v", msg, err)
	}

	if len(api.paths) != 0 {
		t.Fatalf("expected no requests, got %d", len(api.paths))
	}
}

func TestHubCloseNotifiesSessions(t *testing.T) {
	api := &stubDispatcher{paths: make(chan string, 1)}
	hub := NewHub(func(state form.State) *actions.Controller {
		return actions.NewController(api, state, testLogger{})
	}, testLogger{}, 0, nil)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := readEvent(t, conn)
	if ids := hub.SessionIDs(); len(ids) != 1 || ids[0] != hello.Session {
		t.Fatalf("expected session %q, got %v", hello.Session, ids)
	}

	hub.Close()

	if ev := readEvent(t, conn); ev.Type != "closing" {
		t.Fatalf("expected closing event, got %+v", ev)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("expected going away close, got %v", err)
	}
}

func TestHubChecksOrigin(t *testing.T) {
	api := &stubDispatcher{paths: make(chan string, 1)}
	hub := NewHub(func(state form.State) *actions.Controller {
		return actions.NewController(api, state, testLogger{})
	}, testLogger{}, 0, []string{"http://localhost:5173"})
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	cases := []struct {
		name   string
		origin string
		ok     bool
	}{
		{"no origin", "", true},
		{"same host", srv.URL, true},
		{"allow-listed", "http://localhost:5173", true},
		{"foreign page", "http://evil.example", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			header := http.Header{}
			if tc.origin != "" {
				header.Set("Origin", tc.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
			if tc.ok {
				if err != nil {
					t.Fatalf("dial: %v", err)
				}
				conn.Close()
				return
			}
			if err == nil {
				conn.Close()
				t.Fatal("expected handshake to be rejected")
			}
			if resp == nil || resp.StatusCode != http.StatusForbidden {
				t.Fatalf("expected 403, got %v", resp)
			}
		})
	}
}
