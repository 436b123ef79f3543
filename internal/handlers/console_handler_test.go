package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/bmizerany/pat"

	"shopcartConsole/internal/console/actions"
	"shopcartConsole/internal/console/form"
	"shopcartConsole/internal/console/render"
	"shopcartConsole/internal/services"
)

type testLogger struct{}

func (testLogger) Infof(string, ...interface{})  {}
func (testLogger) Errorf(string, ...interface{}) {}

type upstream struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
	srv      *httptest.Server
}

func newUpstream(t *testing.T, handler http.HandlerFunc) *upstream {
	t.Helper()
	u := &upstream{}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.requests = append(u.requests, r.Method+" "+r.URL.RequestURI())
		u.bodies = append(u.bodies, string(b))
		u.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) seen() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.requests...)
}

func newTestConsole(t *testing.T, u *upstream) http.Handler {
	t.Helper()
	api, err := services.NewShopcartAPI(services.ShopcartAPIConfig{BaseURL: u.srv.URL, Client: u.srv.Client()})
	if err != nil {
		t.Fatalf("api: %v", err)
	}
	pages, err := NewPages()
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	h := &ConsoleHandler{
		Controllers: func(state form.State) (*actions.Controller, error) {
			return actions.NewController(api, state, testLogger{}), nil
		},
		Pages: pages,
	}

	mux := pat.New()
	mux.Get("/", http.HandlerFunc(h.Index))
	mux.Post("/actions/:action", http.HandlerFunc(h.RunAction))
	mux.Post("/api/actions/:action", http.HandlerFunc(h.RunActionJSON))
	return mux
}

func postForm(t *testing.T, h http.Handler, action string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/actions/"+action, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersEmptyForm(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	h := newTestConsole(t, u)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`id="product_id"`, `id="flash_message"`, `id="retrieve-item-btn"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %s", want)
		}
	}
	if len(u.seen()) != 0 {
		t.Fatal("index must not call the service")
	}
}

func TestRunActionPreconditionSendsNothing(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	h := newTestConsole(t, u)

	rec := postForm(t, h, "retrieve-item", url.Values{"user_id": {"42"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Please fill userID and productID") {
		t.Fatal("expected precondition message")
	}
	if n := len(u.seen()); n != 0 {
		t.Fatalf("expected no upstream request, got %d", n)
	}
}

func TestRunActionEmptyListHasNoTable(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	h := newTestConsole(t, u)

	rec := postForm(t, h, "list-items", url.Values{"user_id": {"42"}})

	body := rec.Body.String()
	if strings.Contains(body, "<table") {
		t.Fatal("empty result must not render a table")
	}
	if !strings.Contains(body, "No items in current shopcart") {
		t.Fatal("expected empty-state message")
	}
}

func TestRunActionRendersRows(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"productId":"7","userId":"42","name":"pen","price":1.5},{"product_id":"8","user_id":"42","name":"cap"}]`))
	})
	h := newTestConsole(t, u)

	rec := postForm(t, h, "list-items", url.Values{"user_id": {"42"}})

	body := rec.Body.String()
	for _, want := range []string{`<tr id="row_0">`, `<tr id="row_1">`, `id="product_id" name="product_id" value="7"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %s", want)
		}
	}
	if strings.Contains(body, `id="row_2"`) {
		t.Error("unexpected third row")
	}
	if got := u.seen(); len(got) != 1 || got[0] != "GET /shopcarts/42/items" {
		t.Fatalf("unexpected upstream requests %v", got)
	}
}

func TestRunActionUnknown(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	h := newTestConsole(t, u)

	rec := postForm(t, h, "launch", url.Values{})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestRunActionJSON(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"product_id":"7","user_id":"42","name":"","quantity":3,"price":9.99,"time":"2021-03-01"}`))
	})
	h := newTestConsole(t, u)

	body := `{"user_id":"42","product_id":"7","quantity":"3","price":"9.99"}`
	req := httptest.NewRequest(http.MethodPost, "/api/actions/add-item", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var snap render.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Status != "Success" || snap.Fields["time"] != "2021-03-01" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	want := `{"user_id":"42","product_id":"7","name":"","quantity":3,"price":9.99,"time":""}`
	if len(u.bodies) != 1 || u.bodies[0] != want {
		t.Fatalf("unexpected upstream body %v", u.bodies)
	}
}

func TestRunActionJSONAcceptsNumbersAndBooleans(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	h := newTestConsole(t, u)

	cases := []struct {
		name   string
		action string
		body   string
		status int
		want   string
	}{
		{"numbers", "add-item", `{"user_id":42,"product_id":7,"quantity":3,"price":9.99}`, http.StatusOK, "POST /shopcarts/42/items"},
		{"boolean filter", "search", `{"name":"pen","catalog_price":true}`, http.StatusOK, "GET /pets?name=pen&price=true"},
		{"false and null", "search", `{"name":"pen","catalog_price":false,"user_id":null}`, http.StatusOK, "GET /pets?name=pen"},
		{"nested object", "search", `{"name":{"first":"pen"}}`, http.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := len(u.seen())
			req := httptest.NewRequest(http.MethodPost, "/api/actions/"+tc.action, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected %d got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			seen := u.seen()[before:]
			if tc.want == "" {
				if len(seen) != 0 {
					t.Fatalf("expected no upstream request, got %v", seen)
				}
				return
			}
			if len(seen) != 1 || seen[0] != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, seen)
			}
		})
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	want := `{"user_id":"42","product_id":"7","name":"","quantity":3,"price":9.99,"time":""}`
	if u.bodies[0] != want {
		t.Fatalf("unexpected add-item body %s", u.bodies[0])
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Health(context.Context) error { return s.err }

func TestHealth(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"api up", nil, "OK"},
		{"api down", errors.New("refused"), "unreachable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &HealthHandler{API: stubPinger{err: tc.err}}
			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			var got map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got["status"] != "OK" || got["api"] != tc.want {
				t.Fatalf("unexpected health %v", got)
			}
		})
	}
}
