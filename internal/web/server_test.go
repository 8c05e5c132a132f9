package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cognicore/helpdesk/pkg/triage"
	"github.com/cognicore/helpdesk/pkg/triage/artifact"
	"github.com/cognicore/helpdesk/pkg/triage/model"
	"github.com/cognicore/helpdesk/pkg/triage/store/memstore"
	"github.com/cognicore/helpdesk/pkg/triage/ticket"
	"github.com/cognicore/helpdesk/pkg/triage/vectorize"
)

func testArtifacts() *artifact.Set {
	vocab := map[string]int{"laptop": 0, "vpn": 1}
	return &artifact.Set{
		Vectorizer: vectorize.New(vocab, []float64{1, 1}),
		CategoryModel: &model.LinearModel{
			Weights:    [][]float64{{3, 0}, {0, 3}},
			Intercepts: []float64{0, 0},
		},
		PriorityModel: &model.LinearModel{
			Weights:    [][]float64{{0, 0}, {0, 0}},
			Intercepts: []float64{1, 0},
		},
		CategoryDecoder: &model.LabelDecoder{Classes: []string{"Hardware", "Network"}},
		PriorityDecoder: &model.LabelDecoder{Classes: []string{"Medium", "High"}},
	}
}

func newTestServer() *Server {
	engine := triage.New(triage.Options{Artifacts: testArtifacts()})
	return NewServer(engine, memstore.New())
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func getWithCookie(t *testing.T, handler http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func loginCookie(t *testing.T, handler http.Handler) *http.Cookie {
	t.Helper()
	creds := map[string]string{"username": "alice", "password": "s3cret"}

	if w := postJSON(t, handler, "/api/register", creds, nil); w.Code != http.StatusCreated {
		t.Fatalf("register = %d: %s", w.Code, w.Body.String())
	}
	w := postJSON(t, handler, "/api/login", creds, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("login response carried no session cookie")
	return nil
}

func TestTicketsRequireSession(t *testing.T) {
	h := newTestServer().Handler()

	w := postJSON(t, h, "/api/tickets", map[string]string{"description": "laptop broken today"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("without session = %d, want 401", w.Code)
	}
}

func TestRegisterDuplicateConflict(t *testing.T) {
	h := newTestServer().Handler()
	creds := map[string]string{"username": "alice", "password": "pw"}

	if w := postJSON(t, h, "/api/register", creds, nil); w.Code != http.StatusCreated {
		t.Fatalf("register = %d", w.Code)
	}
	if w := postJSON(t, h, "/api/register", creds, nil); w.Code != http.StatusConflict {
		t.Errorf("duplicate register = %d, want 409", w.Code)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	h := newTestServer().Handler()

	w := postJSON(t, h, "/api/login", map[string]string{"username": "ghost", "password": "pw"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("login = %d, want 401", w.Code)
	}
}

func TestCreateAndFetchTicketFlow(t *testing.T) {
	h := newTestServer().Handler()
	cookie := loginCookie(t, h)

	w := postJSON(t, h, "/api/tickets",
		map[string]string{"description": "my laptop is not working, urgent"}, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", w.Code, w.Body.String())
	}

	var created ticket.Ticket
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Category != ticket.CategoryHardware {
		t.Errorf("category = %s, want Hardware (rule on laptop)", created.Category)
	}
	if created.Priority != ticket.PriorityHigh {
		t.Errorf("priority = %s, want High (urgency)", created.Priority)
	}

	// Shows up in the active list.
	w = getWithCookie(t, h, "/api/tickets/active", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("active = %d", w.Code)
	}
	var active []ticket.Ticket
	if err := json.Unmarshal(w.Body.Bytes(), &active); err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].ID != created.ID {
		t.Errorf("active = %+v, want the created ticket", active)
	}

	// Close it and find it in the closed list.
	w = postJSON(t, h, "/api/tickets/"+created.ID+"/status",
		map[string]string{"status": "closed"}, cookie)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status update = %d: %s", w.Code, w.Body.String())
	}

	w = getWithCookie(t, h, "/api/tickets/closed", cookie)
	var closed []ticket.Ticket
	if err := json.Unmarshal(w.Body.Bytes(), &closed); err != nil {
		t.Fatal(err)
	}
	if len(closed) != 1 || closed[0].Status != ticket.StatusClosed {
		t.Errorf("closed = %+v", closed)
	}

	// Summary counts reflect the closed ticket.
	w = getWithCookie(t, h, "/api/summary", cookie)
	var counts map[string]int64
	if err := json.Unmarshal(w.Body.Bytes(), &counts); err != nil {
		t.Fatal(err)
	}
	if counts["total"] != 1 || counts["closed"] != 1 || counts["high"] != 1 {
		t.Errorf("summary = %v", counts)
	}
}

func TestCreateTicketValidation(t *testing.T) {
	h := newTestServer().Handler()
	cookie := loginCookie(t, h)

	w := postJSON(t, h, "/api/tickets", map[string]string{"description": "   "}, cookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty description = %d, want 400", w.Code)
	}
}

func TestUpdateStatusErrors(t *testing.T) {
	h := newTestServer().Handler()
	cookie := loginCookie(t, h)

	w := postJSON(t, h, "/api/tickets/missing/status", map[string]string{"status": "closed"}, cookie)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing ticket = %d, want 404", w.Code)
	}

	w = postJSON(t, h, "/api/tickets/missing/status", map[string]string{"status": "archived"}, cookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad status = %d, want 400", w.Code)
	}
}

func TestDownloadTicket(t *testing.T) {
	h := newTestServer().Handler()
	cookie := loginCookie(t, h)

	w := postJSON(t, h, "/api/tickets", map[string]string{"description": "vpn keeps dropping"}, cookie)
	var created ticket.Ticket
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	w = getWithCookie(t, h, "/api/tickets/"+created.ID+"/download", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("download = %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("download should set Content-Disposition")
	}
	var fetched ticket.Ticket
	if err := json.Unmarshal(w.Body.Bytes(), &fetched); err != nil {
		t.Fatal(err)
	}
	if fetched.ID != created.ID {
		t.Errorf("downloaded id = %s, want %s", fetched.ID, created.ID)
	}

	w = getWithCookie(t, h, "/api/tickets/nope/download", cookie)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing download = %d, want 404", w.Code)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	h := newTestServer().Handler()
	cookie := loginCookie(t, h)

	if w := postJSON(t, h, "/api/logout", nil, cookie); w.Code != http.StatusNoContent {
		t.Fatalf("logout = %d", w.Code)
	}

	w := getWithCookie(t, h, "/api/summary", cookie)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("after logout = %d, want 401", w.Code)
	}
}
