package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatepass/internal/client/client"
	"github.com/dmitrijs2005/gatepass/internal/client/config"
	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dmitrijs2005/gatepass/internal/client/repositories/session"
	"github.com/dmitrijs2005/gatepass/internal/client/services"
	"github.com/dmitrijs2005/gatepass/internal/logging"
	"github.com/go-chi/chi"
	"github.com/stretchr/testify/require"
)

type fakeUser struct {
	password string
	role     models.Role
	name     string
}

type apiCall struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// fakeAPI is an in-memory inventory backend. Pass "EXPIRED" answers 401 to
// simulate a token the server stopped accepting. With bareValidate set,
// token checks answer 204 and no body.
type fakeAPI struct {
	mu           sync.Mutex
	bareValidate bool
	users  map[string]fakeUser
	tokens map[string]models.Role
	passes map[string]models.PassRecord
	calls  []apiCall
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{
		users: map[string]fakeUser{
			"alice": {password: "secret", role: models.RoleUser, name: "Alice Smith"},
			"root":  {password: "toor", role: models.RoleAdmin, name: "Root"},
		},
		tokens: map[string]models.Role{},
		passes: map[string]models.PassRecord{
			"PN-1": {
				PassNo:      "PN-1",
				DateIn:      models.DateOf(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
				ProjectName: "North Yard",
				Customer:    models.Customer{Name: "Jane Doe", Phone: "9876543210"},
				Items: []models.LineItem{{
					EquipmentType: models.EquipmentUnit,
					ItemName:      "Pump",
					PartNumber:    "P-100",
					SerialNumber:  "S-1",
					ItemIn:        true,
				}},
			},
		},
	}

	r := chi.NewRouter()
	r.Use(f.record)
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", f.login)
		r.Group(func(r chi.Router) {
			r.Use(f.authorized)
			r.Post("/logout", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
			r.Get("/validate-token", func(w http.ResponseWriter, req *http.Request) {
				f.mu.Lock()
				bare := f.bareValidate
				f.mu.Unlock()
				if bare {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				writeJSON(w, http.StatusOK, map[string]string{"role": string(f.role(req))})
			})
			r.Post("/items/in", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })
			r.Put("/items/out/{passNo}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
			r.Get("/items/{passNo}", f.getPass)
			r.Put("/items/{passNo}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
			r.Delete("/items/{passNo}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
			r.Get("/search", f.search)
			r.Get("/search/download", func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/csv")
				_, _ = io.WriteString(w, "passNo,projectName\nPN-1,North Yard\n")
			})
			r.Post("/admin/users", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })
			r.Get("/admin/projects/list", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, models.ProjectList{Projects: []string{"North Yard"}})
			})
			r.Get("/admin/projects/items", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, models.ProjectItems{Items: []models.CatalogItem{
					{ItemType: "Unit", ItemName: "Pump", PartNo: "P-100"},
					{ItemType: "Unit", ItemName: "Pump", PartNo: "P-200"},
					{ItemType: "PCB", ItemName: "Controller", PartNo: "C-1"},
				}})
			})
			r.Post("/admin/projects/add", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })
			r.Post("/admin/projects/items/add", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })
			r.Put("/admin/projects/items/edit", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
			r.Delete("/admin/projects/items/delete", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		if b, _ := io.ReadAll(req.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &body)
			req.Body = io.NopCloser(bytes.NewReader(b))
		}
		f.mu.Lock()
		f.calls = append(f.calls, apiCall{Method: req.Method, Path: req.URL.Path, Query: req.URL.RawQuery, Body: body})
		f.mu.Unlock()
		next.ServeHTTP(w, req)
	})
}

func (f *fakeAPI) role(req *http.Request) models.Role {
	token := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[token]
}

func (f *fakeAPI) authorized(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if f.role(req) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (f *fakeAPI) login(w http.ResponseWriter, req *http.Request) {
	var in models.LoginRequest
	_ = json.NewDecoder(req.Body).Decode(&in)

	u, ok := f.users[in.Username]
	if !ok || u.password != in.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
		return
	}
	token := "tok-" + in.Username
	f.mu.Lock()
	f.tokens[token] = u.role
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token, Role: string(u.role), Username: in.Username, Name: u.name})
}

func (f *fakeAPI) getPass(w http.ResponseWriter, req *http.Request) {
	passNo := chi.URLParam(req, "passNo")
	if passNo == "EXPIRED" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token expired"})
		return
	}
	f.mu.Lock()
	rec, ok := f.passes[passNo]
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Pass not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (f *fakeAPI) search(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := models.SearchResult{}
	for _, p := range f.passes {
		res.Data = append(res.Data, p)
	}
	res.Count = len(res.Data)
	writeJSON(w, http.StatusOK, res)
}

// callsTo returns the calls made with method to path.
func (f *fakeAPI) callsTo(method, path string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// nonTTY makes password prompts read a plain line from the shell input.
func nonTTY(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

// newTestApp wires an App with an in-memory session against srv. The shell
// reads its input from the given lines.
func newTestApp(t *testing.T, srv *httptest.Server, lines ...string) (*App, *bytes.Buffer) {
	t.Helper()
	nonTTY(t)
	silencePrintln(t)

	cfg := config.Defaults()
	cfg.ServerURL = srv.URL + "/api"
	cfg.SessionPersistence = string(services.PersistEphemeral)
	cfg.DownloadDir = t.TempDir()

	log := logging.Discard()
	sessions := services.NewSessionManager(session.NewMemoryRepository(), nil, time.Hour, log)
	api := client.NewHTTPClient(cfg.ServerURL, 5*time.Second)

	var out bytes.Buffer
	input := strings.Join(lines, "\n") + "\n"
	a := wire(context.Background(), &cfg, log, sessions, api, strings.NewReader(input), &out)
	a.now = func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC) }
	return a, &out
}

func requireNoCalls(t *testing.T, f *fakeAPI, method, path string) {
	t.Helper()
	require.Empty(t, f.callsTo(method, path), "unexpected %s %s", method, path)
}

// revoke makes the server forget every token it issued.
func (f *fakeAPI) revoke() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = map[string]models.Role{}
}
