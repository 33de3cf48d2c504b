package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"todo-desktop/internal/models"
	"todo-desktop/internal/store"
)

const devOrigin = "http://localhost:5173"

func setupTestHandlers(t *testing.T) (*Handlers, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	h := New(s, zerolog.Nop())
	return h, s
}

func setupTestRouter(t *testing.T) (http.Handler, *store.SQLiteStore) {
	t.Helper()
	h, s := setupTestHandlers(t)
	return h.Router([]string{devOrigin}), s
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestListTasks_Empty(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/tasks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected JSON content type, got %q", ct)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected empty JSON array, got %s", got)
	}
}

func TestCreateTask_RoundTrip(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/tasks", `{"title":"buy milk"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var created struct {
		ID      int64 `json:"id"`
		Success bool  `json:"success"`
	}
	decodeBody(t, rec, &created)
	if !created.Success || created.ID <= 0 {
		t.Fatalf("unexpected create response: %s", rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/tasks", "")
	var tasks []map[string]any
	decodeBody(t, rec, &tasks)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}

	task := tasks[0]
	if task["id"] != float64(created.ID) {
		t.Errorf("expected id %d, got %v", created.ID, task["id"])
	}
	if task["title"] != "buy milk" {
		t.Errorf("expected title %q, got %v", "buy milk", task["title"])
	}
	if task["completed"] != false {
		t.Errorf("expected completed false, got %v", task["completed"])
	}
	if _, ok := task["created_at"]; !ok {
		t.Error("expected created_at in response")
	}
}

func TestCreateTask_Validation(t *testing.T) {
	router, s := setupTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{}`},
		{"blank title", `{"title":"   "}`},
		{"wrong type", `{"title":42}`},
		{"malformed json", `{"title":`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/tasks", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}

			var body errorResponse
			decodeBody(t, rec, &body)
			if body.Success || body.Error == "" {
				t.Errorf("expected descriptive error body, got %s", rec.Body.String())
			}
		})
	}

	tasks, _ := s.ListTasks(context.Background())
	if len(tasks) != 0 {
		t.Errorf("expected no tasks to be created, got %d", len(tasks))
	}
}

func TestUpdateTask_SetsCompleted(t *testing.T) {
	router, s := setupTestRouter(t)
	id, _ := s.CreateTask(context.Background(), "walk dog")
	path := "/tasks/" + strconv.FormatInt(id, 10)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, router, http.MethodPut, path, `{"completed":true}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"success":true}` {
			t.Errorf("unexpected body %s", got)
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/tasks", "")
	var tasks []models.Task
	decodeBody(t, rec, &tasks)
	if len(tasks) != 1 || !tasks[0].Completed {
		t.Errorf("expected task %d to be completed, got %+v", id, tasks)
	}
}

func TestUpdateTask_Validation(t *testing.T) {
	router, s := setupTestRouter(t)
	id, _ := s.CreateTask(context.Background(), "walk dog")
	path := "/tasks/" + strconv.FormatInt(id, 10)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"missing completed", path, `{}`},
		{"completed not bool", path, `{"completed":"yes"}`},
		{"non-integer id", "/tasks/abc", `{"completed":true}`},
		{"zero id", "/tasks/0", `{"completed":true}`},
		{"negative id", "/tasks/-3", `{"completed":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPut, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestDeleteTask(t *testing.T) {
	router, s := setupTestRouter(t)
	id, _ := s.CreateTask(context.Background(), "to delete")

	rec := doJSON(t, router, http.MethodDelete, "/tasks/"+strconv.FormatInt(id, 10), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	tasks, _ := s.ListTasks(context.Background())
	for _, task := range tasks {
		if task.ID == id {
			t.Errorf("expected task %d to be deleted", id)
		}
	}
}

func TestDeleteTask_Nonexistent(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodDelete, "/tasks/999999", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"success":true}` {
		t.Errorf("unexpected body %s", got)
	}
}

func TestDeleteTask_InvalidID(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := withID(httptest.NewRequest(http.MethodDelete, "/tasks/x", nil), "x")
	rec := httptest.NewRecorder()

	h.DeleteTask(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestLegacyRoutes(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/todos", `{"title":"legacy"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/tasks", "")
	var tasks []models.Task
	decodeBody(t, rec, &tasks)
	if len(tasks) != 1 || tasks[0].Title != "legacy" {
		t.Errorf("expected legacy route to share the store, got %+v", tasks)
	}
}

func TestHealth(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestCORS_Preflight(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/tasks/1", nil)
	req.Header.Set("Origin", devOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != devOrigin {
		t.Errorf("expected allow origin %q, got %q", devOrigin, got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPut) {
		t.Errorf("expected PUT to be allowed, got %q", got)
	}
}

func TestCORS_UnknownOrigin(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow origin header, got %q", got)
	}
}

// failingStore fails every operation the way an unavailable database would.
type failingStore struct{}

var errUnavailable = &store.PersistenceError{Op: "test", Err: errors.New("database is locked")}

func (failingStore) ListTasks(context.Context) ([]models.Task, error) { return nil, errUnavailable }
func (failingStore) CreateTask(context.Context, string) (int64, error) {
	return 0, errUnavailable
}
func (failingStore) GetTask(context.Context, int64) (*models.Task, error) {
	return nil, errUnavailable
}
func (failingStore) SetTaskCompleted(context.Context, int64, bool) error { return errUnavailable }
func (failingStore) DeleteTask(context.Context, int64) error             { return errUnavailable }
func (failingStore) Close() error                                        { return nil }

func TestStoreFailure_Returns500(t *testing.T) {
	var logs bytes.Buffer
	router := New(failingStore{}, zerolog.New(&logs)).Router([]string{devOrigin})

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/tasks", ""},
		{http.MethodPost, "/tasks", `{"title":"x"}`},
		{http.MethodPut, "/tasks/1", `{"completed":true}`},
		{http.MethodDelete, "/tasks/1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := doJSON(t, router, tt.method, tt.path, tt.body)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
			}
			if strings.Contains(rec.Body.String(), "database is locked") {
				t.Error("expected storage details to stay out of the response")
			}
		})
	}

	if !strings.Contains(logs.String(), "database is locked") {
		t.Error("expected storage failure to be logged")
	}
}

// panickingStore panics on list to exercise the recoverer.
type panickingStore struct{ failingStore }

func (panickingStore) ListTasks(context.Context) ([]models.Task, error) { panic("boom") }

func TestPanicDoesNotCrashServer(t *testing.T) {
	router := New(panickingStore{}, zerolog.Nop()).Router([]string{devOrigin})

	rec := doJSON(t, router, http.MethodGet, "/tasks", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected server to keep serving, got %d", rec.Code)
	}
}
