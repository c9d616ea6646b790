package tasks

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestServer() (*chi.Mux, *InMemoryRepo) {
	repo := NewInMemoryRepo()
	r := chi.NewRouter()
	RegisterRoutes(r, repo, nil)
	return r, repo
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var errResp errResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to parse error JSON: %v (body=%s)", err, rec.Body.String())
	}
	return errResp.Error
}

func TestPostTasks_Success(t *testing.T) {
	r, _ := newTestServer()

	rec := do(r, http.MethodPost, "/tasks", `{"id":7,"title":"learn chi"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d, body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	var got Task
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if got.ID != 1 {
		t.Errorf("expected store-assigned ID 1, got %d", got.ID)
	}
	if got.Title != "learn chi" {
		t.Errorf("expected Title=learn chi, got %q", got.Title)
	}
}

func TestPostTasks_TitleRequired(t *testing.T) {
	r, repo := newTestServer()

	rec := do(r, http.MethodPost, "/tasks", `{"title":"  "}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d, body=%s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "validation_error" {
		t.Errorf("expected error 'validation_error', got %q", code)
	}
	if n := repo.Count(); n != 0 {
		t.Errorf("rejected request must not create a task, store has %d", n)
	}
}

func TestPostTasks_TitleTooLong(t *testing.T) {
	r, _ := newTestServer()

	body := `{"title":"` + strings.Repeat("x", maxTitleLen+1) + `"}`
	rec := do(r, http.MethodPost, "/tasks", body)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d, body=%s", rec.Code, rec.Body.String())
	}
}

func TestPostTasks_MultibyteTitleCountsCharacters(t *testing.T) {
	cases := []struct {
		name   string
		title  string
		status int
	}{
		{"hangul under limit", strings.Repeat("할", 100), http.StatusCreated},
		{"hangul at limit", strings.Repeat("일", maxTitleLen), http.StatusCreated},
		{"hangul over limit", strings.Repeat("일", maxTitleLen+1), http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestServer()

			body, err := json.Marshal(taskRequest{Title: tc.title})
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			rec := do(r, http.MethodPost, "/tasks", string(body))

			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d, body=%s", tc.status, rec.Code, rec.Body.String())
			}
			if tc.status != http.StatusCreated {
				return
			}
			var got Task
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("failed to parse JSON: %v", err)
			}
			if got.Title != tc.title {
				t.Errorf("title not stored verbatim: got %d runes", len([]rune(got.Title)))
			}
		})
	}
}

func TestPatchTask_MultibyteTitle(t *testing.T) {
	r, repo := newTestServer()
	repo.Create(Task{Title: "test"})

	title := strings.Repeat("할", 150)
	rec := do(r, http.MethodPatch, "/tasks/1", `{"title":"`+title+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", rec.Code, rec.Body.String())
	}
	stored, err := repo.Detail(1)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if stored.Title != title {
		t.Errorf("expected patched title to be stored")
	}
}

func TestPostTasks_InvalidJSON(t *testing.T) {
	r, _ := newTestServer()

	rec := do(r, http.MethodPost, "/tasks", `{"title":`) // truncated/invalid JSON

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d, body=%s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "invalid_json" {
		t.Errorf("expected error 'invalid_json', got %q", code)
	}
}

func TestGetTasks_Empty(t *testing.T) {
	r, _ := newTestServer()

	rec := do(r, http.MethodGet, "/tasks", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty JSON array, got %s", body)
	}
}

func TestGetTasks_HappyPath(t *testing.T) {
	r, repo := newTestServer()

	repo.Create(Task{Title: "seeded task"})
	repo.Create(Task{Title: "second"})

	rec := do(r, http.MethodGet, "/tasks", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", rec.Code, rec.Body.String())
	}

	var list []Task
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(list))
	}
	if list[0].Title != "seeded task" || list[1].Title != "second" {
		t.Errorf("unexpected order: %+v", list)
	}
}

func TestGetTask_Detail(t *testing.T) {
	r, repo := newTestServer()
	repo.Create(Task{Title: "test"})

	rec := do(r, http.MethodGet, "/tasks/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", rec.Code, rec.Body.String())
	}
	var got Task
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if got != (Task{ID: 1, Title: "test"}) {
		t.Errorf("unexpected task: %+v", got)
	}
}

func TestTaskByID_Errors(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"detail missing", http.MethodGet, "/tasks/100", "", http.StatusNotFound, "task_not_found"},
		{"update missing", http.MethodPut, "/tasks/100", `{"title":"x"}`, http.StatusNotFound, "task_not_found"},
		{"patch missing", http.MethodPatch, "/tasks/100", `{"title":"x"}`, http.StatusNotFound, "task_not_found"},
		{"delete missing", http.MethodDelete, "/tasks/100", "", http.StatusNotFound, "task_not_found"},
		{"non-numeric id", http.MethodGet, "/tasks/abc", "", http.StatusBadRequest, "invalid_id"},
		{"zero id", http.MethodDelete, "/tasks/0", "", http.StatusBadRequest, "invalid_id"},
		{"update bad json", http.MethodPut, "/tasks/1", `{`, http.StatusBadRequest, "invalid_json"},
		{"patch blank title", http.MethodPatch, "/tasks/1", `{"title":""}`, http.StatusUnprocessableEntity, "validation_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, repo := newTestServer()
			repo.Create(Task{Title: "existing"})

			rec := do(r, tc.method, tc.path, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d, body=%s", tc.status, rec.Code, rec.Body.String())
			}
			if code := errorCode(t, rec); code != tc.code {
				t.Errorf("expected error %q, got %q", tc.code, code)
			}
		})
	}
}

func TestPutAndPatchTask(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			r, repo := newTestServer()
			repo.Create(Task{Title: "test"})
			repo.Create(Task{Title: "other"})

			rec := do(r, method, "/tasks/1", `{"id":5,"title":"Test2"}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d, body=%s", rec.Code, rec.Body.String())
			}

			var got Task
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("failed to parse JSON: %v", err)
			}
			if got != (Task{ID: 1, Title: "Test2"}) {
				t.Errorf("unexpected task: %+v", got)
			}

			other, err := repo.Detail(2)
			if err != nil {
				t.Fatalf("detail: %v", err)
			}
			if other.Title != "other" {
				t.Errorf("unrelated task changed: %+v", other)
			}
		})
	}
}

func TestDeleteTask(t *testing.T) {
	r, repo := newTestServer()
	repo.Create(Task{Title: "test"})
	repo.Create(Task{Title: "Test2"})

	rec := do(r, http.MethodDelete, "/tasks/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d, body=%s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %s", rec.Body.String())
	}

	list := repo.List()
	if len(list) != 1 || list[0].ID != 2 {
		t.Fatalf("unexpected tasks after delete: %+v", list)
	}

	rec = do(r, http.MethodGet, "/tasks/1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", rec.Code)
	}
}
