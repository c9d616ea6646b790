package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
)

const maxTitleLen = 200

type taskRequest struct {
	Title string `json:"title"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errResponse struct {
	Error   string       `json:"error"`
	Details []fieldError `json:"details,omitempty"`
}

type handler struct {
	repo   Repository
	logger *slog.Logger
}

// RegisterRoutes mounts the task endpoints on r. A nil logger discards output.
func RegisterRoutes(r chi.Router, repo Repository, logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &handler{repo: repo, logger: logger}

	r.Get("/tasks", h.list)
	r.Post("/tasks", h.create)
	r.Get("/tasks/{id}", h.detail)
	r.Put("/tasks/{id}", h.update)
	r.Patch("/tasks/{id}", h.patch)
	r.Delete("/tasks/{id}", h.delete)
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.repo.List())
}

func (h *handler) detail(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	t, err := h.repo.Detail(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTask(w, r)
	if !ok {
		return
	}
	t := h.repo.Create(Task{Title: req.Title})
	h.logger.Debug("task_created", slog.Int64("id", t.ID))
	writeJSON(w, http.StatusCreated, t)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	h.replace(w, r, h.repo.Update, "task_updated")
}

func (h *handler) patch(w http.ResponseWriter, r *http.Request) {
	h.replace(w, r, h.repo.Patch, "task_patched")
}

func (h *handler) replace(w http.ResponseWriter, r *http.Request, op func(int64, Task) (Task, error), event string) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	req, ok := decodeTask(w, r)
	if !ok {
		return
	}
	t, err := op(id, Task{Title: req.Title})
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	h.logger.Debug(event, slog.Int64("id", t.ID))
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(id); err != nil {
		writeRepoErr(w, err)
		return
	}
	h.logger.Debug("task_deleted", slog.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid_id"})
		return 0, false
	}
	return id, true
}

func decodeTask(w http.ResponseWriter, r *http.Request) (taskRequest, bool) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid_json"})
		return req, false
	}
	if vErrs := validateTitle(req.Title, maxTitleLen); len(vErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errResponse{
			Error:   "validation_error",
			Details: vErrs,
		})
		return req, false
	}
	return req, true
}

func validateTitle(title string, maxLen int) []fieldError {
	var errs []fieldError

	if strings.TrimSpace(title) == "" {
		errs = append(errs, fieldError{
			Field:   "title",
			Message: "title is required",
		})
	}

	if l := utf8.RuneCountInString(title); l > maxLen {
		errs = append(errs, fieldError{
			Field:   "title",
			Message: fmt.Sprintf("title must be at most %d characters", maxLen),
		})
	}

	return errs
}

func writeRepoErr(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrTaskNotFound) {
		writeJSON(w, http.StatusNotFound, errResponse{Error: "task_not_found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errResponse{Error: "unexpected_error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
