package handlers

import (
	"net/http"

	"todo-desktop/internal/models"
)

type createTaskRequest struct {
	Title *string `json:"title"`
}

type updateTaskRequest struct {
	Completed *bool `json:"completed"`
}

// ListTasks returns every task, newest first.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.ListTasks(r.Context())
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

// CreateTask adds a task from a {"title": ...} body.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Title == nil {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	task := &models.Task{Title: *req.Title}
	if err := task.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.store.CreateTask(r.Context(), task.Title)
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}

	h.log.Debug().Int64("task_id", id).Msg("task created")
	respondJSON(w, http.StatusOK, successResponse{ID: id, Success: true})
}

// UpdateTask sets the completion flag from a {"completed": ...} body.
// An unknown id is not an error.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Completed == nil {
		respondError(w, http.StatusBadRequest, "completed is required")
		return
	}

	if err := h.store.SetTaskCompleted(r.Context(), id, *req.Completed); err != nil {
		h.respondServerError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{Success: true})
}

// DeleteTask removes a task. An unknown id is not an error.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.store.DeleteTask(r.Context(), id); err != nil {
		h.respondServerError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{Success: true})
}
