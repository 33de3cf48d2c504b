package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"todo-desktop/internal/store"
)

const maxBodyBytes = 1 << 20

var errInvalidID = errors.New("id must be a positive integer")

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store store.Store
	log   zerolog.Logger
}

// New creates a new Handlers instance.
func New(s store.Store, log zerolog.Logger) *Handlers {
	return &Handlers{
		store: s,
		log:   log.With().Str("component", "api").Logger(),
	}
}

type successResponse struct {
	ID      int64 `json:"id,omitempty"`
	Success bool  `json:"success"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// parseID extracts a positive integer ID from URL parameters.
func parseID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func respondJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// respondError sends a JSON error response.
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, errorResponse{Success: false, Error: message})
}

func (h *Handlers) respondServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("internal server error")
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// Health reports that the API is serving.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
