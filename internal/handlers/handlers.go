package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"todoapp/internal/store"
)

// Error kinds returned in the "error" field of failure responses.
const (
	kindValidation = "validation_error"
	kindNotFound   = "not_found"
	kindConflict   = "conflict"
	kindTransient  = "transient"
	kindInternal   = "internal"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store store.Store
}

// New creates a new Handlers instance.
func New(s store.Store) *Handlers {
	return &Handlers{store: s}
}

// parseID extracts and parses an integer ID from URL parameters.
func parseID(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	return strconv.ParseInt(idStr, 10, 64)
}

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(s string) (*time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func respondJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, code int, kind, message string) {
	respondJSON(w, code, errorResponse{Error: kind, Message: message})
}

func respondValidationError(w http.ResponseWriter, message string) {
	respondError(w, http.StatusBadRequest, kindValidation, message)
}

// respondStoreError maps store failures to stable error kinds.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, kindNotFound, err.Error())
	case errors.Is(err, store.ErrConflict):
		respondError(w, http.StatusConflict, kindConflict, err.Error())
	case errors.Is(err, store.ErrInvalidRef):
		respondError(w, http.StatusBadRequest, kindValidation, err.Error())
	case store.IsTransient(err):
		respondError(w, http.StatusServiceUnavailable, kindTransient, "temporary storage failure, retry later")
	default:
		log.Printf("internal server error: %v", err)
		respondError(w, http.StatusInternalServerError, kindInternal, "internal server error")
	}
}

// Health reports service liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Stats returns aggregated task counts.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
