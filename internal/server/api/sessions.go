// Package api provides HTTP API handlers for the Mudra hand tracker.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/store"
)

// SessionsHandler handles HTTP requests for recorded tracking sessions.
type SessionsHandler struct {
	store *store.Store
}

// NewSessionsHandler creates a new SessionsHandler with the given store.
func NewSessionsHandler(s *store.Store) *SessionsHandler {
	return &SessionsHandler{store: s}
}

type listSessionsResponse struct {
	Sessions []store.Session `json:"sessions"`
}

type sessionDetailResponse struct {
	Session *store.Session     `json:"session"`
	Points  []store.TrackPoint `json:"points,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP routes collection and item requests.
// Paths: /api/sessions, /api/sessions/{id}, /api/sessions/{id}/points.
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	id, rest, _ := strings.Cut(path, "/")
	switch {
	case rest == "" && r.Method == http.MethodGet:
		h.get(w, r, id, false)
	case rest == "" && r.Method == http.MethodDelete:
		h.delete(w, r, id)
	case rest == "points" && r.Method == http.MethodGet:
		h.get(w, r, id, true)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions.
func (h *SessionsHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
}

// get handles GET /api/sessions/{id} and /api/sessions/{id}/points.
func (h *SessionsHandler) get(w http.ResponseWriter, r *http.Request, id string, withPoints bool) {
	session, err := h.store.Sessions().Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get session")
		return
	}

	resp := sessionDetailResponse{Session: session}
	if withPoints {
		points, err := h.store.Tracks().GetBySessionID(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to get track points")
			return
		}
		resp.Points = points
	}
	writeJSON(w, http.StatusOK, resp)
}

// delete handles DELETE /api/sessions/{id}.
func (h *SessionsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Sessions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
