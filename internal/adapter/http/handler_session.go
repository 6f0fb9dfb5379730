package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// SessionHandler exposes the per-session view state (the filter sidebar
// toggle) so the presentation layer owns it explicitly.
type SessionHandler struct {
	store *SessionStore
}

// NewSessionHandler creates the handler.
func NewSessionHandler(store *SessionStore) *SessionHandler {
	return &SessionHandler{store: store}
}

// RegisterRoutes registers session routes.
func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/session", h.GetSession).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/session", h.PutSession).Methods(http.MethodPut)
}

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	ViewState ViewState `json:"view_state"`
}

// GetSession returns the current view state, minting a session ID when the
// caller has none yet.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, state := h.store.Get(r.Header.Get(SessionIDHeader))
	w.Header().Set(SessionIDHeader, id)
	writeSuccess(w, http.StatusOK, "Session state", sessionResponse{SessionID: id, ViewState: state})
}

// PutSession replaces the view state for the caller's session.
func (h *SessionHandler) PutSession(w http.ResponseWriter, r *http.Request) {
	var state ViewState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeBadRequest(w, "invalid view state body")
		return
	}

	id, _ := h.store.Get(r.Header.Get(SessionIDHeader))
	h.store.Put(id, state)
	w.Header().Set(SessionIDHeader, id)
	writeSuccess(w, http.StatusOK, "Session state updated", sessionResponse{SessionID: id, ViewState: state})
}
