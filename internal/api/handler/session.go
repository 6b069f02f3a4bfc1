package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shuttleday/shuttleday/internal/api/request"
	"github.com/shuttleday/shuttleday/internal/api/response"
	"github.com/shuttleday/shuttleday/internal/api/sse"
	"github.com/shuttleday/shuttleday/internal/model"
	"github.com/shuttleday/shuttleday/internal/services/session"
)

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	controller *session.Controller
	hubManager *sse.HubManager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller *session.Controller, hubManager *sse.HubManager) *SessionHandler {
	return &SessionHandler{
		controller: controller,
		hubManager: hubManager,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	s, err := h.controller.CreateSession(r.Context(), session.CreateSessionInput{
		Name:          req.Name,
		CourtCount:    req.Courts,
		CourtNames:    req.CourtNames,
		TargetMatches: req.TargetMatches,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	phase, err := h.controller.Phase(r.Context(), s.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(s, phase))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	summary, err := h.controller.Summary(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SummaryFromModel(summary))
}

// Reset handles POST /api/v1/sessions/{id}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	s, err := h.controller.Reset(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	phase, err := h.controller.Phase(r.Context(), s.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(s, phase))
}

// ForcePhase handles PUT /api/v1/sessions/{id}/phase
func (h *SessionHandler) ForcePhase(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.ForcePhaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	s, err := h.controller.ForcePhase(r.Context(), id, model.SessionPhase(req.Phase))
	if err != nil {
		WriteError(w, err)
		return
	}

	phase, err := h.controller.Phase(r.Context(), s.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(s, phase))
}

// Events handles GET /api/v1/sessions/{id}/events
// Streams session events over SSE until the client disconnects.
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	if _, err := h.controller.GetSession(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(id)
	sse.ServeSSE(w, r, hub)
}
