package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shuttleday/shuttleday/internal/api/request"
	"github.com/shuttleday/shuttleday/internal/api/response"
	"github.com/shuttleday/shuttleday/internal/model"
	"github.com/shuttleday/shuttleday/internal/services/session"
)

// MatchHandler handles match and scoring endpoints
type MatchHandler struct {
	controller *session.Controller
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(controller *session.Controller) *MatchHandler {
	return &MatchHandler{controller: controller}
}

// List handles GET /api/v1/sessions/{id}/matches
// An optional ?status= query filters by match status.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["id"])
	status := model.MatchStatus(r.URL.Query().Get("status"))

	matches, err := h.controller.GetMatches(r.Context(), sessionID, status)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.Match, 0, len(matches))
	for _, m := range matches {
		resp, err := h.matchResponse(r, sessionID, m)
		if err != nil {
			WriteError(w, err)
			return
		}
		out = append(out, resp)
	}

	response.JSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/sessions/{id}/matches/{match_id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := model.SessionID(vars["id"])
	matchID := model.MatchID(vars["match_id"])

	m, err := h.controller.GetMatch(r.Context(), sessionID, matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp, err := h.matchResponse(r, sessionID, m)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// RecordPoint handles POST /api/v1/sessions/{id}/matches/{match_id}/points
func (h *MatchHandler) RecordPoint(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := model.SessionID(vars["id"])
	matchID := model.MatchID(vars["match_id"])

	var req request.RecordPointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	m, err := h.controller.RecordPoint(r.Context(), sessionID, matchID, model.Team(req.Team))
	if err != nil {
		WriteError(w, err)
		return
	}

	resp, err := h.matchResponse(r, sessionID, m)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// RevokePoint handles DELETE /api/v1/sessions/{id}/matches/{match_id}/points
func (h *MatchHandler) RevokePoint(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := model.SessionID(vars["id"])
	matchID := model.MatchID(vars["match_id"])

	m, err := h.controller.Revoke(r.Context(), sessionID, matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp, err := h.matchResponse(r, sessionID, m)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// matchResponse builds the API view of a match with its live flags
func (h *MatchHandler) matchResponse(r *http.Request, sessionID model.SessionID, m *model.Match) (response.Match, error) {
	gamePoint := false
	if m.Status == model.MatchPlaying {
		gp, err := h.controller.IsGamePoint(r.Context(), sessionID, m.ID)
		if err != nil {
			return response.Match{}, err
		}
		gamePoint = gp
	}

	revocable, err := h.controller.IsRevocable(r.Context(), sessionID, m.ID)
	if err != nil {
		return response.Match{}, err
	}

	return response.MatchFromModel(m, gamePoint, revocable), nil
}
