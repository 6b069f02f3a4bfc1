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

// RosterHandler handles participant endpoints
type RosterHandler struct {
	controller *session.Controller
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(controller *session.Controller) *RosterHandler {
	return &RosterHandler{controller: controller}
}

// Register handles POST /api/v1/sessions/{id}/participants
func (h *RosterHandler) Register(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["id"])

	var req request.RegisterParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	p := &model.Participant{
		ID:          model.ParticipantID(req.ID),
		DisplayName: req.DisplayName,
		Skill:       model.ParseSkillLevel(req.Skill),
	}

	registered, err := h.controller.Register(r.Context(), sessionID, p)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ParticipantFromModel(registered))
}

// List handles GET /api/v1/sessions/{id}/participants
func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["id"])

	participants, err := h.controller.GetRoster(r.Context(), sessionID)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.Participant, 0, len(participants))
	for _, p := range participants {
		out = append(out, response.ParticipantFromModel(p))
	}

	response.JSON(w, http.StatusOK, out)
}

// CheckIn handles POST /api/v1/sessions/{id}/participants/{participant_id}/check-in
func (h *RosterHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := model.SessionID(vars["id"])
	participantID := model.ParticipantID(vars["participant_id"])

	p, err := h.controller.CheckIn(r.Context(), sessionID, participantID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ParticipantFromModel(p))
}

// EstimatedWait handles GET /api/v1/sessions/{id}/participants/{participant_id}/wait
func (h *RosterHandler) EstimatedWait(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := model.SessionID(vars["id"])
	participantID := model.ParticipantID(vars["participant_id"])

	wait, err := h.controller.EstimatedWait(r.Context(), sessionID, participantID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EstimatedWait{
		ParticipantID: string(participantID),
		WaitSecs:      int(wait.Seconds()),
	})
}
