package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shuttleday/shuttleday/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeSessionNotFound      = "SESSION_NOT_FOUND"
	CodeParticipantNotFound  = "PARTICIPANT_NOT_FOUND"
	CodeMatchNotFound        = "MATCH_NOT_FOUND"
	CodeDuplicateParticipant = "DUPLICATE_PARTICIPANT"
	CodeMatchNotPlaying      = "MATCH_NOT_PLAYING"
	CodeNoActiveCorrection   = "NO_ACTIVE_CORRECTION"
	CodeInvalidTeam          = "INVALID_TEAM"
	CodeInvalidPhase         = "INVALID_PHASE"
	CodeNoCourts             = "NO_COURTS"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrParticipantNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeParticipantNotFound, "Participant not found"}}
	case errors.Is(err, model.ErrMatchNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMatchNotFound, "Match not found"}}
	case errors.Is(err, model.ErrDuplicateParticipant):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateParticipant, "Participant is already registered"}}
	case errors.Is(err, model.ErrMatchNotPlaying):
		return &httpError{http.StatusConflict, APIError{CodeMatchNotPlaying, "Match is not in play"}}
	case errors.Is(err, model.ErrNoActiveCorrection):
		return &httpError{http.StatusConflict, APIError{CodeNoActiveCorrection, "No revocable point for this match"}}
	case errors.Is(err, model.ErrInvalidTeam):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTeam, "Team must be team_a or team_b"}}
	case errors.Is(err, model.ErrInvalidPhase):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPhase, "Unknown session phase"}}
	case errors.Is(err, model.ErrNoCourts):
		return &httpError{http.StatusBadRequest, APIError{CodeNoCourts, "Session needs at least one court"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
