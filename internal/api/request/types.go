package request

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Name          string   `json:"name"`
	Courts        int      `json:"courts,omitempty"`
	CourtNames    []string `json:"court_names,omitempty"`
	TargetMatches int      `json:"target_matches,omitempty"`
}

// RegisterParticipantRequest is the request body for registering a participant
type RegisterParticipantRequest struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"display_name"`
	Skill       string `json:"skill"`
}

// RecordPointRequest is the request body for scoring a point
type RecordPointRequest struct {
	Team string `json:"team"`
}

// ForcePhaseRequest is the request body for the operator phase override
type ForcePhaseRequest struct {
	Phase string `json:"phase"`
}
