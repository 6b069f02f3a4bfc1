package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventParticipantCheckedIn EventType = "participant_checked_in"
	EventMatchScheduled       EventType = "match_scheduled"
	EventMatchCompleted       EventType = "match_completed"
	EventPointRecorded        EventType = "point_recorded"
	EventCorrectionApplied    EventType = "correction_applied"
	EventSessionPhaseChanged  EventType = "session_phase_changed"
)

// Event is the base structure for all outbound events. Payloads carry
// full post-mutation snapshots rather than diffs, so a reconnecting
// observer resynchronises from the latest event alone.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID SessionID `json:"session_id"`
	Payload   any       `json:"payload"`
}

// ParticipantCheckedInPayload contains data for check-in events
type ParticipantCheckedInPayload struct {
	Participant Participant `json:"participant"`
}

// MatchScheduledPayload contains data for match scheduled events
type MatchScheduledPayload struct {
	Match Match `json:"match"`

	// WaitingCount is the number of checked-in participants still
	// waiting for a court after this match was seated
	WaitingCount int `json:"waiting_count"`
}

// MatchCompletedPayload contains data for match completed events
type MatchCompletedPayload struct {
	Match  Match   `json:"match"`
	Court  CourtID `json:"court"`
	Winner Team    `json:"winner"`
}

// PointRecordedPayload contains data for point recorded events
type PointRecordedPayload struct {
	Match     Match `json:"match"`
	Team      Team  `json:"team"`
	GamePoint bool  `json:"game_point"`
}

// CorrectionAppliedPayload contains data for score correction events
type CorrectionAppliedPayload struct {
	Match Match `json:"match"`
	Team  Team  `json:"team"`
}

// SessionPhaseChangedPayload contains data for phase change events
type SessionPhaseChangedPayload struct {
	Summary SessionSummary `json:"summary"`
}
