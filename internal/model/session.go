package model

import "time"

// SessionID uniquely identifies a club session
type SessionID string

// SessionPhase is the derived phase a session is in
type SessionPhase string

const (
	PhaseBeforeGame SessionPhase = "before_game"
	PhaseGameDay    SessionPhase = "game_day"
	PhaseDuringGame SessionPhase = "during_game"
	PhaseAfterGame  SessionPhase = "after_game"
)

// Valid reports whether the phase is one of the known phases
func (p SessionPhase) Valid() bool {
	switch p {
	case PhaseBeforeGame, PhaseGameDay, PhaseDuringGame, PhaseAfterGame:
		return true
	}
	return false
}

// Court is one court in a session's fixed pool
type Court struct {
	ID        CourtID
	Name      string
	Available bool
}

// Session is the state container for one physical gathering.
// Every session is explicitly constructed; there is no shared global
// session state, so concurrent club sessions coexist independently.
type Session struct {
	ID     SessionID
	Name   string
	Courts []Court

	// TargetMatches is the configured session target used for progress
	// reporting; it is not derived from the match history
	TargetMatches int

	// PhaseOverride is the operator-forced phase, empty for derived
	PhaseOverride SessionPhase

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Court returns the court with the given id, or nil
func (s *Session) Court(id CourtID) *Court {
	for i := range s.Courts {
		if s.Courts[i].ID == id {
			return &s.Courts[i]
		}
	}
	return nil
}

// FreeCourts returns the ids of courts currently marked available
func (s *Session) FreeCourts() []CourtID {
	var free []CourtID
	for _, c := range s.Courts {
		if c.Available {
			free = append(free, c.ID)
		}
	}
	return free
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	cp := *s
	cp.Courts = make([]Court, len(s.Courts))
	copy(cp.Courts, s.Courts)
	return &cp
}

// SessionSummary is the aggregated read surface for a session
type SessionSummary struct {
	SessionID SessionID
	Name      string
	Phase     SessionPhase

	CheckedIn        int
	Waiting          int
	ActiveMatches    int
	CompletedMatches int
	TargetMatches    int

	// Progress is completed matches over the configured target
	Progress float64

	// MeanMatchDuration is the rolling average over completed matches,
	// or the configured default before any match completes
	MeanMatchDuration time.Duration

	PhaseForced bool
}
