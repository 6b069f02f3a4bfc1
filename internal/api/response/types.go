package response

import (
	"time"

	"github.com/shuttleday/shuttleday/internal/model"
)

// Participant represents a participant in API responses
type Participant struct {
	ID           string     `json:"id"`
	DisplayName  string     `json:"display_name"`
	Skill        string     `json:"skill"`
	CheckedIn    bool       `json:"checked_in"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	CurrentMatch *string    `json:"current_match,omitempty"`
}

// ParticipantFromModel converts a model.Participant
func ParticipantFromModel(p *model.Participant) Participant {
	out := Participant{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		Skill:       p.Skill.String(),
		CheckedIn:   p.CheckedIn,
	}
	if p.CheckedIn {
		t := p.CheckedInAt
		out.CheckedInAt = &t
	}
	if p.CurrentMatch != nil {
		id := string(*p.CurrentMatch)
		out.CurrentMatch = &id
	}
	return out
}

// Score represents a match score
type Score struct {
	TeamA int `json:"team_a"`
	TeamB int `json:"team_b"`
}

// Match represents a match in API responses
type Match struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	Court       string     `json:"court"`
	TeamA       []string   `json:"team_a"`
	TeamB       []string   `json:"team_b"`
	Score       Score      `json:"score"`
	CurrentSet  int        `json:"current_set"`
	Status      string     `json:"status"`
	Winner      *string    `json:"winner,omitempty"`
	GamePoint   bool       `json:"game_point"`
	Revocable   bool       `json:"revocable"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// MatchFromModel converts a model.Match. Game point and revocability
// are query results supplied by the caller.
func MatchFromModel(m *model.Match, gamePoint, revocable bool) Match {
	out := Match{
		ID:         string(m.ID),
		SessionID:  string(m.SessionID),
		Court:      string(m.Court),
		TeamA:      []string{string(m.TeamA[0]), string(m.TeamA[1])},
		TeamB:      []string{string(m.TeamB[0]), string(m.TeamB[1])},
		Score:      Score{TeamA: m.Score.TeamA, TeamB: m.Score.TeamB},
		CurrentSet: m.CurrentSet,
		Status:     string(m.Status),
		GamePoint:  gamePoint,
		Revocable:  revocable,
	}
	if m.Winner != "" {
		w := string(m.Winner)
		out.Winner = &w
	}
	if !m.StartedAt.IsZero() {
		t := m.StartedAt
		out.StartedAt = &t
	}
	if !m.CompletedAt.IsZero() {
		t := m.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

// Court represents a court in API responses
type Court struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// Session represents a session in API responses
type Session struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Courts        []Court `json:"courts"`
	TargetMatches int     `json:"target_matches"`
	Phase         string  `json:"phase"`
}

// SessionFromModel converts a model.Session with its derived phase
func SessionFromModel(s *model.Session, phase model.SessionPhase) Session {
	courts := make([]Court, len(s.Courts))
	for i, c := range s.Courts {
		courts[i] = Court{ID: string(c.ID), Name: c.Name, Available: c.Available}
	}
	return Session{
		ID:            string(s.ID),
		Name:          s.Name,
		Courts:        courts,
		TargetMatches: s.TargetMatches,
		Phase:         string(phase),
	}
}

// SessionSummary represents the aggregated session state
type SessionSummary struct {
	SessionID             string  `json:"session_id"`
	Name                  string  `json:"name"`
	Phase                 string  `json:"phase"`
	CheckedIn             int     `json:"checked_in"`
	Waiting               int     `json:"waiting"`
	ActiveMatches         int     `json:"active_matches"`
	CompletedMatches      int     `json:"completed_matches"`
	TargetMatches         int     `json:"target_matches"`
	Progress              float64 `json:"progress"`
	MeanMatchDurationSecs int     `json:"mean_match_duration_secs"`
	PhaseForced           bool    `json:"phase_forced"`
}

// SummaryFromModel converts a model.SessionSummary
func SummaryFromModel(s *model.SessionSummary) SessionSummary {
	return SessionSummary{
		SessionID:             string(s.SessionID),
		Name:                  s.Name,
		Phase:                 string(s.Phase),
		CheckedIn:             s.CheckedIn,
		Waiting:               s.Waiting,
		ActiveMatches:         s.ActiveMatches,
		CompletedMatches:      s.CompletedMatches,
		TargetMatches:         s.TargetMatches,
		Progress:              s.Progress,
		MeanMatchDurationSecs: int(s.MeanMatchDuration.Seconds()),
		PhaseForced:           s.PhaseForced,
	}
}

// EstimatedWait is the wait estimate for a queued participant
type EstimatedWait struct {
	ParticipantID string `json:"participant_id"`
	WaitSecs      int    `json:"wait_secs"`
}
