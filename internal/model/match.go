package model

import "time"

// MatchID uniquely identifies a match
type MatchID string

// CourtID identifies a court within a session's fixed pool
type CourtID string

// Team tags one side of a doubles match
type Team string

const (
	TeamA Team = "team_a"
	TeamB Team = "team_b"
)

// Opponent returns the other team tag
func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Valid reports whether the tag is one of the two known teams
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// MatchStatus represents the lifecycle state of a match
type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchPlaying   MatchStatus = "playing"
	MatchCompleted MatchStatus = "completed"
)

// Score holds the running point totals for both teams
type Score struct {
	TeamA int
	TeamB int
}

// Points returns the given team's point total
func (s Score) Points(t Team) int {
	if t == TeamA {
		return s.TeamA
	}
	return s.TeamB
}

// Add returns a copy with one point added for the given team
func (s Score) Add(t Team) Score {
	if t == TeamA {
		s.TeamA++
	} else {
		s.TeamB++
	}
	return s
}

// Subtract returns a copy with one point removed for the given team,
// never going below zero
func (s Score) Subtract(t Team) Score {
	if t == TeamA && s.TeamA > 0 {
		s.TeamA--
	} else if t == TeamB && s.TeamB > 0 {
		s.TeamB--
	}
	return s
}

// Match represents a doubles match on a court
type Match struct {
	ID        MatchID
	SessionID SessionID
	Court     CourtID

	TeamA [2]ParticipantID
	TeamB [2]ParticipantID

	Score      Score
	CurrentSet int
	Status     MatchStatus
	Winner     Team // empty until Completed

	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time
	UpdatedAt   time.Time
}

// Active reports whether the match still occupies its participants
func (m *Match) Active() bool {
	return m.Status != MatchCompleted
}

// Participants returns all four seated participant ids
func (m *Match) Participants() []ParticipantID {
	return []ParticipantID{m.TeamA[0], m.TeamA[1], m.TeamB[0], m.TeamB[1]}
}

// HasParticipant reports whether the participant is seated in this match
func (m *Match) HasParticipant(id ParticipantID) bool {
	for _, p := range m.Participants() {
		if p == id {
			return true
		}
	}
	return false
}

// TeamOf returns the team the participant is seated on, or "" if absent
func (m *Match) TeamOf(id ParticipantID) Team {
	if m.TeamA[0] == id || m.TeamA[1] == id {
		return TeamA
	}
	if m.TeamB[0] == id || m.TeamB[1] == id {
		return TeamB
	}
	return ""
}

// PartnerOf returns the participant's teammate, or "" if absent
func (m *Match) PartnerOf(id ParticipantID) ParticipantID {
	switch id {
	case m.TeamA[0]:
		return m.TeamA[1]
	case m.TeamA[1]:
		return m.TeamA[0]
	case m.TeamB[0]:
		return m.TeamB[1]
	case m.TeamB[1]:
		return m.TeamB[0]
	}
	return ""
}

// Duration returns the observed playing time for a completed match
func (m *Match) Duration() time.Duration {
	if m.Status != MatchCompleted {
		return 0
	}
	return m.CompletedAt.Sub(m.StartedAt)
}

// Clone returns a copy of the match
func (m *Match) Clone() *Match {
	cp := *m
	return &cp
}
