package model

import "time"

// ParticipantID uniquely identifies a participant within a session
type ParticipantID string

// SkillLevel is an ordered self-reported skill rating
type SkillLevel int

const (
	SkillBeginner     SkillLevel = 1
	SkillIntermediate SkillLevel = 2
	SkillAdvanced     SkillLevel = 3
)

// String returns the lowercase name of the skill level
func (s SkillLevel) String() string {
	switch s {
	case SkillBeginner:
		return "beginner"
	case SkillIntermediate:
		return "intermediate"
	case SkillAdvanced:
		return "advanced"
	default:
		return "unknown"
	}
}

// ParseSkillLevel parses a skill level name, defaulting to intermediate
// for unrecognised input
func ParseSkillLevel(s string) SkillLevel {
	switch s {
	case "beginner":
		return SkillBeginner
	case "advanced":
		return SkillAdvanced
	default:
		return SkillIntermediate
	}
}

// Participant represents a club member registered for a session
type Participant struct {
	ID          ParticipantID
	DisplayName string
	Skill       SkillLevel

	// Check-in state. CheckedInAt orders the wait queue.
	CheckedIn   bool
	CheckedInAt time.Time

	// CurrentMatch is a back-reference to the one non-completed match
	// the participant is seated in, or nil when waiting
	CurrentMatch *MatchID

	// LastPartner is the teammate from the participant's most recently
	// completed match, used to avoid immediate repeat pairings
	LastPartner ParticipantID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsWaiting reports whether the participant is checked in and not seated
func (p *Participant) IsWaiting() bool {
	return p.CheckedIn && p.CurrentMatch == nil
}

// Clone returns a deep copy, so stored participants can be handed to
// concurrent readers without sharing mutable state
func (p *Participant) Clone() *Participant {
	cp := *p
	if p.CurrentMatch != nil {
		matchID := *p.CurrentMatch
		cp.CurrentMatch = &matchID
	}
	return &cp
}
