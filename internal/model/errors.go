package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidPhase    = errors.New("invalid session phase")
	ErrNoCourts        = errors.New("session must have at least one court")

	// Participant errors
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrDuplicateParticipant = errors.New("participant is already registered")

	// Match errors
	ErrMatchNotFound   = errors.New("match not found")
	ErrMatchNotPlaying = errors.New("match is not in play")
	ErrInvalidTeam     = errors.New("invalid team")

	// Correction errors
	ErrNoActiveCorrection = errors.New("no active correction for this match")
)
