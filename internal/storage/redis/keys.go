package redis

import (
	"fmt"

	"github.com/shuttleday/shuttleday/internal/model"
)

// Key prefix for all session-related data
const keyPrefix = "shuttleday"

// Key generation functions for each entity type

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// participantKey returns the Redis key for a Participant
func participantKey(sessionID model.SessionID, id model.ParticipantID) string {
	return fmt.Sprintf("%s:participant:%s:%s", keyPrefix, sessionID, id)
}

// participantsIndexKey returns the Redis key for the LIST of
// participant ids for a session, in registration order
func participantsIndexKey(sessionID model.SessionID) string {
	return fmt.Sprintf("%s:idx:participants:%s", keyPrefix, sessionID)
}

// matchKey returns the Redis key for a Match
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// matchesIndexKey returns the Redis key for the LIST of match ids for
// a session, in creation order
func matchesIndexKey(sessionID model.SessionID) string {
	return fmt.Sprintf("%s:idx:matches:%s", keyPrefix, sessionID)
}

// correctionKey returns the Redis key for a CorrectionEntry
func correctionKey(matchID model.MatchID) string {
	return fmt.Sprintf("%s:correction:%s", keyPrefix, matchID)
}
