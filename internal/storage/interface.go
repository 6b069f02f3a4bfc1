package storage

import (
	"context"

	"github.com/shuttleday/shuttleday/internal/model"
)

// Storage defines the interface for data persistence.
//
// Implementations return copies of stored entities; callers mutate
// their copy and save it back, so readers never observe an entity
// mid-mutation.
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	SessionExists(ctx context.Context, id model.SessionID) (bool, error)

	// Participant operations. Listing preserves registration order.
	SaveParticipant(ctx context.Context, sessionID model.SessionID, p *model.Participant) error
	GetParticipant(ctx context.Context, sessionID model.SessionID, id model.ParticipantID) (*model.Participant, error)
	ListParticipants(ctx context.Context, sessionID model.SessionID) ([]*model.Participant, error)

	// Match operations. The match collection is append-only; matches
	// are only ever removed wholesale by a session reset. Listing
	// preserves creation order.
	SaveMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, sessionID model.SessionID, id model.MatchID) (*model.Match, error)
	ListMatches(ctx context.Context, sessionID model.SessionID) ([]*model.Match, error)
	DeleteMatchesForSession(ctx context.Context, sessionID model.SessionID) error

	// Correction entry operations. Saving replaces any prior entry for
	// the same match. GetCorrection returns ErrNoActiveCorrection when
	// no entry exists; expiry is the caller's concern.
	SaveCorrection(ctx context.Context, entry *model.CorrectionEntry) error
	GetCorrection(ctx context.Context, matchID model.MatchID) (*model.CorrectionEntry, error)
	DeleteCorrection(ctx context.Context, matchID model.MatchID) error
}
