package memory

import (
	"context"
	"sync"

	"github.com/shuttleday/shuttleday/internal/model"
	"github.com/shuttleday/shuttleday/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	sessions map[model.SessionID]*model.Session

	participants     map[participantKey]*model.Participant
	participantOrder map[model.SessionID][]model.ParticipantID

	matches    map[model.MatchID]*model.Match
	matchOrder map[model.SessionID][]model.MatchID

	corrections map[model.MatchID]*model.CorrectionEntry
}

type participantKey struct {
	sessionID     model.SessionID
	participantID model.ParticipantID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions:         make(map[model.SessionID]*model.Session),
		participants:     make(map[participantKey]*model.Participant),
		participantOrder: make(map[model.SessionID][]model.ParticipantID),
		matches:          make(map[model.MatchID]*model.Match),
		matchOrder:       make(map[model.SessionID][]model.MatchID),
		corrections:      make(map[model.MatchID]*model.CorrectionEntry),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok, nil
}

// Participant operations

func (s *Storage) SaveParticipant(ctx context.Context, sessionID model.SessionID, p *model.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := participantKey{sessionID: sessionID, participantID: p.ID}
	if _, ok := s.participants[key]; !ok {
		s.participantOrder[sessionID] = append(s.participantOrder[sessionID], p.ID)
	}
	s.participants[key] = p.Clone()
	return nil
}

func (s *Storage) GetParticipant(ctx context.Context, sessionID model.SessionID, id model.ParticipantID) (*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[participantKey{sessionID: sessionID, participantID: id}]
	if !ok {
		return nil, model.ErrParticipantNotFound
	}
	return p.Clone(), nil
}

func (s *Storage) ListParticipants(ctx context.Context, sessionID model.SessionID) ([]*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.participantOrder[sessionID]
	participants := make([]*model.Participant, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.participants[participantKey{sessionID: sessionID, participantID: id}]; ok {
			participants = append(participants, p.Clone())
		}
	}
	return participants, nil
}

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[match.ID]; !ok {
		s.matchOrder[match.SessionID] = append(s.matchOrder[match.SessionID], match.ID)
	}
	s.matches[match.ID] = match.Clone()
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, sessionID model.SessionID, id model.MatchID) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[id]
	if !ok || match.SessionID != sessionID {
		return nil, model.ErrMatchNotFound
	}
	return match.Clone(), nil
}

func (s *Storage) ListMatches(ctx context.Context, sessionID model.SessionID) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.matchOrder[sessionID]
	matches := make([]*model.Match, 0, len(ids))
	for _, id := range ids {
		if m, ok := s.matches[id]; ok {
			matches = append(matches, m.Clone())
		}
	}
	return matches, nil
}

func (s *Storage) DeleteMatchesForSession(ctx context.Context, sessionID model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.matchOrder[sessionID] {
		delete(s.matches, id)
		delete(s.corrections, id)
	}
	delete(s.matchOrder, sessionID)
	return nil
}

// Correction entry operations

func (s *Storage) SaveCorrection(ctx context.Context, entry *model.CorrectionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.corrections[entry.MatchID] = &cp
	return nil
}

func (s *Storage) GetCorrection(ctx context.Context, matchID model.MatchID) (*model.CorrectionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.corrections[matchID]
	if !ok {
		return nil, model.ErrNoActiveCorrection
	}
	cp := *entry
	return &cp, nil
}

func (s *Storage) DeleteCorrection(ctx context.Context, matchID model.MatchID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.corrections, matchID)
	return nil
}
