package roster

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shuttleday/shuttleday/internal/dependencies/clock"
	"github.com/shuttleday/shuttleday/internal/model"
	"github.com/shuttleday/shuttleday/internal/storage"
)

// Service tracks session participants and their check-in state
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new roster service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Register adds a participant to the session roster
func (s *Service) Register(ctx context.Context, sessionID model.SessionID, p *model.Participant) (*model.Participant, error) {
	if _, err := s.storage.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	if _, err := s.storage.GetParticipant(ctx, sessionID, p.ID); err == nil {
		return nil, model.ErrDuplicateParticipant
	}

	now := s.clock.Now()
	p.CheckedIn = false
	p.CheckedInAt = time.Time{}
	p.CurrentMatch = nil
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.storage.SaveParticipant(ctx, sessionID, p); err != nil {
		return nil, err
	}

	s.logger.Info("participant registered",
		slog.String("session_id", string(sessionID)),
		slog.String("participant_id", string(p.ID)),
		slog.String("skill", p.Skill.String()),
	)

	return p, nil
}

// CheckIn marks a participant as present and eligible for seating.
// Repeated check-in is a no-op success, not an error.
func (s *Service) CheckIn(ctx context.Context, sessionID model.SessionID, id model.ParticipantID) (*model.Participant, error) {
	p, err := s.storage.GetParticipant(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}

	if p.CheckedIn {
		return p, nil
	}

	now := s.clock.Now()
	p.CheckedIn = true
	p.CheckedInAt = now
	p.UpdatedAt = now

	if err := s.storage.SaveParticipant(ctx, sessionID, p); err != nil {
		return nil, err
	}

	s.logger.Info("participant checked in",
		slog.String("session_id", string(sessionID)),
		slog.String("participant_id", string(id)),
	)

	return p, nil
}

// Get retrieves a participant
func (s *Service) Get(ctx context.Context, sessionID model.SessionID, id model.ParticipantID) (*model.Participant, error) {
	return s.storage.GetParticipant(ctx, sessionID, id)
}

// List returns the full roster in registration order
func (s *Service) List(ctx context.Context, sessionID model.SessionID) ([]*model.Participant, error) {
	return s.storage.ListParticipants(ctx, sessionID)
}

// Available returns checked-in participants not seated in a match,
// ordered by check-in time (the wait queue). This is the scheduler's
// only read path into the roster.
func (s *Service) Available(ctx context.Context, sessionID model.SessionID) ([]*model.Participant, error) {
	all, err := s.storage.ListParticipants(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var waiting []*model.Participant
	for _, p := range all {
		if p.IsWaiting() {
			waiting = append(waiting, p)
		}
	}

	sort.SliceStable(waiting, func(i, j int) bool {
		if waiting[i].CheckedInAt.Equal(waiting[j].CheckedInAt) {
			return waiting[i].ID < waiting[j].ID
		}
		return waiting[i].CheckedInAt.Before(waiting[j].CheckedInAt)
	})

	return waiting, nil
}
