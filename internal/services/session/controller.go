package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shuttleday/shuttleday/internal/dependencies/clock"
	"github.com/shuttleday/shuttleday/internal/dependencies/random"
	"github.com/shuttleday/shuttleday/internal/events"
	"github.com/shuttleday/shuttleday/internal/model"
	"github.com/shuttleday/shuttleday/internal/services/match"
	"github.com/shuttleday/shuttleday/internal/services/roster"
	"github.com/shuttleday/shuttleday/internal/services/scheduler"
	"github.com/shuttleday/shuttleday/internal/storage"
)

const (
	// SessionIDLength is the length of generated session ids
	SessionIDLength = 6
	// SessionIDAlphabet is the characters used in session ids (avoids confusing chars)
	SessionIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// DefaultTargetMatches is the progress target when none is configured
	DefaultTargetMatches = 20
)

// CreateSessionInput holds parameters for creating a session
type CreateSessionInput struct {
	Name          string
	CourtCount    int
	CourtNames    []string
	TargetMatches int
}

// Controller is the command surface for a club session. It serialises
// every mutating operation on a session behind a per-session lock, so
// two writes on the same session never interleave partially, while
// reads stay concurrent against storage snapshots. It also derives the
// session phase and publishes outbound events.
type Controller struct {
	storage      storage.Storage
	rosterSvc    *roster.Service
	schedulerSvc *scheduler.Service
	matchCtrl    *match.Controller
	clock        clock.Clock
	random       random.Random
	publisher    events.Publisher
	logger       *slog.Logger

	mu    sync.Mutex
	locks map[model.SessionID]*sync.Mutex
}

// NewController creates a new session controller
func NewController(
	storage storage.Storage,
	rosterSvc *roster.Service,
	schedulerSvc *scheduler.Service,
	matchCtrl *match.Controller,
	clock clock.Clock,
	random random.Random,
	publisher events.Publisher,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:      storage,
		rosterSvc:    rosterSvc,
		schedulerSvc: schedulerSvc,
		matchCtrl:    matchCtrl,
		clock:        clock,
		random:       random,
		publisher:    publisher,
		logger:       logger,
		locks:        make(map[model.SessionID]*sync.Mutex),
	}
}

// lockFor returns the mutex serialising writes for a session
func (c *Controller) lockFor(id model.SessionID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.locks[id]; ok {
		return l
	}
	l := &sync.Mutex{}
	c.locks[id] = l
	return l
}

// CreateSession creates a new session with a fixed court pool
func (c *Controller) CreateSession(ctx context.Context, input CreateSessionInput) (*model.Session, error) {
	if input.CourtCount <= 0 && len(input.CourtNames) == 0 {
		return nil, model.ErrNoCourts
	}

	names := input.CourtNames
	if len(names) == 0 {
		for i := 1; i <= input.CourtCount; i++ {
			names = append(names, fmt.Sprintf("Court %d", i))
		}
	}

	target := input.TargetMatches
	if target <= 0 {
		target = DefaultTargetMatches
	}

	now := c.clock.Now()

	// Generate unique session id
	var id model.SessionID
	for {
		id = model.SessionID(c.random.String(SessionIDLength, SessionIDAlphabet))
		exists, err := c.storage.SessionExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	courts := make([]model.Court, len(names))
	for i, name := range names {
		courts[i] = model.Court{
			ID:        model.CourtID(fmt.Sprintf("court-%d", i+1)),
			Name:      name,
			Available: true,
		}
	}

	session := &model.Session{
		ID:            id,
		Name:          input.Name,
		Courts:        courts,
		TargetMatches: target,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(id)),
		slog.Int("courts", len(courts)),
		slog.Int("target_matches", target),
	)

	return session, nil
}

// GetSession retrieves a session
func (c *Controller) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// Register adds a participant to the session roster
func (c *Controller) Register(ctx context.Context, sessionID model.SessionID, p *model.Participant) (*model.Participant, error) {
	lock := c.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if p.ID == "" {
		p.ID = model.ParticipantID(c.random.String(8, SessionIDAlphabet))
	}
	return c.rosterSvc.Register(ctx, sessionID, p)
}

// CheckIn marks a participant present and triggers seating. Idempotent
// for an already checked-in participant.
func (c *Controller) CheckIn(ctx context.Context, sessionID model.SessionID, id model.ParticipantID) (*model.Participant, error) {
	lock := c.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	before, err := c.phase(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	p, err := c.rosterSvc.CheckIn(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}

	c.publish(ctx, sessionID, model.EventParticipantCheckedIn, model.ParticipantCheckedInPayload{
		Participant: *p,
	})

	if err := c.fillCourts(ctx, sessionID); err != nil {
		return nil, err
	}

	if err := c.publishPhaseChange(ctx, sessionID, before); err != nil {
		return nil, err
	}

	// The participant may have been seated by the fill
	return c.rosterSvc.Get(ctx, sessionID, id)
}

// RecordPoint scores one point. A completing point frees the court,
// re-queues the four participants, and triggers seating for any court
// that can now be filled.
func (c *Controller) RecordPoint(ctx context.Context, sessionID model.SessionID, matchID model.MatchID, team model.Team) (*model.Match, error) {
	lock := c.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	before, err := c.phase(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	m, err := c.matchCtrl.RecordPoint(ctx, sessionID, matchID, team)
	if err != nil {
		return nil, err
	}

	gamePoint, err := c.matchCtrl.IsGamePoint(ctx, sessionID, matchID)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, sessionID, model.EventPointRecorded, model.PointRecordedPayload{
		Match:     *m,
		Team:      team,
		GamePoint: gamePoint,
	})

	if m.Status == model.MatchCompleted {
		c.publish(ctx, sessionID, model.EventMatchCompleted, model.MatchCompletedPayload{
			Match:  *m,
			Court:  m.Court,
			Winner: m.Winner,
		})

		if err := c.schedulerSvc.ReleaseMatch(ctx, sessionID, m); err != nil {
			return nil, err
		}
		if err := c.fillCourts(ctx, sessionID); err != nil {
			return nil, err
		}
	}

	if err := c.publishPhaseChange(ctx, sessionID, before); err != nil {
		return nil, err
	}

	return m, nil
}

// Revoke undoes the most recent point on a match within its correction
// window. If the revoked point had completed the match, the match
// resumes on its original court with its original four participants;
// the scheduler's correction hold guarantees both are still free.
func (c *Controller) Revoke(ctx context.Context, sessionID model.SessionID, matchID model.MatchID) (*model.Match, error) {
	lock := c.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	before, err := c.phase(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	m, team, reverted, err := c.matchCtrl.Revoke(ctx, sessionID, matchID)
	if err != nil {
		return nil, err
	}

	if reverted {
		if err := c.schedulerSvc.ReclaimMatch(ctx, sessionID, m); err != nil {
			return nil, err
		}
	}

	c.publish(ctx, sessionID, model.EventCorrectionApplied, model.CorrectionAppliedPayload{
		Match: *m,
		Team:  team,
	})

	if err := c.publishPhaseChange(ctx, sessionID, before); err != nil {
		return nil, err
	}

	return m, nil
}

// ForcePhase sets the operator phase override
func (c *Controller) ForcePhase(ctx context.Context, sessionID model.SessionID, phase model.SessionPhase) (*model.Session, error) {
	if !phase.Valid() {
		return nil, model.ErrInvalidPhase
	}

	lock := c.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.PhaseOverride = phase
	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	summary, err := c.summary(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, sessionID, model.EventSessionPhaseChanged, model.SessionPhaseChangedPayload{
		Summary: *summary,
	})

	c.logger.Info("session phase forced",
		slog.String("session_id", string(sessionID)),
		slog.String("phase", string(phase)),
	)

	return session, nil
}

// Reset clears check-in state and match history for a new gathering.
// Registrations survive; courts all become available again.
func (c *Controller) Reset(ctx context.Context, sessionID model.SessionID) (*model.Session, error) {
	lock := c.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()

	if err := c.storage.DeleteMatchesForSession(ctx, sessionID); err != nil {
		return nil, err
	}

	participants, err := c.storage.ListParticipants(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, p := range participants {
		p.CheckedIn = false
		p.CheckedInAt = time.Time{}
		p.CurrentMatch = nil
		p.LastPartner = ""
		p.UpdatedAt = now
		if err := c.storage.SaveParticipant(ctx, sessionID, p); err != nil {
			return nil, err
		}
	}

	for i := range session.Courts {
		session.Courts[i].Available = true
	}
	session.PhaseOverride = ""
	session.UpdatedAt = now
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	summary, err := c.summary(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, sessionID, model.EventSessionPhaseChanged, model.SessionPhaseChangedPayload{
		Summary: *summary,
	})

	c.logger.Info("session reset", slog.String("session_id", string(sessionID)))

	return session, nil
}

// Phase returns the session's current phase
func (c *Controller) Phase(ctx context.Context, sessionID model.SessionID) (model.SessionPhase, error) {
	return c.phase(ctx, sessionID)
}

// Summary returns the aggregated session state
func (c *Controller) Summary(ctx context.Context, sessionID model.SessionID) (*model.SessionSummary, error) {
	return c.summary(ctx, sessionID)
}

// GetRoster returns the full roster in registration order
func (c *Controller) GetRoster(ctx context.Context, sessionID model.SessionID) ([]*model.Participant, error) {
	return c.rosterSvc.List(ctx, sessionID)
}

// GetMatches returns the match history, optionally filtered by status
func (c *Controller) GetMatches(ctx context.Context, sessionID model.SessionID, status model.MatchStatus) ([]*model.Match, error) {
	return c.matchCtrl.List(ctx, sessionID, status)
}

// GetMatch retrieves a single match
func (c *Controller) GetMatch(ctx context.Context, sessionID model.SessionID, matchID model.MatchID) (*model.Match, error) {
	return c.matchCtrl.Get(ctx, sessionID, matchID)
}

// IsGamePoint reports whether the match is at game point
func (c *Controller) IsGamePoint(ctx context.Context, sessionID model.SessionID, matchID model.MatchID) (bool, error) {
	return c.matchCtrl.IsGamePoint(ctx, sessionID, matchID)
}

// IsRevocable reports whether the match's last point can still be revoked
func (c *Controller) IsRevocable(ctx context.Context, sessionID model.SessionID, matchID model.MatchID) (bool, error) {
	if _, err := c.matchCtrl.Get(ctx, sessionID, matchID); err != nil {
		return false, err
	}
	return c.matchCtrl.IsRevocable(ctx, matchID)
}

// EstimatedWait estimates a waiting participant's time to their next match
func (c *Controller) EstimatedWait(ctx context.Context, sessionID model.SessionID, id model.ParticipantID) (time.Duration, error) {
	return c.schedulerSvc.EstimatedWait(ctx, sessionID, id)
}

// fillCourts runs the scheduler and publishes a MatchScheduled event
// for every match it seats
func (c *Controller) fillCourts(ctx context.Context, sessionID model.SessionID) error {
	created, err := c.schedulerSvc.FillCourts(ctx, sessionID)
	if err != nil {
		return err
	}

	for _, m := range created {
		waiting, err := c.rosterSvc.Available(ctx, sessionID)
		if err != nil {
			return err
		}
		c.publish(ctx, sessionID, model.EventMatchScheduled, model.MatchScheduledPayload{
			Match:        *m,
			WaitingCount: len(waiting),
		})
	}
	return nil
}

// phase derives the session phase from roster and match history.
// An operator override wins over derivation.
func (c *Controller) phase(ctx context.Context, sessionID model.SessionID) (model.SessionPhase, error) {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session.PhaseOverride != "" {
		return session.PhaseOverride, nil
	}

	participants, err := c.storage.ListParticipants(ctx, sessionID)
	if err != nil {
		return "", err
	}
	checkedIn := 0
	waiting := 0
	for _, p := range participants {
		if p.CheckedIn {
			checkedIn++
		}
		if p.IsWaiting() {
			waiting++
		}
	}

	if checkedIn == 0 {
		return model.PhaseBeforeGame, nil
	}

	matches, err := c.storage.ListMatches(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return model.PhaseGameDay, nil
	}

	for _, m := range matches {
		if m.Active() {
			return model.PhaseDuringGame, nil
		}
	}
	if waiting > 0 {
		return model.PhaseDuringGame, nil
	}

	return model.PhaseAfterGame, nil
}

func (c *Controller) summary(ctx context.Context, sessionID model.SessionID) (*model.SessionSummary, error) {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	phase, err := c.phase(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	participants, err := c.storage.ListParticipants(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	checkedIn := 0
	waiting := 0
	for _, p := range participants {
		if p.CheckedIn {
			checkedIn++
		}
		if p.IsWaiting() {
			waiting++
		}
	}

	matches, err := c.storage.ListMatches(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	active := 0
	completed := 0
	for _, m := range matches {
		if m.Status == model.MatchCompleted {
			completed++
		} else {
			active++
		}
	}

	mean, err := c.schedulerSvc.MeanMatchDuration(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	target := session.TargetMatches
	if target < 1 {
		target = 1
	}

	return &model.SessionSummary{
		SessionID:         sessionID,
		Name:              session.Name,
		Phase:             phase,
		CheckedIn:         checkedIn,
		Waiting:           waiting,
		ActiveMatches:     active,
		CompletedMatches:  completed,
		TargetMatches:     session.TargetMatches,
		Progress:          float64(completed) / float64(target),
		MeanMatchDuration: mean,
		PhaseForced:       session.PhaseOverride != "",
	}, nil
}

// publishPhaseChange emits a phase change event when the derived phase
// moved during a mutation
func (c *Controller) publishPhaseChange(ctx context.Context, sessionID model.SessionID, before model.SessionPhase) error {
	after, err := c.phase(ctx, sessionID)
	if err != nil {
		return err
	}
	if after == before {
		return nil
	}

	summary, err := c.summary(ctx, sessionID)
	if err != nil {
		return err
	}
	c.publish(ctx, sessionID, model.EventSessionPhaseChanged, model.SessionPhaseChangedPayload{
		Summary: *summary,
	})
	return nil
}

// publish emits an outbound event with a full post-mutation snapshot
func (c *Controller) publish(ctx context.Context, sessionID model.SessionID, t model.EventType, payload any) {
	c.publisher.Publish(ctx, model.Event{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: c.clock.Now(),
		SessionID: sessionID,
		Payload:   payload,
	})
}
