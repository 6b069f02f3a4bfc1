package match

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shuttleday/shuttleday/internal/dependencies/clock"
	"github.com/shuttleday/shuttleday/internal/model"
	"github.com/shuttleday/shuttleday/internal/services/rules"
	"github.com/shuttleday/shuttleday/internal/storage"
)

// Config holds match controller tuning
type Config struct {
	// CorrectionWindow is how long after a point it may be revoked
	CorrectionWindow time.Duration
}

// DefaultConfig returns match controller defaults
func DefaultConfig() Config {
	return Config{
		CorrectionWindow: 5 * time.Second,
	}
}

// Controller owns the per-match lifecycle: score recording, win
// detection, and the bounded-window score correction buffer.
// Transitions run Scheduled -> Playing -> Completed; the only backward
// transition is a revoked completing point, which returns a match to
// Playing.
type Controller struct {
	storage storage.Storage
	rules   *rules.Service
	clock   clock.Clock
	logger  *slog.Logger
	cfg     Config
}

// NewController creates a new match controller
func NewController(
	storage storage.Storage,
	rules *rules.Service,
	clock clock.Clock,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	if cfg.CorrectionWindow == 0 {
		cfg = DefaultConfig()
	}
	return &Controller{
		storage: storage,
		rules:   rules,
		clock:   clock,
		logger:  logger,
		cfg:     cfg,
	}
}

// Get retrieves a match
func (c *Controller) Get(ctx context.Context, sessionID model.SessionID, id model.MatchID) (*model.Match, error) {
	return c.storage.GetMatch(ctx, sessionID, id)
}

// List returns the session's match history in creation order,
// optionally filtered by status
func (c *Controller) List(ctx context.Context, sessionID model.SessionID, status model.MatchStatus) ([]*model.Match, error) {
	matches, err := c.storage.ListMatches(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return matches, nil
	}
	var filtered []*model.Match
	for _, m := range matches {
		if m.Status == status {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// RecordPoint adds one point for the team and evaluates the win
// condition. A winning point transitions the match to Completed and
// sets the winner. Every recorded point opens a fresh correction
// window, superseding any prior entry for the match.
func (c *Controller) RecordPoint(ctx context.Context, sessionID model.SessionID, matchID model.MatchID, team model.Team) (*model.Match, error) {
	if !team.Valid() {
		return nil, model.ErrInvalidTeam
	}

	m, err := c.storage.GetMatch(ctx, sessionID, matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != model.MatchPlaying {
		return nil, model.ErrMatchNotPlaying
	}

	now := c.clock.Now()
	m.Score = m.Score.Add(team)
	m.UpdatedAt = now

	if winner, won := c.rules.Winner(m.Score); won {
		m.Status = model.MatchCompleted
		m.Winner = winner
		m.CompletedAt = now

		c.logger.Info("match completed",
			slog.String("session_id", string(sessionID)),
			slog.String("match_id", string(matchID)),
			slog.String("winner", string(winner)),
			slog.Int("score_a", m.Score.TeamA),
			slog.Int("score_b", m.Score.TeamB),
		)
	}

	if err := c.storage.SaveMatch(ctx, m); err != nil {
		return nil, err
	}

	entry := &model.CorrectionEntry{
		MatchID:   matchID,
		SessionID: sessionID,
		Team:      team,
		AppliedAt: now,
		ExpiresAt: now.Add(c.cfg.CorrectionWindow),
	}
	if err := c.storage.SaveCorrection(ctx, entry); err != nil {
		return nil, err
	}

	return m, nil
}

// Revoke undoes the most recent point on the match if its correction
// window has not lapsed. Revoking a completing point reverts the match
// to Playing and clears the winner. Entries are single use: a second
// revoke without an intervening point fails.
//
// Returns the updated match, the team whose point was removed, and
// whether a completion was reverted.
func (c *Controller) Revoke(ctx context.Context, sessionID model.SessionID, matchID model.MatchID) (*model.Match, model.Team, bool, error) {
	m, err := c.storage.GetMatch(ctx, sessionID, matchID)
	if err != nil {
		return nil, "", false, err
	}

	entry, err := c.storage.GetCorrection(ctx, matchID)
	if err != nil {
		if errors.Is(err, model.ErrNoActiveCorrection) {
			return nil, "", false, model.ErrNoActiveCorrection
		}
		return nil, "", false, err
	}

	now := c.clock.Now()
	if entry.Expired(now) {
		return nil, "", false, model.ErrNoActiveCorrection
	}

	m.Score = m.Score.Subtract(entry.Team)
	m.UpdatedAt = now

	reverted := false
	if m.Status == model.MatchCompleted {
		if _, stillWon := c.rules.Winner(m.Score); !stillWon {
			m.Status = model.MatchPlaying
			m.Winner = ""
			m.CompletedAt = time.Time{}
			reverted = true
		}
	}

	if err := c.storage.SaveMatch(ctx, m); err != nil {
		return nil, "", false, err
	}
	if err := c.storage.DeleteCorrection(ctx, matchID); err != nil {
		return nil, "", false, err
	}

	c.logger.Info("point revoked",
		slog.String("session_id", string(sessionID)),
		slog.String("match_id", string(matchID)),
		slog.String("team", string(entry.Team)),
		slog.Bool("completion_reverted", reverted),
	)

	return m, entry.Team, reverted, nil
}

// IsGamePoint reports whether either team could end the match with the
// next point. Pure query, no mutation.
func (c *Controller) IsGamePoint(ctx context.Context, sessionID model.SessionID, matchID model.MatchID) (bool, error) {
	m, err := c.storage.GetMatch(ctx, sessionID, matchID)
	if err != nil {
		return false, err
	}
	return c.rules.IsGamePoint(m.Score), nil
}

// IsRevocable reports whether the match's most recent point is still
// within its correction window. Expiry is evaluated lazily here; no
// background sweep exists.
func (c *Controller) IsRevocable(ctx context.Context, matchID model.MatchID) (bool, error) {
	entry, err := c.storage.GetCorrection(ctx, matchID)
	if err != nil {
		if errors.Is(err, model.ErrNoActiveCorrection) {
			return false, nil
		}
		return false, err
	}
	return !entry.Expired(c.clock.Now()), nil
}
