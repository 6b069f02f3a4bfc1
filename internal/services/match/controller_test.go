package match

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/shuttleday/shuttleday/internal/dependencies/mocks"
	"github.com/shuttleday/shuttleday/internal/model"
	"github.com/shuttleday/shuttleday/internal/services/rules"
	"github.com/shuttleday/shuttleday/internal/storage/memory"
	"github.com/shuttleday/shuttleday/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.controller = NewController(s.storage, rules.New(rules.DefaultConfig()), s.clock, testutil.NopLogger(), DefaultConfig())
	s.ctx = context.Background()
}

// createMatch stores a playing match with the given score
func (s *ControllerSuite) createMatch(score model.Score) *model.Match {
	m := &model.Match{
		ID:         "M1",
		SessionID:  "SESS01",
		Court:      "court-1",
		TeamA:      [2]model.ParticipantID{"p1", "p2"},
		TeamB:      [2]model.ParticipantID{"p3", "p4"},
		Score:      score,
		CurrentSet: 1,
		Status:     model.MatchPlaying,
		StartedAt:  s.clock.Now(),
		CreatedAt:  s.clock.Now(),
		UpdatedAt:  s.clock.Now(),
	}
	s.Require().NoError(s.storage.SaveMatch(s.ctx, m))
	return m
}

func (s *ControllerSuite) TestRecordPointIncrementsScore() {
	s.createMatch(model.Score{TeamA: 3, TeamB: 5})

	m, err := s.controller.RecordPoint(s.ctx, "SESS01", "M1", model.TeamA)
	s.Require().NoError(err)
	s.Equal(4, m.Score.TeamA)
	s.Equal(5, m.Score.TeamB)
	s.Equal(model.MatchPlaying, m.Status)
}

func (s *ControllerSuite) TestRecordPointInvalidTeam() {
	s.createMatch(model.Score{})

	_, err := s.controller.RecordPoint(s.ctx, "SESS01", "M1", "team_c")
	s.ErrorIs(err, model.ErrInvalidTeam)
}

func (s *ControllerSuite) TestRecordPointUnknownMatch() {
	_, err := s.controller.RecordPoint(s.ctx, "SESS01", "NOPE", model.TeamA)
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *ControllerSuite) TestRecordPointOnCompletedMatchFails() {
	m := s.createMatch(model.Score{TeamA: 21, TeamB: 10})
	m.Status = model.MatchCompleted
	m.Winner = model.TeamA
	s.Require().NoError(s.storage.SaveMatch(s.ctx, m))

	_, err := s.controller.RecordPoint(s.ctx, "SESS01", "M1", model.TeamB)
	s.ErrorIs(err, model.ErrMatchNotPlaying)
}

func (s *ControllerSuite) TestWinningPointCompletesMatch() {
	s.createMatch(model.Score{TeamA: 20, TeamB: 19})

	m, err := s.controller.RecordPoint(s.ctx, "SESS01", "M1", model.TeamA)
	s.Require().NoError(err)
	s.Equal(model.MatchCompleted, m.Status)
	s.Equal(model.TeamA, m.Winner)
	s.Equal(s.clock.Now(), m.CompletedAt)
}

func (s *ControllerSuite) TestNoWinWithoutTwoPointLead() {
	s.createMatch(model.Score{TeamA: 20, TeamB: 20})

	m, err := s.controller.RecordPoint(s.ctx, "SESS01", "M1", model.TeamA)
	s.Require().NoError(err)
	s.Equal(model.MatchPlaying, m.Status)
	s.Equal(model.Team(""), m.Winner)
}

func (s *ControllerSuite) TestRevokeRemovesLastPoint() {
	s.createMatch(model.Score{TeamA: 3, TeamB: 5})

	_, err := s.controller.RecordPoint(s.ctx, "SESS01", "M1", model.TeamB)
	s.Require().NoError(err)

	m, team, reverted, err := s.controller.Revoke(s.ctx, "SESS01", "M1")
	s.Require().NoError(err)
	s.Equal(model.TeamB, team)
	s.False(reverted)
	s.Equal(3, m.Score.TeamA)
	s.Equal(5, m.Score.TeamB)
}

func (s *ControllerSuite) TestRevokeRevertsCompletion() {
	s.createMatch(model.Score{TeamA: 20, TeamB: 19})

	_, err := s.controller.RecordPoint(s.ctx, "SESS01", "M1", model.TeamA)
	s.Require().NoError(err)

	m, team, reverted, err := s.controller.Revoke(s.ctx, "SESS01", "M1")
	s.Require().NoError(err)
	s.Equal(model.TeamA, team)
	s.True(reverted)
	s.Equal(model.MatchPlaying, m.Status)
	s.Equal(model.Team(""), m.Winner)
	s.True(m.CompletedAt.IsZero())
	s.Equal(20, m.Score.TeamA)
	s.Equal(19, m.Score.TeamB)
}

func (s *ControllerSuite) TestRevokeIsSingleUse() {
	s.createMatch(model.Score{TeamA: 3, TeamB: 5})

	_, err := s.controller.RecordPoint(s.ctx, "SESS01", "M1", model.TeamA)
	s.Require().NoError(err)

	_, _, _, err = s.controller.Revoke(s.ctx, "SESS01", "M1")
	s.Require().NoError(err)

	_, _, _, err = s.controller.Revoke(s.ctx, "SESS01", "M1")
	s.ErrorIs(err, model.ErrNoActiveCorrection)
}

func (s *ControllerSuite) TestRevokeFailsAfterWindowLapses() {
	s.createMatch(model.Score{TeamA: 3, TeamB: 5})

	_, err := s.controller.RecordPoint(s.ctx, "SESS01", "M1", model.TeamA)
	s.Require().NoError(err)

	s.clock.Advance(6 * time.Second)

	_, _, _, err = s.controller.Revoke(s.ctx, "SESS01", "M1")
	s.ErrorIs(err, model.ErrNoActiveCorrection)
}

func (s *ControllerSuite) TestRevokeWithoutAnyPointFails() {
	s.createMatch(model.Score{})

	_, _, _, err := s.controller.Revoke(s.ctx, "SESS01", "M1")
	s.ErrorIs(err, model.ErrNoActiveCorrection)
}

func (s *ControllerSuite) TestNewPointSupersedesCorrection() {
	s.createMatch(model.Score{})

	_, err := s.controller.RecordPoint(s.ctx, "SESS01", "M1", model.TeamA)
	s.Require().NoError(err)
	_, err = s.controller.RecordPoint(s.ctx, "SESS01", "M1", model.TeamB)
	s.Require().NoError(err)

	// Only the most recent point is revocable
	m, team, _, err := s.controller.Revoke(s.ctx, "SESS01", "M1")
	s.Require().NoError(err)
	s.Equal(model.TeamB, team)
	s.Equal(1, m.Score.TeamA)
	s.Equal(0, m.Score.TeamB)

	_, _, _, err = s.controller.Revoke(s.ctx, "SESS01", "M1")
	s.ErrorIs(err, model.ErrNoActiveCorrection)
}

func (s *ControllerSuite) TestEachPointReopensWindow() {
	s.createMatch(model.Score{})

	_, err := s.controller.RecordPoint(s.ctx, "SESS01", "M1", model.TeamA)
	s.Require().NoError(err)

	s.clock.Advance(4 * time.Second)
	_, err = s.controller.RecordPoint(s.ctx, "SESS01", "M1", model.TeamA)
	s.Require().NoError(err)

	// The first point's window would be closed by now; the new one is open
	s.clock.Advance(3 * time.Second)
	m, _, _, err := s.controller.Revoke(s.ctx, "SESS01", "M1")
	s.Require().NoError(err)
	s.Equal(1, m.Score.TeamA)
}

func (s *ControllerSuite) TestIsGamePoint() {
	s.createMatch(model.Score{TeamA: 19, TeamB: 12})

	gp, err := s.controller.IsGamePoint(s.ctx, "SESS01", "M1")
	s.Require().NoError(err)
	s.False(gp)

	_, err = s.controller.RecordPoint(s.ctx, "SESS01", "M1", model.TeamA)
	s.Require().NoError(err)

	gp, err = s.controller.IsGamePoint(s.ctx, "SESS01", "M1")
	s.Require().NoError(err)
	s.True(gp)
}

func (s *ControllerSuite) TestIsRevocableTracksWindow() {
	s.createMatch(model.Score{})

	revocable, err := s.controller.IsRevocable(s.ctx, "M1")
	s.Require().NoError(err)
	s.False(revocable)

	_, err = s.controller.RecordPoint(s.ctx, "SESS01", "M1", model.TeamA)
	s.Require().NoError(err)

	revocable, err = s.controller.IsRevocable(s.ctx, "M1")
	s.Require().NoError(err)
	s.True(revocable)

	s.clock.Advance(6 * time.Second)
	revocable, err = s.controller.IsRevocable(s.ctx, "M1")
	s.Require().NoError(err)
	s.False(revocable)
}

func (s *ControllerSuite) TestListFiltersByStatus() {
	s.createMatch(model.Score{})
	completed := &model.Match{
		ID:        "M2",
		SessionID: "SESS01",
		Court:     "court-2",
		TeamA:     [2]model.ParticipantID{"p5", "p6"},
		TeamB:     [2]model.ParticipantID{"p7", "p8"},
		Status:    model.MatchCompleted,
		Winner:    model.TeamA,
	}
	s.Require().NoError(s.storage.SaveMatch(s.ctx, completed))

	all, err := s.controller.List(s.ctx, "SESS01", "")
	s.Require().NoError(err)
	s.Len(all, 2)

	playing, err := s.controller.List(s.ctx, "SESS01", model.MatchPlaying)
	s.Require().NoError(err)
	s.Require().Len(playing, 1)
	s.Equal(model.MatchID("M1"), playing[0].ID)
}
