package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/shuttleday/shuttleday/internal/model"
	"github.com/shuttleday/shuttleday/internal/services/session"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) registerAndCheckIn(sessionID model.SessionID, ids ...string) {
	for _, id := range ids {
		_, err := s.app.SessionController.Register(s.ctx, sessionID, &model.Participant{
			ID:          model.ParticipantID(id),
			DisplayName: id,
			Skill:       model.SkillIntermediate,
		})
		s.Require().NoError(err)

		s.app.MockClock.Advance(time.Minute)
		_, err = s.app.SessionController.CheckIn(s.ctx, sessionID, model.ParticipantID(id))
		s.Require().NoError(err)
	}
}

// Test: Complete session night from creation through two matches
func (s *IntegrationSuite) TestCompleteSessionFlow() {
	s.app.MockRandom.QueueString("SESS01", "MATCH0000001", "MATCH0000002")

	// Step 1: Create a one-court session
	sess, err := s.app.SessionController.CreateSession(s.ctx, session.CreateSessionInput{
		Name:          "Tuesday Night",
		CourtCount:    1,
		TargetMatches: 2,
	})
	s.Require().NoError(err)
	s.Equal(model.SessionID("SESS01"), sess.ID)

	phase, err := s.app.SessionController.Phase(s.ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(model.PhaseBeforeGame, phase)

	// Step 2: Eight players arrive; the fourth check-in seats a match
	s.registerAndCheckIn(sess.ID, "p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8")

	scheduled := s.app.MockPublisher.EventsOfType(model.EventMatchScheduled)
	s.Require().Len(scheduled, 1)
	first := scheduled[0].Payload.(model.MatchScheduledPayload)
	s.Equal(model.MatchID("MATCH0000001"), first.Match.ID)

	// The fourth check-in seated the match; nobody else had arrived yet
	s.Equal(0, first.WaitingCount)
	s.Equal([2]model.ParticipantID{"p1", "p2"}, first.Match.TeamA)
	s.Equal([2]model.ParticipantID{"p3", "p4"}, first.Match.TeamB)

	phase, err = s.app.SessionController.Phase(s.ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(model.PhaseDuringGame, phase)

	// Step 3: Play the first match to 21-15
	for i := 0; i < 15; i++ {
		_, err = s.app.SessionController.RecordPoint(s.ctx, sess.ID, first.Match.ID, model.TeamB)
		s.Require().NoError(err)
	}
	var m *model.Match
	for i := 0; i < 21; i++ {
		m, err = s.app.SessionController.RecordPoint(s.ctx, sess.ID, first.Match.ID, model.TeamA)
		s.Require().NoError(err)
	}
	s.Equal(model.MatchCompleted, m.Status)
	s.Equal(model.TeamA, m.Winner)

	completed := s.app.MockPublisher.EventsOfType(model.EventMatchCompleted)
	s.Require().Len(completed, 1)
	s.Equal(model.TeamA, completed[0].Payload.(model.MatchCompletedPayload).Winner)

	// Step 4: The court stays held while the final point is revocable
	playing, err := s.app.SessionController.GetMatches(s.ctx, sess.ID, model.MatchPlaying)
	s.Require().NoError(err)
	s.Empty(playing)

	// Step 5: Once the window lapses, the next mutation reseats
	s.app.MockClock.Advance(6 * time.Second)
	_, err = s.app.SessionController.CheckIn(s.ctx, sess.ID, "p5")
	s.Require().NoError(err)

	scheduled = s.app.MockPublisher.EventsOfType(model.EventMatchScheduled)
	s.Require().Len(scheduled, 2)
	second := scheduled[1].Payload.(model.MatchScheduledPayload)
	s.Equal(model.MatchID("MATCH0000002"), second.Match.ID)

	// The longest-waiting four go back on court, but with fresh pairings
	s.Equal([2]model.ParticipantID{"p1", "p3"}, second.Match.TeamA)
	s.Equal([2]model.ParticipantID{"p2", "p4"}, second.Match.TeamB)

	// Step 6: Play the second match out and confirm progress
	for i := 0; i < 21; i++ {
		m, err = s.app.SessionController.RecordPoint(s.ctx, sess.ID, second.Match.ID, model.TeamB)
		s.Require().NoError(err)
	}
	s.Equal(model.MatchCompleted, m.Status)

	summary, err := s.app.SessionController.Summary(s.ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(2, summary.CompletedMatches)
	s.InDelta(1.0, summary.Progress, 0.001)
	s.Equal(8, summary.CheckedIn)
}

// Test: A disputed winning point is revoked and play resumes
func (s *IntegrationSuite) TestRevokedWinningPointResumesMatch() {
	s.app.MockRandom.QueueString("SESS01", "MATCH0000001")

	sess, err := s.app.SessionController.CreateSession(s.ctx, session.CreateSessionInput{
		Name:       "Dispute Night",
		CourtCount: 1,
	})
	s.Require().NoError(err)

	s.registerAndCheckIn(sess.ID, "p1", "p2", "p3", "p4")

	scheduled := s.app.MockPublisher.EventsOfType(model.EventMatchScheduled)
	s.Require().Len(scheduled, 1)
	matchID := scheduled[0].Payload.(model.MatchScheduledPayload).Match.ID

	for i := 0; i < 19; i++ {
		_, err = s.app.SessionController.RecordPoint(s.ctx, sess.ID, matchID, model.TeamB)
		s.Require().NoError(err)
	}
	var m *model.Match
	for i := 0; i < 21; i++ {
		m, err = s.app.SessionController.RecordPoint(s.ctx, sess.ID, matchID, model.TeamA)
		s.Require().NoError(err)
	}
	s.Equal(model.MatchCompleted, m.Status)

	// The scorer spots the error within the window
	s.app.MockClock.Advance(3 * time.Second)
	m, err = s.app.SessionController.Revoke(s.ctx, sess.ID, matchID)
	s.Require().NoError(err)
	s.Equal(model.MatchPlaying, m.Status)
	s.Equal(20, m.Score.TeamA)
	s.Equal(model.Team(""), m.Winner)

	corrections := s.app.MockPublisher.EventsOfType(model.EventCorrectionApplied)
	s.Require().Len(corrections, 1)
	s.Equal(model.TeamA, corrections[0].Payload.(model.CorrectionAppliedPayload).Team)

	// Play continues and the other side takes it at deuce
	for i := 0; i < 3; i++ {
		m, err = s.app.SessionController.RecordPoint(s.ctx, sess.ID, matchID, model.TeamB)
		s.Require().NoError(err)
	}
	s.Equal(model.MatchCompleted, m.Status)
	s.Equal(model.TeamB, m.Winner)
	s.Equal(20, m.Score.TeamA)
	s.Equal(22, m.Score.TeamB)
}

// Test: Phase derivation across a whole evening
func (s *IntegrationSuite) TestPhaseLifecycle() {
	s.app.MockRandom.QueueString("SESS01", "MATCH0000001")

	sess, err := s.app.SessionController.CreateSession(s.ctx, session.CreateSessionInput{
		Name:       "Phases",
		CourtCount: 1,
	})
	s.Require().NoError(err)

	assertPhase := func(want model.SessionPhase) {
		s.T().Helper()
		phase, err := s.app.SessionController.Phase(s.ctx, sess.ID)
		s.Require().NoError(err)
		s.Equal(want, phase)
	}

	assertPhase(model.PhaseBeforeGame)

	// Registration alone does not start the day
	_, err = s.app.SessionController.Register(s.ctx, sess.ID, &model.Participant{
		ID: "p1", DisplayName: "p1", Skill: model.SkillBeginner,
	})
	s.Require().NoError(err)
	assertPhase(model.PhaseBeforeGame)

	_, err = s.app.SessionController.CheckIn(s.ctx, sess.ID, "p1")
	s.Require().NoError(err)
	assertPhase(model.PhaseGameDay)

	s.registerAndCheckIn(sess.ID, "p2", "p3", "p4")
	assertPhase(model.PhaseDuringGame)

	// Finishing the match puts everyone back in the queue, so the
	// session is still mid-play from the board's perspective
	scheduled := s.app.MockPublisher.EventsOfType(model.EventMatchScheduled)
	s.Require().Len(scheduled, 1)
	matchID := scheduled[0].Payload.(model.MatchScheduledPayload).Match.ID
	for i := 0; i < 21; i++ {
		_, err = s.app.SessionController.RecordPoint(s.ctx, sess.ID, matchID, model.TeamA)
		s.Require().NoError(err)
	}
	assertPhase(model.PhaseDuringGame)

	phaseEvents := s.app.MockPublisher.EventsOfType(model.EventSessionPhaseChanged)
	s.NotEmpty(phaseEvents)

	// Closing the evening is an operator call, not a derivation
	_, err = s.app.SessionController.ForcePhase(s.ctx, sess.ID, model.PhaseAfterGame)
	s.Require().NoError(err)
	assertPhase(model.PhaseAfterGame)

	_, err = s.app.SessionController.Reset(s.ctx, sess.ID)
	s.Require().NoError(err)
	assertPhase(model.PhaseBeforeGame)
}
