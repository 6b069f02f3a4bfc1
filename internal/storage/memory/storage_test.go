package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/shuttleday/shuttleday/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := &model.Session{
		ID:            "SESS01",
		Name:          "Tuesday Night",
		Courts:        []model.Court{{ID: "court-1", Name: "Court 1", Available: true}},
		TargetMatches: 20,
	}

	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "SESS01")
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
	s.Equal(session.Name, retrieved.Name)
	s.Len(retrieved.Courts, 1)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "NOPE")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionExists() {
	exists, err := s.storage.SessionExists(s.ctx, "SESS01")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{ID: "SESS01"}))

	exists, err = s.storage.SessionExists(s.ctx, "SESS01")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestGetSessionReturnsCopy() {
	session := &model.Session{
		ID:     "SESS01",
		Courts: []model.Court{{ID: "court-1", Available: true}},
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	first, err := s.storage.GetSession(s.ctx, "SESS01")
	s.Require().NoError(err)
	first.Courts[0].Available = false

	second, err := s.storage.GetSession(s.ctx, "SESS01")
	s.Require().NoError(err)
	s.True(second.Courts[0].Available)
}

// Participant tests

func (s *StorageSuite) TestSaveAndGetParticipant() {
	p := &model.Participant{ID: "alice", DisplayName: "Alice", Skill: model.SkillAdvanced}

	s.Require().NoError(s.storage.SaveParticipant(s.ctx, "SESS01", p))

	retrieved, err := s.storage.GetParticipant(s.ctx, "SESS01", "alice")
	s.Require().NoError(err)
	s.Equal(p.DisplayName, retrieved.DisplayName)
	s.Equal(model.SkillAdvanced, retrieved.Skill)
}

func (s *StorageSuite) TestGetParticipantNotFound() {
	_, err := s.storage.GetParticipant(s.ctx, "SESS01", "ghost")
	s.ErrorIs(err, model.ErrParticipantNotFound)
}

func (s *StorageSuite) TestParticipantsScopedToSession() {
	p := &model.Participant{ID: "alice"}
	s.Require().NoError(s.storage.SaveParticipant(s.ctx, "SESS01", p))

	_, err := s.storage.GetParticipant(s.ctx, "SESS02", "alice")
	s.ErrorIs(err, model.ErrParticipantNotFound)
}

func (s *StorageSuite) TestListParticipantsPreservesOrder() {
	for _, id := range []string{"carol", "alice", "bob"} {
		p := &model.Participant{ID: model.ParticipantID(id)}
		s.Require().NoError(s.storage.SaveParticipant(s.ctx, "SESS01", p))
	}

	// Re-saving must not change position
	s.Require().NoError(s.storage.SaveParticipant(s.ctx, "SESS01", &model.Participant{ID: "carol", CheckedIn: true}))

	all, err := s.storage.ListParticipants(s.ctx, "SESS01")
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(model.ParticipantID("carol"), all[0].ID)
	s.Equal(model.ParticipantID("alice"), all[1].ID)
	s.Equal(model.ParticipantID("bob"), all[2].ID)
	s.True(all[0].CheckedIn)
}

// Match tests

func (s *StorageSuite) TestSaveAndGetMatch() {
	m := &model.Match{
		ID:        "M1",
		SessionID: "SESS01",
		Court:     "court-1",
		TeamA:     [2]model.ParticipantID{"p1", "p2"},
		TeamB:     [2]model.ParticipantID{"p3", "p4"},
		Status:    model.MatchPlaying,
	}

	s.Require().NoError(s.storage.SaveMatch(s.ctx, m))

	retrieved, err := s.storage.GetMatch(s.ctx, "SESS01", "M1")
	s.Require().NoError(err)
	s.Equal(m.Court, retrieved.Court)
	s.Equal(m.TeamA, retrieved.TeamA)
}

func (s *StorageSuite) TestGetMatchWrongSession() {
	m := &model.Match{ID: "M1", SessionID: "SESS01"}
	s.Require().NoError(s.storage.SaveMatch(s.ctx, m))

	_, err := s.storage.GetMatch(s.ctx, "SESS02", "M1")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestListMatchesPreservesCreationOrder() {
	for _, id := range []string{"M3", "M1", "M2"} {
		m := &model.Match{ID: model.MatchID(id), SessionID: "SESS01"}
		s.Require().NoError(s.storage.SaveMatch(s.ctx, m))
	}

	all, err := s.storage.ListMatches(s.ctx, "SESS01")
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(model.MatchID("M3"), all[0].ID)
	s.Equal(model.MatchID("M1"), all[1].ID)
	s.Equal(model.MatchID("M2"), all[2].ID)
}

func (s *StorageSuite) TestDeleteMatchesForSession() {
	s.Require().NoError(s.storage.SaveMatch(s.ctx, &model.Match{ID: "M1", SessionID: "SESS01"}))
	s.Require().NoError(s.storage.SaveMatch(s.ctx, &model.Match{ID: "M2", SessionID: "SESS02"}))
	s.Require().NoError(s.storage.SaveCorrection(s.ctx, &model.CorrectionEntry{MatchID: "M1", SessionID: "SESS01"}))

	s.Require().NoError(s.storage.DeleteMatchesForSession(s.ctx, "SESS01"))

	all, err := s.storage.ListMatches(s.ctx, "SESS01")
	s.Require().NoError(err)
	s.Empty(all)

	// Corrections for deleted matches go with them
	_, err = s.storage.GetCorrection(s.ctx, "M1")
	s.ErrorIs(err, model.ErrNoActiveCorrection)

	// Other sessions are untouched
	other, err := s.storage.ListMatches(s.ctx, "SESS02")
	s.Require().NoError(err)
	s.Len(other, 1)
}

// Correction tests

func (s *StorageSuite) TestSaveAndGetCorrection() {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	entry := &model.CorrectionEntry{
		MatchID:   "M1",
		SessionID: "SESS01",
		Team:      model.TeamA,
		AppliedAt: now,
		ExpiresAt: now.Add(5 * time.Second),
	}

	s.Require().NoError(s.storage.SaveCorrection(s.ctx, entry))

	retrieved, err := s.storage.GetCorrection(s.ctx, "M1")
	s.Require().NoError(err)
	s.Equal(model.TeamA, retrieved.Team)
	s.Equal(entry.ExpiresAt, retrieved.ExpiresAt)
}

func (s *StorageSuite) TestGetCorrectionMissing() {
	_, err := s.storage.GetCorrection(s.ctx, "M1")
	s.ErrorIs(err, model.ErrNoActiveCorrection)
}

func (s *StorageSuite) TestSaveCorrectionSupersedes() {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	first := &model.CorrectionEntry{MatchID: "M1", Team: model.TeamA, AppliedAt: now}
	second := &model.CorrectionEntry{MatchID: "M1", Team: model.TeamB, AppliedAt: now.Add(time.Second)}

	s.Require().NoError(s.storage.SaveCorrection(s.ctx, first))
	s.Require().NoError(s.storage.SaveCorrection(s.ctx, second))

	retrieved, err := s.storage.GetCorrection(s.ctx, "M1")
	s.Require().NoError(err)
	s.Equal(model.TeamB, retrieved.Team)
}

func (s *StorageSuite) TestDeleteCorrection() {
	s.Require().NoError(s.storage.SaveCorrection(s.ctx, &model.CorrectionEntry{MatchID: "M1"}))
	s.Require().NoError(s.storage.DeleteCorrection(s.ctx, "M1"))

	_, err := s.storage.GetCorrection(s.ctx, "M1")
	s.ErrorIs(err, model.ErrNoActiveCorrection)
}
