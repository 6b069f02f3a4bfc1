package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/shuttleday/shuttleday/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
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
	s.Require().Len(retrieved.Courts, 1)
	s.True(retrieved.Courts[0].Available)
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

func (s *StorageSuite) TestSessionExpiresWithTTL() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{ID: "SESS01"}))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetSession(s.ctx, "SESS01")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Participant tests

func (s *StorageSuite) TestSaveAndGetParticipant() {
	p := &model.Participant{
		ID:          "alice",
		DisplayName: "Alice",
		Skill:       model.SkillAdvanced,
		CheckedIn:   true,
		CheckedInAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	s.Require().NoError(s.storage.SaveParticipant(s.ctx, "SESS01", p))

	retrieved, err := s.storage.GetParticipant(s.ctx, "SESS01", "alice")
	s.Require().NoError(err)
	s.Equal(p.DisplayName, retrieved.DisplayName)
	s.Equal(model.SkillAdvanced, retrieved.Skill)
	s.True(retrieved.CheckedIn)
	s.True(p.CheckedInAt.Equal(retrieved.CheckedInAt))
}

func (s *StorageSuite) TestGetParticipantNotFound() {
	_, err := s.storage.GetParticipant(s.ctx, "SESS01", "ghost")
	s.ErrorIs(err, model.ErrParticipantNotFound)
}

func (s *StorageSuite) TestListParticipantsPreservesOrder() {
	for _, id := range []string{"carol", "alice", "bob"} {
		p := &model.Participant{ID: model.ParticipantID(id)}
		s.Require().NoError(s.storage.SaveParticipant(s.ctx, "SESS01", p))
	}

	// Re-saving must not duplicate index entries
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
		Score:     model.Score{TeamA: 11, TeamB: 9},
	}

	s.Require().NoError(s.storage.SaveMatch(s.ctx, m))

	retrieved, err := s.storage.GetMatch(s.ctx, "SESS01", "M1")
	s.Require().NoError(err)
	s.Equal(m.TeamA, retrieved.TeamA)
	s.Equal(m.Score, retrieved.Score)
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
	s.Require().NoError(s.storage.SaveCorrection(s.ctx, &model.CorrectionEntry{
		MatchID:   "M1",
		SessionID: "SESS01",
		ExpiresAt: time.Now().Add(time.Minute),
	}))

	s.Require().NoError(s.storage.DeleteMatchesForSession(s.ctx, "SESS01"))

	all, err := s.storage.ListMatches(s.ctx, "SESS01")
	s.Require().NoError(err)
	s.Empty(all)

	_, err = s.storage.GetCorrection(s.ctx, "M1")
	s.ErrorIs(err, model.ErrNoActiveCorrection)

	other, err := s.storage.ListMatches(s.ctx, "SESS02")
	s.Require().NoError(err)
	s.Len(other, 1)
}

// Correction tests

func (s *StorageSuite) TestSaveAndGetCorrection() {
	now := time.Now()
	entry := &model.CorrectionEntry{
		MatchID:   "M1",
		SessionID: "SESS01",
		Team:      model.TeamB,
		AppliedAt: now,
		ExpiresAt: now.Add(5 * time.Second),
	}

	s.Require().NoError(s.storage.SaveCorrection(s.ctx, entry))

	retrieved, err := s.storage.GetCorrection(s.ctx, "M1")
	s.Require().NoError(err)
	s.Equal(model.TeamB, retrieved.Team)
}

func (s *StorageSuite) TestGetCorrectionMissing() {
	_, err := s.storage.GetCorrection(s.ctx, "M1")
	s.ErrorIs(err, model.ErrNoActiveCorrection)
}

func (s *StorageSuite) TestSaveCorrectionSupersedes() {
	now := time.Now()
	first := &model.CorrectionEntry{MatchID: "M1", Team: model.TeamA, ExpiresAt: now.Add(5 * time.Second)}
	second := &model.CorrectionEntry{MatchID: "M1", Team: model.TeamB, ExpiresAt: now.Add(10 * time.Second)}

	s.Require().NoError(s.storage.SaveCorrection(s.ctx, first))
	s.Require().NoError(s.storage.SaveCorrection(s.ctx, second))

	retrieved, err := s.storage.GetCorrection(s.ctx, "M1")
	s.Require().NoError(err)
	s.Equal(model.TeamB, retrieved.Team)
}

func (s *StorageSuite) TestCorrectionExpiresWithTTL() {
	entry := &model.CorrectionEntry{
		MatchID:   "M1",
		ExpiresAt: time.Now().Add(5 * time.Second),
	}
	s.Require().NoError(s.storage.SaveCorrection(s.ctx, entry))

	s.mini.FastForward(10 * time.Second)

	_, err := s.storage.GetCorrection(s.ctx, "M1")
	s.ErrorIs(err, model.ErrNoActiveCorrection)
}

func (s *StorageSuite) TestDeleteCorrection() {
	s.Require().NoError(s.storage.SaveCorrection(s.ctx, &model.CorrectionEntry{
		MatchID:   "M1",
		ExpiresAt: time.Now().Add(time.Minute),
	}))
	s.Require().NoError(s.storage.DeleteCorrection(s.ctx, "M1"))

	_, err := s.storage.GetCorrection(s.ctx, "M1")
	s.ErrorIs(err, model.ErrNoActiveCorrection)
}
