package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shuttleday/shuttleday/internal/model"
	"github.com/shuttleday/shuttleday/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Participant operations

func (s *Storage) SaveParticipant(ctx context.Context, sessionID model.SessionID, p *model.Participant) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	key := participantKey(sessionID, p.ID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}

	// Pipeline the save with the registration-order index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.cfg.SessionTTL)
	if exists == 0 {
		pipe.RPush(ctx, participantsIndexKey(sessionID), string(p.ID))
		pipe.Expire(ctx, participantsIndexKey(sessionID), s.cfg.SessionTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetParticipant(ctx context.Context, sessionID model.SessionID, id model.ParticipantID) (*model.Participant, error) {
	data, err := s.client.Get(ctx, participantKey(sessionID, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrParticipantNotFound
		}
		return nil, err
	}

	var p model.Participant
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Storage) ListParticipants(ctx context.Context, sessionID model.SessionID) ([]*model.Participant, error) {
	ids, err := s.client.LRange(ctx, participantsIndexKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	participants := make([]*model.Participant, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetParticipant(ctx, sessionID, model.ParticipantID(id))
		if err != nil {
			if errors.Is(err, model.ErrParticipantNotFound) {
				continue
			}
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, nil
}

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	key := matchKey(match.ID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.cfg.SessionTTL)
	if exists == 0 {
		pipe.RPush(ctx, matchesIndexKey(match.SessionID), string(match.ID))
		pipe.Expire(ctx, matchesIndexKey(match.SessionID), s.cfg.SessionTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatch(ctx context.Context, sessionID model.SessionID, id model.MatchID) (*model.Match, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var match model.Match
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, err
	}
	if match.SessionID != sessionID {
		return nil, model.ErrMatchNotFound
	}
	return &match, nil
}

func (s *Storage) ListMatches(ctx context.Context, sessionID model.SessionID) ([]*model.Match, error) {
	ids, err := s.client.LRange(ctx, matchesIndexKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Match, 0, len(ids))
	for _, id := range ids {
		m, err := s.GetMatch(ctx, sessionID, model.MatchID(id))
		if err != nil {
			if errors.Is(err, model.ErrMatchNotFound) {
				continue
			}
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (s *Storage) DeleteMatchesForSession(ctx context.Context, sessionID model.SessionID) error {
	ids, err := s.client.LRange(ctx, matchesIndexKey(sessionID), 0, -1).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, matchKey(model.MatchID(id)))
		pipe.Del(ctx, correctionKey(model.MatchID(id)))
	}
	pipe.Del(ctx, matchesIndexKey(sessionID))
	_, err = pipe.Exec(ctx)
	return err
}

// Correction entry operations

func (s *Storage) SaveCorrection(ctx context.Context, entry *model.CorrectionEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	// The key expires with the correction window. Expiry is still
	// re-checked at read time against the injected clock, so tests
	// with a mock clock behave the same on every backend.
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.client.Set(ctx, correctionKey(entry.MatchID), data, ttl).Err()
}

func (s *Storage) GetCorrection(ctx context.Context, matchID model.MatchID) (*model.CorrectionEntry, error) {
	data, err := s.client.Get(ctx, correctionKey(matchID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNoActiveCorrection
		}
		return nil, err
	}

	var entry model.CorrectionEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Storage) DeleteCorrection(ctx context.Context, matchID model.MatchID) error {
	return s.client.Del(ctx, correctionKey(matchID)).Err()
}
