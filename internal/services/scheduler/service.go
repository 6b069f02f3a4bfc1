package scheduler

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shuttleday/shuttleday/internal/dependencies/clock"
	"github.com/shuttleday/shuttleday/internal/dependencies/random"
	"github.com/shuttleday/shuttleday/internal/model"
	"github.com/shuttleday/shuttleday/internal/services/roster"
	"github.com/shuttleday/shuttleday/internal/storage"
)

const (
	// MatchIDLength is the length of generated match ids
	MatchIDLength = 12
	// MatchIDAlphabet is the characters used in match ids
	MatchIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// matchSize is players per doubles match
	matchSize = 4
)

// Config holds scheduler tuning
type Config struct {
	// DefaultMatchDuration seeds the wait estimate before any match
	// in the session has completed
	DefaultMatchDuration time.Duration
}

// DefaultConfig returns scheduler defaults
func DefaultConfig() Config {
	return Config{
		DefaultMatchDuration: 15 * time.Minute,
	}
}

// Service turns availability signals into matches: whenever a court is
// free and at least four eligible participants wait, it seats the four
// longest-waiting as a doubles match with the smallest skill gap.
type Service struct {
	storage   storage.Storage
	rosterSvc *roster.Service
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
	cfg       Config
}

// New creates a new scheduler service
func New(
	storage storage.Storage,
	rosterSvc *roster.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.DefaultMatchDuration == 0 {
		cfg = DefaultConfig()
	}
	return &Service{
		storage:   storage,
		rosterSvc: rosterSvc,
		clock:     clock,
		random:    random,
		logger:    logger,
		cfg:       cfg,
	}
}

// FillCourts seats matches until no court is free or fewer than four
// eligible participants remain. Running out of either is the normal
// quiescent state, not an error. Returns the matches created.
func (s *Service) FillCourts(ctx context.Context, sessionID model.SessionID) ([]*model.Match, error) {
	var created []*model.Match

	for {
		session, err := s.storage.GetSession(ctx, sessionID)
		if err != nil {
			return created, err
		}

		heldCourts, heldParticipants, err := s.correctionHolds(ctx, sessionID)
		if err != nil {
			return created, err
		}

		var court model.CourtID
		for _, id := range session.FreeCourts() {
			if !heldCourts[id] {
				court = id
				break
			}
		}
		if court == "" {
			return created, nil
		}

		waiting, err := s.rosterSvc.Available(ctx, sessionID)
		if err != nil {
			return created, err
		}
		var eligible []*model.Participant
		for _, p := range waiting {
			if !heldParticipants[p.ID] {
				eligible = append(eligible, p)
			}
		}
		if len(eligible) < matchSize {
			return created, nil
		}

		teamA, teamB := pickTeams(eligible)

		match, err := s.seat(ctx, session, court, teamA, teamB)
		if err != nil {
			return created, err
		}
		created = append(created, match)
	}
}

// seat creates the match bound to the court and marks the four
// participants as seated. The match is created Scheduled and moves
// straight to Playing: no warm-up state is modeled.
func (s *Service) seat(
	ctx context.Context,
	session *model.Session,
	court model.CourtID,
	teamA, teamB [2]model.ParticipantID,
) (*model.Match, error) {
	now := s.clock.Now()

	match := &model.Match{
		ID:         model.MatchID(s.random.String(MatchIDLength, MatchIDAlphabet)),
		SessionID:  session.ID,
		Court:      court,
		TeamA:      teamA,
		TeamB:      teamB,
		CurrentSet: 1,
		Status:     model.MatchScheduled,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.storage.SaveMatch(ctx, match); err != nil {
		return nil, err
	}

	match.Status = model.MatchPlaying
	match.StartedAt = now
	if err := s.storage.SaveMatch(ctx, match); err != nil {
		return nil, err
	}

	if c := session.Court(court); c != nil {
		c.Available = false
	}
	session.UpdatedAt = now
	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	for _, id := range match.Participants() {
		p, err := s.storage.GetParticipant(ctx, session.ID, id)
		if err != nil {
			return nil, err
		}
		matchID := match.ID
		p.CurrentMatch = &matchID
		p.UpdatedAt = now
		if err := s.storage.SaveParticipant(ctx, session.ID, p); err != nil {
			return nil, err
		}
	}

	s.logger.Info("match seated",
		slog.String("session_id", string(session.ID)),
		slog.String("match_id", string(match.ID)),
		slog.String("court", string(court)),
	)

	return match, nil
}

// ReleaseMatch frees the completed match's court, returns its
// participants to the wait queue, and records last partners for
// repeat-pairing avoidance. It does not reseat; callers trigger
// FillCourts after release.
func (s *Service) ReleaseMatch(ctx context.Context, sessionID model.SessionID, match *model.Match) error {
	session, err := s.storage.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	now := s.clock.Now()

	if c := session.Court(match.Court); c != nil {
		c.Available = true
	}
	session.UpdatedAt = now
	if err := s.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	for _, id := range match.Participants() {
		p, err := s.storage.GetParticipant(ctx, sessionID, id)
		if err != nil {
			return err
		}
		p.CurrentMatch = nil
		p.LastPartner = match.PartnerOf(id)
		p.UpdatedAt = now
		if err := s.storage.SaveParticipant(ctx, sessionID, p); err != nil {
			return err
		}
	}

	s.logger.Info("court released",
		slog.String("session_id", string(sessionID)),
		slog.String("match_id", string(match.ID)),
		slog.String("court", string(match.Court)),
	)

	return nil
}

// ReclaimMatch re-seats a match whose completing point was revoked:
// the court is taken back and the participants re-linked. The
// correction hold guarantees neither was reassigned in between.
func (s *Service) ReclaimMatch(ctx context.Context, sessionID model.SessionID, match *model.Match) error {
	session, err := s.storage.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	now := s.clock.Now()

	if c := session.Court(match.Court); c != nil {
		c.Available = false
	}
	session.UpdatedAt = now
	if err := s.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	for _, id := range match.Participants() {
		p, err := s.storage.GetParticipant(ctx, sessionID, id)
		if err != nil {
			return err
		}
		matchID := match.ID
		p.CurrentMatch = &matchID
		p.UpdatedAt = now
		if err := s.storage.SaveParticipant(ctx, sessionID, p); err != nil {
			return err
		}
	}

	return nil
}

// MeanMatchDuration returns the rolling average duration of completed
// matches in the session, or the configured default before any have
// completed.
func (s *Service) MeanMatchDuration(ctx context.Context, sessionID model.SessionID) (time.Duration, error) {
	matches, err := s.storage.ListMatches(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	var total time.Duration
	var completed int
	for _, m := range matches {
		if m.Status == model.MatchCompleted {
			total += m.Duration()
			completed++
		}
	}
	if completed == 0 {
		return s.cfg.DefaultMatchDuration, nil
	}
	return total / time.Duration(completed), nil
}

// EstimatedWait estimates how long a waiting participant has until
// their next match: participants ahead in the queue times the mean
// observed match duration. A seated participant's wait is zero.
func (s *Service) EstimatedWait(ctx context.Context, sessionID model.SessionID, id model.ParticipantID) (time.Duration, error) {
	p, err := s.storage.GetParticipant(ctx, sessionID, id)
	if err != nil {
		return 0, err
	}
	if !p.IsWaiting() {
		return 0, nil
	}

	waiting, err := s.rosterSvc.Available(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	ahead := 0
	for _, w := range waiting {
		if w.ID == id {
			break
		}
		ahead++
	}

	mean, err := s.MeanMatchDuration(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return time.Duration(ahead) * mean, nil
}

// correctionHolds returns the courts and participants of completed
// matches whose final point is still revocable. Seating either before
// the window lapses could leave a revoked match with nowhere to
// resume, so the scheduler skips them. Checked lazily against the
// clock, consistent with passive correction expiry.
func (s *Service) correctionHolds(ctx context.Context, sessionID model.SessionID) (map[model.CourtID]bool, map[model.ParticipantID]bool, error) {
	matches, err := s.storage.ListMatches(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	now := s.clock.Now()
	courts := make(map[model.CourtID]bool)
	participants := make(map[model.ParticipantID]bool)

	for _, m := range matches {
		if m.Status != model.MatchCompleted {
			continue
		}
		entry, err := s.storage.GetCorrection(ctx, m.ID)
		if err != nil {
			// No live entry for this match
			continue
		}
		if entry.Expired(now) {
			continue
		}
		courts[m.Court] = true
		for _, id := range m.Participants() {
			participants[id] = true
		}
	}

	return courts, participants, nil
}

// pickTeams selects four participants from the wait queue and
// partitions them into two teams. Candidate 4-subsets are tried in
// wait-priority order; within a subset the partition minimising the
// skill-sum gap wins, ties broken by lexicographic id order. A
// partition repeating either pair's most recent partnership is
// rejected, unless no subset at all survives the restriction: an idle
// court is worse than a repeated pairing.
func pickTeams(waiting []*model.Participant) ([2]model.ParticipantID, [2]model.ParticipantID) {
	for _, subset := range combinations(len(waiting), matchSize) {
		group := make([]*model.Participant, matchSize)
		for i, idx := range subset {
			group[i] = waiting[idx]
		}
		if teamA, teamB, ok := bestPartition(group, false); ok {
			return teamA, teamB
		}
	}

	// Every subset repeats a pairing: seat the four longest-waiting anyway
	return mustPartition(waiting[:matchSize])
}

func mustPartition(group []*model.Participant) ([2]model.ParticipantID, [2]model.ParticipantID) {
	teamA, teamB, _ := bestPartition(group, true)
	return teamA, teamB
}

// bestPartition evaluates the three ways to split four participants
// into two pairs and returns the one with the minimal absolute skill
// difference. With allowRepeats false, partitions containing a pair
// that just played together are skipped.
func bestPartition(group []*model.Participant, allowRepeats bool) ([2]model.ParticipantID, [2]model.ParticipantID, bool) {
	// The three 2+2 partitions of indices {0,1,2,3}
	splits := [3][2][2]int{
		{{0, 1}, {2, 3}},
		{{0, 2}, {1, 3}},
		{{0, 3}, {1, 2}},
	}

	bestGap := -1
	bestKey := ""
	var bestA, bestB [2]model.ParticipantID

	for _, split := range splits {
		pairA := [2]*model.Participant{group[split[0][0]], group[split[0][1]]}
		pairB := [2]*model.Participant{group[split[1][0]], group[split[1][1]]}

		if !allowRepeats && (repeatPair(pairA) || repeatPair(pairB)) {
			continue
		}

		gap := int(pairA[0].Skill+pairA[1].Skill) - int(pairB[0].Skill+pairB[1].Skill)
		if gap < 0 {
			gap = -gap
		}

		teamA, teamB := normalize(pairA, pairB)
		key := partitionKey(teamA, teamB)

		if bestGap == -1 || gap < bestGap || (gap == bestGap && key < bestKey) {
			bestGap = gap
			bestKey = key
			bestA = teamA
			bestB = teamB
		}
	}

	if bestGap == -1 {
		return bestA, bestB, false
	}
	return bestA, bestB, true
}

// repeatPair reports whether the two participants were partners in the
// immediately preceding match of either
func repeatPair(pair [2]*model.Participant) bool {
	return pair[0].LastPartner == pair[1].ID || pair[1].LastPartner == pair[0].ID
}

// normalize orders ids within each team and puts the lexicographically
// smaller team first, making partition selection deterministic
func normalize(pairA, pairB [2]*model.Participant) ([2]model.ParticipantID, [2]model.ParticipantID) {
	a := sortedPair(pairA)
	b := sortedPair(pairB)
	if b[0] < a[0] {
		return b, a
	}
	return a, b
}

func sortedPair(pair [2]*model.Participant) [2]model.ParticipantID {
	ids := [2]model.ParticipantID{pair[0].ID, pair[1].ID}
	if ids[1] < ids[0] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	return ids
}

func partitionKey(teamA, teamB [2]model.ParticipantID) string {
	parts := []string{string(teamA[0]), string(teamA[1]), string(teamB[0]), string(teamB[1])}
	return strings.Join(parts, "|")
}

// combinations returns all k-element index subsets of [0, n) in
// lexicographic order, so earlier (longer-waiting) participants are
// preferred
func combinations(n, k int) [][]int {
	if n < k {
		return nil
	}
	var result [][]int
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		subset := make([]int, k)
		copy(subset, idx)
		result = append(result, subset)

		// Advance to the next combination
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return result
}
