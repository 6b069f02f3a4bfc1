package rules

import "github.com/shuttleday/shuttleday/internal/model"

// Config holds the scoring rules for a session.
// Defaults follow standard badminton rally scoring: first to 21 with a
// two-point lead, no upper cap (ties above 21 continue under the
// lead-by-two rule).
type Config struct {
	// WinningScore is the minimum score required to win a set
	WinningScore int

	// MinLead is the lead required over the opponent to win
	MinLead int

	// GamePointAt is the score at which the next point could end the
	// set for the leading team
	GamePointAt int
}

// DefaultConfig returns standard badminton scoring rules
func DefaultConfig() Config {
	return Config{
		WinningScore: 21,
		MinLead:      2,
		GamePointAt:  20,
	}
}

// Service evaluates win and game-point conditions against a score
type Service struct {
	cfg Config
}

// New creates a new rules service
func New(cfg Config) *Service {
	if cfg.WinningScore == 0 {
		cfg = DefaultConfig()
	}
	return &Service{cfg: cfg}
}

// Winner returns the winning team for the score, if the win condition
// is met: at least WinningScore points and a lead of at least MinLead.
func (s *Service) Winner(score model.Score) (model.Team, bool) {
	switch {
	case score.TeamA >= s.cfg.WinningScore && score.TeamA-score.TeamB >= s.cfg.MinLead:
		return model.TeamA, true
	case score.TeamB >= s.cfg.WinningScore && score.TeamB-score.TeamA >= s.cfg.MinLead:
		return model.TeamB, true
	}
	return "", false
}

// IsGamePoint reports whether either team has reached the score at
// which the next point could end the set. Pure query, no mutation.
func (s *Service) IsGamePoint(score model.Score) bool {
	return score.TeamA >= s.cfg.GamePointAt || score.TeamB >= s.cfg.GamePointAt
}
