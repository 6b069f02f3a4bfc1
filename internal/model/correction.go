package model

import "time"

// CorrectionEntry records the most recent scoring action on a match.
// At most one entry is live per match; each new point supersedes the
// previous entry. Expiry is passive: nothing sweeps entries, callers
// compare ExpiresAt against the clock when they touch one.
type CorrectionEntry struct {
	MatchID   MatchID
	SessionID SessionID
	Team      Team
	AppliedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry's revocation window has passed
func (e *CorrectionEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
