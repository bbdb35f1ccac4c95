package models

import (
	"errors"
	"time"
)

var (
	ErrInvalidWinnersCount = errors.New("winners count must be greater than 0")
)

// Giveaway represents a single giveaway entry. The entry identifier is not a
// field here: giveaways are keyed by the platform-assigned entry ID in the
// state document.
type Giveaway struct {
	End     int64  `json:"end"` // expiry as unix seconds
	Winners int    `json:"winners"`
	Prize   string `json:"prize"`
	Channel string `json:"channel"`
	Guild   string `json:"guild"`
}

// EndsAt returns the expiry as a time.Time.
func (g *Giveaway) EndsAt() time.Time {
	return time.Unix(g.End, 0)
}

// HasEnded reports whether the giveaway is eligible for automatic completion
// at the given instant.
func (g *Giveaway) HasEnded(now time.Time) bool {
	return g.End <= now.Unix()
}
