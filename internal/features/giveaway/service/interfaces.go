package service

import (
	"context"
	"time"
)

// Gateway is the chat-platform surface the core depends on. The platform
// owns entry identifiers: PublishEntry posts the opt-in message and returns
// the identifier the rest of the lifecycle is keyed by.
type Gateway interface {
	PublishEntry(ctx context.Context, channelID, prize string, winners int, endsAt time.Time) (string, error)
	FetchParticipants(ctx context.Context, channelID, entryID string) ([]string, error)
	Announce(ctx context.Context, channelID, message string) error
}

// Clock abstracts wall-clock time so expiry sweeps can be driven
// deterministically in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// GiveawayService defines the operator-facing operations, one per
// user-facing command.
type GiveawayService interface {
	StartGiveaway(ctx context.Context, channelID, guildID, durationToken string, winners int, prize string) (string, error)
	EndGiveaway(ctx context.Context, entryID string) error
	RerollGiveaway(ctx context.Context, entryID string) error
	ListActiveGiveaways(ctx context.Context) ([]string, error)
	SetUserWeight(ctx context.Context, userID string, amount int) error
	SetUserBoost(ctx context.Context, userID string, amount int) error
}

// ExpirationServiceInterface defines the background sweeper lifecycle.
type ExpirationServiceInterface interface {
	Start()
	Stop()
	Sweep(ctx context.Context)
}
