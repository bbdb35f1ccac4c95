package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"giveaway-bot-backend/internal/features/giveaway/models"
	"giveaway-bot-backend/internal/features/giveaway/repository"
)

const defaultFetchTimeout = 30 * time.Second

// Service owns the in-memory mirror of the state document and serializes
// every mutation against it. "Mutate, then persist" is one critical section
// under mu; the repository never sees concurrent saves.
type Service struct {
	repo         repository.StateRepository
	gateway      Gateway
	clock        Clock
	fetchTimeout time.Duration

	mu    sync.Mutex
	state *models.State

	// inFlight guards completion per entry: whichever of the sweeper and a
	// manual End claims the entry first runs the completion, the loser
	// observes the claim and backs off.
	inFlightMu sync.Mutex
	inFlight   map[string]bool
}

// NewService loads the persisted state document and returns the core
// service. A fetchTimeout of zero selects the default.
func NewService(ctx context.Context, repo repository.StateRepository, gateway Gateway, clock Clock, fetchTimeout time.Duration) (*Service, error) {
	state, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	return &Service{
		repo:         repo,
		gateway:      gateway,
		clock:        clock,
		fetchTimeout: fetchTimeout,
		state:        state,
		inFlight:     make(map[string]bool),
	}, nil
}

// StartGiveaway publishes a new giveaway entry and registers it under the
// platform-assigned entry ID. The duration token uses the compact
// <n><s|m|h|d> form; a bad token fails before anything is published.
func (s *Service) StartGiveaway(ctx context.Context, channelID, guildID, durationToken string, winners int, prize string) (string, error) {
	duration, err := models.ParseDuration(durationToken)
	if err != nil {
		return "", err
	}
	if winners < 1 {
		return "", models.ErrInvalidWinnersCount
	}

	endsAt := s.clock.Now().Add(duration)

	entryID, err := s.gateway.PublishEntry(ctx, channelID, prize, winners, endsAt)
	if err != nil {
		return "", fmt.Errorf("publish giveaway entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.state.Giveaways[entryID]; exists {
		return "", ErrDuplicateEntry
	}

	s.state.Giveaways[entryID] = models.Giveaway{
		End:     endsAt.Unix(),
		Winners: winners,
		Prize:   prize,
		Channel: channelID,
		Guild:   guildID,
	}

	if err := s.repo.Save(ctx, s.state); err != nil {
		// The giveaway keeps running in memory but is lost on crash; the
		// caller has to know the start did not durably commit.
		return entryID, fmt.Errorf("save state: %w", err)
	}
	return entryID, nil
}

// EndGiveaway completes an active giveaway ahead of its expiry. It races the
// automatic sweep safely: at most one of the two completes the entry.
func (s *Service) EndGiveaway(ctx context.Context, entryID string) error {
	if !s.tryClaim(entryID) {
		// Completion already in progress on another path.
		return ErrNotFound
	}
	defer s.release(entryID)

	s.mu.Lock()
	giveaway, ok := s.state.Giveaways[entryID]
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	return s.complete(ctx, entryID, giveaway)
}

// RerollGiveaway repeats selection over the entry's current participants.
// It works on active and already-completed giveaways alike and is not
// subject to the at-most-once completion constraint.
func (s *Service) RerollGiveaway(ctx context.Context, entryID string) error {
	s.mu.Lock()
	giveaway, ok := s.state.Giveaways[entryID]
	if !ok {
		giveaway, ok = s.state.Completed[entryID]
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	participants, err := s.fetchParticipants(ctx, giveaway.Channel, entryID)
	if err != nil {
		return fmt.Errorf("fetch participants: %w", err)
	}

	s.mu.Lock()
	winners := s.selectWinners(participants, giveaway.Winners, giveaway.Guild)
	saveErr := s.repo.Save(ctx, s.state)
	s.mu.Unlock()

	s.announceResult(ctx, giveaway, winners)

	if saveErr != nil {
		return fmt.Errorf("save state: %w", saveErr)
	}
	return nil
}

// ListActiveGiveaways returns the identifiers of all registered giveaways,
// sorted for stable output.
func (s *Service) ListActiveGiveaways(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.state.Giveaways))
	for id := range s.state.Giveaways {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// SetUserWeight stores the user's persistent weight and persists the change.
func (s *Service) SetUserWeight(ctx context.Context, userID string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.SetWeight(userID, amount)
	if err := s.repo.Save(ctx, s.state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// SetUserBoost stores the user's temporary boost, capped at models.MaxBoost,
// and persists the change.
func (s *Service) SetUserBoost(ctx context.Context, userID string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.SetBoost(userID, amount)
	if err := s.repo.Save(ctx, s.state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// expiredEntries snapshots the giveaways whose expiry has passed. The
// sweeper works off this snapshot so concurrent registry mutation cannot
// make it process an entry twice within one sweep.
func (s *Service) expiredEntries(now time.Time) map[string]models.Giveaway {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := make(map[string]models.Giveaway)
	for entryID, giveaway := range s.state.Giveaways {
		if giveaway.HasEnded(now) {
			expired[entryID] = giveaway
		}
	}
	return expired
}

// tryClaim marks the entry as being completed. It returns false when another
// completion path already owns the entry.
func (s *Service) tryClaim(entryID string) bool {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()
	if s.inFlight[entryID] {
		return false
	}
	s.inFlight[entryID] = true
	return true
}

func (s *Service) release(entryID string) {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()
	delete(s.inFlight, entryID)
}

// complete runs selection for a claimed entry, announces the outcome, and
// moves the entry from the active registry to the completed set. The caller
// must hold the entry's claim.
func (s *Service) complete(ctx context.Context, entryID string, giveaway models.Giveaway) error {
	participants, err := s.fetchParticipants(ctx, giveaway.Channel, entryID)
	if err != nil {
		return fmt.Errorf("fetch participants: %w", err)
	}

	s.mu.Lock()
	if _, ok := s.state.Giveaways[entryID]; !ok {
		// Removed while we were fetching.
		s.mu.Unlock()
		return ErrNotFound
	}
	winners := s.selectWinners(participants, giveaway.Winners, giveaway.Guild)
	delete(s.state.Giveaways, entryID)
	s.state.Completed[entryID] = giveaway
	saveErr := s.repo.Save(ctx, s.state)
	s.mu.Unlock()

	s.announceResult(ctx, giveaway, winners)

	if saveErr != nil {
		return fmt.Errorf("save state: %w", saveErr)
	}
	return nil
}

func (s *Service) fetchParticipants(ctx context.Context, channelID, entryID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	return s.gateway.FetchParticipants(ctx, channelID, entryID)
}

// announceResult posts the completion message. Announcements are fire and
// forget: a delivery failure is logged, never retried.
func (s *Service) announceResult(ctx context.Context, giveaway models.Giveaway, winners []string) {
	var message string
	if len(winners) == 0 {
		message = "No valid participants."
	} else {
		mentions := make([]string, len(winners))
		for i, userID := range winners {
			mentions[i] = "<@" + userID + ">"
		}
		message = fmt.Sprintf("🎉 Congratulations %s! You won **%s**", strings.Join(mentions, ", "), giveaway.Prize)
	}

	if err := s.gateway.Announce(ctx, giveaway.Channel, message); err != nil {
		log.Error().Err(err).Str("channel", giveaway.Channel).Msg("failed to announce giveaway result")
	}
}
