package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultSweepInterval is how often the sweeper checks for expired
// giveaways.
const DefaultSweepInterval = 10 * time.Second

// ExpirationService drives expired giveaways to completion. It alternates
// between waiting for the next tick and sweeping the current batch of
// expired entries; it runs for the whole process lifetime and is stopped
// only on shutdown.
type ExpirationService struct {
	ctx      context.Context
	cancel   context.CancelFunc
	svc      *Service
	clock    Clock
	interval time.Duration
	wg       sync.WaitGroup
}

func NewExpirationService(svc *Service, clock Clock, interval time.Duration) *ExpirationService {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ExpirationService{
		ctx:      ctx,
		cancel:   cancel,
		svc:      svc,
		clock:    clock,
		interval: interval,
	}
}

func (s *ExpirationService) Start() {
	log.Info().Dur("interval", s.interval).Msg("starting expiration service")
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Sweep(s.ctx)
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

func (s *ExpirationService) Stop() {
	log.Info().Msg("stopping expiration service")
	s.cancel()
	s.wg.Wait()
	log.Info().Msg("expiration service stopped")
}

// Sweep completes every giveaway whose expiry has passed. The batch is
// snapshotted once, entries are processed sequentially, and each entry is
// isolated: a failed completion is logged and left for the next tick
// without aborting the rest of the sweep.
func (s *ExpirationService) Sweep(ctx context.Context) {
	now := s.clock.Now()

	for entryID, giveaway := range s.svc.expiredEntries(now) {
		if !s.svc.tryClaim(entryID) {
			// A manual End owns this entry right now.
			continue
		}

		err := s.svc.complete(ctx, entryID, giveaway)
		s.svc.release(entryID)

		if err != nil && !errors.Is(err, ErrNotFound) {
			log.Error().Err(err).Str("entry_id", entryID).Msg("giveaway completion failed")
		}
	}
}
