// Package jobs hosts scheduled maintenance work.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/pagefeed/social-system/internal/core/ports"
)

// UnblockSweeper clears expired temporary page blocks in the
// background, so pages come back without waiting for the next read to
// reconcile them. A page whose owner is still blocked stays blocked;
// the sweep leaves its date in place.
type UnblockSweeper struct {
	pages ports.PageRepository
	users ports.UserRepository
	cron  *cron.Cron
	log   zerolog.Logger
}

func NewUnblockSweeper(pages ports.PageRepository, users ports.UserRepository, log zerolog.Logger) *UnblockSweeper {
	return &UnblockSweeper{
		pages: pages,
		users: users,
		cron:  cron.New(),
		log:   log,
	}
}

// Start schedules the sweep. spec is a cron expression; empty defaults
// to once a minute.
func (s *UnblockSweeper) Start(spec string) error {
	if spec == "" {
		spec = "@every 1m"
	}
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *UnblockSweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *UnblockSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	pages, err := s.pages.ListExpiredTempBlocks(ctx, now)
	if err != nil {
		s.log.Warn().Err(err).Msg("unblock sweep: listing expired blocks failed")
		return
	}

	cleared := 0
	for _, page := range pages {
		owner, err := s.users.FindByID(ctx, page.OwnerID)
		if err != nil {
			s.log.Warn().Err(err).Str("page_id", page.ID).Msg("unblock sweep: owner lookup failed")
			continue
		}
		if owner.IsBlocked {
			continue
		}
		if err := s.pages.ClearUnblockDate(ctx, page.ID); err != nil {
			s.log.Warn().Err(err).Str("page_id", page.ID).Msg("unblock sweep: clear failed")
			continue
		}
		cleared++
	}

	if cleared > 0 {
		s.log.Info().Int("cleared", cleared).Msg("unblock sweep: expired page blocks lifted")
	}
}
