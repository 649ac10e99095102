package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pagefeed/social-system/internal/core/domain"
	"github.com/pagefeed/social-system/internal/core/ports"
)

type notifyService struct {
	pages ports.PageRepository
	posts ports.PostRepository
	users ports.UserRepository
	stats ports.StatsPublisher
	mail  ports.Mailer
	log   zerolog.Logger
}

// NewNotifyService returns the NotificationService that fans engine
// events out to the stats channel and the follower email newsletter.
// Every failure here is logged and swallowed: by the time an event
// reaches this service the originating mutation has already committed.
func NewNotifyService(
	pages ports.PageRepository,
	posts ports.PostRepository,
	users ports.UserRepository,
	stats ports.StatsPublisher,
	mail ports.Mailer,
	log zerolog.Logger,
) ports.NotificationService {
	return &notifyService{
		pages: pages,
		posts: posts,
		users: users,
		stats: stats,
		mail:  mail,
		log:   log,
	}
}

// Process handles a single event: publish to stats, then run any
// action-specific side effects.
func (s *notifyService) Process(ctx context.Context, e domain.Event) error {
	if err := s.stats.Publish(ctx, e); err != nil {
		s.log.Warn().Err(err).
			Str("entity", string(e.Entity)).
			Str("action", string(e.Action)).
			Str("id", e.ID).
			Msg("stats publish failed")
	}

	if e.Entity == domain.EntityPost && e.Action == domain.ActionCreated {
		s.sendNewPostEmail(ctx, e)
	}

	s.log.Debug().
		Str("entity", string(e.Entity)).
		Str("action", string(e.Action)).
		Str("id", e.ID).
		Msg("event processed")
	return nil
}

// sendNewPostEmail notifies the page's followers about a new post.
func (s *notifyService) sendNewPostEmail(ctx context.Context, e domain.Event) {
	post, err := s.posts.FindByID(ctx, e.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("post_id", e.ID).Msg("post lookup failed, skipping email")
		return
	}

	page, err := s.pages.FindByID(ctx, post.PageID)
	if err != nil {
		s.log.Warn().Err(err).Str("page_id", post.PageID).Msg("page lookup failed, skipping email")
		return
	}
	if len(page.Followers) == 0 {
		return
	}

	owner, err := s.users.FindByID(ctx, page.OwnerID)
	if err != nil {
		s.log.Warn().Err(err).Str("owner_id", page.OwnerID).Msg("owner lookup failed, skipping email")
		return
	}

	followers, err := s.users.FindByIDs(ctx, page.Followers)
	if err != nil {
		s.log.Warn().Err(err).Str("page_id", page.ID).Msg("follower lookup failed, skipping email")
		return
	}

	recipients := make([]string, 0, len(followers))
	for _, f := range followers {
		if f.Email != "" {
			recipients = append(recipients, f.Email)
		}
	}
	if len(recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("New Post!!! Subject: %s", post.Subject)
	body := fmt.Sprintf("Check out new post on %s by %s", page.Name, owner.Username)

	if err := s.mail.Send(ctx, recipients, subject, body); err != nil {
		s.log.Warn().Err(err).Str("post_id", post.ID).Int("recipients", len(recipients)).Msg("new post email failed")
		return
	}
	s.log.Info().Str("post_id", post.ID).Int("recipients", len(recipients)).Msg("new post email sent")
}
