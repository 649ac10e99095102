package ports

import (
	"context"

	"github.com/pagefeed/social-system/internal/core/domain"
)

// EventSink accepts engine events for asynchronous delivery. Enqueue is
// called after the originating mutation has been persisted; it must not
// block the caller beyond buffering, and delivery failures never
// propagate back to the engine.
type EventSink interface {
	Enqueue(e domain.Event)
}

// NotificationService processes one event off the dispatch queue:
// publish to the stats channel and, for post/created, fan out the new
// post email to the page's followers. At-most-once; errors are for the
// dispatcher's log only.
type NotificationService interface {
	Process(ctx context.Context, e domain.Event) error
}

// StatsPublisher delivers an event to the external stats aggregator.
type StatsPublisher interface {
	Publish(ctx context.Context, e domain.Event) error
}

// Mailer sends a plain-text email, best effort.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// FollowLock serializes follow/unfollow toggles on one (page, actor)
// pair. The toggle is a read-modify-write over set membership with no
// natural idempotence key, so concurrent calls must not interleave.
type FollowLock interface {
	// Acquire blocks until the lock is held or ctx is done. The returned
	// release must be called exactly once.
	Acquire(ctx context.Context, pageID, userID string) (release func(), err error)
}
