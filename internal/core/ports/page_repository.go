package ports

import (
	"context"
	"time"

	"github.com/pagefeed/social-system/internal/core/domain"
)

// ListPagesFilter carries query parameters for listing pages.
type ListPagesFilter struct {
	OwnerID string // optional: only pages owned by this user
	Tag     string // optional: only pages carrying this tag
}

// PageRepository defines persistence operations for pages and their
// membership sets. Membership mutations are single-document updates so
// each one is atomic at the storage layer; PromoteRequest in particular
// moves a user from the request queue to the follower set in one step,
// guaranteeing the two sets stay disjoint under concurrent accepts.
type PageRepository interface {
	Create(ctx context.Context, p *domain.Page) error
	FindByID(ctx context.Context, id string) (*domain.Page, error)
	List(ctx context.Context, filter ListPagesFilter) ([]*domain.Page, error)
	Update(ctx context.Context, p *domain.Page) error
	Delete(ctx context.Context, id string) error

	// IsFollower is an existence check on the follower set; it never
	// materializes the full collection.
	IsFollower(ctx context.Context, pageID, userID string) (bool, error)
	AddFollower(ctx context.Context, pageID, userID string) error
	RemoveFollower(ctx context.Context, pageID, userID string) error
	AddFollowRequest(ctx context.Context, pageID, userID string) error
	RemoveFollowRequest(ctx context.Context, pageID, userID string) error
	// PromoteRequest atomically removes userID from the request queue and
	// adds it to the follower set. Returns domain.ErrNoPendingRequest
	// when no pending request exists for that user.
	PromoteRequest(ctx context.Context, pageID, userID string) error

	// ListFollowedBy returns every page the user currently follows.
	ListFollowedBy(ctx context.Context, userID string) ([]*domain.Page, error)

	SetBlock(ctx context.Context, pageID string, permanent bool, unblockDate *time.Time) error
	// ClearUnblockDate drops a stale temporary-block date.
	ClearUnblockDate(ctx context.Context, pageID string) error
	// ListExpiredTempBlocks returns non-permanently-blocked pages whose
	// unblock date has passed, for the background sweep.
	ListExpiredTempBlocks(ctx context.Context, now time.Time) ([]*domain.Page, error)
}

// TagRepository resolves tag names to registry entries.
type TagRepository interface {
	// GetOrCreate returns the tag with the given name, creating it on
	// first use. Matching is case-sensitive and exact; the call is
	// idempotent.
	GetOrCreate(ctx context.Context, name string) (*domain.Tag, error)
	List(ctx context.Context) ([]*domain.Tag, error)
}
