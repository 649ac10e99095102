package ports

import (
	"context"

	"github.com/pagefeed/social-system/internal/core/domain"
)

// PostRepository defines persistence operations for posts and likes.
// Like mutations are set-based single-document updates, so concurrent
// duplicate likes cannot produce duplicate entries.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id string) error
	// DeleteByPage removes all posts of a page (page-delete cascade).
	DeleteByPage(ctx context.Context, pageID string) error
	// ClearReplyTo nulls the reply_to reference on every post that
	// replies to the given post id.
	ClearReplyTo(ctx context.Context, postID string) error

	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error

	// ListAll returns every post in creation order.
	ListAll(ctx context.Context) ([]*domain.Post, error)
	// ListByPages returns the posts of the given pages, newest first,
	// ties broken by post id.
	ListByPages(ctx context.Context, pageIDs []string) ([]*domain.Post, error)
	// ListLikedBy returns the posts the user has liked, in creation order.
	ListLikedBy(ctx context.Context, userID string) ([]*domain.Post, error)
}
