package ports

import (
	"context"

	"github.com/pagefeed/social-system/internal/core/access"
	"github.com/pagefeed/social-system/internal/core/domain"
)

// LikeIntent selects the direction of a like toggle. Both directions
// are idempotent: repeating an intent is a no-op success.
type LikeIntent string

const (
	IntentLike   LikeIntent = "like"
	IntentUnlike LikeIntent = "unlike"
)

// CreatePostInput carries the data needed to publish a post.
type CreatePostInput struct {
	PageID  string
	Subject string
	Content string
	ReplyTo *string
}

// UpdatePostInput carries the editable post attributes.
type UpdatePostInput struct {
	Subject string
	Content string
}

// LikeResult reports the like-set membership after a LikeOrUnlike call.
// Changed is false when the intent was already satisfied (no-op).
type LikeResult struct {
	Liked   bool
	Changed bool
	Message string
}

// PostService defines the use-case operations of the post & engagement
// engine.
type PostService interface {
	CreatePost(ctx context.Context, actor access.Actor, in CreatePostInput) (*domain.Post, error)
	GetPost(ctx context.Context, actor access.Actor, postID string) (*domain.Post, error)
	UpdatePost(ctx context.Context, actor access.Actor, postID string, in UpdatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, actor access.Actor, postID string) error

	LikeOrUnlike(ctx context.Context, actor access.Actor, postID string, intent LikeIntent) (*LikeResult, error)

	// VisiblePosts evaluates page privacy and blocked state per post
	// against live page state at query time.
	VisiblePosts(ctx context.Context, actor access.Actor) ([]*domain.Post, error)
	// LikedPosts returns the actor's liked posts in creation order.
	LikedPosts(ctx context.Context, actor access.Actor) ([]*domain.Post, error)
}

// FeedService builds the newsfeed: posts from followed, unblocked
// pages, globally chronological (newest first).
type FeedService interface {
	Newsfeed(ctx context.Context, actor access.Actor) ([]*domain.Post, error)
}
