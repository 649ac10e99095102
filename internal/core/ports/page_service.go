package ports

import (
	"context"
	"time"

	"github.com/pagefeed/social-system/internal/core/access"
	"github.com/pagefeed/social-system/internal/core/domain"
)

// PageInput carries the caller-editable page attributes.
type PageInput struct {
	Name        string
	Description string
	Tags        []string
	IsPrivate   bool
}

// FollowResult is returned by the follow/unfollow toggle.
type FollowResult struct {
	Status  domain.FollowStatus
	Message string
}

// RequestsResult is returned by accept/decline operations.
type RequestsResult struct {
	Processed int
	Message   string
}

// BlockPageInput carries a moderation block request. A nil UnblockDate
// with Permanent set is an indefinite block; a provided date must be
// strictly in the future.
type BlockPageInput struct {
	PageID      string
	Permanent   bool
	UnblockDate *time.Time
}

// PageView is a page snapshot with its reconciled blocked state.
type PageView struct {
	Page      *domain.Page
	IsBlocked bool
}

// PageService defines the use-case operations of the page & membership
// engine. Every operation authorizes the actor before mutating.
type PageService interface {
	CreatePage(ctx context.Context, actor access.Actor, in PageInput) (*domain.Page, error)
	UpdatePage(ctx context.Context, actor access.Actor, pageID string, in PageInput) (*domain.Page, error)
	DeletePage(ctx context.Context, actor access.Actor, pageID string) error
	GetPage(ctx context.Context, actor access.Actor, pageID string) (*PageView, error)
	ListPages(ctx context.Context, actor access.Actor, filter ListPagesFilter) ([]*PageView, error)

	FollowOrUnfollow(ctx context.Context, actor access.Actor, pageID string) (*FollowResult, error)
	ListRequests(ctx context.Context, actor access.Actor, pageID string) ([]*domain.User, error)
	// AcceptRequests accepts a single pending request when targetUserID
	// is non-empty, otherwise all pending requests in insertion order.
	AcceptRequests(ctx context.Context, actor access.Actor, pageID, targetUserID string) (*RequestsResult, error)
	// DeclineRequests is symmetric to AcceptRequests but only removes
	// entries from the request queue.
	DeclineRequests(ctx context.Context, actor access.Actor, pageID, targetUserID string) (*RequestsResult, error)

	BlockPage(ctx context.Context, actor access.Actor, in BlockPageInput) (*domain.Page, error)

	// ListTags returns the full tag registry.
	ListTags(ctx context.Context) ([]*domain.Tag, error)
}
