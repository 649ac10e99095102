package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pagefeed/social-system/internal/core/access"
	"github.com/pagefeed/social-system/internal/core/domain"
	"github.com/pagefeed/social-system/internal/core/ports"
)

// FeedService builds the newsfeed from the pages the actor follows.
type FeedService struct {
	pages    ports.PageRepository
	posts    ports.PostRepository
	resolver *blockResolver
	logger   zerolog.Logger
}

func NewFeedService(
	pages ports.PageRepository,
	posts ports.PostRepository,
	users ports.UserRepository,
	logger zerolog.Logger,
) *FeedService {
	return &FeedService{
		pages:    pages,
		posts:    posts,
		resolver: newBlockResolver(pages, users, logger),
		logger:   logger,
	}
}

// Newsfeed returns the posts of every page the actor follows, skipping
// pages that are currently blocked. Ordering is globally chronological,
// newest first, with the post id as tie-breaker, regardless of how many
// pages contribute.
func (s *FeedService) Newsfeed(ctx context.Context, actor access.Actor) ([]*domain.Post, error) {
	followed, err := s.pages.ListFollowedBy(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	pageIDs := make([]string, 0, len(followed))
	for _, page := range followed {
		if s.resolver.reconcile(ctx, page) {
			continue
		}
		pageIDs = append(pageIDs, page.ID)
	}
	if len(pageIDs) == 0 {
		return []*domain.Post{}, nil
	}

	return s.posts.ListByPages(ctx, pageIDs)
}

var _ ports.FeedService = (*FeedService)(nil)
