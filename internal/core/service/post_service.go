package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pagefeed/social-system/internal/core/access"
	"github.com/pagefeed/social-system/internal/core/domain"
	"github.com/pagefeed/social-system/internal/core/ports"
)

const (
	msgPostLiked   = "Post added to your liked posts"
	msgPostUnliked = "Post removed from your liked posts"
)

// PostService implements the post & engagement engine.
type PostService struct {
	posts    ports.PostRepository
	pages    ports.PageRepository
	sink     ports.EventSink
	resolver *blockResolver
	logger   zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	pages ports.PageRepository,
	users ports.UserRepository,
	sink ports.EventSink,
	logger zerolog.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		pages:    pages,
		sink:     sink,
		resolver: newBlockResolver(pages, users, logger),
		logger:   logger,
	}
}

// CreatePost publishes a post on one of the actor's pages. The page
// must belong to the actor and must not be blocked; a reply_to
// reference must resolve to an existing post at creation time.
func (s *PostService) CreatePost(ctx context.Context, actor access.Actor, in ports.CreatePostInput) (*domain.Post, error) {
	page, err := s.pages.FindByID(ctx, in.PageID)
	if err != nil {
		return nil, err
	}
	if page.OwnerID != actor.ID || s.resolver.reconcile(ctx, page) {
		return nil, domain.ErrInvalidTarget
	}
	if actor.Blocked {
		return nil, access.Denied(access.ReasonActorBlocked)
	}

	if in.ReplyTo != nil {
		if _, err := s.posts.FindByID(ctx, *in.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply_to: %w", err)
		}
	}

	subject := in.Subject
	if subject == "" {
		subject = "Post"
	}

	now := s.resolver.now()
	post := &domain.Post{
		PageID:    in.PageID,
		Subject:   subject,
		Content:   in.Content,
		ReplyTo:   in.ReplyTo,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Str("page_id", in.PageID).Msg("failed to create post")
		return nil, err
	}

	s.logger.Info().Str("post_id", post.ID).Str("page_id", in.PageID).Msg("post created")
	s.emit(post.ID, domain.ActionCreated, in.PageID, actor.ID)
	return post, nil
}

// GetPost retrieves one post under the parent page's read rules.
func (s *PostService) GetPost(ctx context.Context, actor access.Actor, postID string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	page, err := s.pages.FindByID(ctx, post.PageID)
	if err != nil {
		return nil, err
	}

	d := access.Authorize(actor, access.ActionRead, access.Target{
		OwnerID:    page.OwnerID,
		Private:    page.IsPrivate,
		Blocked:    s.resolver.reconcile(ctx, page),
		IsFollower: page.IsFollower(actor.ID),
	})
	if err := d.Err(); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost edits subject/content. Staff or the parent page's owner.
func (s *PostService) UpdatePost(ctx context.Context, actor access.Actor, postID string, in ports.UpdatePostInput) (*domain.Post, error) {
	post, page, err := s.postWithPage(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeMutation(ctx, actor, access.ActionUpdate, page); err != nil {
		return nil, err
	}

	post.Subject = in.Subject
	post.Content = in.Content
	post.UpdatedAt = s.resolver.now()

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes the post. Replies pointing at it keep existing
// with their reply_to reference nulled out.
func (s *PostService) DeletePost(ctx context.Context, actor access.Actor, postID string) error {
	post, page, err := s.postWithPage(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.authorizeMutation(ctx, actor, access.ActionDelete, page); err != nil {
		return err
	}

	if err := s.posts.ClearReplyTo(ctx, postID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	s.logger.Info().Str("post_id", postID).Str("actor_id", actor.ID).Msg("post deleted")
	s.emit(postID, domain.ActionDeleted, post.PageID, actor.ID)
	return nil
}

// LikeOrUnlike applies the requested intent to the like set. Both
// directions are idempotent no-op successes when already satisfied;
// an event is emitted only on an actual transition.
func (s *PostService) LikeOrUnlike(ctx context.Context, actor access.Actor, postID string, intent ports.LikeIntent) (*ports.LikeResult, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	page, err := s.pages.FindByID(ctx, post.PageID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionLike, access.Target{
		OwnerID:    page.OwnerID,
		Private:    page.IsPrivate,
		Blocked:    s.resolver.reconcile(ctx, page),
		IsFollower: page.IsFollower(actor.ID),
	}).Err(); err != nil {
		return nil, err
	}

	liked := post.IsLikedBy(actor.ID)
	switch intent {
	case ports.IntentLike:
		if !liked {
			if err := s.posts.AddLike(ctx, postID, actor.ID); err != nil {
				return nil, err
			}
			s.emit(postID, domain.ActionLike, post.PageID, actor.ID)
		}
		return &ports.LikeResult{Liked: true, Changed: !liked, Message: msgPostLiked}, nil

	case ports.IntentUnlike:
		if liked {
			if err := s.posts.RemoveLike(ctx, postID, actor.ID); err != nil {
				return nil, err
			}
			s.emit(postID, domain.ActionUnlike, post.PageID, actor.ID)
		}
		return &ports.LikeResult{Liked: false, Changed: liked, Message: msgPostUnliked}, nil

	default:
		return nil, fmt.Errorf("unknown like intent %q", intent)
	}
}

// VisiblePosts returns all posts the actor may see, evaluated per post
// against live page state: staff see everything, a page's owner keeps
// seeing their own page even while it is blocked, everyone else sees
// unblocked pages that are public or that they follow.
func (s *PostService) VisiblePosts(ctx context.Context, actor access.Actor) ([]*domain.Post, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	type pageState struct {
		page    *domain.Page
		blocked bool
	}
	states := make(map[string]*pageState)

	visible := make([]*domain.Post, 0, len(posts))
	for _, post := range posts {
		st, ok := states[post.PageID]
		if !ok {
			page, err := s.pages.FindByID(ctx, post.PageID)
			if err != nil {
				s.logger.Warn().Err(err).Str("page_id", post.PageID).Msg("skipping posts of unresolvable page")
				states[post.PageID] = &pageState{}
				continue
			}
			st = &pageState{page: page, blocked: s.resolver.reconcile(ctx, page)}
			states[post.PageID] = st
		}
		if st.page == nil {
			continue
		}

		if access.CanViewPagePosts(actor, access.Target{
			OwnerID:    st.page.OwnerID,
			Private:    st.page.IsPrivate,
			Blocked:    st.blocked,
			IsFollower: st.page.IsFollower(actor.ID),
		}) {
			visible = append(visible, post)
		}
	}
	return visible, nil
}

// LikedPosts returns the actor's liked posts in creation order.
func (s *PostService) LikedPosts(ctx context.Context, actor access.Actor) ([]*domain.Post, error) {
	return s.posts.ListLikedBy(ctx, actor.ID)
}

func (s *PostService) postWithPage(ctx context.Context, postID string) (*domain.Post, *domain.Page, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	page, err := s.pages.FindByID(ctx, post.PageID)
	if err != nil {
		return nil, nil, err
	}
	return post, page, nil
}

func (s *PostService) authorizeMutation(ctx context.Context, actor access.Actor, action access.Action, page *domain.Page) error {
	// Post ownership is page-scoped: the owner of the parent page, not
	// the post's author, holds mutation rights.
	return access.Authorize(actor, action, access.Target{
		OwnerID:    page.OwnerID,
		Private:    page.IsPrivate,
		Blocked:    s.resolver.reconcile(ctx, page),
		IsFollower: page.IsFollower(actor.ID),
	}).Err()
}

func (s *PostService) emit(postID string, action domain.EventAction, pageID, actorID string) {
	s.sink.Enqueue(domain.Event{
		Entity:    domain.EntityPost,
		ID:        postID,
		Action:    action,
		PageID:    pageID,
		ActorID:   actorID,
		Timestamp: s.resolver.now(),
	})
}

var _ ports.PostService = (*PostService)(nil)
