package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pagefeed/social-system/internal/core/access"
	"github.com/pagefeed/social-system/internal/core/domain"
	"github.com/pagefeed/social-system/internal/core/ports"
)

// Response messages kept stable for API consumers.
const (
	msgNowFollowing    = "Now you follow this page."
	msgPendingApproval = "Owner of the page will review your request."
	msgUnsubscribed    = "You're successfully unsubscribed."
	msgRequestAccepted = "Request has been accepted"
	msgAllAccepted     = "All requests have been accepted"
	msgRequestDeclined = "Request has been declined"
	msgAllDeclined     = "All requests have been declined"
)

// PageService implements the page & membership engine.
type PageService struct {
	pages    ports.PageRepository
	posts    ports.PostRepository
	users    ports.UserRepository
	tags     ports.TagRepository
	lock     ports.FollowLock
	sink     ports.EventSink
	resolver *blockResolver
	logger   zerolog.Logger
}

func NewPageService(
	pages ports.PageRepository,
	posts ports.PostRepository,
	users ports.UserRepository,
	tags ports.TagRepository,
	lock ports.FollowLock,
	sink ports.EventSink,
	logger zerolog.Logger,
) *PageService {
	return &PageService{
		pages:    pages,
		posts:    posts,
		users:    users,
		tags:     tags,
		lock:     lock,
		sink:     sink,
		resolver: newBlockResolver(pages, users, logger),
		logger:   logger,
	}
}

// CreatePage creates a page owned by the actor. Tags are resolved
// through the registry (get-or-create, case-sensitive) before the page
// is persisted. A blocked actor cannot create pages.
func (s *PageService) CreatePage(ctx context.Context, actor access.Actor, in ports.PageInput) (*domain.Page, error) {
	if actor.Blocked {
		return nil, access.Denied(access.ReasonActorBlocked)
	}

	tags, err := s.resolveTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	now := s.resolver.now()
	page := &domain.Page{
		UUID:        uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Tags:        tags,
		OwnerID:     actor.ID,
		IsPrivate:   in.IsPrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.pages.Create(ctx, page); err != nil {
		s.logger.Error().Err(err).Str("owner_id", actor.ID).Msg("failed to create page")
		return nil, err
	}

	s.logger.Info().Str("page_id", page.ID).Str("owner_id", actor.ID).Msg("page created")
	s.emit(domain.EntityPage, page.ID, domain.ActionCreated, page.ID, actor.ID)
	return page, nil
}

// UpdatePage applies editable attributes. Staff or the owner only;
// tags are re-resolved through the registry.
func (s *PageService) UpdatePage(ctx context.Context, actor access.Actor, pageID string, in ports.PageInput) (*domain.Page, error) {
	page, err := s.pages.FindByID(ctx, pageID)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(actor, access.ActionUpdate, s.target(ctx, actor, page)).Err(); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	page.Name = in.Name
	page.Description = in.Description
	page.Tags = tags
	page.IsPrivate = in.IsPrivate
	page.UpdatedAt = s.resolver.now()

	if err := s.pages.Update(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// DeletePage removes the page and cascades to its posts.
func (s *PageService) DeletePage(ctx context.Context, actor access.Actor, pageID string) error {
	page, err := s.pages.FindByID(ctx, pageID)
	if err != nil {
		return err
	}

	if err := access.Authorize(actor, access.ActionDelete, s.target(ctx, actor, page)).Err(); err != nil {
		return err
	}

	if err := s.posts.DeleteByPage(ctx, pageID); err != nil {
		return err
	}
	if err := s.pages.Delete(ctx, pageID); err != nil {
		return err
	}

	s.logger.Info().Str("page_id", pageID).Str("actor_id", actor.ID).Msg("page deleted")
	s.emit(domain.EntityPage, pageID, domain.ActionDeleted, pageID, actor.ID)
	return nil
}

// GetPage retrieves one page under the read rules: a blocked page is
// hidden from everyone except staff and its owner.
func (s *PageService) GetPage(ctx context.Context, actor access.Actor, pageID string) (*ports.PageView, error) {
	page, err := s.pages.FindByID(ctx, pageID)
	if err != nil {
		return nil, err
	}

	blocked := s.resolver.reconcile(ctx, page)
	d := access.Authorize(actor, access.ActionRead, access.Target{
		OwnerID:    page.OwnerID,
		Private:    page.IsPrivate,
		Blocked:    blocked,
		IsFollower: page.IsFollower(actor.ID),
	})
	if err := d.Err(); err != nil {
		return nil, err
	}

	return &ports.PageView{Page: page, IsBlocked: blocked}, nil
}

// ListPages returns the pages visible to the actor, applying the same
// read rules page by page against live state.
func (s *PageService) ListPages(ctx context.Context, actor access.Actor, filter ports.ListPagesFilter) ([]*ports.PageView, error) {
	pages, err := s.pages.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]*ports.PageView, 0, len(pages))
	for _, page := range pages {
		blocked := s.resolver.reconcile(ctx, page)
		d := access.Authorize(actor, access.ActionRead, access.Target{
			OwnerID:    page.OwnerID,
			Private:    page.IsPrivate,
			Blocked:    blocked,
			IsFollower: page.IsFollower(actor.ID),
		})
		if !d.Allowed {
			continue
		}
		views = append(views, &ports.PageView{Page: page, IsBlocked: blocked})
	}
	return views, nil
}

// FollowOrUnfollow toggles the actor's membership on the page:
//
//	follower     -> removed, unfollow event, Unsubscribed
//	non-follower -> private page: queued, no event, PendingApproval
//	             -> public page: added, follow event, NowFollowing
//
// Concurrent toggles by the same actor on the same page serialize on a
// per-(page,actor) lock so the read-modify-write cannot interleave.
func (s *PageService) FollowOrUnfollow(ctx context.Context, actor access.Actor, pageID string) (*ports.FollowResult, error) {
	release, err := s.lock.Acquire(ctx, pageID, actor.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	page, err := s.pages.FindByID(ctx, pageID)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(actor, access.ActionFollow, s.target(ctx, actor, page)).Err(); err != nil {
		return nil, err
	}
	if page.OwnerID == actor.ID {
		return nil, access.Denied(access.ReasonSelfAction)
	}

	switch {
	case page.IsFollower(actor.ID):
		if err := s.pages.RemoveFollower(ctx, pageID, actor.ID); err != nil {
			return nil, err
		}
		s.emit(domain.EntityPage, pageID, domain.ActionUnfollow, pageID, actor.ID)
		return &ports.FollowResult{Status: domain.Unsubscribed, Message: msgUnsubscribed}, nil

	case page.IsPrivate:
		// Idempotent: the request set is a set, a repeat enqueue is a no-op.
		// No event: a pending request is not a join yet.
		if err := s.pages.AddFollowRequest(ctx, pageID, actor.ID); err != nil {
			return nil, err
		}
		return &ports.FollowResult{Status: domain.PendingApproval, Message: msgPendingApproval}, nil

	default:
		if err := s.pages.AddFollower(ctx, pageID, actor.ID); err != nil {
			return nil, err
		}
		s.emit(domain.EntityPage, pageID, domain.ActionFollow, pageID, actor.ID)
		return &ports.FollowResult{Status: domain.NowFollowing, Message: msgNowFollowing}, nil
	}
}

// ListRequests returns the pending requesters of a page, owner only.
func (s *PageService) ListRequests(ctx context.Context, actor access.Actor, pageID string) ([]*domain.User, error) {
	page, err := s.pages.FindByID(ctx, pageID)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(actor, access.ActionManageRequests, s.target(ctx, actor, page)).Err(); err != nil {
		return nil, err
	}

	return s.users.FindByIDs(ctx, page.FollowRequests)
}

// AcceptRequests moves users from the request queue to the follower
// set. With a target user the request must exist and the user must not
// already follow; without one, every pending request is accepted in
// insertion order (an empty queue is a no-op success). Each accepted
// user emits its own follow event.
func (s *PageService) AcceptRequests(ctx context.Context, actor access.Actor, pageID, targetUserID string) (*ports.RequestsResult, error) {
	page, err := s.pages.FindByID(ctx, pageID)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(actor, access.ActionManageRequests, s.target(ctx, actor, page)).Err(); err != nil {
		return nil, err
	}

	if targetUserID != "" {
		if page.IsFollower(targetUserID) {
			return nil, domain.ErrAlreadyFollower
		}
		if !page.HasRequest(targetUserID) {
			return nil, domain.ErrNoPendingRequest
		}
		if err := s.pages.PromoteRequest(ctx, pageID, targetUserID); err != nil {
			return nil, err
		}
		s.emit(domain.EntityPage, pageID, domain.ActionFollow, pageID, targetUserID)
		return &ports.RequestsResult{Processed: 1, Message: msgRequestAccepted}, nil
	}

	accepted := 0
	for _, userID := range page.FollowRequests {
		if err := s.pages.PromoteRequest(ctx, pageID, userID); err != nil {
			// A concurrent decline may have emptied this entry; skip it.
			if errors.Is(err, domain.ErrNoPendingRequest) {
				continue
			}
			return nil, err
		}
		s.emit(domain.EntityPage, pageID, domain.ActionFollow, pageID, userID)
		accepted++
	}
	return &ports.RequestsResult{Processed: accepted, Message: msgAllAccepted}, nil
}

// DeclineRequests removes users from the request queue without touching
// the follower set and without emitting events.
func (s *PageService) DeclineRequests(ctx context.Context, actor access.Actor, pageID, targetUserID string) (*ports.RequestsResult, error) {
	page, err := s.pages.FindByID(ctx, pageID)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(actor, access.ActionManageRequests, s.target(ctx, actor, page)).Err(); err != nil {
		return nil, err
	}

	if targetUserID != "" {
		if page.IsFollower(targetUserID) {
			return nil, domain.ErrAlreadyFollower
		}
		if !page.HasRequest(targetUserID) {
			return nil, domain.ErrNoPendingRequest
		}
		if err := s.pages.RemoveFollowRequest(ctx, pageID, targetUserID); err != nil {
			return nil, err
		}
		return &ports.RequestsResult{Processed: 1, Message: msgRequestDeclined}, nil
	}

	declined := 0
	for _, userID := range page.FollowRequests {
		if err := s.pages.RemoveFollowRequest(ctx, pageID, userID); err != nil {
			return nil, err
		}
		declined++
	}
	return &ports.RequestsResult{Processed: declined, Message: msgAllDeclined}, nil
}

// BlockPage sets the moderation block state. Staff only. A provided
// unblock date must be strictly in the future; permanent with no date
// is an indefinite block, and clearing both lifts the block.
func (s *PageService) BlockPage(ctx context.Context, actor access.Actor, in ports.BlockPageInput) (*domain.Page, error) {
	page, err := s.pages.FindByID(ctx, in.PageID)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(actor, access.ActionBlockPage, s.target(ctx, actor, page)).Err(); err != nil {
		return nil, err
	}

	if in.UnblockDate != nil && !in.UnblockDate.After(s.resolver.now()) {
		return nil, domain.ErrIncorrectUnblockDate
	}

	if err := s.pages.SetBlock(ctx, in.PageID, in.Permanent, in.UnblockDate); err != nil {
		return nil, err
	}

	page.PermanentBlock = in.Permanent
	page.UnblockDate = in.UnblockDate
	s.logger.Info().
		Str("page_id", in.PageID).
		Str("actor_id", actor.ID).
		Bool("permanent", in.Permanent).
		Msg("page block state changed")
	return page, nil
}

// ListTags returns every registered tag.
func (s *PageService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.tags.List(ctx)
}

// resolveTags maps tag names to registry entries, creating missing ones.
func (s *PageService) resolveTags(ctx context.Context, names []string) ([]string, error) {
	resolved := make([]string, 0, len(names))
	for _, name := range names {
		tag, err := s.tags.GetOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, tag.Name)
	}
	return resolved, nil
}

// target builds the authorization snapshot for a page, reconciling its
// blocked state first.
func (s *PageService) target(ctx context.Context, actor access.Actor, page *domain.Page) access.Target {
	return access.Target{
		OwnerID:    page.OwnerID,
		Private:    page.IsPrivate,
		Blocked:    s.resolver.reconcile(ctx, page),
		IsFollower: page.IsFollower(actor.ID),
	}
}

func (s *PageService) emit(entity domain.EventEntity, id string, action domain.EventAction, pageID, actorID string) {
	s.sink.Enqueue(domain.Event{
		Entity:    entity,
		ID:        id,
		Action:    action,
		PageID:    pageID,
		ActorID:   actorID,
		Timestamp: s.resolver.now(),
	})
}

var _ ports.PageService = (*PageService)(nil)
