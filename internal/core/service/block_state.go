package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pagefeed/social-system/internal/core/domain"
	"github.com/pagefeed/social-system/internal/core/ports"
)

// blockResolver computes a page's current blocked state and persists
// the lazy expiry of a stale unblock date. Every authorization path
// resolves the blocked state through here, so the derived state is
// reconciled at a single defined point instead of inside a getter.
type blockResolver struct {
	pages ports.PageRepository
	users ports.UserRepository
	now   func() time.Time
	log   zerolog.Logger
}

func newBlockResolver(pages ports.PageRepository, users ports.UserRepository, log zerolog.Logger) *blockResolver {
	return &blockResolver{
		pages: pages,
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
}

// reconcile returns whether the page is blocked right now. A temporary
// block whose date has passed is cleared in storage, unless the owner
// is blocked, which pins the page blocked.
func (r *blockResolver) reconcile(ctx context.Context, page *domain.Page) bool {
	ownerBlocked := false
	owner, err := r.users.FindByID(ctx, page.OwnerID)
	if err != nil {
		r.log.Warn().Err(err).Str("page_id", page.ID).Str("owner_id", page.OwnerID).Msg("owner lookup failed during block reconciliation")
	} else {
		ownerBlocked = owner.IsBlocked
	}

	blocked, mutated := page.ReconcileBlock(ownerBlocked, r.now())
	if mutated {
		if err := r.pages.ClearUnblockDate(ctx, page.ID); err != nil {
			r.log.Warn().Err(err).Str("page_id", page.ID).Msg("failed to clear stale unblock date")
		}
	}
	return blocked
}
