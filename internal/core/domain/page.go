package domain

import (
	"errors"
	"time"
)

var ErrPageNotFound = errors.New("page not found")
var ErrIncorrectUnblockDate = errors.New("incorrect unblock date")
var ErrAlreadyFollower = errors.New("user already follows you")
var ErrNoPendingRequest = errors.New("no pending follow request")

// FollowStatus is the outcome of a follow/unfollow toggle.
type FollowStatus string

const (
	// NowFollowing: the actor was added to the follower set.
	NowFollowing FollowStatus = "now_following"
	// PendingApproval: the page is private; the actor was queued for review.
	PendingApproval FollowStatus = "pending_approval"
	// Unsubscribed: the actor was removed from the follower set.
	Unsubscribed FollowStatus = "unsubscribed"
)

// Page is an owned content channel with visibility and moderation state.
//
// Followers and FollowRequests are disjoint sets of user IDs: a user is
// never in both at once, and the owner is never in either.
type Page struct {
	ID             string     `json:"id" bson:"_id,omitempty"`
	UUID           string     `json:"uuid" bson:"uuid"`
	Name           string     `json:"name" bson:"name"`
	Description    string     `json:"description" bson:"description"`
	Tags           []string   `json:"tags" bson:"tags"`
	OwnerID        string     `json:"owner_id" bson:"owner_id"`
	Followers      []string   `json:"followers" bson:"followers"`
	FollowRequests []string   `json:"follow_requests" bson:"follow_requests"`
	IsPrivate      bool       `json:"is_private" bson:"is_private"`
	PermanentBlock bool       `json:"permanent_block" bson:"permanent_block"`
	UnblockDate    *time.Time `json:"unblock_date,omitempty" bson:"unblock_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}

// ReconcileBlock evaluates the derived blocked state at the given instant.
//
// A page is blocked while PermanentBlock is set, or while a temporary
// UnblockDate is pending and either still in the future or pinned by a
// blocked owner. A stale UnblockDate (passed, owner not blocked) is
// cleared on the in-memory page; mutated tells the caller to persist
// that change. ReconcileBlock never writes to storage itself.
func (p *Page) ReconcileBlock(ownerBlocked bool, now time.Time) (blocked, mutated bool) {
	if p.PermanentBlock {
		return true, false
	}
	if p.UnblockDate != nil {
		if ownerBlocked || p.UnblockDate.After(now) {
			return true, false
		}
		p.UnblockDate = nil
		return false, true
	}
	return false, false
}

// IsFollower reports whether the user ID is in the follower set.
func (p *Page) IsFollower(userID string) bool {
	return containsID(p.Followers, userID)
}

// HasRequest reports whether the user ID is in the follow-request queue.
func (p *Page) HasRequest(userID string) bool {
	return containsID(p.FollowRequests, userID)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Tag is a name-unique label shared by pages. Tags are created on first
// use and never deleted.
type Tag struct {
	ID   string `json:"id" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
}
