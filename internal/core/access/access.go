// Package access is the single authorization gate for every mutating or
// listing operation. It evaluates a small ordered list of predicates
// over entity snapshots (first match wins) and always yields a specific
// denial reason, never a bare boolean.
package access

import "github.com/pagefeed/social-system/internal/core/domain"

// Action names an operation class being authorized.
type Action string

const (
	ActionRead           Action = "read"
	ActionUpdate         Action = "update"
	ActionDelete         Action = "delete"
	ActionBlockPage      Action = "block_page"
	ActionBlockUser      Action = "block_user"
	ActionFollow         Action = "follow"
	ActionLike           Action = "like"
	ActionManageRequests Action = "manage_requests"
)

// Reason explains why a request was denied.
type Reason string

const (
	ReasonNotOwner         Reason = "not_owner"
	ReasonInsufficientRole Reason = "insufficient_role"
	ReasonActorBlocked     Reason = "actor_blocked"
	ReasonTargetBlocked    Reason = "target_blocked"
	ReasonSelfAction       Reason = "self_action"
	ReasonUnknownAction    Reason = "unknown_action"
)

// Actor is the authenticated identity attached to a request.
type Actor struct {
	ID      string
	Role    domain.Role
	Blocked bool
}

// Target is a snapshot of the page governing the entity under access.
// For posts, OwnerID is the owner of the parent page: post authorship is
// page-scoped, not user-scoped. Blocked must be the reconciled state.
type Target struct {
	OwnerID    string
	Private    bool
	Blocked    bool
	IsFollower bool
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r Reason) Decision { return Decision{Allowed: false, Reason: r} }

// predicate inspects one aspect of the request. decided=false defers to
// the next predicate in the chain.
type predicate func(actor Actor, action Action, target Target) (decided bool, d Decision)

// chain is evaluated in order; the final entry always decides, so an
// unrecognized action denies by default (fail closed).
var chain = []predicate{
	safeMethodCheck,
	blockedActorCheck,
	roleCheck,
	ownershipCheck,
	memberActionCheck,
	denyUnknown,
}

// Authorize maps (actor, action, target) to an allow/deny decision.
// It is stateless given the snapshots it receives.
func Authorize(actor Actor, action Action, target Target) Decision {
	for _, p := range chain {
		if decided, d := p(actor, action, target); decided {
			return d
		}
	}
	return deny(ReasonUnknownAction)
}

// safeMethodCheck settles reads: everyone may read, except that a
// blocked page is hidden from readers who are neither staff, nor its
// owner, nor a follower of a private page.
func safeMethodCheck(actor Actor, action Action, target Target) (bool, Decision) {
	if action != ActionRead {
		return false, Decision{}
	}
	if !target.Blocked || actor.Role.Staff() || actor.ID == target.OwnerID {
		return true, allow()
	}
	if target.Private && target.IsFollower {
		return true, allow()
	}
	return true, deny(ReasonTargetBlocked)
}

// blockedActorCheck denies every mutating action from a blocked actor,
// regardless of role.
func blockedActorCheck(actor Actor, _ Action, _ Target) (bool, Decision) {
	if actor.Blocked {
		return true, deny(ReasonActorBlocked)
	}
	return false, Decision{}
}

// roleCheck settles staff-only actions and grants staff a blanket pass
// on entity mutation.
func roleCheck(actor Actor, action Action, _ Target) (bool, Decision) {
	switch action {
	case ActionBlockPage, ActionBlockUser:
		if actor.Role.Staff() {
			return true, allow()
		}
		return true, deny(ReasonInsufficientRole)
	case ActionUpdate, ActionDelete:
		if actor.Role.Staff() {
			return true, allow()
		}
	}
	return false, Decision{}
}

// ownershipCheck settles update/delete for non-staff: owner only.
func ownershipCheck(actor Actor, action Action, target Target) (bool, Decision) {
	if action != ActionUpdate && action != ActionDelete {
		return false, Decision{}
	}
	if actor.ID == target.OwnerID {
		return true, allow()
	}
	return true, deny(ReasonNotOwner)
}

// memberActionCheck settles follow/like/request management. The actor is
// already known to be authenticated and not blocked; accept/decline is
// additionally restricted to the page owner.
func memberActionCheck(actor Actor, action Action, target Target) (bool, Decision) {
	switch action {
	case ActionFollow, ActionLike:
		return true, allow()
	case ActionManageRequests:
		if actor.ID == target.OwnerID {
			return true, allow()
		}
		return true, deny(ReasonNotOwner)
	}
	return false, Decision{}
}

func denyUnknown(Actor, Action, Target) (bool, Decision) {
	return true, deny(ReasonUnknownAction)
}

// CanViewPagePosts is the post-listing predicate, stricter than plain
// reads: staff see everything, a page's owner keeps seeing their own
// page even while it is blocked, everyone else needs the page to be
// unblocked and either public or followed.
func CanViewPagePosts(actor Actor, target Target) bool {
	if actor.Role.Staff() || actor.ID == target.OwnerID {
		return true
	}
	if target.Blocked {
		return false
	}
	return !target.Private || target.IsFollower
}
