package domain

import "time"

// EventEntity identifies the kind of entity an event refers to.
type EventEntity string

const (
	EntityPage EventEntity = "page"
	EntityPost EventEntity = "post"
)

// EventAction is the state transition an event reports.
type EventAction string

const (
	ActionCreated  EventAction = "created"
	ActionDeleted  EventAction = "deleted"
	ActionFollow   EventAction = "follow"
	ActionUnfollow EventAction = "unfollow"
	ActionLike     EventAction = "like"
	ActionUnlike   EventAction = "unlike"
)

// Event is the fire-and-forget payload emitted after a state transition
// commits. It is consumed by an external stats aggregator and, for
// post/created, by the follower email notifier. Delivery is best-effort
// and never affects the originating operation.
type Event struct {
	Entity    EventEntity `json:"entity"`
	ID        string      `json:"id"`
	Action    EventAction `json:"action"`
	PageID    string      `json:"page_id,omitempty"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
