package domain

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")
var ErrInvalidTarget = errors.New("invalid page (perhaps page is blocked or it's not your page)")

const (
	MaxSubjectLength = 200
	MaxContentLength = 180
)

// Post is a content item scoped to exactly one page.
//
// ReplyTo must reference an existing post at creation time but tolerates
// later deletion of that post: the reference is set to nil, the reply
// itself survives.
type Post struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	PageID    string    `json:"page_id" bson:"page_id"`
	Subject   string    `json:"subject" bson:"subject"`
	Content   string    `json:"content" bson:"content"`
	ReplyTo   *string   `json:"reply_to,omitempty" bson:"reply_to,omitempty"`
	Likes     []string  `json:"likes" bson:"likes"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// IsLikedBy reports whether the user ID is in the like set.
func (p *Post) IsLikedBy(userID string) bool {
	return containsID(p.Likes, userID)
}
