package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pagefeed/social-system/internal/core/domain"
	"github.com/pagefeed/social-system/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub page repository
// ---------------------------------------------------------------------------

type stubPageRepo struct {
	pages   map[string]*domain.Page
	order   []string
	nextID  int
	failErr error // if set, every call returns this error
}

func newStubPageRepo() *stubPageRepo {
	return &stubPageRepo{pages: make(map[string]*domain.Page)}
}

func (r *stubPageRepo) Create(_ context.Context, p *domain.Page) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.nextID++
	p.ID = fmt.Sprintf("page_%d", r.nextID)
	if p.Followers == nil {
		p.Followers = []string{}
	}
	if p.FollowRequests == nil {
		p.FollowRequests = []string{}
	}
	clone := *p
	r.pages[p.ID] = &clone
	r.order = append(r.order, p.ID)
	return nil
}

func (r *stubPageRepo) FindByID(_ context.Context, id string) (*domain.Page, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	p, ok := r.pages[id]
	if !ok {
		return nil, domain.ErrPageNotFound
	}
	clone := *p
	clone.Followers = append([]string(nil), p.Followers...)
	clone.FollowRequests = append([]string(nil), p.FollowRequests...)
	return &clone, nil
}

func (r *stubPageRepo) List(_ context.Context, f ports.ListPagesFilter) ([]*domain.Page, error) {
	var out []*domain.Page
	for _, id := range r.order {
		p := r.pages[id]
		if f.OwnerID != "" && p.OwnerID != f.OwnerID {
			continue
		}
		if f.Tag != "" && !containsStr(p.Tags, f.Tag) {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubPageRepo) Update(_ context.Context, p *domain.Page) error {
	if _, ok := r.pages[p.ID]; !ok {
		return domain.ErrPageNotFound
	}
	clone := *p
	r.pages[p.ID] = &clone
	return nil
}

func (r *stubPageRepo) Delete(_ context.Context, id string) error {
	delete(r.pages, id)
	return nil
}

func (r *stubPageRepo) IsFollower(_ context.Context, pageID, userID string) (bool, error) {
	p, ok := r.pages[pageID]
	if !ok {
		return false, domain.ErrPageNotFound
	}
	return containsStr(p.Followers, userID), nil
}

func (r *stubPageRepo) AddFollower(_ context.Context, pageID, userID string) error {
	p, ok := r.pages[pageID]
	if !ok {
		return domain.ErrPageNotFound
	}
	if !containsStr(p.Followers, userID) {
		p.Followers = append(p.Followers, userID)
	}
	p.FollowRequests = removeStr(p.FollowRequests, userID)
	return nil
}

func (r *stubPageRepo) RemoveFollower(_ context.Context, pageID, userID string) error {
	p, ok := r.pages[pageID]
	if !ok {
		return domain.ErrPageNotFound
	}
	p.Followers = removeStr(p.Followers, userID)
	return nil
}

func (r *stubPageRepo) AddFollowRequest(_ context.Context, pageID, userID string) error {
	p, ok := r.pages[pageID]
	if !ok {
		return domain.ErrPageNotFound
	}
	// Mirrors the real query: a current follower is never queued.
	if containsStr(p.Followers, userID) {
		return nil
	}
	if !containsStr(p.FollowRequests, userID) {
		p.FollowRequests = append(p.FollowRequests, userID)
	}
	return nil
}

func (r *stubPageRepo) RemoveFollowRequest(_ context.Context, pageID, userID string) error {
	p, ok := r.pages[pageID]
	if !ok {
		return domain.ErrPageNotFound
	}
	p.FollowRequests = removeStr(p.FollowRequests, userID)
	return nil
}

func (r *stubPageRepo) PromoteRequest(_ context.Context, pageID, userID string) error {
	p, ok := r.pages[pageID]
	if !ok {
		return domain.ErrPageNotFound
	}
	if !containsStr(p.FollowRequests, userID) {
		return domain.ErrNoPendingRequest
	}
	p.FollowRequests = removeStr(p.FollowRequests, userID)
	if !containsStr(p.Followers, userID) {
		p.Followers = append(p.Followers, userID)
	}
	return nil
}

func (r *stubPageRepo) ListFollowedBy(_ context.Context, userID string) ([]*domain.Page, error) {
	var out []*domain.Page
	for _, id := range r.order {
		p, ok := r.pages[id]
		if !ok {
			continue
		}
		if containsStr(p.Followers, userID) {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubPageRepo) SetBlock(_ context.Context, pageID string, permanent bool, unblockDate *time.Time) error {
	p, ok := r.pages[pageID]
	if !ok {
		return domain.ErrPageNotFound
	}
	p.PermanentBlock = permanent
	p.UnblockDate = unblockDate
	return nil
}

func (r *stubPageRepo) ClearUnblockDate(_ context.Context, pageID string) error {
	p, ok := r.pages[pageID]
	if !ok {
		return domain.ErrPageNotFound
	}
	p.UnblockDate = nil
	return nil
}

func (r *stubPageRepo) ListExpiredTempBlocks(_ context.Context, now time.Time) ([]*domain.Page, error) {
	var out []*domain.Page
	for _, id := range r.order {
		p, ok := r.pages[id]
		if !ok {
			continue
		}
		if !p.PermanentBlock && p.UnblockDate != nil && !p.UnblockDate.After(now) {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// In-memory stub post repository
// ---------------------------------------------------------------------------

type stubPostRepo struct {
	posts  map[string]*domain.Post
	order  []string
	nextID int
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	r.nextID++
	p.ID = fmt.Sprintf("post_%02d", r.nextID)
	if p.Likes == nil {
		p.Likes = []string{}
	}
	clone := *p
	r.posts[p.ID] = &clone
	r.order = append(r.order, p.ID)
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *p
	clone.Likes = append([]string(nil), p.Likes...)
	return &clone, nil
}

func (r *stubPostRepo) Update(_ context.Context, p *domain.Post) error {
	if _, ok := r.posts[p.ID]; !ok {
		return domain.ErrPostNotFound
	}
	clone := *p
	r.posts[p.ID] = &clone
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	delete(r.posts, id)
	return nil
}

func (r *stubPostRepo) DeleteByPage(_ context.Context, pageID string) error {
	for id, p := range r.posts {
		if p.PageID == pageID {
			delete(r.posts, id)
		}
	}
	return nil
}

func (r *stubPostRepo) ClearReplyTo(_ context.Context, postID string) error {
	for _, p := range r.posts {
		if p.ReplyTo != nil && *p.ReplyTo == postID {
			p.ReplyTo = nil
		}
	}
	return nil
}

func (r *stubPostRepo) AddLike(_ context.Context, postID, userID string) error {
	p, ok := r.posts[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	if !containsStr(p.Likes, userID) {
		p.Likes = append(p.Likes, userID)
	}
	return nil
}

func (r *stubPostRepo) RemoveLike(_ context.Context, postID, userID string) error {
	p, ok := r.posts[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.Likes = removeStr(p.Likes, userID)
	return nil
}

func (r *stubPostRepo) ListAll(_ context.Context) ([]*domain.Post, error) {
	var out []*domain.Post
	for _, id := range r.order {
		if p, ok := r.posts[id]; ok {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ListByPages sorts newest first with the post id as tie-breaker, the
// same ordering the real Mongo query produces.
func (r *stubPostRepo) ListByPages(_ context.Context, pageIDs []string) ([]*domain.Post, error) {
	var out []*domain.Post
	for _, id := range r.order {
		p, ok := r.posts[id]
		if !ok {
			continue
		}
		if containsStr(pageIDs, p.PageID) {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *stubPostRepo) ListLikedBy(_ context.Context, userID string) ([]*domain.Post, error) {
	var out []*domain.Post
	for _, id := range r.order {
		p, ok := r.posts[id]
		if !ok {
			continue
		}
		if containsStr(p.Likes, userID) {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// In-memory stub user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) seed(id string, role domain.Role, blocked bool) *domain.User {
	u := &domain.User{ID: id, Username: id, Email: id + "@example.com", Role: role, IsBlocked: blocked}
	r.users[id] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	user.ID = fmt.Sprintf("user_%d", r.nextID)
	clone := *user
	r.users[user.ID] = &clone
	return user, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) SetBlocked(_ context.Context, id string, blocked bool) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsBlocked = blocked
	return nil
}

// ---------------------------------------------------------------------------
// Stub tag registry, follow lock, event sink
// ---------------------------------------------------------------------------

type stubTagRepo struct {
	tags map[string]*domain.Tag
}

func newStubTagRepo() *stubTagRepo {
	return &stubTagRepo{tags: make(map[string]*domain.Tag)}
}

func (r *stubTagRepo) GetOrCreate(_ context.Context, name string) (*domain.Tag, error) {
	if t, ok := r.tags[name]; ok {
		return t, nil
	}
	t := &domain.Tag{ID: "tag_" + name, Name: name}
	r.tags[name] = t
	return t, nil
}

func (r *stubTagRepo) List(_ context.Context) ([]*domain.Tag, error) {
	out := make([]*domain.Tag, 0, len(r.tags))
	for _, t := range r.tags {
		out = append(out, t)
	}
	return out, nil
}

type stubLock struct {
	mu       sync.Mutex
	acquired int
}

func (l *stubLock) Acquire(_ context.Context, _, _ string) (func(), error) {
	l.mu.Lock()
	l.acquired++
	l.mu.Unlock()
	return func() {}, nil
}

// recordingSink captures emitted events in order.
type recordingSink struct {
	events []domain.Event
}

func (s *recordingSink) Enqueue(e domain.Event) {
	s.events = append(s.events, e)
}

func (s *recordingSink) byAction(action domain.EventAction) []domain.Event {
	var out []domain.Event
	for _, e := range s.events {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeStr(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
