package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pagefeed/social-system/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.Event
	done   chan struct{}
	want   int
}

func newRecordingService(want int) *recordingService {
	return &recordingService{done: make(chan struct{}), want: want}
}

func (s *recordingService) Process(_ context.Context, e domain.Event) error {
	s.mu.Lock()
	s.events = append(s.events, e)
	n := len(s.events)
	s.mu.Unlock()
	if n == s.want {
		close(s.done)
	}
	return nil
}

func (s *recordingService) wait(t *testing.T) {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for events to be processed")
	}
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	svc := newRecordingService(3)
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 3; i++ {
		d.Enqueue(domain.Event{Entity: domain.EntityPage, ID: "p1", Action: domain.ActionFollow, PageID: "page_1"})
	}
	svc.wait(t)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.events) != 3 {
		t.Fatalf("expected 3 processed events, got %d", len(svc.events))
	}
}

func TestDispatcher_SamePageSameWorker(t *testing.T) {
	d := NewDispatcher(8, newRecordingService(0), zerolog.Nop())

	e := domain.Event{PageID: "page_42"}
	first := d.shardIndex(e)
	for i := 0; i < 50; i++ {
		if got := d.shardIndex(e); got != first {
			t.Fatalf("shard index must be deterministic: got %d, want %d", got, first)
		}
	}
}

func TestDispatcher_FallsBackToEntityID(t *testing.T) {
	d := NewDispatcher(8, newRecordingService(0), zerolog.Nop())

	a := d.shardIndex(domain.Event{ID: "user_7"})
	b := d.shardIndex(domain.Event{ID: "user_7"})
	if a != b {
		t.Fatalf("events without a page id must still shard deterministically: %d vs %d", a, b)
	}
}

func TestDispatcher_PerPageOrdering(t *testing.T) {
	svc := newRecordingService(4)
	d := NewDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	actions := []domain.EventAction{domain.ActionCreated, domain.ActionFollow, domain.ActionUnfollow, domain.ActionDeleted}
	for _, a := range actions {
		d.Enqueue(domain.Event{Entity: domain.EntityPage, ID: "p1", Action: a, PageID: "page_1"})
	}
	svc.wait(t)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	for i, a := range actions {
		if svc.events[i].Action != a {
			t.Fatalf("per-page ordering violated at %d: got %q, want %q", i, svc.events[i].Action, a)
		}
	}
}
