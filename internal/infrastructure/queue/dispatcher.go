package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pagefeed/social-system/internal/api/metrics"
	"github.com/pagefeed/social-system/internal/core/domain"
	"github.com/pagefeed/social-system/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes engine events to a fixed set of workers using
// consistent hashing on the page id, guaranteeing per-page delivery
// ordering (follow before unfollow, create before delete). Processing
// failures are logged and dropped: dispatch is fire-and-forget and
// never reaches back into the operation that emitted the event.
type Dispatcher struct {
	workers []chan domain.Event
	service ports.NotificationService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Event, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Event, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its page.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event domain.Event) {
	i := d.shardIndex(event)
	d.workers[i] <- event
	metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps an event deterministically to a worker index. Events
// of the same page land on the same worker.
func (d *Dispatcher) shardIndex(event domain.Event) int {
	key := event.PageID
	if key == "" {
		key = event.ID
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.service.Process(ctx, event); err != nil {
				metrics.EventsErrorsTotal.WithLabelValues(string(event.Action)).Inc()
				d.log.Error().Err(err).
					Str("entity", string(event.Entity)).
					Str("action", string(event.Action)).
					Str("id", event.ID).
					Int("worker_id", id).
					Msg("event processing failed")
				continue
			}
			metrics.EventsDispatchedTotal.WithLabelValues(string(event.Entity), string(event.Action)).Inc()
		}
	}
}

var _ ports.EventSink = (*Dispatcher)(nil)
