package docstore

import (
	"context"
	"log/slog"
	"sync"
)

// Hub fans collection change notifications out to live subscriptions. Each
// subscription owns a delivery goroutine so snapshots for one subscriber are
// delivered strictly in commit order; bursts of mutations may coalesce into
// a single re-evaluation, which still yields the latest snapshot.
type Hub struct {
	store  *Store
	logger *slog.Logger

	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]*subscriber
	closed bool
}

type subscriber struct {
	wake chan struct{}
	done chan struct{}
}

// Subscription is the cancellation handle for one live query. Consumers must
// call Unsubscribe when the view backing the query is torn down.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe releases the callback. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

func newHub(store *Store, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		store:  store,
		logger: logger,
		subs:   make(map[string]map[int]*subscriber),
	}
}

// subscribe registers deliver as a live query over collection. The snapshot
// function is run once immediately; registration fails if that first
// evaluation fails, so callers never hold a subscription that never fired.
func (h *Hub) subscribe(ctx context.Context, collection string, deliver func(context.Context) error) (*Subscription, error) {
	if err := deliver(ctx); err != nil {
		return nil, err
	}

	sub := &subscriber{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.done)
		return &Subscription{cancel: func() {}}, nil
	}
	h.nextID++
	id := h.nextID
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[int]*subscriber)
	}
	h.subs[collection][id] = sub
	h.mu.Unlock()

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case <-sub.wake:
				// Snapshot errors are logged and the subscription kept
				// alive; the next mutation triggers a fresh attempt.
				if err := deliver(context.Background()); err != nil {
					h.logger.Warn("live query snapshot failed",
						"collection", collection, "error", err)
				}
			}
		}
	}()

	return &Subscription{cancel: func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if subs, ok := h.subs[collection]; ok {
			if _, live := subs[id]; live {
				delete(subs, id)
				close(sub.done)
			}
		}
	}}, nil
}

// notify wakes every subscription registered on the collection.
func (h *Hub) notify(collection string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs[collection] {
		select {
		case sub.wake <- struct{}{}:
		default:
		}
	}
}

// close stops all delivery goroutines. Held Subscription handles remain safe
// to cancel afterwards.
func (h *Hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, subs := range h.subs {
		for id, sub := range subs {
			close(sub.done)
			delete(subs, id)
		}
	}
}
