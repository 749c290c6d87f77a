package conversation

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const subscriberBufferSize = 16

// Broadcaster fans snapshots out to subscribers. Snapshots are cumulative, so
// a slow subscriber loses intermediate ones but always receives the latest.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]chan Snapshot
	closed      bool
	done        chan struct{}
	logger      *log.Logger
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster(logger *log.Logger) *Broadcaster {
	if logger == nil {
		logger = log.Default()
	}
	return &Broadcaster{
		subscribers: make(map[string]chan Snapshot),
		done:        make(chan struct{}),
		logger:      logger.With("component", "broadcaster"),
	}
}

// Subscribe registers a subscriber and returns its channel and id. The
// subscription ends when ctx is cancelled, Unsubscribe is called or the
// broadcaster is closed; the channel is closed in every case.
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan Snapshot, string) {
	subID := uuid.New().String()
	ch := make(chan Snapshot, subscriberBufferSize)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, subID
	}
	b.subscribers[subID] = ch
	b.mu.Unlock()

	b.logger.Debug("subscriber added", "sub_id", subID)

	go func() {
		select {
		case <-ctx.Done():
			b.Unsubscribe(subID)
		case <-b.done:
		}
	}()

	return ch, subID
}

// Publish delivers s to every subscriber without blocking.
func (b *Broadcaster) Publish(s Snapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- s:
			continue
		default:
		}
		// Full: drop the oldest queued snapshot to make room for this one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
			b.logger.Debug("dropped snapshot for slow subscriber", "sub_id", id)
		}
	}
}

func (b *Broadcaster) Unsubscribe(subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subscribers[subID]
	if !ok {
		return
	}
	delete(b.subscribers, subID)
	close(ch)
	b.logger.Debug("subscriber removed", "sub_id", subID)
}

func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber channel and releases their watchers. Later
// subscriptions get a closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
	b.closed = true
	close(b.done)
}
