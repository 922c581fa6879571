package credential

import (
	"context"
	"errors"
	"sync"

	"eventshell/internal/identity"
)

type subscriber struct {
	id       uint64
	onChange func(identity.Identity)
}

// Broadcaster is an in-process Source. It fans each emission out to every
// subscriber in subscription order and replays the latest emission to new
// subscribers, so a subscriber never misses the current state.
//
// Callbacks must not call Emit re-entrantly.
type Broadcaster struct {
	deliverMu sync.Mutex

	mu          sync.Mutex
	latest      identity.Identity
	hasLatest   bool
	subscribers []subscriber
	nextID      uint64
}

// NewBroadcaster returns a Broadcaster with no emission yet.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers onChange and replays the latest emission, if any.
func (b *Broadcaster) Subscribe(_ context.Context, onChange func(identity.Identity)) (Unsubscribe, error) {
	if onChange == nil {
		return nil, errors.New("onChange callback is required")
	}

	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()

	b.mu.Lock()
	b.nextID++
	subID := b.nextID
	b.subscribers = append(b.subscribers, subscriber{id: subID, onChange: onChange})
	latest, hasLatest := b.latest, b.hasLatest
	b.mu.Unlock()

	if hasLatest {
		onChange(latest)
	}

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(subID) })
	}, nil
}

// Emit records id as the latest identity and delivers it to every subscriber.
func (b *Broadcaster) Emit(id identity.Identity) {
	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()

	b.mu.Lock()
	b.latest = id
	b.hasLatest = true
	targets := make([]subscriber, len(b.subscribers))
	copy(targets, b.subscribers)
	b.mu.Unlock()

	for _, sub := range targets {
		if !b.active(sub.id) {
			continue
		}
		sub.onChange(id)
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

func (b *Broadcaster) active(subID uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subscribers {
		if sub.id == subID {
			return true
		}
	}
	return false
}

func (b *Broadcaster) remove(subID uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.subscribers[:0]
	for _, sub := range b.subscribers {
		if sub.id != subID {
			kept = append(kept, sub)
		}
	}
	b.subscribers = kept
}
