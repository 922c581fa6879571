package scope

import (
	"sync"

	"eventshell/internal/authstate"
)

// StateSource is the part of the authentication state controller a Binding reads.
type StateSource interface {
	Snapshot() authstate.Snapshot
	Watch(fn func(authstate.Snapshot)) (cancel func())
}

type listener struct {
	id uint64
	fn func(Context)
}

// Binding keeps a Context in step with the controller and the event selector.
// Current always derives from the latest inputs, and listeners are notified
// synchronously inside the change that caused them.
type Binding struct {
	states StateSource

	// notifyMu orders listener notification across identity and selector changes.
	notifyMu sync.Mutex

	mu        sync.Mutex
	eventID   string
	listeners []listener
	nextID    uint64
	stopWatch func()
}

// NewBinding binds to states with an initial event selector (empty for none).
func NewBinding(states StateSource, eventID string) *Binding {
	b := &Binding{
		states:  states,
		eventID: eventID,
	}
	b.stopWatch = states.Watch(func(authstate.Snapshot) {
		b.publish()
	})
	return b
}

// Current derives the Context from the latest identity and event selector.
func (b *Binding) Current() Context {
	return Derive(b.states.Snapshot().Identity, b.EventID())
}

// EventID returns the current event selector.
func (b *Binding) EventID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.eventID
}

// SetEventID changes the event selector and notifies listeners when it differs.
// The id is kept as given.
func (b *Binding) SetEventID(eventID string) {
	b.mu.Lock()
	if b.eventID == eventID {
		b.mu.Unlock()
		return
	}
	b.eventID = eventID
	b.mu.Unlock()

	b.publish()
}

// Watch calls fn with the current Context and with every recomputed one.
// fn must not call SetEventID or Watch.
func (b *Binding) Watch(fn func(Context)) (cancel func()) {
	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()

	b.mu.Lock()
	b.nextID++
	listenerID := b.nextID
	b.listeners = append(b.listeners, listener{id: listenerID, fn: fn})
	b.mu.Unlock()

	fn(b.Current())

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(listenerID) })
	}
}

// Close detaches the binding from the controller.
func (b *Binding) Close() {
	b.mu.Lock()
	stop := b.stopWatch
	b.stopWatch = nil
	b.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// publish derives under notifyMu so the last notification always reflects the
// latest inputs.
func (b *Binding) publish() {
	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()

	next := b.Current()
	b.mu.Lock()
	targets := make([]listener, len(b.listeners))
	copy(targets, b.listeners)
	b.mu.Unlock()

	for _, l := range targets {
		l.fn(next)
	}
}

func (b *Binding) remove(listenerID uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.listeners[:0]
	for _, l := range b.listeners {
		if l.id != listenerID {
			kept = append(kept, l)
		}
	}
	b.listeners = kept
}
