package notify

import (
	"fmt"
	"sync"

	"github.com/muurk/lddc/internal/logging"
)

// Callback is invoked with the changed key and its new value.
// A returned error is logged and reported, never propagated to the writer.
type Callback[V any] func(key string, value V) error

// FailureHook observes subscriber failures (returned errors and recovered panics).
type FailureHook func(group, key string, err error)

// Subscription represents an active subscriber registration.
type Subscription struct {
	id    uint64
	group string
	unsub func(group string, id uint64)
	once  sync.Once
}

// Group returns the group this subscription listens on.
func (s *Subscription) Group() string {
	return s.group
}

// Unsubscribe removes this subscription. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.unsub == nil {
		return
	}
	s.once.Do(func() {
		s.unsub(s.group, s.id)
	})
}

type entry[V any] struct {
	id uint64
	cb Callback[V]
}

// Notifier is a registry of callbacks keyed by change group.
type Notifier[V any] struct {
	mu     sync.RWMutex
	groups map[string][]entry[V]
	nextID uint64
	onFail FailureHook
}

// Option configures a Notifier.
type Option func(*options)

type options struct {
	onFail FailureHook
}

// WithFailureHook registers a hook called after every failed callback.
func WithFailureHook(hook FailureHook) Option {
	return func(o *options) {
		o.onFail = hook
	}
}

// New creates an empty Notifier.
func New[V any](opts ...Option) *Notifier[V] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Notifier[V]{
		groups: make(map[string][]entry[V]),
		onFail: o.onFail,
	}
}

// Subscribe registers cb for every change in group. Subscribers of the same
// group run in registration order.
func (n *Notifier[V]) Subscribe(group string, cb Callback[V]) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.groups[group] = append(n.groups[group], entry[V]{id: id, cb: cb})

	return &Subscription{id: id, group: group, unsub: n.unsubscribe}
}

// Notify invokes every subscriber of group synchronously on the calling
// goroutine. Failures are isolated per subscriber.
func (n *Notifier[V]) Notify(group, key string, value V) {
	n.mu.RLock()
	subs := make([]entry[V], len(n.groups[group]))
	copy(subs, n.groups[group])
	hook := n.onFail
	n.mu.RUnlock()

	// Callbacks run outside the lock so they may subscribe or unsubscribe.
	for _, sub := range subs {
		if err := invoke(sub.cb, key, value); err != nil {
			logging.LogCallbackFailure(group, key, err)
			if hook != nil {
				hook(group, key, err)
			}
		}
	}
}

// Count returns the number of subscribers registered for group.
func (n *Notifier[V]) Count(group string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.groups[group])
}

func (n *Notifier[V]) unsubscribe(group string, id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	subs := n.groups[group]
	for i, sub := range subs {
		if sub.id == id {
			n.groups[group] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(n.groups[group]) == 0 {
		delete(n.groups, group)
	}
}

func invoke[V any](cb Callback[V], key string, value V) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panicked: %v", r)
		}
	}()
	return cb(key, value)
}
