package stream

import (
	"sync"

	"github.com/google/uuid"
)

// Subject is a replay-latest publish/subscribe primitive. A new subscriber
// immediately receives the most recently published value (if any) and then
// every later publication. Publications are serialized, so every subscriber
// observes values in publish order.
type Subject[T any] struct {
	pubMu sync.Mutex

	mu      sync.Mutex
	current T
	hasVal  bool
	subs    map[string]*Subscription[T]
}

func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{
		subs: make(map[string]*Subscription[T]),
	}
}

// Subscription is the handle returned by Subscribe. Cancel is idempotent and
// synchronous-effective: once Cancel returns, the handler will not be invoked
// again, even for a delivery that was in flight.
type Subscription[T any] struct {
	id      string
	subject *Subject[T]
	handler func(T)

	mu        sync.Mutex
	cancelled bool
}

func (s *Subject[T]) Subscribe(handler func(T)) *Subscription[T] {
	sub := &Subscription[T]{
		id:      uuid.NewString(),
		subject: s,
		handler: handler,
	}

	s.mu.Lock()
	s.subs[sub.id] = sub
	replay, hasVal := s.current, s.hasVal
	s.mu.Unlock()

	if hasVal {
		sub.deliver(replay)
	}

	return sub
}

func (s *Subject[T]) Publish(value T) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	s.current = value
	s.hasVal = true
	active := make([]*Subscription[T], 0, len(s.subs))
	for _, sub := range s.subs {
		active = append(active, sub)
	}
	s.mu.Unlock()

	for _, sub := range active {
		sub.deliver(value)
	}
}

// Value returns the latest published value, if one exists.
func (s *Subject[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.hasVal
}

func (s *Subject[T]) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (sub *Subscription[T]) deliver(value T) {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.cancelled {
		return
	}

	sub.handler(value)
}

// Cancel must not be called from inside the subscription's own handler.
func (sub *Subscription[T]) Cancel() {
	sub.subject.mu.Lock()
	delete(sub.subject.subs, sub.id)
	sub.subject.mu.Unlock()

	sub.mu.Lock()
	sub.cancelled = true
	sub.mu.Unlock()
}
