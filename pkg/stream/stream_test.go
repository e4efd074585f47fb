package stream

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubject_ReplaysLatestToNewSubscriber(t *testing.T) {
	subject := NewSubject[int]()
	subject.Publish(1)
	subject.Publish(2)

	var got []int
	sub := subject.Subscribe(func(v int) { got = append(got, v) })
	defer sub.Cancel()

	require.Equal(t, []int{2}, got)

	subject.Publish(3)
	require.Equal(t, []int{2, 3}, got)
}

func TestSubject_NoReplayBeforeFirstPublish(t *testing.T) {
	subject := NewSubject[string]()

	calls := 0
	sub := subject.Subscribe(func(string) { calls++ })
	defer sub.Cancel()

	require.Zero(t, calls)

	subject.Publish("a")
	require.Equal(t, 1, calls)
}

func TestSubscription_CancelStopsDelivery(t *testing.T) {
	subject := NewSubject[int]()

	calls := 0
	sub := subject.Subscribe(func(int) { calls++ })

	subject.Publish(1)
	sub.Cancel()
	subject.Publish(2)

	require.Equal(t, 1, calls)
	require.Zero(t, subject.SubscriberCount())
}

func TestSubscription_CancelIsIdempotent(t *testing.T) {
	subject := NewSubject[int]()
	sub := subject.Subscribe(func(int) {})

	sub.Cancel()
	sub.Cancel()
}

func TestSubject_MonotonicDeliveryUnderConcurrentPublish(t *testing.T) {
	subject := NewSubject[int]()

	var mu sync.Mutex
	var seen []int
	sub := subject.Subscribe(func(v int) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	})
	defer sub.Cancel()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			subject.Publish(v)
		}(i)
	}
	wg.Wait()

	// Publications are serialized: every subscriber sees exactly one
	// delivery per publish, and the last delivery matches the retained value.
	require.Len(t, seen, 50)
	last, ok := subject.Value()
	require.True(t, ok)
	require.Equal(t, last, seen[len(seen)-1])
}
