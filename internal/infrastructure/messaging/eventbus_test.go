package messaging

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

func syncBus() *InMemoryEventBus {
	return NewInMemoryEventBus(InMemoryEventBusConfig{
		AsyncMode:     false,
		EnableMetrics: true,
	})
}

func TestEventBus_SubscribeAndPublish(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	var received []shared.Event
	err := bus.Subscribe(shared.EventDoubtResolved, func(event shared.Event) error {
		received = append(received, event)
		return nil
	})
	require.NoError(t, err)

	resolved := shared.NewDoubtResolvedEvent("d1", "student-1", "mentor-1")
	require.NoError(t, bus.Publish(resolved))

	// A different event type does not reach the handler.
	require.NoError(t, bus.Publish(shared.NewDoubtCreatedEvent("d2", "student-1", "Title")))

	require.Len(t, received, 1)
	assert.Equal(t, shared.EventDoubtResolved, received[0].EventType())
	assert.Equal(t, "d1", received[0].AggregateID())
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	count := 0
	require.NoError(t, bus.SubscribeAll(func(event shared.Event) error {
		count++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewDoubtCreatedEvent("d1", "student-1", "Title")))
	require.NoError(t, bus.Publish(shared.NewDoubtDeletedEvent("d1")))

	assert.Equal(t, 2, count)
}

func TestEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	called := false
	require.NoError(t, bus.Subscribe(shared.EventDoubtCreated, func(event shared.Event) error {
		return errors.New("boom")
	}))
	require.NoError(t, bus.Subscribe(shared.EventDoubtCreated, func(event shared.Event) error {
		called = true
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewDoubtCreatedEvent("d1", "student-1", "Title")))
	assert.True(t, called)
}

func TestEventBus_AsyncDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{
		AsyncMode:      true,
		WorkerPoolSize: 2,
	})

	var mu sync.Mutex
	count := 0
	require.NoError(t, bus.SubscribeAll(func(event shared.Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}))

	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(shared.NewDoubtCreatedEvent("d1", "student-1", "Title")))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 5
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, bus.Close())
}

func TestEventBus_ClosedRejectsPublish(t *testing.T) {
	bus := syncBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(shared.NewDoubtCreatedEvent("d1", "student-1", "Title"))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventDoubtCreated, func(shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestEventBus_Metrics(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	require.NoError(t, bus.SubscribeAll(func(shared.Event) error { return nil }))
	require.NoError(t, bus.Publish(shared.NewDoubtCreatedEvent("d1", "student-1", "Title")))
	require.NoError(t, bus.Publish(shared.NewDoubtResolvedEvent("d1", "student-1", "mentor-1")))

	snapshot := bus.Metrics().Snapshot()
	assert.Equal(t, int64(2), snapshot.TotalPublished)
	assert.Equal(t, int64(2), snapshot.TotalHandlerExecs)
	assert.Equal(t, 1.0, snapshot.HandlerSuccessRate)
}
