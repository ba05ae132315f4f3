package eventbus_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automaton-hq/automaton/pkg/channels/gochannel"
	"github.com/automaton-hq/automaton/pkg/eventbus"
	"github.com/automaton-hq/automaton/pkg/events"
	"github.com/automaton-hq/automaton/pkg/models"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	channel := gochannel.CreateTestChannel(watermill.NewSlogLogger(slog.Default()))
	bus := eventbus.NewWatermillEventBus(channel, channel)

	t.Cleanup(func() {
		_ = bus.Close()
	})

	return bus
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event delivery")
	}
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	bus := newTestBus(t)

	var (
		mu       sync.Mutex
		received []events.ExecutionUpdated
	)

	done := make(chan struct{})

	err := bus.Handle(events.ExecutionUpdatedEvent, func(_ context.Context, event any) error {
		updated, ok := event.(*events.ExecutionUpdated)
		require.True(t, ok)

		mu.Lock()
		received = append(received, *updated)
		if len(received) == 2 {
			close(done)
		}
		mu.Unlock()

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(t.Context()))

	base := events.BaseEvent{
		ID:          bus.GenerateID(),
		Type:        events.ExecutionUpdatedEvent,
		Timestamp:   time.Now().UTC(),
		ExecutionID: "exec-1",
		WorkflowID:  "wf-1",
	}

	first := events.ExecutionUpdated{BaseEvent: base, Status: models.ExecutionStatusRunning, Progress: 0}
	second := events.ExecutionUpdated{BaseEvent: base, Status: models.ExecutionStatusRunning, Progress: 50}

	require.NoError(t, bus.Publish(t.Context(), "exec-1", first))
	require.NoError(t, bus.Publish(t.Context(), "exec-1", second))

	waitFor(t, done)

	mu.Lock()
	defer mu.Unlock()

	require.Len(t, received, 2)
	assert.Equal(t, "exec-1", received[0].ExecutionID)
	assert.Equal(t, models.ExecutionStatusRunning, received[0].Status)
	assert.Equal(t, 0, received[0].Progress)
	assert.Equal(t, 50, received[1].Progress)
}

func TestUnhandledEventTypesAreAcked(t *testing.T) {
	bus := newTestBus(t)

	done := make(chan struct{})

	err := bus.Handle(events.ExecutionCompletedEvent, func(_ context.Context, event any) error {
		completed, ok := event.(*events.ExecutionCompleted)
		require.True(t, ok)
		assert.Equal(t, "exec-2", completed.ExecutionID)
		close(done)

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(t.Context()))

	// No handler registered for this type; it must not block delivery of
	// the event that follows it.
	started := events.ExecutionStarted{
		BaseEvent: events.BaseEvent{
			ID:          bus.GenerateID(),
			Type:        events.ExecutionStartedEvent,
			Timestamp:   time.Now().UTC(),
			ExecutionID: "exec-2",
			WorkflowID:  "wf-1",
		},
		Trigger: models.Trigger{Type: models.TriggerTypeManual},
	}
	completed := events.ExecutionCompleted{
		BaseEvent: events.BaseEvent{
			ID:          bus.GenerateID(),
			Type:        events.ExecutionCompletedEvent,
			Timestamp:   time.Now().UTC(),
			ExecutionID: "exec-2",
			WorkflowID:  "wf-1",
		},
		Duration: 2 * time.Second,
	}

	require.NoError(t, bus.Publish(t.Context(), "exec-2", started))
	require.NoError(t, bus.Publish(t.Context(), "exec-2", completed))

	waitFor(t, done)
}

func TestGenerateID(t *testing.T) {
	bus := newTestBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
