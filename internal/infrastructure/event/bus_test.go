package event

import (
	"context"
	"errors"
	"testing"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", uuid.New()),
	}
}

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     bool
	panics   bool
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.received = append(h.received, event)
	if h.fail {
		return errors.New("handler failure")
	}
	return nil
}

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to subscribed handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{types: []string{"thing.happened"}}
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(ctx, newTestEvent("thing.happened")))
		assert.Len(t, h.received, 1)
	})

	t.Run("does not deliver unrelated event types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{types: []string{"thing.happened"}}
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(ctx, newTestEvent("other.happened")))
		assert.Empty(t, h.received)
	})

	t.Run("wildcard handler receives every event", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{}
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(ctx, newTestEvent("a"), newTestEvent("b")))
		assert.Len(t, h.received, 2)
	})

	t.Run("failing handler does not block the next one", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"x"}, fail: true}
		healthy := &recordingHandler{types: []string{"x"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newTestEvent("x")))
		assert.Len(t, healthy.received, 1)
	})

	t.Run("panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		bus.Subscribe(&recordingHandler{types: []string{"x"}, panics: true})

		assert.NotPanics(t, func() {
			_ = bus.Publish(ctx, newTestEvent("x"))
		})
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{types: []string{"x"}}
		bus.Subscribe(h)
		bus.Unsubscribe(h)

		require.NoError(t, bus.Publish(ctx, newTestEvent("x")))
		assert.Empty(t, h.received)
	})

	t.Run("start and stop", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		require.NoError(t, bus.Start(ctx))
		require.NoError(t, bus.Stop(ctx))
	})
}
