package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stockEvent struct {
	shared.BaseDomainEvent
}

func newStockEvent(eventType string) *stockEvent {
	return &stockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Stock", uuid.New()),
	}
}

// recordingHandler collects everything it receives.
type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	received   []shared.DomainEvent
	fail       error
	panics     bool
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{eventTypes: eventTypes}
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, event)
	return h.fail
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

func newBus() *InMemoryEventBus {
	return NewInMemoryEventBus(zap.NewNop())
}

func TestPublishReachesSubscribedHandler(t *testing.T) {
	bus := newBus()
	handler := newRecordingHandler("inventory.stock.changed")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newStockEvent("inventory.stock.changed")))
	require.NoError(t, bus.Publish(context.Background(), newStockEvent("billing.created")))

	// only the matching type is delivered
	assert.Equal(t, 1, handler.count())
}

func TestPublishFansOut(t *testing.T) {
	bus := newBus()
	first := newRecordingHandler("inventory.stock.changed")
	second := newRecordingHandler("inventory.stock.changed")
	bus.Subscribe(first)
	bus.Subscribe(second)

	require.NoError(t, bus.Publish(context.Background(),
		newStockEvent("inventory.stock.changed"),
		newStockEvent("inventory.stock.changed")))

	assert.Equal(t, 2, first.count())
	assert.Equal(t, 2, second.count())
}

func TestPublishCatchAllHandler(t *testing.T) {
	bus := newBus()
	audit := newRecordingHandler() // no types: receives everything
	bus.Subscribe(audit)

	require.NoError(t, bus.Publish(context.Background(),
		newStockEvent("inventory.stock.changed"),
		newStockEvent("returns.processed")))

	assert.Equal(t, 2, audit.count())
}

func TestPublishSurvivesFailingHandler(t *testing.T) {
	bus := newBus()
	broken := newRecordingHandler("billing.created")
	broken.fail = errors.New("projection store down")
	healthy := newRecordingHandler("billing.created")
	bus.Subscribe(broken)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newStockEvent("billing.created")))

	assert.Equal(t, 1, healthy.count())
}

func TestPublishSurvivesPanickingHandler(t *testing.T) {
	bus := newBus()
	panicking := newRecordingHandler("billing.created")
	panicking.panics = true
	healthy := newRecordingHandler("billing.created")
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newStockEvent("billing.created")))

	assert.Equal(t, 1, healthy.count())
}

func TestSubscribeWithExplicitTypesOverridesHandler(t *testing.T) {
	bus := newBus()
	handler := newRecordingHandler("inventory.stock.changed")
	bus.Subscribe(handler, "returns.processed")

	require.NoError(t, bus.Publish(context.Background(), newStockEvent("inventory.stock.changed")))
	assert.Zero(t, handler.count())

	require.NoError(t, bus.Publish(context.Background(), newStockEvent("returns.processed")))
	assert.Equal(t, 1, handler.count())
}

func TestUnsubscribe(t *testing.T) {
	bus := newBus()
	handler := newRecordingHandler("inventory.stock.changed")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newStockEvent("inventory.stock.changed")))
	bus.Unsubscribe(handler)
	require.NoError(t, bus.Publish(context.Background(), newStockEvent("inventory.stock.changed")))

	assert.Equal(t, 1, handler.count())
}

func TestUnsubscribeCatchAll(t *testing.T) {
	bus := newBus()
	audit := newRecordingHandler()
	bus.Subscribe(audit)

	bus.Unsubscribe(audit)
	require.NoError(t, bus.Publish(context.Background(), newStockEvent("billing.created")))

	assert.Zero(t, audit.count())
}

func TestStartStop(t *testing.T) {
	bus := newBus()
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	handler := newRecordingHandler("billing.created")
	bus.Subscribe(handler)
	require.NoError(t, bus.Publish(ctx, newStockEvent("billing.created")))
	assert.Equal(t, 1, handler.count())

	require.NoError(t, bus.Stop(ctx))
}
