package order

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/krobus00/trading-sim/internal/config"
	"github.com/krobus00/trading-sim/internal/entity"
	"github.com/krobus00/trading-sim/internal/repository"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(t *testing.T, store repository.IdempotencyStore, sideEffect SideEffect) *WorkerService {
	t.Helper()

	return NewWorkerService(nil, store, config.IdempotencyConfig{
		TTL:       time.Minute,
		KeyPrefix: "processed_event",
	}, sideEffect)
}

func orderCreatedEvent(orderID string) entity.OrderCreatedEvent {
	return entity.OrderCreatedEvent{
		Event:    entity.OrderCreatedEventName,
		OrderID:  orderID,
		Symbol:   "BTC",
		Quantity: decimal.NewFromFloat(1.5),
		Price:    decimal.NewFromInt(50000),
		Side:     entity.OrderSideBuy,
		Status:   entity.OrderStatusAccepted,
	}
}

func TestHandleOrderCreated(t *testing.T) {
	t.Run("first delivery runs the side effect", func(t *testing.T) {
		var calls int32
		store := repository.NewMemoryIdempotencyStore()
		worker := newTestWorker(t, store, func(ctx context.Context, event entity.OrderCreatedEvent) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})

		outcome, err := worker.HandleOrderCreated(context.Background(), orderCreatedEvent("abc-123"))
		require.NoError(t, err)
		assert.Equal(t, OutcomeProcessed, outcome)
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

		exists, err := store.Exists(context.Background(), "processed_event:abc-123")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("redelivery is skipped without re-running the side effect", func(t *testing.T) {
		var calls int32
		store := repository.NewMemoryIdempotencyStore()
		worker := newTestWorker(t, store, func(ctx context.Context, event entity.OrderCreatedEvent) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})

		event := orderCreatedEvent("abc-123")

		outcome, err := worker.HandleOrderCreated(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, OutcomeProcessed, outcome)

		outcome, err = worker.HandleOrderCreated(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, OutcomeDuplicateSkipped, outcome)

		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})

	t.Run("concurrent deliveries run the side effect exactly once", func(t *testing.T) {
		var calls int32
		store := repository.NewMemoryIdempotencyStore()
		worker := newTestWorker(t, store, func(ctx context.Context, event entity.OrderCreatedEvent) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})

		event := orderCreatedEvent("xyz-789")

		const deliveries = 20
		var (
			wg        sync.WaitGroup
			processed int32
			skipped   int32
		)
		for i := 0; i < deliveries; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				outcome, err := worker.HandleOrderCreated(context.Background(), event)
				assert.NoError(t, err)
				switch outcome {
				case OutcomeProcessed:
					atomic.AddInt32(&processed, 1)
				case OutcomeDuplicateSkipped:
					atomic.AddInt32(&skipped, 1)
				}
			}()
		}
		wg.Wait()

		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
		assert.EqualValues(t, 1, atomic.LoadInt32(&processed))
		assert.EqualValues(t, deliveries-1, atomic.LoadInt32(&skipped))
	})

	t.Run("distinct orders are processed independently", func(t *testing.T) {
		var calls int32
		store := repository.NewMemoryIdempotencyStore()
		worker := newTestWorker(t, store, func(ctx context.Context, event entity.OrderCreatedEvent) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})

		for _, orderID := range []string{"order-1", "order-2", "order-3"} {
			outcome, err := worker.HandleOrderCreated(context.Background(), orderCreatedEvent(orderID))
			require.NoError(t, err)
			assert.Equal(t, OutcomeProcessed, outcome)
		}

		assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	})

	t.Run("store failure surfaces without touching the side effect", func(t *testing.T) {
		var calls int32
		worker := newTestWorker(t, failingIdempotencyStore{}, func(ctx context.Context, event entity.OrderCreatedEvent) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})

		_, err := worker.HandleOrderCreated(context.Background(), orderCreatedEvent("abc-123"))
		require.Error(t, err)
		assert.Zero(t, atomic.LoadInt32(&calls))
	})

	t.Run("side effect failure keeps the lock held", func(t *testing.T) {
		var calls int32
		store := repository.NewMemoryIdempotencyStore()
		worker := newTestWorker(t, store, func(ctx context.Context, event entity.OrderCreatedEvent) error {
			atomic.AddInt32(&calls, 1)
			return errors.New("downstream unavailable")
		})

		event := orderCreatedEvent("abc-123")

		_, err := worker.HandleOrderCreated(context.Background(), event)
		require.Error(t, err)

		outcome, err := worker.HandleOrderCreated(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, OutcomeDuplicateSkipped, outcome)
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})
}

func TestHandleOrderCreatedEvent(t *testing.T) {
	t.Run("malformed payload is dropped", func(t *testing.T) {
		var calls int32
		worker := newTestWorker(t, repository.NewMemoryIdempotencyStore(), func(ctx context.Context, event entity.OrderCreatedEvent) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})

		err := worker.handleOrderCreatedEvent(context.Background(), &nats.Msg{Data: []byte("{not json")})
		require.NoError(t, err)
		assert.Zero(t, atomic.LoadInt32(&calls))
	})

	t.Run("event without order id is dropped", func(t *testing.T) {
		var calls int32
		worker := newTestWorker(t, repository.NewMemoryIdempotencyStore(), func(ctx context.Context, event entity.OrderCreatedEvent) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})

		err := worker.handleOrderCreatedEvent(context.Background(), &nats.Msg{Data: []byte(`{"event":"order_created"}`)})
		require.NoError(t, err)
		assert.Zero(t, atomic.LoadInt32(&calls))
	})

	t.Run("valid payload is processed", func(t *testing.T) {
		var calls int32
		worker := newTestWorker(t, repository.NewMemoryIdempotencyStore(), func(ctx context.Context, event entity.OrderCreatedEvent) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})

		payload := []byte(`{"event":"order_created","order_id":"abc-123","symbol":"BTC","quantity":"1.5","price":"50000","side":"BUY","status":"ACCEPTED"}`)
		err := worker.handleOrderCreatedEvent(context.Background(), &nats.Msg{Data: payload})
		require.NoError(t, err)
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})
}

type failingIdempotencyStore struct{}

func (failingIdempotencyStore) SetIfAbsent(context.Context, string, string, time.Duration) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func (failingIdempotencyStore) Exists(context.Context, string) (bool, error) {
	return false, errors.New("redis: connection refused")
}
