package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/krobus00/trading-sim/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	mu        sync.Mutex
	orders    map[string]*entity.Order
	createErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*entity.Order)}
}

func (s *fakeOrderStore) Create(_ context.Context, order *entity.Order) error {
	if s.createErr != nil {
		return s.createErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order

	return nil
}

func (s *fakeOrderStore) GetByID(_ context.Context, id string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, errors.New("not found")
	}

	return order, nil
}

func (s *fakeOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type fakePriceSource struct {
	price decimal.Decimal
	err   error
	calls int
}

func (p *fakePriceSource) GetCurrentPrice(_ context.Context, _ string) (decimal.Decimal, error) {
	p.calls++
	if p.err != nil {
		return decimal.Decimal{}, p.err
	}
	return p.price, nil
}

type fakePublisher struct {
	err       error
	published []any
	onPublish func()
}

func (p *fakePublisher) Publish(_ string, data any) error {
	if p.onPublish != nil {
		p.onPublish()
	}
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, data)
	return nil
}

func newTestRegistry(t *testing.T) *entity.SymbolRegistry {
	t.Helper()

	return entity.NewSymbolRegistry([]string{"BTC", "ETH", "SOL"})
}

func TestPlaceOrder(t *testing.T) {
	t.Run("market order uses current market price", func(t *testing.T) {
		store := newFakeOrderStore()
		prices := &fakePriceSource{price: decimal.NewFromInt(50000)}
		publisher := &fakePublisher{}
		svc := NewOrderService(store, prices, newTestRegistry(t), publisher, nil)

		placed, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
			Symbol:   "BTC",
			Quantity: decimal.NewFromFloat(1.5),
			Price:    decimal.Zero,
			Side:     entity.OrderSideBuy,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, placed.ID)
		assert.Equal(t, "BTC", placed.Symbol)
		assert.True(t, placed.Price.Equal(decimal.NewFromInt(50000)))
		assert.Equal(t, entity.OrderStatusAccepted, placed.Status)
		assert.Equal(t, 1, store.count())
		assert.Len(t, publisher.published, 1)
	})

	t.Run("limit order keeps requested price and snapshots market price", func(t *testing.T) {
		store := newFakeOrderStore()
		prices := &fakePriceSource{price: decimal.NewFromInt(50000)}
		publisher := &fakePublisher{}
		svc := NewOrderService(store, prices, newTestRegistry(t), publisher, nil)

		placed, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
			Symbol:   "eth",
			Quantity: decimal.NewFromInt(2),
			Price:    decimal.NewFromInt(2950),
			Side:     entity.OrderSideSell,
			Source:   "api",
		})
		require.NoError(t, err)

		assert.Equal(t, "ETH", placed.Symbol)
		assert.True(t, placed.Price.Equal(decimal.NewFromInt(2950)))
		assert.Equal(t, "50000", placed.Metadata["market_price_snapshot"])
		assert.Equal(t, "api", placed.Metadata["source"])
	})

	t.Run("non positive quantity is rejected before any side effect", func(t *testing.T) {
		store := newFakeOrderStore()
		prices := &fakePriceSource{price: decimal.NewFromInt(50000)}
		publisher := &fakePublisher{}
		svc := NewOrderService(store, prices, newTestRegistry(t), publisher, nil)

		for _, quantity := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-3)} {
			_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
				Symbol:   "BTC",
				Quantity: quantity,
				Side:     entity.OrderSideBuy,
			})
			assert.ErrorIs(t, err, entity.ErrInvalidQuantity)
		}

		assert.Zero(t, prices.calls)
		assert.Zero(t, store.count())
		assert.Empty(t, publisher.published)
	})

	t.Run("invalid side is rejected", func(t *testing.T) {
		store := newFakeOrderStore()
		svc := NewOrderService(store, &fakePriceSource{}, newTestRegistry(t), &fakePublisher{}, nil)

		_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
			Symbol:   "BTC",
			Quantity: decimal.NewFromInt(1),
			Side:     entity.OrderSide("HOLD"),
		})
		assert.ErrorIs(t, err, entity.ErrInvalidSide)
		assert.Zero(t, store.count())
	})

	t.Run("unsupported symbol is rejected", func(t *testing.T) {
		store := newFakeOrderStore()
		svc := NewOrderService(store, &fakePriceSource{}, newTestRegistry(t), &fakePublisher{}, nil)

		_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
			Symbol:   "DOGE2",
			Quantity: decimal.NewFromInt(1),
			Side:     entity.OrderSideBuy,
		})
		assert.ErrorIs(t, err, entity.ErrUnsupportedSymbol)
		assert.Zero(t, store.count())
	})

	t.Run("market data failure rejects the order without persisting", func(t *testing.T) {
		store := newFakeOrderStore()
		prices := &fakePriceSource{err: errors.New("connection refused")}
		publisher := &fakePublisher{}
		svc := NewOrderService(store, prices, newTestRegistry(t), publisher, nil)

		_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
			Symbol:   "BTC",
			Quantity: decimal.NewFromInt(1),
			Side:     entity.OrderSideBuy,
		})
		assert.ErrorIs(t, err, ErrMarketDataUnavailable)
		assert.Zero(t, store.count())
		assert.Empty(t, publisher.published)
	})

	t.Run("persistence failure surfaces and publishes nothing", func(t *testing.T) {
		store := newFakeOrderStore()
		store.createErr = errors.New("connection reset")
		publisher := &fakePublisher{}
		svc := NewOrderService(store, &fakePriceSource{price: decimal.NewFromInt(150)}, newTestRegistry(t), publisher, nil)

		_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
			Symbol:   "SOL",
			Quantity: decimal.NewFromInt(10),
			Side:     entity.OrderSideBuy,
		})
		assert.ErrorIs(t, err, ErrCreateOrderFailed)
		assert.Empty(t, publisher.published)
	})

	t.Run("event is published only after the order is persisted", func(t *testing.T) {
		store := newFakeOrderStore()
		publisher := &fakePublisher{}
		publisher.onPublish = func() {
			assert.Equal(t, 1, store.count(), "publish must happen after commit")
		}
		svc := NewOrderService(store, &fakePriceSource{price: decimal.NewFromInt(3000)}, newTestRegistry(t), publisher, nil)

		placed, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
			Symbol:   "ETH",
			Quantity: decimal.NewFromInt(1),
			Side:     entity.OrderSideBuy,
		})
		require.NoError(t, err)
		require.Len(t, publisher.published, 1)

		event, ok := publisher.published[0].(entity.OrderCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, entity.OrderCreatedEventName, event.Event)
		assert.Equal(t, placed.ID, event.OrderID)
		assert.Equal(t, entity.OrderStatusAccepted, event.Status)
	})

	t.Run("publish failure does not fail the accepted order", func(t *testing.T) {
		store := newFakeOrderStore()
		publisher := &fakePublisher{err: errors.New("nats: timeout")}
		svc := NewOrderService(store, &fakePriceSource{price: decimal.NewFromInt(3000)}, newTestRegistry(t), publisher, nil)

		placed, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
			Symbol:   "ETH",
			Quantity: decimal.NewFromInt(1),
			Side:     entity.OrderSideSell,
		})
		require.NoError(t, err)
		assert.Equal(t, entity.OrderStatusAccepted, placed.Status)
		assert.Equal(t, 1, store.count())
	})

	t.Run("cancelled context short circuits", func(t *testing.T) {
		store := newFakeOrderStore()
		svc := NewOrderService(store, &fakePriceSource{}, newTestRegistry(t), &fakePublisher{}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.PlaceOrder(ctx, PlaceOrderRequest{
			Symbol:   "BTC",
			Quantity: decimal.NewFromInt(1),
			Side:     entity.OrderSideBuy,
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, store.count())
	})
}

func TestGetOrder(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewOrderService(store, &fakePriceSource{price: decimal.NewFromInt(50000)}, newTestRegistry(t), &fakePublisher{}, nil)

	placed, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Symbol:   "BTC",
		Quantity: decimal.NewFromInt(1),
		Side:     entity.OrderSideBuy,
	})
	require.NoError(t, err)

	found, err := svc.GetOrder(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, found.ID)

	_, err = svc.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
