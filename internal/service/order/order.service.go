package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/krobus00/trading-sim/internal/constant"
	"github.com/krobus00/trading-sim/internal/entity"
	"github.com/krobus00/trading-sim/internal/util"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrMarketDataUnavailable = errors.New("market data unavailable")
	ErrCreateOrderFailed     = errors.New("failed to persist order")
	ErrOrderNotFound         = errors.New("order not found")
)

type OrderStore interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
}

type PriceSource interface {
	GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type EventPublisher interface {
	Publish(subject string, data any) error
}

type JetstreamPublisher struct {
	js nats.JetStreamContext
}

func NewJetstreamPublisher(js nats.JetStreamContext) *JetstreamPublisher {
	return &JetstreamPublisher{js: js}
}

func (p *JetstreamPublisher) Publish(subject string, data any) error {
	return util.PublishEvent(p.js, subject, data)
}

type PlaceOrderRequest struct {
	Symbol   string
	Quantity decimal.Decimal
	Price    decimal.Decimal // non-positive means market order
	Side     entity.OrderSide
	Source   string
}

// OrderService orchestrates price lookup, transactional persistence and
// event emission for a single PlaceOrder call. The event is published
// strictly after the storage commit, never before.
type OrderService struct {
	orderRepo   OrderStore
	priceSource PriceSource
	registry    *entity.SymbolRegistry
	publisher   EventPublisher
	js          nats.JetStreamContext
}

func NewOrderService(orderRepo OrderStore, priceSource PriceSource, registry *entity.SymbolRegistry, publisher EventPublisher, js nats.JetStreamContext) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		priceSource: priceSource,
		registry:    registry,
		publisher:   publisher,
		js:          js,
	}
}

func (s *OrderService) JetstreamEventInit(ctx context.Context) error {
	return initOrderStream(ctx, s.js)
}

func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*entity.Order, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, entity.ErrInvalidQuantity
	}

	if req.Side != entity.OrderSideBuy && req.Side != entity.OrderSideSell {
		return nil, entity.ErrInvalidSide
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := s.registry.Validate(symbol); err != nil {
		return nil, err
	}

	// The market price is always fetched: it becomes the trade price for
	// market orders and is snapshotted into metadata otherwise. A failed
	// lookup rejects the call instead of defaulting to a stale price.
	marketPrice, err := s.priceSource.GetCurrentPrice(ctx, symbol)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"symbol": symbol,
			"side":   req.Side,
		}).Errorf("market price lookup failed: %v", err)
		return nil, ErrMarketDataUnavailable
	}

	price := req.Price
	if price.LessThanOrEqual(decimal.Zero) {
		price = marketPrice
	}

	metadata := entity.Metadata{
		"market_price_snapshot": marketPrice.String(),
	}
	if source := strings.TrimSpace(req.Source); source != "" {
		metadata["source"] = source
	}

	order, err := entity.NewOrder(uuid.NewString(), symbol, req.Quantity, price, req.Side, metadata)
	if err != nil {
		return nil, err
	}
	order.Accept()

	if err := s.orderRepo.Create(ctx, order); err != nil {
		logrus.WithFields(logrus.Fields{
			"order_id": order.ID,
			"symbol":   order.Symbol,
		}).Errorf("order persistence failed: %v", err)
		return nil, ErrCreateOrderFailed
	}

	event := entity.NewOrderCreatedEvent(order)
	if err := s.publisher.Publish(constant.OrderStreamSubjectCreated, event); err != nil {
		// The order is committed; losing the event means no downstream
		// processing for it. Surfaced in logs only, the call still
		// succeeds (no two-phase commit across store and bus).
		logrus.WithFields(logrus.Fields{
			"order_id": order.ID,
			"subject":  constant.OrderStreamSubjectCreated,
		}).Errorf("order persisted but event publish failed: %v", err)
		return order, nil
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"symbol":   order.Symbol,
		"side":     order.Side,
		"price":    order.Price.String(),
	}).Info("order accepted")

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	return order, nil
}

func initOrderStream(ctx context.Context, js nats.JetStreamContext) error {
	streamConfig := &nats.StreamConfig{
		Name:      constant.OrderStreamName,
		Subjects:  []string{constant.OrderStreamSubjectAll},
		Retention: nats.WorkQueuePolicy,
		Storage:   nats.FileStorage,
		MaxAge:    24 * time.Hour,
	}

	stream, err := js.StreamInfo(constant.OrderStreamName, nats.Context(ctx))
	if err != nil && !errors.Is(err, nats.ErrStreamNotFound) {
		logrus.Error(err)
		return err
	}

	if stream == nil {
		logrus.Infof("creating stream: %s", constant.OrderStreamName)
		_, err = js.AddStream(streamConfig, nats.Context(ctx))
		return err
	}

	logrus.Infof("updating stream: %s", constant.OrderStreamName)
	_, err = js.UpdateStream(streamConfig, nats.Context(ctx))
	if err != nil {
		logrus.Error(err)
		return err
	}

	return nil
}
