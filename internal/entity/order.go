package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderSide string
type OrderStatus string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"

	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusAccepted OrderStatus = "ACCEPTED"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidSide     = errors.New("side must be BUY or SELL")
)

// Metadata is an open key/value map persisted as jsonb.
type Metadata map[string]string

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(src any) error {
	if src == nil {
		*m = Metadata{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata source type %T", src)
	}

	return json.Unmarshal(raw, m)
}

// Order is created by the order service (the ID is generated there, never by
// storage), persisted once inside a single transaction and never mutated
// afterwards.
type Order struct {
	ID        string          `db:"id" json:"id"`
	Symbol    string          `db:"symbol" json:"symbol"`
	Quantity  decimal.Decimal `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Side      OrderSide       `db:"side" json:"side"`
	Status    OrderStatus     `db:"status" json:"status"`
	Metadata  Metadata        `db:"metadata" json:"metadata"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

func (o Order) TableName() string {
	return "orders"
}

func NewOrder(id, symbol string, quantity, price decimal.Decimal, side OrderSide, metadata Metadata) (*Order, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidQuantity
	}

	if side != OrderSideBuy && side != OrderSideSell {
		return nil, ErrInvalidSide
	}

	if metadata == nil {
		metadata = Metadata{}
	}

	return &Order{
		ID:        id,
		Symbol:    symbol,
		Quantity:  quantity,
		Price:     price,
		Side:      side,
		Status:    OrderStatusPending,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Accept marks the order as accepted. PENDING -> ACCEPTED is the only
// transition modeled.
func (o *Order) Accept() {
	o.Status = OrderStatusAccepted
}

const OrderCreatedEventName = "order_created"

// OrderCreatedEvent is the payload published on order.created after the
// order is durably committed. Delivery is at-least-once: consumers must
// treat redeliveries as a normal case.
type OrderCreatedEvent struct {
	Event    string          `json:"event"`
	OrderID  string          `json:"order_id"`
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Side     OrderSide       `json:"side"`
	Status   OrderStatus     `json:"status"`
}

func NewOrderCreatedEvent(order *Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		Event:    OrderCreatedEventName,
		OrderID:  order.ID,
		Symbol:   order.Symbol,
		Quantity: order.Quantity,
		Price:    order.Price,
		Side:     order.Side,
		Status:   order.Status,
	}
}
