package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/krobus00/trading-sim/internal/entity"
	"github.com/krobus00/trading-sim/internal/service/order"
	pb "github.com/krobus00/trading-sim/pb/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeOrderPlacer struct {
	lastReq order.PlaceOrderRequest
	order   *entity.Order
	err     error
}

func (f *fakeOrderPlacer) PlaceOrder(_ context.Context, req order.PlaceOrderRequest) (*entity.Order, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func acceptedOrder() *entity.Order {
	return &entity.Order{
		ID:       "abc-123",
		Symbol:   "BTC",
		Quantity: decimal.NewFromFloat(1.5),
		Price:    decimal.NewFromInt(50000),
		Side:     entity.OrderSideBuy,
		Status:   entity.OrderStatusAccepted,
	}
}

func TestPlaceOrderGRPC(t *testing.T) {
	t.Run("returns accepted order", func(t *testing.T) {
		placer := &fakeOrderPlacer{order: acceptedOrder()}
		server := NewOrderGRPCServer(placer)

		resp, err := server.PlaceOrder(context.Background(), &pb.PlaceOrderRequest{
			Symbol:   "BTC",
			Quantity: "1.5",
			Side:     "buy",
			Source:   "grpc",
		})
		require.NoError(t, err)

		assert.Equal(t, "abc-123", resp.GetOrderId())
		assert.Equal(t, "ACCEPTED", resp.GetStatus())
		assert.Equal(t, "50000", resp.GetPrice())

		assert.Equal(t, entity.OrderSideBuy, placer.lastReq.Side)
		assert.True(t, placer.lastReq.Quantity.Equal(decimal.NewFromFloat(1.5)))
		assert.True(t, placer.lastReq.Price.IsZero())
	})

	t.Run("parses an explicit limit price", func(t *testing.T) {
		placer := &fakeOrderPlacer{order: acceptedOrder()}
		server := NewOrderGRPCServer(placer)

		_, err := server.PlaceOrder(context.Background(), &pb.PlaceOrderRequest{
			Symbol:   "BTC",
			Quantity: "1",
			Price:    "49500.25",
			Side:     "BUY",
		})
		require.NoError(t, err)
		assert.True(t, placer.lastReq.Price.Equal(decimal.NewFromFloat(49500.25)))
	})

	t.Run("rejects unparseable quantity", func(t *testing.T) {
		server := NewOrderGRPCServer(&fakeOrderPlacer{})

		_, err := server.PlaceOrder(context.Background(), &pb.PlaceOrderRequest{
			Symbol:   "BTC",
			Quantity: "lots",
			Side:     "BUY",
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("rejects unparseable price", func(t *testing.T) {
		server := NewOrderGRPCServer(&fakeOrderPlacer{})

		_, err := server.PlaceOrder(context.Background(), &pb.PlaceOrderRequest{
			Symbol:   "BTC",
			Quantity: "1",
			Price:    "cheap",
			Side:     "BUY",
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("maps service errors to status codes", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			code codes.Code
		}{
			{name: "invalid quantity", err: entity.ErrInvalidQuantity, code: codes.InvalidArgument},
			{name: "invalid side", err: entity.ErrInvalidSide, code: codes.InvalidArgument},
			{name: "unsupported symbol", err: entity.ErrUnsupportedSymbol, code: codes.InvalidArgument},
			{name: "market data unavailable", err: order.ErrMarketDataUnavailable, code: codes.Unavailable},
			{name: "persistence failure", err: order.ErrCreateOrderFailed, code: codes.Internal},
			{name: "unexpected failure", err: errors.New("boom"), code: codes.Internal},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := NewOrderGRPCServer(&fakeOrderPlacer{err: tt.err})

				_, err := server.PlaceOrder(context.Background(), &pb.PlaceOrderRequest{
					Symbol:   "BTC",
					Quantity: "1",
					Side:     "BUY",
				})
				assert.Equal(t, tt.code, status.Code(err))
			})
		}
	})

	t.Run("internal details are not leaked for unexpected errors", func(t *testing.T) {
		server := NewOrderGRPCServer(&fakeOrderPlacer{err: errors.New("pq: password authentication failed")})

		_, err := server.PlaceOrder(context.Background(), &pb.PlaceOrderRequest{
			Symbol:   "BTC",
			Quantity: "1",
			Side:     "BUY",
		})
		st, ok := status.FromError(err)
		require.True(t, ok)
		assert.Equal(t, "internal server error", st.Message())
	})
}
