package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/krobus00/trading-sim/internal/entity"
	"github.com/krobus00/trading-sim/internal/service/order"
	pb "github.com/krobus00/trading-sim/pb/order"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req order.PlaceOrderRequest) (*entity.Order, error)
}

type Server struct {
	orderService OrderPlacer
	pb.UnimplementedOrderServiceServer
}

func NewOrderGRPCServer(orderService OrderPlacer) *Server {
	return &Server{orderService: orderService}
}

func (s *Server) PlaceOrder(ctx context.Context, req *pb.PlaceOrderRequest) (*pb.PlaceOrderResponse, error) {
	quantity, err := decimal.NewFromString(req.GetQuantity())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid quantity")
	}

	// an absent price means market order
	price := decimal.Zero
	if strings.TrimSpace(req.GetPrice()) != "" {
		price, err = decimal.NewFromString(req.GetPrice())
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "invalid price")
		}
	}

	placed, err := s.orderService.PlaceOrder(ctx, order.PlaceOrderRequest{
		Symbol:   req.GetSymbol(),
		Quantity: quantity,
		Price:    price,
		Side:     entity.OrderSide(strings.ToUpper(req.GetSide())),
		Source:   req.GetSource(),
	})
	if err != nil {
		return nil, mapPlaceOrderError(err)
	}

	return &pb.PlaceOrderResponse{
		OrderId: placed.ID,
		Status:  string(placed.Status),
		Message: "order placed successfully",
		Price:   placed.Price.String(),
	}, nil
}

func mapPlaceOrderError(err error) error {
	switch {
	case errors.Is(err, entity.ErrInvalidQuantity),
		errors.Is(err, entity.ErrInvalidSide),
		errors.Is(err, entity.ErrUnsupportedSymbol):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, order.ErrMarketDataUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, order.ErrCreateOrderFailed):
		return status.Error(codes.Internal, err.Error())
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
