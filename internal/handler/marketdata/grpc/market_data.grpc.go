package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/krobus00/trading-sim/internal/service/marketdata"
	pb "github.com/krobus00/trading-sim/pb/marketdata"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type Server struct {
	feed *marketdata.Service
	pb.UnimplementedMarketDataServiceServer
}

func NewMarketDataGRPCServer(feed *marketdata.Service) *Server {
	return &Server{feed: feed}
}

func (s *Server) GetCurrentPrice(ctx context.Context, req *pb.GetCurrentPriceRequest) (*pb.GetCurrentPriceResponse, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.GetSymbol()))

	price, err := s.feed.GetCurrentPrice(ctx, symbol)
	if err != nil {
		if errors.Is(err, marketdata.ErrUnknownSymbol) {
			return nil, status.Errorf(codes.NotFound, "unknown symbol: %s", symbol)
		}
		return nil, status.Error(codes.Internal, "internal server error")
	}

	return &pb.GetCurrentPriceResponse{
		Symbol:     symbol,
		Price:      price.String(),
		ObservedAt: timestamppb.New(time.Now().UTC()),
	}, nil
}

func (s *Server) StreamMarketData(req *pb.StreamMarketDataRequest, stream pb.MarketDataService_StreamMarketDataServer) error {
	symbol := strings.ToUpper(strings.TrimSpace(req.GetSymbol()))

	ticks, cancel, err := s.feed.Subscribe(symbol)
	if err != nil {
		if errors.Is(err, marketdata.ErrUnknownSymbol) {
			return status.Errorf(codes.NotFound, "unknown symbol: %s", symbol)
		}
		return status.Error(codes.Internal, "internal server error")
	}
	defer cancel()

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case tick, ok := <-ticks:
			if !ok {
				return nil
			}

			err := stream.Send(&pb.MarketDataTick{
				Symbol:    tick.Symbol,
				Price:     tick.Price.String(),
				Volume:    tick.Volume.String(),
				Timestamp: tick.Timestamp,
			})
			if err != nil {
				return err
			}
		}
	}
}
