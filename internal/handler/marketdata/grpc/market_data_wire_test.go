package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/krobus00/trading-sim/internal/service/marketdata"
	pb "github.com/krobus00/trading-sim/pb/marketdata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startMarketDataGRPCServer(t *testing.T, feed *marketdata.Service) pb.MarketDataServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	pb.RegisterMarketDataServiceServer(server, NewMarketDataGRPCServer(feed))

	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return pb.NewMarketDataServiceClient(conn)
}

// Full client-to-feed round trip over a bufconn transport so the unary and
// streaming messages cross the real gRPC codec.
func TestMarketDataOverTransport(t *testing.T) {
	t.Run("current price round trip", func(t *testing.T) {
		client := startMarketDataGRPCServer(t, newTestFeed(t))

		resp, err := client.GetCurrentPrice(context.Background(), &pb.GetCurrentPriceRequest{Symbol: "btc"})
		require.NoError(t, err)

		assert.Equal(t, "BTC", resp.GetSymbol())
		assert.Equal(t, "50000", resp.GetPrice())
		assert.NotNil(t, resp.GetObservedAt())
	})

	t.Run("unknown symbol status survives the codec", func(t *testing.T) {
		client := startMarketDataGRPCServer(t, newTestFeed(t))

		_, err := client.GetCurrentPrice(context.Background(), &pb.GetCurrentPriceRequest{Symbol: "DOGE"})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("stream delivers live ticks", func(t *testing.T) {
		feed := newTestFeed(t)
		client := startMarketDataGRPCServer(t, feed)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		feed.Start(ctx)

		stream, err := client.StreamMarketData(ctx, &pb.StreamMarketDataRequest{Symbol: "BTC"})
		require.NoError(t, err)

		tick, err := stream.Recv()
		require.NoError(t, err)

		assert.Equal(t, "BTC", tick.GetSymbol())
		price, err := decimal.NewFromString(tick.GetPrice())
		require.NoError(t, err)
		assert.True(t, price.GreaterThan(decimal.Zero))
		assert.NotZero(t, tick.GetTimestamp())
	})
}
