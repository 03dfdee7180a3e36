package marketdata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/krobus00/trading-sim/internal/config"
	"github.com/krobus00/trading-sim/internal/entity"
	pb "github.com/krobus00/trading-sim/pb/marketdata"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const defaultClientTimeout = 3 * time.Second

// Client is the order gateway's view of the market data service. The dial is
// guarded by sync.Once so the first call establishes the connection exactly
// once even under concurrent callers; every later call reuses it.
type Client struct {
	target  string
	timeout time.Duration

	dialOnce sync.Once
	dialErr  error
	conn     *grpc.ClientConn
	client   pb.MarketDataServiceClient
}

func NewClient(cfg config.MarketDataClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.Target) == "" {
		return nil, errors.New("market data target is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}

	return &Client{target: cfg.Target, timeout: timeout}, nil
}

func (c *Client) ensureConnection() error {
	c.dialOnce.Do(func() {
		conn, err := grpc.NewClient(c.target, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			c.dialErr = fmt.Errorf("dial market data service: %w", err)
			return
		}

		c.conn = conn
		c.client = pb.NewMarketDataServiceClient(conn)
		logrus.WithField("target", c.target).Info("market data client connected")
	})

	return c.dialErr
}

func (c *Client) GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := c.ensureConnection(); err != nil {
		return decimal.Decimal{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.GetCurrentPrice(callCtx, &pb.GetCurrentPriceRequest{Symbol: symbol})
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("get current price for %s: %w", symbol, err)
	}

	price, err := decimal.NewFromString(resp.GetPrice())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse price %q for %s: %w", resp.GetPrice(), symbol, err)
	}

	return price, nil
}

// StreamPrices opens the server stream and forwards ticks until ctx is done.
// Callers may consume a single tick and cancel.
func (c *Client) StreamPrices(ctx context.Context, symbol string) (<-chan entity.Tick, error) {
	if err := c.ensureConnection(); err != nil {
		return nil, err
	}

	stream, err := c.client.StreamMarketData(ctx, &pb.StreamMarketDataRequest{Symbol: symbol})
	if err != nil {
		return nil, fmt.Errorf("stream market data for %s: %w", symbol, err)
	}

	out := make(chan entity.Tick, subscriberBuffer)
	go func() {
		defer close(out)
		for {
			tick, err := stream.Recv()
			if err != nil {
				if ctx.Err() == nil {
					logrus.Warnf("market data stream closed: %v", err)
				}
				return
			}

			price, err := decimal.NewFromString(tick.GetPrice())
			if err != nil {
				continue
			}
			volume, err := decimal.NewFromString(tick.GetVolume())
			if err != nil {
				continue
			}

			select {
			case out <- entity.Tick{Symbol: tick.GetSymbol(), Price: price, Volume: volume, Timestamp: tick.GetTimestamp()}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}

	return c.conn.Close()
}
