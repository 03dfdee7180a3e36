package marketdata

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/krobus00/trading-sim/internal/config"
	"github.com/krobus00/trading-sim/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrNoSymbols     = errors.New("at least one symbol is required")
)

const (
	defaultTickInterval = 1 * time.Second
	defaultVolatility   = 0.01
	pricePrecision      = 8

	subscriberBuffer = 16
)

// Service simulates a market data feed. Each symbol starts at its configured
// base price and follows a bounded random walk advanced by a background
// goroutine. Reads and subscriptions are safe for concurrent use.
type Service struct {
	mu          sync.RWMutex
	prices      map[string]decimal.Decimal
	subscribers map[string]map[int64]chan entity.Tick
	nextSubID   int64

	tickInterval time.Duration
	volatility   float64
	rng          *rand.Rand
}

func NewService(cfg config.MarketDataConfig) (*Service, error) {
	if len(cfg.Symbols) == 0 {
		return nil, ErrNoSymbols
	}

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = defaultTickInterval
	}

	volatility := cfg.Volatility
	if volatility <= 0 || volatility >= 1 {
		volatility = defaultVolatility
	}

	prices := make(map[string]decimal.Decimal, len(cfg.Symbols))
	for symbol, symbolCfg := range cfg.Symbols {
		if symbolCfg.BasePrice.LessThanOrEqual(decimal.Zero) {
			continue
		}
		prices[symbol] = symbolCfg.BasePrice
	}

	if len(prices) == 0 {
		return nil, ErrNoSymbols
	}

	return &Service{
		prices:       prices,
		subscribers:  make(map[string]map[int64]chan entity.Tick),
		tickInterval: tickInterval,
		volatility:   volatility,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Start advances the walk until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.tickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.advance()
			}
		}
	}()

	logrus.WithFields(logrus.Fields{
		"symbols":       len(s.prices),
		"tick_interval": s.tickInterval.String(),
	}).Info("market data feed started")
}

func (s *Service) advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()

	for symbol, price := range s.prices {
		step := 1 + (s.rng.Float64()*2-1)*s.volatility
		next := price.Mul(decimal.NewFromFloat(step)).Round(pricePrecision)
		if next.LessThanOrEqual(decimal.Zero) {
			next = price
		}
		s.prices[symbol] = next

		tick := entity.Tick{
			Symbol:    symbol,
			Price:     next,
			Volume:    decimal.NewFromFloat(1 + s.rng.Float64()*9).Round(pricePrecision),
			Timestamp: now,
		}

		for _, ch := range s.subscribers[symbol] {
			select {
			case ch <- tick:
			default:
				// slow consumer, drop the tick
			}
		}
	}
}

func (s *Service) GetCurrentPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	price, ok := s.prices[symbol]
	if !ok {
		return decimal.Decimal{}, ErrUnknownSymbol
	}

	return price, nil
}

// Subscribe returns a tick channel for the symbol and a cancel function that
// releases the subscription. The stream is infinite; callers may take a
// single element and cancel.
func (s *Service) Subscribe(symbol string) (<-chan entity.Tick, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prices[symbol]; !ok {
		return nil, nil, ErrUnknownSymbol
	}

	if s.subscribers[symbol] == nil {
		s.subscribers[symbol] = make(map[int64]chan entity.Tick)
	}

	id := s.nextSubID
	s.nextSubID++

	ch := make(chan entity.Tick, subscriberBuffer)
	s.subscribers[symbol][id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if ch, ok := s.subscribers[symbol][id]; ok {
			delete(s.subscribers[symbol], id)
			close(ch)
		}
	}

	return ch, cancel, nil
}
