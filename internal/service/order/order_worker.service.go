package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/krobus00/trading-sim/internal/config"
	"github.com/krobus00/trading-sim/internal/constant"
	"github.com/krobus00/trading-sim/internal/entity"
	"github.com/krobus00/trading-sim/internal/repository"
	"github.com/krobus00/trading-sim/internal/util"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

type ProcessOutcome string

const (
	OutcomeProcessed        ProcessOutcome = "PROCESSED"
	OutcomeDuplicateSkipped ProcessOutcome = "DUPLICATE_SKIPPED"
)

const (
	idempotencyMarker      = "1"
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultProcessingDelay = 2 * time.Second
)

// SideEffect is the downstream business action triggered by an order.created
// event. It must run at most once per order ID.
type SideEffect func(ctx context.Context, event entity.OrderCreatedEvent) error

// SimulatedProcessing stands in for the real downstream action (reporting,
// notifications). It only has to be slow.
func SimulatedProcessing(delay time.Duration) SideEffect {
	if delay <= 0 {
		delay = defaultProcessingDelay
	}

	return func(ctx context.Context, event entity.OrderCreatedEvent) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		logrus.WithFields(logrus.Fields{
			"order_id": event.OrderID,
			"symbol":   event.Symbol,
		}).Info("downstream processing complete")

		return nil
	}
}

// WorkerService consumes order.created events. The idempotency store's
// atomic set-if-absent is the sole synchronization primitive deciding which
// of any number of concurrent deliveries owns the side effect.
type WorkerService struct {
	js               nats.JetStreamContext
	idempotencyStore repository.IdempotencyStore
	ttl              time.Duration
	keyPrefix        string
	sideEffect       SideEffect
}

func NewWorkerService(js nats.JetStreamContext, idempotencyStore repository.IdempotencyStore, idempotencyCfg config.IdempotencyConfig, sideEffect SideEffect) *WorkerService {
	ttl := idempotencyCfg.TTL
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}

	keyPrefix := idempotencyCfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = constant.IdempotencyKeyPrefix
	}

	if sideEffect == nil {
		sideEffect = SimulatedProcessing(defaultProcessingDelay)
	}

	return &WorkerService{
		js:               js,
		idempotencyStore: idempotencyStore,
		ttl:              ttl,
		keyPrefix:        keyPrefix,
		sideEffect:       sideEffect,
	}
}

func (s *WorkerService) JetstreamEventInit(ctx context.Context) error {
	return initOrderStream(ctx, s.js)
}

func (s *WorkerService) JetstreamEventSubscribe(ctx context.Context) error {
	err := s.JetstreamEventInit(ctx)
	if err != nil {
		logrus.Error(err)
		return err
	}

	// util.ProcessWithTimeout applies its default when nothing is configured
	var timeout time.Duration
	if config.Env != nil {
		timeout = config.Env.NatsJetstream.TimeoutHandler["order_created"]
	}

	_, err = s.js.QueueSubscribe(
		constant.OrderStreamSubjectCreated,
		constant.OrderWorkerQueueName,
		func(msg *nats.Msg) {
			err := util.ProcessWithTimeout(timeout, msg, s.handleOrderCreatedEvent)
			if err != nil {
				logrus.Errorf("error processing message: %v", err)
				return
			}

			err = msg.Ack()
			if err != nil {
				logrus.Errorf("failed to acknowledge message: %v", err)
				return
			}
		},
		nats.ManualAck(),
		nats.Durable(constant.OrderWorkerQueueGroup),
	)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"subject": constant.OrderStreamSubjectCreated,
		"queue":   constant.OrderWorkerQueueName,
	}).Info("order worker subscribed")

	return nil
}

func (s *WorkerService) handleOrderCreatedEvent(ctx context.Context, msg *nats.Msg) error {
	var event entity.OrderCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		// poison message, ack it so the queue keeps moving
		logrus.WithField("payload", string(msg.Data)).Errorf("dropping malformed event: %v", err)
		return nil
	}

	if event.OrderID == "" {
		logrus.WithField("payload", string(msg.Data)).Error("dropping event without order_id")
		return nil
	}

	outcome, err := s.HandleOrderCreated(ctx, event)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"order_id": event.OrderID,
		"outcome":  outcome,
	}).Debug("order created event handled")

	return nil
}

// HandleOrderCreated guarantees the side effect executes at most once per
// order ID, no matter how many times the transport redelivers the event.
// The lock is taken before processing; a crash mid-processing parks the
// order for the remainder of the TTL window (accepted tradeoff of the
// lock-then-process scheme).
func (s *WorkerService) HandleOrderCreated(ctx context.Context, event entity.OrderCreatedEvent) (ProcessOutcome, error) {
	key := s.idempotencyKey(event.OrderID)

	isNewEvent, err := s.idempotencyStore.SetIfAbsent(ctx, key, idempotencyMarker, s.ttl)
	if err != nil {
		return "", fmt.Errorf("idempotency check for order %s: %w", event.OrderID, err)
	}

	if !isNewEvent {
		logrus.WithFields(logrus.Fields{
			"order_id": event.OrderID,
			"status":   "SKIPPED",
		}).Warn("duplicate event detected")
		return OutcomeDuplicateSkipped, nil
	}

	logrus.WithFields(logrus.Fields{
		"order_id": event.OrderID,
		"symbol":   event.Symbol,
	}).Info("processing order created event")

	if err := s.sideEffect(ctx, event); err != nil {
		// The lock stays held for the TTL, so the redelivered message
		// will be skipped. Returning the error leaves the message
		// unacked for operator visibility.
		return "", fmt.Errorf("side effect for order %s: %w", event.OrderID, err)
	}

	return OutcomeProcessed, nil
}

func (s *WorkerService) idempotencyKey(orderID string) string {
	return fmt.Sprintf("%s:%s", s.keyPrefix, orderID)
}
