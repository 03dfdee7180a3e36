package util

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/nats-io/nats.go"
)

const defaultProcessTimeout = 30 * time.Second

// ProcessWithTimeout runs callback against msg under a bounded context. A
// non-positive timeout falls back to the default, so callers can pass the
// configured per-subject value directly.
func ProcessWithTimeout(timeout time.Duration, msg *nats.Msg, callback func(ctx context.Context, msg *nats.Msg) error) error {
	if timeout <= 0 {
		timeout = defaultProcessTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- callback(ctx, msg)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("processing timeout after %s on subject %q: %s", timeout, msg.Subject, string(msg.Data))
	case err := <-done:
		return err
	}
}

// PublishEvent marshals data and publishes it on the jetstream subject.
func PublishEvent(js nats.JetStreamContext, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", subject, err)
	}

	if _, err := js.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish event on %s: %w", subject, err)
	}

	return nil
}
