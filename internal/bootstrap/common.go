package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

type operation func(ctx context.Context) error

// gracefulShutdown blocks on SIGINT/SIGTERM/SIGHUP and then runs every
// cleanup operation concurrently. The process force-exits if cleanup does
// not finish within timeout.
func gracefulShutdown(ctx context.Context, timeout time.Duration, ops map[string]operation) <-chan struct{} {
	wait := make(chan struct{})
	go func() {
		s := make(chan os.Signal, 1)
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		<-s

		logrus.Info("shutting down")

		timeoutFunc := time.AfterFunc(timeout, func() {
			logrus.Errorf("shutdown timed out after %s, force exit", timeout)
			os.Exit(1)
		})
		defer timeoutFunc.Stop()

		var wg sync.WaitGroup
		for name, op := range ops {
			name, op := name, op
			wg.Add(1)
			go func() {
				defer wg.Done()

				logrus.Infof("cleaning up: %s", name)
				if err := op(ctx); err != nil {
					logrus.Errorf("%s: clean up failed: %v", name, err)
					return
				}

				logrus.Infof("%s shut down cleanly", name)
			}()
		}
		wg.Wait()

		close(wait)
	}()

	return wait
}
