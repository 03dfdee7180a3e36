package bootstrap

import (
	"context"

	"github.com/krobus00/trading-sim/internal/config"
	"github.com/krobus00/trading-sim/internal/entity"
	"github.com/krobus00/trading-sim/internal/infrastructure"
	"github.com/krobus00/trading-sim/internal/repository"
	"github.com/krobus00/trading-sim/internal/service/order"
	"github.com/krobus00/trading-sim/internal/util"
	"github.com/spf13/cobra"
)

func StartOrderWorker(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nc, js, err := infrastructure.NewJetstream()
	util.ContinueOrFatal(err)

	redisClient, err := infrastructure.NewRedisClient(ctx, config.Env.Redis["idempotency"])
	util.ContinueOrFatal(err)

	idempotencyStore := repository.NewRedisIdempotencyStore(redisClient)

	workerService := order.NewWorkerService(
		js,
		idempotencyStore,
		config.Env.Idempotency,
		order.SimulatedProcessing(config.Env.Worker.ProcessingDelay),
	)

	subscribers := []entity.Subscriber{workerService}
	for _, v := range subscribers {
		err = v.JetstreamEventSubscribe(ctx)
		util.ContinueOrFatal(err)
	}

	wait := gracefulShutdown(ctx, config.Env.GracefulShutdownTimeout, map[string]operation{
		"idempotency store": func(ctx context.Context) error {
			cancel()
			return idempotencyStore.Close()
		},
		"nats connection": func(ctx context.Context) error {
			return infrastructure.CloseJetstream(nc)
		},
	})

	<-wait
}
