package bootstrap

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/krobus00/trading-sim/internal/config"
	"github.com/krobus00/trading-sim/internal/constant"
	"github.com/krobus00/trading-sim/internal/entity"
	grpcHandler "github.com/krobus00/trading-sim/internal/handler/order/grpc"
	httpHandler "github.com/krobus00/trading-sim/internal/handler/order/http"
	"github.com/krobus00/trading-sim/internal/infrastructure"
	"github.com/krobus00/trading-sim/internal/repository"
	"github.com/krobus00/trading-sim/internal/service/marketdata"
	"github.com/krobus00/trading-sim/internal/service/order"
	"github.com/krobus00/trading-sim/internal/util"
	pb "github.com/krobus00/trading-sim/pb/order"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

func StartOrderGateway(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ordersDB, err := infrastructure.NewPostgresConnection(ctx, config.Env.Database["orders"])
	util.ContinueOrFatal(err)
	infrastructure.StartPostgresHealthCheck(ctx, ordersDB, config.Env.Database["orders"].PingInterval)

	nc, js, err := infrastructure.NewJetstream()
	util.ContinueOrFatal(err)

	marketDataClient, err := marketdata.NewClient(config.Env.MarketDataClient)
	util.ContinueOrFatal(err)

	orderRepo := repository.NewOrderRepository(ordersDB, config.Env.Database["orders"].CommitTimeout)

	registry := entity.NewSymbolRegistry(symbolsFromConfig())

	orderService := order.NewOrderService(orderRepo, marketDataClient, registry, order.NewJetstreamPublisher(js), js)

	publishers := []entity.Publisher{orderService}
	for _, v := range publishers {
		err = v.JetstreamEventInit(ctx)
		util.ContinueOrFatal(err)
	}

	grpcServer := grpc.NewServer()
	orderGrpcServer := grpcHandler.NewOrderGRPCServer(orderService)
	pb.RegisterOrderServiceServer(grpcServer, orderGrpcServer)

	if config.Env.Env == constant.DevelopmentEnvironment {
		reflection.Register(grpcServer)
	}

	grpcPort := fmt.Sprintf(":%s", config.Env.Port["order_gateway_grpc"])

	lis, err := net.Listen("tcp", grpcPort)
	util.ContinueOrFatal(err)

	go func() {
		_ = grpcServer.Serve(lis)
	}()
	logrus.Info(fmt.Sprintf("grpc server started on %s", grpcPort))

	orderHTTPHandler := httpHandler.NewOrderHTTPHandler(orderService)
	httpMux := http.NewServeMux()
	infrastructure.RegisterHealthRoutes(httpMux)
	orderHTTPHandler.Register(httpMux)

	httpPort := fmt.Sprintf(":%s", config.Env.Port["order_gateway_http"])
	httpServer := infrastructure.NewHTTPServerWithConfig(infrastructure.HTTPServerConfig{
		Addr:            httpPort,
		ShutdownTimeout: config.Env.GracefulShutdownTimeout,
	}, httpMux)

	go func() {
		err := httpServer.Start()
		if err != nil {
			logrus.Error(err)
		}
	}()
	logrus.Info(fmt.Sprintf("http server started on %s", httpPort))

	wait := gracefulShutdown(ctx, config.Env.GracefulShutdownTimeout, map[string]operation{
		"orders database": func(ctx context.Context) error {
			cancel()
			return ordersDB.Close()
		},
		"grpc": func(ctx context.Context) error {
			return lis.Close()
		},
		"http": func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
		"market data client": func(ctx context.Context) error {
			return marketDataClient.Close()
		},
		"nats connection": func(ctx context.Context) error {
			return infrastructure.CloseJetstream(nc)
		},
	})

	<-wait
}

func symbolsFromConfig() []string {
	symbols := make([]string, 0, len(config.Env.MarketData.Symbols))
	for symbol := range config.Env.MarketData.Symbols {
		symbols = append(symbols, symbol)
	}

	return symbols
}
