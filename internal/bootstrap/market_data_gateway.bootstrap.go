package bootstrap

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/krobus00/trading-sim/internal/config"
	"github.com/krobus00/trading-sim/internal/constant"
	grpcHandler "github.com/krobus00/trading-sim/internal/handler/marketdata/grpc"
	httpHandler "github.com/krobus00/trading-sim/internal/handler/marketdata/http"
	"github.com/krobus00/trading-sim/internal/infrastructure"
	"github.com/krobus00/trading-sim/internal/service/marketdata"
	"github.com/krobus00/trading-sim/internal/util"
	pb "github.com/krobus00/trading-sim/pb/marketdata"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

func StartMarketDataGateway(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed, err := marketdata.NewService(config.Env.MarketData)
	util.ContinueOrFatal(err)
	feed.Start(ctx)

	grpcServer := grpc.NewServer()
	marketDataGrpcServer := grpcHandler.NewMarketDataGRPCServer(feed)
	pb.RegisterMarketDataServiceServer(grpcServer, marketDataGrpcServer)

	if config.Env.Env == constant.DevelopmentEnvironment {
		reflection.Register(grpcServer)
	}

	grpcPort := fmt.Sprintf(":%s", config.Env.Port["market_data_grpc"])

	lis, err := net.Listen("tcp", grpcPort)
	util.ContinueOrFatal(err)

	go func() {
		_ = grpcServer.Serve(lis)
	}()
	logrus.Info(fmt.Sprintf("grpc server started on %s", grpcPort))

	marketDataHTTPHandler := httpHandler.NewMarketDataHTTPHandler(feed)
	httpMux := http.NewServeMux()
	infrastructure.RegisterHealthRoutes(httpMux)
	marketDataHTTPHandler.Register(httpMux)

	httpPort := fmt.Sprintf(":%s", config.Env.Port["market_data_http"])
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
		"market data feed": func(ctx context.Context) error {
			cancel()
			return nil
		},
		"grpc": func(ctx context.Context) error {
			return lis.Close()
		},
		"http": func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
	})

	<-wait
}
