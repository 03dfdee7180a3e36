/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"github.com/krobus00/trading-sim/internal/bootstrap"
	"github.com/spf13/cobra"
)

// marketDataGatewayCmd represents the marketDataGateway command
var marketDataGatewayCmd = &cobra.Command{
	Use:   "market-data-gateway",
	Short: "Start the market data gateway service",
	Long: `The Market Data Gateway runs the simulated price feed and serves it to
clients: current prices and a tick stream over gRPC, plus a WebSocket
stream on the HTTP port.`,
	Run: bootstrap.StartMarketDataGateway,
}

func init() {
	rootCmd.AddCommand(marketDataGatewayCmd)
}
