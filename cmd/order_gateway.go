/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"github.com/krobus00/trading-sim/internal/bootstrap"
	"github.com/spf13/cobra"
)

// orderGatewayCmd represents the orderGateway command
var orderGatewayCmd = &cobra.Command{
	Use:   "order-gateway",
	Short: "Start the Order Gateway service",
	Long: `The Order Gateway accepts order requests over gRPC and HTTP. For every
request it resolves the trade price against the market data service,
persists the order inside a single transaction and publishes an
order.created event to the bus once the commit has succeeded.`,
	Run: bootstrap.StartOrderGateway,
}

func init() {
	rootCmd.AddCommand(orderGatewayCmd)
}
