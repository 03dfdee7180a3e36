/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"github.com/krobus00/trading-sim/internal/bootstrap"
	"github.com/spf13/cobra"
)

// orderWorkerCmd represents the order worker command
var orderWorkerCmd = &cobra.Command{
	Use:   "order-worker",
	Short: "Start the order event worker",
	Long: `The order worker consumes order.created events from the bus and runs the
downstream processing for each order. A Redis-backed idempotency lock
guarantees the processing runs at most once per order even when the bus
redelivers a message.`,
	Run: bootstrap.StartOrderWorker,
}

func init() {
	rootCmd.AddCommand(orderWorkerCmd)
}
