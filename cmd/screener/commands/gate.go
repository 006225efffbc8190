package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// gateCmd represents the gate command
var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Check the market regime gate",
	Long: `Evaluates the regime gate against the benchmark index and prints
the verdict without screening any ticker.

The gate requires the benchmark close to show EMA20 above EMA50 with
RSI above 45. Any data failure counts as unsafe.

Example:
  go run ./cmd/screener gate`,
	RunE: runGate,
}

func init() {
	rootCmd.AddCommand(gateCmd)
}

func runGate(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Printf("Benchmark: %s\n", a.watchlist.Benchmark)

	if a.gate.IsMarketSafe(context.Background()) {
		fmt.Println("✅ Market regime SAFE")
	} else {
		fmt.Println("📉 Market regime UNSAFE")
	}

	return nil
}
