package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bist-screener/internal/signal"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one screening pass now",
	Long: `Runs the full screening pipeline once, outside the schedule.

This command:
- Checks the XU100 regime gate
- Screens every watchlist ticker when the regime is safe
- Persists signals, renders the PDF and notifies Telegram

Example:
  go run ./cmd/screener run`,
	RunE: runScreen,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScreen(cmd *cobra.Command, args []string) error {
	fmt.Println("=== BIST Screener ===")

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	result := a.runner.Run(context.Background())

	if !result.Safe {
		fmt.Println("\n📉 Market regime unsafe, no trades today")
		return nil
	}

	if len(result.Signals) == 0 {
		fmt.Println("\nNo qualifying signals today")
		return nil
	}

	fmt.Printf("\n✅ %d signal(s) in %s\n\n", len(result.Signals), result.Duration.Round(time.Millisecond))
	for i, s := range result.Signals {
		fmt.Println(formatSignalLine(i+1, s))
	}

	return nil
}

// formatSignalLine renders one ranked signal for the console summary.
func formatSignalLine(rank int, s signal.Signal) string {
	return fmt.Sprintf("%d. %s  entry=%.2f stop=%.2f tp=%.2f score=%d rr=%.1f",
		rank, s.Symbol, s.Entry, s.Stop, s.Target, s.Score, s.RewardRisk)
}
