package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "BIST-100 daily signal screener",
	Long: `BIST-100 Daily Signal Screener

Scans the Borsa Istanbul watchlist after the session close, gates on
the XU100 index regime and publishes the top ranked buy setups to
Postgres, a PDF report and Telegram.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener run
  go run ./cmd/screener gate
  go run ./cmd/screener scheduler
  go run ./cmd/screener test-db`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
