package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bist-screener/pkg/config"
	"bist-screener/pkg/database"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "Test the PostgreSQL connection",
	Long: `Tests the database connection and prints pool statistics.

This command:
- Loads DATABASE_URL from config
- Opens a connection pool
- Runs a ping test
- Prints connection pool statistics

Example:
  go run ./cmd/screener test-db`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Database Connection Test ===")

	fmt.Println("Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	if !cfg.PersistenceEnabled() {
		return fmt.Errorf("❌ DATABASE_URL is not set")
	}
	fmt.Printf("✅ Config loaded (ENV: %s)\n\n", cfg.Env)

	fmt.Println("Connecting to database...")
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()
	fmt.Println("✅ Database connection established")

	fmt.Println("Testing connection (Ping)...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("❌ Failed to ping database: %w", err)
	}
	fmt.Println("✅ Ping successful")

	stats := db.Stats()
	fmt.Println("\n📊 Connection Pool Statistics:")
	fmt.Printf("   Max Connections: %d\n", stats.MaxConns)
	fmt.Printf("   Total Connections: %d\n", stats.TotalConns)
	fmt.Printf("   Acquired Connections: %d\n", stats.AcquiredConns)
	fmt.Printf("   Idle Connections: %d\n", stats.IdleConns)
	fmt.Printf("   Acquire Count: %d\n", stats.AcquireCount)

	fmt.Println("\n✅ All tests passed!")
	return nil
}
