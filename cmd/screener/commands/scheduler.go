package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bist-screener/internal/api"
	"bist-screener/internal/api/handlers"
	"bist-screener/internal/scheduler"
	"bist-screener/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the scheduler daemon",
	Long: `Starts the scheduler daemon with the status API.

This command:
- Schedules the daily screening job (default 18:15 Istanbul, weekdays)
- Serves job stats and stored signals over HTTP

Endpoints:
  GET  /health
  GET  /api/jobs
  POST /api/jobs/{name}/run
  GET  /api/signals

The daemon runs until interrupted with Ctrl+C.

Example:
  go run ./cmd/screener scheduler`,
	RunE: runSchedulerDaemon,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runSchedulerDaemon(cmd *cobra.Command, args []string) error {
	fmt.Println("=== BIST Screener Scheduler ===")

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	loc, err := time.LoadLocation(a.config.Schedule.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %s: %w", a.config.Schedule.Timezone, err)
	}

	sched := scheduler.New(a.logger, loc)
	if err := sched.AddJob(jobs.NewScreenJob(a.runner, a.config.Schedule.Cron, a.logger)); err != nil {
		return fmt.Errorf("register screen job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	statusHandler := handlers.NewStatusHandler(sched, a.repo, a.logger)
	router := api.NewRouter(statusHandler, a.logger)
	server := api.New(a.config, a.logger, router)

	fmt.Printf("\n✅ Scheduler running, status on http://localhost:%s\n", a.config.Port)
	fmt.Printf("   Schedule: %s (%s)\n", a.config.Schedule.Cron, a.config.Schedule.Timezone)
	fmt.Println("\nPress Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("status server: %w", err)
	}

	return nil
}
