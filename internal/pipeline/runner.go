// Package pipeline composes the daily screen: regime gate, signal
// generation and report fan-out, run strictly in that order.
package pipeline

import (
	"context"
	"time"

	"bist-screener/internal/regime"
	"bist-screener/internal/signal"
	"bist-screener/internal/universe"
	"bist-screener/pkg/logger"
)

// Publisher receives the finalized run. Implemented by report.Reporter.
type Publisher interface {
	Publish(ctx context.Context, run signal.Run)
	MarketUnsafe(ctx context.Context)
}

// Runner drives one screening run end to end.
type Runner struct {
	gate      *regime.Gate
	generator *signal.Generator
	publisher Publisher
	watchlist *universe.Watchlist
	logger    *logger.Logger
}

// Result summarizes a completed run.
type Result struct {
	Date     time.Time
	Safe     bool
	Signals  []signal.Signal
	Duration time.Duration
}

// New creates a pipeline runner.
func New(gate *regime.Gate, generator *signal.Generator, publisher Publisher, watchlist *universe.Watchlist, log *logger.Logger) *Runner {
	return &Runner{
		gate:      gate,
		generator: generator,
		publisher: publisher,
		watchlist: watchlist,
		logger:    log,
	}
}

// Run executes one screen. An unsafe regime short-circuits before any
// instrument is fetched and produces its own notification; otherwise
// the ranked signals fan out to every report consumer, including the
// empty-list case.
func (r *Runner) Run(ctx context.Context) *Result {
	start := time.Now()
	result := &Result{Date: start}

	r.logger.WithField("universe", len(r.watchlist.Tickers)).Info("Screening run started")

	if !r.gate.IsMarketSafe(ctx) {
		r.logger.Info("Market regime unsafe, run aborted")
		r.publisher.MarketUnsafe(ctx)
		result.Duration = time.Since(start)
		return result
	}
	result.Safe = true

	result.Signals = r.generator.Generate(ctx, r.watchlist.Tickers)

	run := signal.Run{Date: result.Date, Signals: result.Signals}
	r.publisher.Publish(ctx, run)

	result.Duration = time.Since(start)
	r.logger.WithFields(map[string]interface{}{
		"signals":  len(result.Signals),
		"duration": result.Duration,
	}).Info("Screening run completed")

	return result
}
