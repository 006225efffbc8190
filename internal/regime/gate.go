// Package regime decides whether the overall market is in a tradable
// state. The gate runs before the per-instrument screen and
// short-circuits the whole run when it says no.
package regime

import (
	"context"

	"bist-screener/internal/indicators"
	"bist-screener/internal/market"
	"bist-screener/pkg/logger"
)

// Default thresholds for the benchmark decision.
const (
	// Benchmark is the BIST 100 index.
	DefaultBenchmark = "XU100.IS"

	// Momentum below this reads as bearish even in an uptrend.
	minBenchmarkRSI = 45
)

// BarSource supplies daily bars for a symbol.
type BarSource interface {
	Daily(ctx context.Context, symbol string) ([]market.Bar, error)
}

// Gate checks the benchmark index trend before any instrument is
// screened. It holds no state between runs.
type Gate struct {
	source    BarSource
	benchmark string
	logger    *logger.Logger
}

// NewGate creates a regime gate for a benchmark symbol. An empty
// symbol falls back to the BIST 100 index.
func NewGate(source BarSource, benchmark string, log *logger.Logger) *Gate {
	if benchmark == "" {
		benchmark = DefaultBenchmark
	}
	return &Gate{
		source:    source,
		benchmark: benchmark,
		logger:    log,
	}
}

// IsMarketSafe reports whether the benchmark is in an uptrend with
// healthy momentum: EMA20 > EMA50 and RSI > 45 on the latest row.
// Any retrieval or computation failure fails closed (unsafe), so a
// broken benchmark feed never burns fetch quota on the full universe.
func (g *Gate) IsMarketSafe(ctx context.Context) bool {
	bars, err := g.source.Daily(ctx, g.benchmark)
	if err != nil {
		g.logger.WithFields(map[string]interface{}{
			"benchmark": g.benchmark,
			"error":     err.Error(),
		}).Warn("Benchmark bars unavailable, market treated as unsafe")
		return false
	}

	frame, err := indicators.Annotate(bars)
	if err != nil {
		g.logger.WithError(err).Warn("Benchmark indicators failed, market treated as unsafe")
		return false
	}

	last, ok := frame.Latest()
	if !ok {
		return false
	}

	safe := safeRow(last)

	g.logger.WithFields(map[string]interface{}{
		"benchmark": g.benchmark,
		"ema20":     last.EMA20,
		"ema50":     last.EMA50,
		"rsi":       last.RSI,
		"safe":      safe,
	}).Info("Regime check completed")

	return safe
}

// safeRow is the pure decision on the benchmark's latest row.
// Undefined warm-up values compare false, which also fails closed.
func safeRow(row indicators.Row) bool {
	return row.EMA20 > row.EMA50 && row.RSI > minBenchmarkRSI
}
