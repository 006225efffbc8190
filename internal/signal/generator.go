package signal

import (
	"context"
	"sort"

	"bist-screener/internal/indicators"
	"bist-screener/internal/market"
	"bist-screener/pkg/logger"
)

// BarSource supplies daily bars for a symbol.
type BarSource interface {
	Daily(ctx context.Context, symbol string) ([]market.Bar, error)
}

// Config holds the entry rules and scoring parameters.
type Config struct {
	StopATRMult   float64 // stop distance in ATR multiples
	TargetATRMult float64 // target distance in ATR multiples
	MinRSI        float64 // momentum condition threshold
	StrongRSI     float64 // extra score above this
	MinScore      int     // qualification threshold
	Limit         int     // maximum signals retained per run
}

// DefaultConfig returns the production scoring parameters. The
// 1.5/3.0 multiples make the reward/risk ratio structurally 2.0
// whenever ATR is positive; the rr bonus and the minimum score are
// still checked as written.
func DefaultConfig() Config {
	return Config{
		StopATRMult:   1.5,
		TargetATRMult: 3.0,
		MinRSI:        55,
		StrongRSI:     60,
		MinScore:      70,
		Limit:         3,
	}
}

// Generator screens the instrument universe and retains the top
// scoring buy candidates. Instruments are processed independently
// and in list order; no state crosses instrument boundaries.
type Generator struct {
	source BarSource
	config Config
	logger *logger.Logger
}

// NewGenerator creates a signal generator.
func NewGenerator(source BarSource, config Config, log *logger.Logger) *Generator {
	return &Generator{
		source: source,
		config: config,
		logger: log,
	}
}

// Generate evaluates every symbol and returns at most config.Limit
// signals, sorted by score descending. Ties keep the original
// iteration order. A symbol that cannot be fetched or annotated is
// skipped silently; the run always continues.
func (g *Generator) Generate(ctx context.Context, symbols []string) []Signal {
	signals := make([]Signal, 0, len(symbols))

	for _, symbol := range symbols {
		g.logger.WithField("symbol", symbol).Debug("Screening instrument")

		bars, err := g.source.Daily(ctx, symbol)
		if err != nil {
			continue
		}

		frame, err := indicators.Annotate(bars)
		if err != nil {
			g.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"error":  err.Error(),
			}).Warn("Indicator computation failed, skipping instrument")
			continue
		}

		last, ok := frame.Latest()
		if !ok {
			continue
		}

		if sig, ok := g.evaluate(symbol, last); ok {
			signals = append(signals, sig)
		}
	}

	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Score > signals[j].Score
	})

	if len(signals) > g.config.Limit {
		signals = signals[:g.config.Limit]
	}

	g.logger.WithFields(map[string]interface{}{
		"universe": len(symbols),
		"signals":  len(signals),
	}).Info("Signal generation completed")

	return signals
}

// evaluate applies the entry rules and score to the latest row.
// Undefined warm-up values compare false and disqualify the row.
func (g *Generator) evaluate(symbol string, row indicators.Row) (Signal, bool) {
	trend := row.EMA20 > row.EMA50
	momentum := row.RSI > g.config.MinRSI
	volumeConfirm := row.Bar.Volume > row.VolSMA

	if !trend || !momentum || !volumeConfirm {
		return Signal{}, false
	}

	atr := row.ATR
	if !indicators.Valid(atr) || atr <= 0 {
		return Signal{}, false
	}

	entry := row.Bar.Close
	stop := entry - g.config.StopATRMult*atr
	target := entry + g.config.TargetATRMult*atr
	rewardRisk := (target - entry) / (entry - stop)

	score := 0
	if trend {
		score += 30
	}
	if row.RSI > g.config.StrongRSI {
		score += 25
	}
	if volumeConfirm {
		score += 20
	}
	if rewardRisk >= 2 {
		score += 25
	}

	if score < g.config.MinScore {
		return Signal{}, false
	}

	return Signal{
		Symbol:     stripSuffix(symbol),
		Kind:       KindBuy,
		Entry:      round2(entry),
		Stop:       round2(stop),
		Target:     round2(target),
		Score:      score,
		RewardRisk: round2(rewardRisk),
		Status:     StatusOpen,
	}, true
}
