package signal

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bist-screener/internal/indicators"
	"bist-screener/internal/market"
	"bist-screener/pkg/logger"
)

type stubSource struct {
	bars map[string][]market.Bar
}

func (s *stubSource) Daily(ctx context.Context, symbol string) ([]market.Bar, error) {
	bars, ok := s.bars[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", market.ErrUnavailable, symbol)
	}
	return bars, nil
}

func trendBars(n int, fn func(i int) float64) []market.Bar {
	start := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, n)
	for i := range bars {
		c := fn(i)
		bars[i] = market.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.02,
			Low:    c * 0.98,
			Close:  c,
			Volume: 1_000_000 + 50_000*float64(i), // rising volume beats its mean
		}
	}
	return bars
}

func row(close, ema20, ema50, rsi, atr, volume, volSMA float64) indicators.Row {
	return indicators.Row{
		Bar:    market.Bar{Close: close, Volume: volume},
		EMA20:  ema20,
		EMA50:  ema50,
		RSI:    rsi,
		ATR:    atr,
		VolSMA: volSMA,
	}
}

func newGenerator(source BarSource) *Generator {
	return NewGenerator(source, DefaultConfig(), logger.NewNop())
}

func TestEvaluate_QualifiedRow(t *testing.T) {
	g := newGenerator(nil)

	// close=100, ATR=2, uptrend, RSI=65, volume above its mean
	sig, ok := g.evaluate("AKBNK.IS", row(100, 105, 102, 65, 2, 2_000_000, 1_500_000))
	require.True(t, ok)

	assert.Equal(t, "AKBNK", sig.Symbol)
	assert.Equal(t, KindBuy, sig.Kind)
	assert.Equal(t, StatusOpen, sig.Status)
	assert.Equal(t, 100.0, sig.Entry)
	assert.Equal(t, 97.0, sig.Stop)
	assert.Equal(t, 106.0, sig.Target)
	assert.Equal(t, 100, sig.Score)
	assert.Equal(t, 2.0, sig.RewardRisk)
}

func TestEvaluate_StopBelowEntryBelowTarget(t *testing.T) {
	g := newGenerator(nil)

	sig, ok := g.evaluate("SISE.IS", row(47.38, 48, 46, 58, 1.234, 900_000, 850_000))
	require.True(t, ok)

	assert.Less(t, sig.Stop, sig.Entry)
	assert.Less(t, sig.Entry, sig.Target)

	// rr recomputed from the rounded outputs still lands on 2.0
	rr := (sig.Target - sig.Entry) / (sig.Entry - sig.Stop)
	assert.InDelta(t, 2.0, rr, 0.02)
}

func TestEvaluate_ModerateRSIScoresSeventyFive(t *testing.T) {
	g := newGenerator(nil)

	// RSI in (55, 60]: no strong-momentum bonus, still qualifies
	sig, ok := g.evaluate("THYAO.IS", row(250, 255, 250, 58, 5, 2_000_000, 1_000_000))
	require.True(t, ok)
	assert.Equal(t, 75, sig.Score)
}

func TestEvaluate_Disqualifiers(t *testing.T) {
	g := newGenerator(nil)

	tests := []struct {
		name string
		row  indicators.Row
	}{
		{"downtrend", row(100, 99, 102, 65, 2, 2_000_000, 1_500_000)},
		{"weak momentum", row(100, 105, 102, 54, 2, 2_000_000, 1_500_000)},
		{"no volume confirmation", row(100, 105, 102, 65, 2, 1_000_000, 1_500_000)},
		{"zero atr", row(100, 105, 102, 65, 0, 2_000_000, 1_500_000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := g.evaluate("X.IS", tt.row)
			assert.False(t, ok)
		})
	}
}

func TestGenerate_SkipsUnavailableAndDowntrend(t *testing.T) {
	source := &stubSource{bars: map[string][]market.Bar{
		"UP.IS":   trendBars(130, func(i int) float64 { return 50 + float64(i) }),
		"DOWN.IS": trendBars(130, func(i int) float64 { return 300 - float64(i) }),
	}}
	g := newGenerator(source)

	signals := g.Generate(context.Background(), []string{"UP.IS", "DOWN.IS", "MISSING.IS"})

	require.Len(t, signals, 1)
	assert.Equal(t, "UP", signals[0].Symbol)
}

func TestGenerate_LimitAndOrdering(t *testing.T) {
	bars := map[string][]market.Bar{}
	symbols := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		sym := fmt.Sprintf("S%d.IS", i)
		symbols = append(symbols, sym)
		bars[sym] = trendBars(130, func(j int) float64 { return 50 + float64(j) })
	}
	g := newGenerator(&stubSource{bars: bars})

	signals := g.Generate(context.Background(), symbols)

	require.Len(t, signals, DefaultConfig().Limit)
	for i := 1; i < len(signals); i++ {
		assert.GreaterOrEqual(t, signals[i-1].Score, signals[i].Score)
	}

	// Equal scores keep universe order (stable sort)
	assert.Equal(t, "S0", signals[0].Symbol)
	assert.Equal(t, "S1", signals[1].Symbol)
	assert.Equal(t, "S2", signals[2].Symbol)
}

func TestGenerate_EmptyUniverse(t *testing.T) {
	g := newGenerator(&stubSource{})

	signals := g.Generate(context.Background(), nil)
	assert.Empty(t, signals)
}
