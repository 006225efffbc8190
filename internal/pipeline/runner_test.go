package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bist-screener/internal/market"
	"bist-screener/internal/regime"
	"bist-screener/internal/signal"
	"bist-screener/internal/universe"
	"bist-screener/pkg/logger"
)

type countingSource struct {
	bars  map[string][]market.Bar
	calls int32
}

func (s *countingSource) Daily(ctx context.Context, symbol string) ([]market.Bar, error) {
	atomic.AddInt32(&s.calls, 1)
	bars, ok := s.bars[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", market.ErrUnavailable, symbol)
	}
	return bars, nil
}

type fakePublisher struct {
	published   []signal.Run
	unsafeCalls int
}

func (p *fakePublisher) Publish(ctx context.Context, run signal.Run) {
	p.published = append(p.published, run)
}

func (p *fakePublisher) MarketUnsafe(ctx context.Context) {
	p.unsafeCalls++
}

func bars(n int, fn func(i int) float64) []market.Bar {
	start := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	out := make([]market.Bar, n)
	for i := range out {
		c := fn(i)
		out[i] = market.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.02,
			Low:    c * 0.98,
			Close:  c,
			Volume: 1_000_000 + 50_000*float64(i),
		}
	}
	return out
}

func rising(base float64) []market.Bar {
	return bars(130, func(i int) float64 { return base + float64(i) })
}

func falling(base float64) []market.Bar {
	return bars(130, func(i int) float64 { return base - float64(i) })
}

func newRunner(source *countingSource, publisher Publisher, tickers ...string) *Runner {
	log := logger.NewNop()
	wl := &universe.Watchlist{Benchmark: "XU100.IS", Limit: 3, Tickers: tickers}

	gate := regime.NewGate(source, wl.Benchmark, log)
	generator := signal.NewGenerator(source, signal.DefaultConfig(), log)

	return New(gate, generator, publisher, wl, log)
}

func TestRun_UnsafeRegimeShortCircuits(t *testing.T) {
	source := &countingSource{bars: map[string][]market.Bar{
		"XU100.IS": falling(12000),
		"GARAN.IS": rising(100),
	}}
	publisher := &fakePublisher{}
	runner := newRunner(source, publisher, "GARAN.IS")

	result := runner.Run(context.Background())

	assert.False(t, result.Safe)
	assert.Empty(t, result.Signals)

	// Gate abort sends exactly one unsafe notice, publishes nothing,
	// and never touches the instrument universe.
	assert.Equal(t, 1, publisher.unsafeCalls)
	assert.Empty(t, publisher.published)
	assert.EqualValues(t, 1, atomic.LoadInt32(&source.calls), "only the benchmark may be fetched")
}

func TestRun_UnsafeOnBenchmarkUnavailable(t *testing.T) {
	source := &countingSource{bars: map[string][]market.Bar{}}
	publisher := &fakePublisher{}
	runner := newRunner(source, publisher, "GARAN.IS")

	result := runner.Run(context.Background())

	assert.False(t, result.Safe)
	assert.Equal(t, 1, publisher.unsafeCalls)
}

func TestRun_PublishesRankedSignals(t *testing.T) {
	source := &countingSource{bars: map[string][]market.Bar{
		"XU100.IS": rising(9000),
		"GARAN.IS": rising(100),
		"THYAO.IS": falling(400),
		// GONE.IS is absent: unavailable, skipped silently
	}}
	publisher := &fakePublisher{}
	runner := newRunner(source, publisher, "GARAN.IS", "THYAO.IS", "GONE.IS")

	result := runner.Run(context.Background())

	assert.True(t, result.Safe)
	require.Len(t, result.Signals, 1)
	assert.Equal(t, "GARAN", result.Signals[0].Symbol)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, result.Signals, publisher.published[0].Signals)
	assert.Equal(t, 0, publisher.unsafeCalls)
}

func TestRun_EmptyResultStillPublished(t *testing.T) {
	// Safe regime, but no instrument qualifies: consumers get an
	// empty run (empty-result notification path).
	source := &countingSource{bars: map[string][]market.Bar{
		"XU100.IS": rising(9000),
		"THYAO.IS": falling(400),
	}}
	publisher := &fakePublisher{}
	runner := newRunner(source, publisher, "THYAO.IS")

	result := runner.Run(context.Background())

	assert.True(t, result.Safe)
	assert.Empty(t, result.Signals)
	require.Len(t, publisher.published, 1)
	assert.True(t, publisher.published[0].Empty())
}
