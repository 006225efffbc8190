// Package indicators derives technical indicator columns from a daily
// bar series. Computation is pure and stateless across instruments:
// a Frame is built, read once and discarded.
package indicators

import (
	"errors"
	"fmt"
	"math"

	"bist-screener/internal/market"
)

// Windows for the derived columns.
const (
	EMAFastWindow = 20
	EMASlowWindow = 50
	RSIWindow     = 14
	ATRWindow     = 14
	VolSMAWindow  = 20
)

// ErrMalformed marks a bar series the indicator math cannot run on.
// Callers treat it like an unavailable symbol and skip the instrument.
var ErrMalformed = errors.New("malformed bar series")

// Frame is a bar sequence augmented with derived columns, aligned by
// index. Warm-up rows shorter than an indicator's window hold NaN;
// rows are never dropped, so every column has the input length.
type Frame struct {
	Bars   []market.Bar
	EMA20  []float64
	EMA50  []float64
	RSI    []float64
	ATR    []float64
	VolSMA []float64
}

// Row is the joined view of one frame index.
type Row struct {
	Bar    market.Bar
	EMA20  float64
	EMA50  float64
	RSI    float64
	ATR    float64
	VolSMA float64
}

// Valid reports whether a derived value is defined (not warm-up NaN).
func Valid(v float64) bool {
	return !math.IsNaN(v)
}

// Annotate computes the derived columns for a bar series. A series
// shorter than a window leaves that column undefined rather than
// failing; only empty or corrupt input is an error.
func Annotate(bars []market.Bar) (*Frame, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: empty series", ErrMalformed)
	}

	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		if b.Close <= 0 || b.High <= 0 || b.Low <= 0 || b.High < b.Low {
			return nil, fmt.Errorf("%w: bad bar at index %d (%s)", ErrMalformed, i, b.Date.Format("2006-01-02"))
		}
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		volumes[i] = b.Volume
	}

	return &Frame{
		Bars:   bars,
		EMA20:  ema(closes, EMAFastWindow),
		EMA50:  ema(closes, EMASlowWindow),
		RSI:    rsi(closes, RSIWindow),
		ATR:    atr(highs, lows, closes, ATRWindow),
		VolSMA: sma(volumes, VolSMAWindow),
	}, nil
}

// Len returns the number of rows in the frame.
func (f *Frame) Len() int {
	return len(f.Bars)
}

// Row returns the joined view of index i.
func (f *Frame) Row(i int) Row {
	return Row{
		Bar:    f.Bars[i],
		EMA20:  f.EMA20[i],
		EMA50:  f.EMA50[i],
		RSI:    f.RSI[i],
		ATR:    f.ATR[i],
		VolSMA: f.VolSMA[i],
	}
}

// Latest returns the most recent row. Downstream logic consults only
// this row, so warm-up gaps elsewhere in the frame are tolerated.
func (f *Frame) Latest() (Row, bool) {
	if f.Len() == 0 {
		return Row{}, false
	}
	return f.Row(f.Len() - 1), true
}

// ema computes an exponential moving average seeded with the simple
// mean of the first window. Values before the seed are NaN.
func ema(data []float64, window int) []float64 {
	out := nanSlice(len(data))
	if len(data) < window {
		return out
	}

	k := 2.0 / (float64(window) + 1.0)

	sum := 0.0
	for i := 0; i < window; i++ {
		sum += data[i]
	}
	out[window-1] = sum / float64(window)

	for i := window; i < len(data); i++ {
		out[i] = data[i]*k + out[i-1]*(1-k)
	}

	return out
}

// rsi computes Wilder's relative strength index over closing-price
// deltas. A flat window (no gains, no losses) yields 50 by convention.
func rsi(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if len(closes) < period+1 {
		return out
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	avgGain := 0.0
	avgLoss := 0.0
	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i-1]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i-1]) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	switch {
	case avgGain == 0 && avgLoss == 0:
		return 50
	case avgLoss == 0:
		return 100
	default:
		rs := avgGain / avgLoss
		return 100 - 100/(1+rs)
	}
}

// atr computes Wilder's average true range over
// max(high-low, |high-prev close|, |low-prev close|).
func atr(highs, lows, closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if len(closes) < period+1 {
		return out
	}

	trs := make([]float64, len(closes))
	trs[0] = highs[0] - lows[0]
	for i := 1; i < len(closes); i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		trs[i] = math.Max(hl, math.Max(hc, lc))
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += trs[i]
	}
	out[period-1] = sum / float64(period)

	for i := period; i < len(closes); i++ {
		out[i] = (out[i-1]*float64(period-1) + trs[i]) / float64(period)
	}

	return out
}

// sma computes an unweighted rolling mean.
func sma(data []float64, window int) []float64 {
	out := nanSlice(len(data))
	if len(data) < window {
		return out
	}

	sum := 0.0
	for i, v := range data {
		sum += v
		if i >= window {
			sum -= data[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}

	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
