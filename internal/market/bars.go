package market

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable marks a symbol whose daily bars could not be
// retrieved (network failure, unknown symbol, empty result). Callers
// skip the symbol for the run; nothing retries.
var ErrUnavailable = errors.New("market data unavailable")

// Bar is one trading day's OHLCV observation for one instrument.
// Bars are immutable once retrieved and scoped to a single run.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// chartResponse mirrors the Yahoo Finance v8 chart payload.
// Quote columns use pointers because the API emits null for halted
// or unfilled sessions; such rows are dropped, not zero-filled.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// parseChartResponse decodes a chart API body into chronologically
// ordered bars, oldest first. Missing trading days are simply absent;
// no gap filling.
func parseChartResponse(body []byte) ([]Bar, error) {
	var cr chartResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}

	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s (%s)", cr.Chart.Error.Code, cr.Chart.Error.Description)
	}

	if len(cr.Chart.Result) == 0 || len(cr.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart response has no result")
	}

	result := cr.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	n := len(result.Timestamp)
	for _, col := range [][]*float64{quote.Open, quote.High, quote.Low, quote.Close} {
		if len(col) < n {
			n = len(col)
		}
	}

	bars := make([]Bar, 0, n)
	for i, ts := range result.Timestamp[:n] {
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}

		volume := 0.0
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}

		bars = append(bars, Bar{
			Date:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: volume,
		})
	}

	return bars, nil
}
