package signal

import (
	"math"
	"strings"
	"time"
)

// Report literals for the BIST output. AL is a buy, ACIK an open
// (not yet resolved) signal; they land as-is in the store, the PDF
// and the Telegram message.
const (
	KindBuy    = "AL"
	StatusOpen = "ACIK"
)

// Signal is one qualified buy candidate. Created by the Generator,
// never mutated afterwards, consumed exactly once per report sink.
type Signal struct {
	Symbol     string  `json:"symbol"` // exchange suffix stripped
	Kind       string  `json:"signal"`
	Entry      float64 `json:"entry"`
	Stop       float64 `json:"stop"`
	Target     float64 `json:"tp"`
	Score      int     `json:"score"`
	RewardRisk float64 `json:"rr"`
	Status     string  `json:"result"`
}

// Run is a finalized signal list with its run timestamp, ordered by
// score descending. Every report sink receives the same ordering.
type Run struct {
	Date    time.Time
	Signals []Signal
}

// Empty reports whether the run produced no signals.
func (r Run) Empty() bool {
	return len(r.Signals) == 0
}

// stripSuffix removes the exchange suffix from a ticker
// ("GARAN.IS" -> "GARAN").
func stripSuffix(symbol string) string {
	if i := strings.IndexByte(symbol, '.'); i >= 0 {
		return symbol[:i]
	}
	return symbol
}

// round2 rounds to two decimals, the precision used everywhere a
// signal is reported.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
