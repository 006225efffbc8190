// Package universe loads the instrument watchlist. The screened
// universe is configuration data, not source code: operators point
// WATCHLIST_PATH at their own YAML file, and the BIST 100 list ships
// embedded as the default.
package universe

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed bist100.yaml
var defaultWatchlist []byte

// Watchlist holds the benchmark and the instrument universe.
type Watchlist struct {
	// Benchmark index symbol used by the regime gate
	Benchmark string `yaml:"benchmark"`

	// Maximum signals retained per run
	Limit int `yaml:"limit"`

	// Exchange-suffixed ticker symbols, screened in this order
	Tickers []string `yaml:"tickers"`
}

// Load reads a watchlist from path, or the embedded BIST 100 default
// when path is empty. Unknown YAML fields fail loudly so a typo in an
// operator file cannot silently shrink the universe.
func Load(path string) (*Watchlist, error) {
	data := defaultWatchlist
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read watchlist: %w", err)
		}
		data = fileData
	}

	var wl Watchlist
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&wl); err != nil {
		return nil, fmt.Errorf("parse watchlist: %w", err)
	}

	if err := wl.validate(); err != nil {
		return nil, fmt.Errorf("invalid watchlist: %w", err)
	}

	return &wl, nil
}

func (w *Watchlist) validate() error {
	if len(w.Tickers) == 0 {
		return fmt.Errorf("tickers must not be empty")
	}
	if w.Benchmark == "" {
		return fmt.Errorf("benchmark must be set")
	}
	if w.Limit <= 0 {
		return fmt.Errorf("limit must be positive")
	}

	seen := make(map[string]bool, len(w.Tickers))
	for _, ticker := range w.Tickers {
		if ticker == "" {
			return fmt.Errorf("tickers must not contain empty symbols")
		}
		if seen[ticker] {
			return fmt.Errorf("duplicate ticker: %s", ticker)
		}
		seen[ticker] = true
	}

	return nil
}
