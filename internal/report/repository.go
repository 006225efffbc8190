package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bist-screener/internal/signal"
)

// Repository persists finalized signals. One row per signal with the
// run timestamp, written in a single transaction committed at the end.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a signal repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveSignals inserts the run's signals. The insert order follows the
// finalized score-descending order.
func (r *Repository) SaveSignals(ctx context.Context, run signal.Run) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO signals (date, symbol, signal, entry, stop, tp, score, result, rr)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, s := range run.Signals {
		_, err := tx.Exec(ctx, query,
			run.Date, s.Symbol, s.Kind, s.Entry, s.Stop, s.Target, s.Score, s.Status, s.RewardRisk,
		)
		if err != nil {
			return fmt.Errorf("insert signal %s: %w", s.Symbol, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// StoredSignal is one persisted signal row.
type StoredSignal struct {
	Date       time.Time `json:"date"`
	Symbol     string    `json:"symbol"`
	Kind       string    `json:"signal"`
	Entry      float64   `json:"entry"`
	Stop       float64   `json:"stop"`
	Target     float64   `json:"tp"`
	Score      int       `json:"score"`
	Status     string    `json:"result"`
	RewardRisk float64   `json:"rr"`
}

// LatestSignals returns the most recent rows, newest first then by
// score descending. Serves the status API.
func (r *Repository) LatestSignals(ctx context.Context, limit int) ([]StoredSignal, error) {
	query := `
		SELECT date, symbol, signal, entry, stop, tp, score, result, rr
		FROM signals
		ORDER BY date DESC, score DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var signals []StoredSignal
	for rows.Next() {
		var s StoredSignal
		if err := rows.Scan(&s.Date, &s.Symbol, &s.Kind, &s.Entry, &s.Stop, &s.Target, &s.Score, &s.Status, &s.RewardRisk); err != nil {
			return nil, fmt.Errorf("scan signal row: %w", err)
		}
		signals = append(signals, s)
	}

	return signals, rows.Err()
}
