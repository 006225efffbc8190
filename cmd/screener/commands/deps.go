package commands

import (
	"fmt"

	"bist-screener/internal/market"
	"bist-screener/internal/pipeline"
	"bist-screener/internal/regime"
	"bist-screener/internal/report"
	"bist-screener/internal/signal"
	"bist-screener/internal/universe"
	"bist-screener/pkg/config"
	"bist-screener/pkg/database"
	"bist-screener/pkg/logger"
	"bist-screener/pkg/redis"
)

// app holds the wired screening pipeline and the resources behind it.
type app struct {
	config    *config.Config
	logger    *logger.Logger
	runner    *pipeline.Runner
	gate      *regime.Gate
	repo      *report.Repository
	watchlist *universe.Watchlist

	db          *database.DB
	redisClient *redis.Client
}

// buildApp wires every component from configuration. Postgres and
// Telegram are optional; the pipeline runs without them.
func buildApp() (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to Redis (no-op client when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 4. Load the watchlist
	watchlist, err := universe.Load(cfg.WatchlistPath)
	if err != nil {
		redisClient.Close()
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	// 5. Create market data client
	marketClient := market.NewClient(cfg, log, redisClient)

	// 6. Create regime gate and signal generator
	gate := regime.NewGate(marketClient, watchlist.Benchmark, log)

	genConfig := signal.DefaultConfig()
	genConfig.Limit = watchlist.Limit
	generator := signal.NewGenerator(marketClient, genConfig, log)

	// 7. Connect to Postgres when configured
	var db *database.DB
	var repo *report.Repository
	if cfg.PersistenceEnabled() {
		db, err = database.New(cfg)
		if err != nil {
			redisClient.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		repo = report.NewRepository(db.Pool)
	} else {
		log.Warn("DATABASE_URL not set, signals will not be persisted")
	}

	// 8. Create report consumers
	pdf := report.NewPDFWriter(cfg.Report.PDFPath)
	notifier := report.NewNotifier(cfg, log)
	if !notifier.Enabled() {
		log.Warn("Telegram credentials not set, notifications disabled")
	}
	reporter := report.NewReporter(repo, pdf, notifier, log)

	// 9. Assemble the pipeline
	runner := pipeline.New(gate, generator, reporter, watchlist, log)

	return &app{
		config:      cfg,
		logger:      log,
		runner:      runner,
		gate:        gate,
		repo:        repo,
		watchlist:   watchlist,
		db:          db,
		redisClient: redisClient,
	}, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redisClient != nil {
		a.redisClient.Close()
	}
}
