package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	clientsrepo "msp_portal_backend/internal/clients/repository"
	clientssvc "msp_portal_backend/internal/clients/service"
	"msp_portal_backend/internal/scheduler"
	"msp_portal_backend/internal/scorecache"
	"msp_portal_backend/internal/scoring"
	"msp_portal_backend/platform/config"
	"msp_portal_backend/platform/db"
	"msp_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.GetRedisPassword(),
		DB:       cfg.GetRedisDB(),
	})
	defer func() { _ = rdb.Close() }()

	cache := scorecache.New(rdb, cfg.GetScoreCacheTTL())

	// Worker-side scoring wiring (no HTTP handlers required).
	models := scoring.NewManager(cfg.GetModelDir(), log)
	models.Warm(ctx)

	engine := scoring.NewEngine(scoring.Config{
		HealthStrategy: cfg.GetHealthStrategy(),
		ChurnStrategy:  cfg.GetChurnStrategy(),
	}, models, log)
	policy := scoring.NewPolicy(engine)

	clients := clientssvc.New(clientsrepo.New(pool), policy, cache, log)

	refreshClient := scheduler.NewClient(cfg)
	defer func() { _ = refreshClient.Close() }()
	go periodicRefresh(ctx, refreshClient, cfg.GetScoreRefreshInterval(), log)

	worker := scheduler.NewWorker(cfg, clients, log)
	worker.Run(ctx)
}

// periodicRefresh enqueues a portfolio-wide refresh on the configured
// interval, starting with one immediately.
func periodicRefresh(ctx context.Context, client *scheduler.Client, interval time.Duration, log *logger.Logger) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	enqueue := func() {
		if err := client.EnqueueScoreRefresh(ctx, scheduler.ScoreRefreshPayload{}); err != nil {
			log.Warn("failed to enqueue periodic refresh", "error", err)
		}
	}

	enqueue()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			enqueue()
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
