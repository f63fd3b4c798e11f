// cmd/resume-worker/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"talent-workers/internal/ai"
	"talent-workers/internal/broadcast"
	"talent-workers/internal/common/config"
	"talent-workers/internal/common/crypto"
	"talent-workers/internal/common/database"
	commonhttp "talent-workers/internal/common/http"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/common/observability"
	"talent-workers/internal/common/ratelimit"
	"talent-workers/internal/processing"
	"talent-workers/internal/queue"
	"talent-workers/internal/ranking"
	"talent-workers/internal/scoring"
	"talent-workers/internal/search"
	"talent-workers/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting resume worker...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("resume-worker")
	defer obs.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var rds *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rds, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rds.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rds.Close()
	zapLog.Info("Redis connected successfully")

	// --- Stores ---
	auditStore := store.NewAuditStore(pg.DB, log)
	jobStore := store.NewJobStore(pg.DB, log)
	candidateStore := store.NewCandidateStore(pg.DB, rds.Client, cfg.Cache.CandidateTTL(), log)
	applicationStore := store.NewApplicationStore(pg.DB, auditStore, log)
	processingStore := store.NewProcessingStore(pg.DB, log)

	// --- AI service client, rate limited across worker processes ---
	var limiter *ratelimit.Limiter
	if cfg.AIService.RateLimit.Requests > 0 {
		limiter = ratelimit.New(rds.Client, "ratelimit:ai", cfg.AIService.RateLimit.Requests, cfg.AIService.RateLimit.Window())
	}
	aiClient := ai.NewClient(cfg.AIService.URL, commonhttp.NewClient(cfg.AIService.Timeout()), limiter, log)

	// --- Ranking + scoring ---
	// The ranking pass always scores with the deterministic keyword scorer;
	// the semantic path is a one-off pair-scoring surface, never part of a
	// batch ranking.
	candidateIndex := search.NewCandidateIndex(esClient.Client, cfg.Database.Elasticsearch.CandidateIndex, log)
	scorer := scoring.NewService(nil, log)
	aggregator := ranking.NewAggregator(jobStore, candidateStore, applicationStore, candidateIndex, scorer, ranking.Options{
		DefaultLimit:    cfg.Ranking.DefaultLimit,
		OverfetchFactor: cfg.Ranking.OverfetchFactor,
		VectorBonus:     cfg.Ranking.VectorBonus,
	}, log)

	// --- Queue + broadcaster ---
	workQueue, err := queue.New(rds.Client, cfg.Worker.QueueName, cfg.Worker.MaxAttempts, cfg.Worker.DequeueTimeout(), log)
	if err != nil {
		zapLog.Fatal("queue init failed", zap.Error(err))
	}
	hub := broadcast.NewHub(rds.Client, log)

	var decryptor *crypto.Encryptor
	if cfg.Encryption.Key != "" {
		decryptor, err = crypto.New(cfg.Encryption.Key)
		if err != nil {
			zapLog.Fatal("encryption key invalid", zap.Error(err))
		}
	}

	processor := processing.NewProcessor(
		candidateStore, processingStore, aiClient, candidateIndex,
		aggregator, hub, decryptor, log,
	)
	pool := processing.NewPool(workQueue, processor, hub, cfg.Worker.Concurrency, log)

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Run the pool until a shutdown signal ---
	poolDone := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(poolDone)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining workers...")
	cancel()

	select {
	case <-poolDone:
	case <-time.After(30 * time.Second):
		zapLog.Warn("worker pool did not drain within 30s")
	}

	zapLog.Info("Resume worker stopped gracefully")
}
