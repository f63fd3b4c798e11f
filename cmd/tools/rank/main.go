// cmd/tools/rank/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"talent-workers/internal/common/config"
	"talent-workers/internal/common/database"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/ranking"
	"talent-workers/internal/scoring"
	"talent-workers/internal/search"
	"talent-workers/internal/store"
)

// rank runs one ranking pass for a job from the command line and prints the
// ranked candidates as JSON. Useful for re-scoring a job after its weights
// change without waiting for the next resume upload.
func main() {
	jobID := flag.String("job", "", "Job ID to rank candidates for")
	limit := flag.Int("limit", 0, "Maximum candidates to return (0 = configured default)")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall pass timeout")
	flag.Parse()

	if *jobID == "" {
		fmt.Fprintln(os.Stderr, "Error: -job is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres failed", zap.Error(err))
	}
	defer pg.Close()

	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch failed", zap.Error(err))
	}

	rds, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis failed", zap.Error(err))
	}
	defer rds.Close()

	auditStore := store.NewAuditStore(pg.DB, log)
	jobStore := store.NewJobStore(pg.DB, log)
	candidateStore := store.NewCandidateStore(pg.DB, rds.Client, cfg.Cache.CandidateTTL(), log)
	applicationStore := store.NewApplicationStore(pg.DB, auditStore, log)
	candidateIndex := search.NewCandidateIndex(esClient.Client, cfg.Database.Elasticsearch.CandidateIndex, log)

	// Ranking is always deterministic; semantic pair scoring has its own
	// tool (cmd/tools/score).
	scorer := scoring.NewService(nil, log)

	aggregator := ranking.NewAggregator(jobStore, candidateStore, applicationStore, candidateIndex, scorer, ranking.Options{
		DefaultLimit:    cfg.Ranking.DefaultLimit,
		OverfetchFactor: cfg.Ranking.OverfetchFactor,
		VectorBonus:     cfg.Ranking.VectorBonus,
	}, log)

	ranked, err := aggregator.RankCandidates(ctx, *jobID, *limit)
	if err != nil {
		zapLog.Fatal("ranking pass failed", zap.Error(err), zap.String("jobId", *jobID))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ranked); err != nil {
		zapLog.Fatal("encode results failed", zap.Error(err))
	}
	zapLog.Info("ranking pass complete", zap.String("jobId", *jobID), zap.Int("candidates", len(ranked)))
}
