// cmd/tools/score/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"talent-workers/internal/ai"
	"talent-workers/internal/common/config"
	"talent-workers/internal/common/database"
	commonhttp "talent-workers/internal/common/http"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/scoring"
	"talent-workers/internal/store"
)

// score computes the match scores for one (candidate, job) pair and prints
// them as JSON. This is the semantic-scoring surface: it asks the AI service
// first and falls back to keyword scoring, unlike a ranking pass, which is
// always deterministic.
func main() {
	candidateID := flag.String("candidate", "", "Candidate ID to score")
	jobID := flag.String("job", "", "Job ID to score against")
	keywordOnly := flag.Bool("keyword-only", false, "Skip the AI semantic scorer, use keyword scoring")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	if *candidateID == "" || *jobID == "" {
		fmt.Fprintln(os.Stderr, "Error: -candidate and -job are required")
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

	rds, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis failed", zap.Error(err))
	}
	defer rds.Close()

	jobStore := store.NewJobStore(pg.DB, log)
	candidateStore := store.NewCandidateStore(pg.DB, rds.Client, cfg.Cache.CandidateTTL(), log)

	var semantic scoring.SemanticScorer
	if !*keywordOnly {
		semantic = ai.NewClient(cfg.AIService.URL, commonhttp.NewClient(cfg.AIService.Timeout()), nil, log)
	}
	scorer := scoring.NewService(semantic, log)

	job, err := jobStore.GetByID(ctx, *jobID)
	if err != nil {
		zapLog.Fatal("job lookup failed", zap.Error(err), zap.String("jobId", *jobID))
	}
	candidate, err := candidateStore.GetByID(ctx, *candidateID)
	if err != nil {
		zapLog.Fatal("candidate lookup failed", zap.Error(err), zap.String("candidateId", *candidateID))
	}

	scores := scorer.ScoreCandidate(ctx, candidate, job)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(scores); err != nil {
		zapLog.Fatal("encode scores failed", zap.Error(err))
	}
}
