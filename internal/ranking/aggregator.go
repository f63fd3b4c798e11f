// internal/ranking/aggregator.go

// Package ranking orders a job's candidate pool by match relevance and
// persists the resulting scores on the Application join rows.
package ranking

import (
	"context"
	"math"
	"sort"
	"time"

	"talent-workers/internal/common/errors"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/common/metrics"
	"talent-workers/internal/models"
	"talent-workers/internal/scoring"
	"talent-workers/internal/store"
)

// JobSource provides job point lookups.
type JobSource interface {
	GetByID(ctx context.Context, id string) (*models.Job, error)
}

// CandidateSource provides candidate point lookups plus the bulk read used
// when a job has no embedding.
type CandidateSource interface {
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
	ListAll(ctx context.Context) ([]models.Candidate, error)
}

// ApplicationSink persists computed scores per (job, candidate) pair.
type ApplicationSink interface {
	UpsertScores(ctx context.Context, jobID, candidateID string, u store.ScoreUpdate) (string, error)
}

// SimilarityOracle returns the k nearest candidate vectors with similarity
// normalized into [0,1].
type SimilarityOracle interface {
	Nearest(ctx context.Context, vector []float64, k int) ([]models.Neighbor, error)
}

// Scorer produces the match scores for one pair. A ranking pass needs the
// deterministic keyword scorer: every candidate in one batch must be scored
// the same way, and repeating a pass over unchanged data must persist the
// same scores.
type Scorer interface {
	ScoreCandidate(ctx context.Context, candidate *models.Candidate, job *models.Job) models.ScoreSet
}

// ScoredCandidate is one ranked entry, including the Application row the
// scores were persisted to.
type ScoredCandidate struct {
	ApplicationID    string  `json:"applicationId"`
	CandidateID      string  `json:"candidateId"`
	OverallScore     float64 `json:"overallScore"`
	SkillsScore      float64 `json:"skillsScore"`
	ExperienceScore  float64 `json:"experienceScore"`
	CertsScore       float64 `json:"certsScore"`
	VectorSimilarity float64 `json:"vectorSimilarity"`
}

// Options tune a ranking pass. Zero values fall back to the reference
// configuration.
type Options struct {
	DefaultLimit    int
	OverfetchFactor int
	VectorBonus     float64
}

func (o Options) withDefaults() Options {
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = 50
	}
	if o.OverfetchFactor <= 0 {
		o.OverfetchFactor = 10
	}
	if o.VectorBonus <= 0 {
		o.VectorBonus = 0.1
	}
	return o
}

// Aggregator ranks candidates for a job. Vector search is all-or-nothing
// per invocation: once a job has an embedding, an oracle failure fails the
// whole pass rather than silently degrading to keyword-only mid-ranking.
type Aggregator struct {
	jobs       JobSource
	candidates CandidateSource
	apps       ApplicationSink
	oracle     SimilarityOracle
	scorer     Scorer
	opts       Options
	logger     logger.Logger
}

func NewAggregator(jobs JobSource, candidates CandidateSource, apps ApplicationSink, oracle SimilarityOracle, scorer Scorer, opts Options, log logger.Logger) *Aggregator {
	if scorer == nil {
		scorer = scoring.NewService(nil, log)
	}
	return &Aggregator{
		jobs:       jobs,
		candidates: candidates,
		apps:       apps,
		oracle:     oracle,
		scorer:     scorer,
		opts:       opts.withDefaults(),
		logger:     log,
	}
}

// RankCandidates returns up to limit candidates for the job, most relevant
// first. A missing job or an empty candidate pool yields an empty slice,
// not an error. limit <= 0 uses the configured default.
func (a *Aggregator) RankCandidates(ctx context.Context, jobID string, limit int) ([]ScoredCandidate, error) {
	start := time.Now()
	if limit <= 0 {
		limit = a.opts.DefaultLimit
	}

	job, err := a.jobs.GetByID(ctx, jobID)
	if errors.IsNotFound(err) {
		metrics.RankingsComputed.WithLabelValues("empty").Inc()
		return []ScoredCandidate{}, nil
	}
	if err != nil {
		metrics.RankingsComputed.WithLabelValues("failure").Inc()
		return nil, err
	}

	var scored []ScoredCandidate
	if job.HasEmbedding() {
		scored, err = a.rankByVector(ctx, job, limit)
	} else {
		scored, err = a.rankByKeywords(ctx, job)
	}
	if err != nil {
		metrics.RankingsComputed.WithLabelValues("failure").Inc()
		return nil, err
	}
	metrics.RankingCandidates.Observe(float64(len(scored)))

	// Stable keeps the oracle's retrieval order as the tiebreaker.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].OverallScore > scored[j].OverallScore
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	for i := range scored {
		appID, err := a.apps.UpsertScores(ctx, jobID, scored[i].CandidateID, store.ScoreUpdate{
			Overall:          scored[i].OverallScore,
			Skills:           scored[i].SkillsScore,
			Experience:       scored[i].ExperienceScore,
			Certs:            scored[i].CertsScore,
			VectorSimilarity: scored[i].VectorSimilarity,
			// The breakdown snapshots the raw per-factor scores, not their
			// weighted contributions; the dashboard applies weights itself.
			Breakdown: models.ScoringBreakdown{
				SkillMatch:  scored[i].SkillsScore,
				ExpMatch:    scored[i].ExperienceScore,
				CertsMatch:  scored[i].CertsScore,
				VectorMatch: round2(scored[i].VectorSimilarity * 100),
			},
		})
		if err != nil {
			metrics.RankingsComputed.WithLabelValues("failure").Inc()
			return nil, err
		}
		scored[i].ApplicationID = appID
	}

	metrics.RankingsComputed.WithLabelValues("success").Inc()
	metrics.RankingDuration.Observe(time.Since(start).Seconds())
	return scored, nil
}

// rankByVector over-fetches limit*overfetch neighbors so the keyword
// re-sort cannot push a qualified candidate out of the window.
func (a *Aggregator) rankByVector(ctx context.Context, job *models.Job, limit int) ([]ScoredCandidate, error) {
	neighbors, err := a.oracle.Nearest(ctx, job.Embedding, limit*a.opts.OverfetchFactor)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredCandidate, 0, len(neighbors))
	for _, n := range neighbors {
		candidate, err := a.candidates.GetByID(ctx, n.CandidateID)
		if errors.IsNotFound(err) {
			// Index entries can outlive their candidate rows.
			a.logger.Warn("skipping stale index entry", map[string]interface{}{
				"candidateId": n.CandidateID, "jobId": job.ID,
			})
			continue
		}
		if err != nil {
			return nil, err
		}
		scored = append(scored, a.scoreOne(ctx, candidate, job, n.Similarity))
	}
	return scored, nil
}

func (a *Aggregator) rankByKeywords(ctx context.Context, job *models.Job) ([]ScoredCandidate, error) {
	pool, err := a.candidates.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	scored := make([]ScoredCandidate, 0, len(pool))
	for i := range pool {
		scored = append(scored, a.scoreOne(ctx, &pool[i], job, 0))
	}
	return scored, nil
}

// scoreOne blends the keyword scores with the flat vector bonus. The bonus
// is additive and never clamped, so overall can exceed 100 for a strong
// vector match.
func (a *Aggregator) scoreOne(ctx context.Context, candidate *models.Candidate, job *models.Job, similarity float64) ScoredCandidate {
	base := a.scorer.ScoreCandidate(ctx, candidate, job)
	overall := base.Overall
	if similarity > 0 {
		overall = round2(overall + a.opts.VectorBonus*similarity*100)
	}
	return ScoredCandidate{
		CandidateID:      candidate.ID,
		OverallScore:     overall,
		SkillsScore:      base.Skills,
		ExperienceScore:  base.Experience,
		CertsScore:       base.Certs,
		VectorSimilarity: similarity,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
