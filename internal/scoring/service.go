// internal/scoring/service.go

package scoring

import (
	"context"

	"talent-workers/internal/ai"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/models"
)

// SemanticScorer is the slice of the AI client the service needs.
type SemanticScorer interface {
	ScoreSemantic(ctx context.Context, req ai.ScoreRequest) (*models.ScoreSet, error)
}

// Service scores a candidate against a job, preferring the AI service's
// semantic scoring and falling back to deterministic keyword scoring when
// the service is unavailable. The fallback keeps the pipeline moving; a
// degraded score beats a stalled batch.
type Service struct {
	semantic SemanticScorer
	logger   logger.Logger
}

// NewService builds the scoring service. semantic may be nil to run
// keyword-only.
func NewService(semantic SemanticScorer, log logger.Logger) *Service {
	return &Service{semantic: semantic, logger: log}
}

// ScoreCandidate returns the match scores for the pair. Never fails: any
// semantic-scoring error is logged and answered with the keyword scores.
func (s *Service) ScoreCandidate(ctx context.Context, candidate *models.Candidate, job *models.Job) models.ScoreSet {
	if s.semantic != nil {
		scores, err := s.semantic.ScoreSemantic(ctx, semanticRequest(candidate, job))
		if err == nil && scores != nil {
			return *scores
		}
		s.logger.Warn("semantic scoring unavailable, using keyword scores", map[string]interface{}{
			"candidateId": candidate.ID,
			"jobId":       job.ID,
			"error":       errString(err),
		})
	}
	return Score(candidate, job)
}

func semanticRequest(candidate *models.Candidate, job *models.Job) ai.ScoreRequest {
	return ai.ScoreRequest{
		Candidate: ai.ScoreCandidate{
			Skills:         models.SkillNames(candidate.Skills),
			Experience:     candidate.Experience,
			Certifications: candidate.Certifications,
		},
		Job: ai.ScoreJob{
			RequiredSkills:     job.RequiredSkills,
			RequiredExperience: job.RequiredExperience,
			RequiredCerts:      job.RequiredCerts,
		},
		Weights: ai.ScoreWeights{
			Skills:         job.SkillsWeight,
			Experience:     job.ExperienceWeight,
			Certifications: job.CertsWeight,
		},
	}
}

func errString(err error) string {
	if err == nil {
		return "empty response"
	}
	return err.Error()
}
