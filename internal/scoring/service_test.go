// internal/scoring/service_test.go

package scoring

import (
	"context"
	"errors"
	"testing"

	"talent-workers/internal/ai"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

type fakeSemantic struct {
	scores  *models.ScoreSet
	err     error
	calls   int
	lastReq ai.ScoreRequest
}

func (f *fakeSemantic) ScoreSemantic(_ context.Context, req ai.ScoreRequest) (*models.ScoreSet, error) {
	f.calls++
	f.lastReq = req
	return f.scores, f.err
}

func TestServicePrefersSemanticScores(t *testing.T) {
	semantic := &fakeSemantic{scores: &models.ScoreSet{Overall: 87.5, Skills: 90, Experience: 80, Certs: 100}}
	svc := NewService(semantic, logger.NewNoOpLogger())

	candidate := &models.Candidate{ID: "cand-1", Skills: skillList("go")}
	job := &models.Job{ID: "job-1", RequiredSkills: []string{"go"}, SkillsWeight: 1}

	scores := svc.ScoreCandidate(context.Background(), candidate, job)

	assert.Equal(t, 87.5, scores.Overall)
	assert.Equal(t, 1, semantic.calls)
	assert.Equal(t, []string{"go"}, semantic.lastReq.Candidate.Skills)
	assert.Equal(t, 1.0, semantic.lastReq.Weights.Skills)
}

func TestServiceFallsBackOnSemanticFailure(t *testing.T) {
	semantic := &fakeSemantic{err: errors.New("score service down")}
	svc := NewService(semantic, logger.NewNoOpLogger())

	candidate := &models.Candidate{Skills: skillList("python")}
	job := &models.Job{RequiredSkills: []string{"Python"}, SkillsWeight: 1}

	scores := svc.ScoreCandidate(context.Background(), candidate, job)

	assert.Equal(t, 100.0, scores.Skills, "keyword fallback must produce scores")
	assert.Equal(t, 100.0, scores.Overall)
}

func TestServiceKeywordOnlyWithoutSemanticScorer(t *testing.T) {
	svc := NewService(nil, logger.NewNoOpLogger())

	candidate := &models.Candidate{Skills: skillList("sql")}
	job := &models.Job{RequiredSkills: []string{"SQL", "Go"}, SkillsWeight: 1}

	scores := svc.ScoreCandidate(context.Background(), candidate, job)

	assert.Equal(t, 50.0, scores.Skills)
}
