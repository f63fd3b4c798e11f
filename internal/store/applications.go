// internal/store/applications.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"talent-workers/internal/common/errors"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/models"

	"github.com/google/uuid"
)

// ScoreUpdate carries the recomputed score fields for one application
// upsert. The scores are overwritten wholesale on every ranking pass.
type ScoreUpdate struct {
	Overall          float64
	Skills           float64
	Experience       float64
	Certs            float64
	VectorSimilarity float64
	Breakdown        models.ScoringBreakdown
}

// ApplicationStore owns the scored (job, candidate) join. The UNIQUE
// (job_id, candidate_id) constraint is the correctness mechanism that
// prevents duplicate rows under concurrent first-time creation.
type ApplicationStore struct {
	db     *sql.DB
	audit  *AuditStore
	logger logger.Logger
}

func NewApplicationStore(db *sql.DB, audit *AuditStore, log logger.Logger) *ApplicationStore {
	return &ApplicationStore{db: db, audit: audit, logger: log}
}

// UpsertScores creates the application on first contact (status APPLIED) or
// overwrites the score fields on an existing row, leaving status and every
// other manually managed field untouched. Returns the application ID.
func (s *ApplicationStore) UpsertScores(ctx context.Context, jobID, candidateID string, u ScoreUpdate) (string, error) {
	breakdown, err := json.Marshal(u.Breakdown)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDatabaseUpsertFailed, "marshal scoring breakdown", false, err)
	}

	var appID string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO applications (
			id, job_id, candidate_id, status,
			overall_score, skills_score, experience_score, certs_score,
			vector_similarity, scoring_breakdown, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		ON CONFLICT (job_id, candidate_id) DO UPDATE SET
			overall_score      = EXCLUDED.overall_score,
			skills_score       = EXCLUDED.skills_score,
			experience_score   = EXCLUDED.experience_score,
			certs_score        = EXCLUDED.certs_score,
			vector_similarity  = EXCLUDED.vector_similarity,
			scoring_breakdown  = EXCLUDED.scoring_breakdown,
			updated_at         = now()
		RETURNING id`,
		uuid.New().String(), jobID, candidateID, string(models.StatusApplied),
		u.Overall, u.Skills, u.Experience, u.Certs,
		u.VectorSimilarity, breakdown,
	).Scan(&appID)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDatabaseUpsertFailed, "upsert application scores", true, err)
	}

	// Audit events are emitted here, at the point of mutation. A failed
	// audit write never fails the upsert.
	if s.audit != nil {
		s.audit.Record(ctx, "application_scored", "application", appID, map[string]interface{}{
			"jobId":        jobID,
			"candidateId":  candidateID,
			"overallScore": u.Overall,
		})
	}

	return appID, nil
}

// GetByPair loads the application for one (job, candidate) pair.
func (s *ApplicationStore) GetByPair(ctx context.Context, jobID, candidateID string) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, job_id, candidate_id, status,
		       overall_score, skills_score, experience_score, certs_score,
		       vector_similarity, scoring_breakdown
		FROM applications WHERE job_id = $1 AND candidate_id = $2`,
		jobID, candidateID)

	var (
		app           models.Application
		overall       sql.NullFloat64
		skills        sql.NullFloat64
		experience    sql.NullFloat64
		certs         sql.NullFloat64
		vectorSim     sql.NullFloat64
		breakdownJSON []byte
	)
	err := row.Scan(&app.ID, &app.JobID, &app.CandidateID, &app.Status,
		&overall, &skills, &experience, &certs, &vectorSim, &breakdownJSON)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(errors.ErrCodeApplicationNotFound, "application", jobID+"/"+candidateID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "load application", true, err)
	}

	setIfValid := func(dst **float64, v sql.NullFloat64) {
		if v.Valid {
			f := v.Float64
			*dst = &f
		}
	}
	setIfValid(&app.OverallScore, overall)
	setIfValid(&app.SkillsScore, skills)
	setIfValid(&app.ExperienceScore, experience)
	setIfValid(&app.CertsScore, certs)
	setIfValid(&app.VectorSimilarity, vectorSim)

	if len(breakdownJSON) > 0 {
		var b models.ScoringBreakdown
		if err := json.Unmarshal(breakdownJSON, &b); err == nil {
			app.ScoringBreakdown = &b
		}
	}
	return &app, nil
}
