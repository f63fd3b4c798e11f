// internal/store/jobs.go

// Package store implements Postgres persistence for jobs, candidates,
// applications and resume-processing records. Stores receive a shared
// *sql.DB handle; none of them owns connection lifecycle.
package store

import (
	"context"
	"database/sql"
	"time"

	"talent-workers/internal/common/errors"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/models"

	"github.com/lib/pq"
)

type JobStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewJobStore(db *sql.DB, log logger.Logger) *JobStore {
	return &JobStore{db: db, logger: log}
}

// GetByID loads one job. Absent rows surface as a non-retryable
// JOB_NOT_FOUND error.
func (s *JobStore) GetByID(ctx context.Context, id string) (*models.Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, required_skills, required_experience, required_certs,
		       skills_weight, experience_weight, certs_weight, embedding,
		       created_at, updated_at
		FROM jobs WHERE id = $1`, id)

	var (
		job       models.Job
		reqExp    sql.NullFloat64
		skills    pq.StringArray
		certs     pq.StringArray
		embedding pq.Float64Array
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&job.ID, &job.Title, &skills, &reqExp, &certs,
		&job.SkillsWeight, &job.ExperienceWeight, &job.CertsWeight, &embedding,
		&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(errors.ErrCodeJobNotFound, "job", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "load job", true, err)
	}

	job.RequiredSkills = skills
	job.RequiredCerts = certs
	job.Embedding = embedding
	if reqExp.Valid {
		job.RequiredExperience = &reqExp.Float64
	}
	job.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	job.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return &job, nil
}
