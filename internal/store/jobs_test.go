// internal/store/jobs_test.go
package store

import (
	"context"
	"testing"
	"time"

	"talent-workers/internal/common/errors"
	"talent-workers/internal/common/logger"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStoreGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "title", "required_skills", "required_experience", "required_certs",
		"skills_weight", "experience_weight", "certs_weight", "embedding",
		"created_at", "updated_at",
	}).AddRow("job-1", "Backend Engineer",
		"{Python,SQL}", 3.0, `{"AWS SA"}`,
		0.6, 0.3, 0.1, "{0.1,0.2,0.3}", now, now)

	mock.ExpectQuery(`SELECT (.+) FROM jobs WHERE id = \$1`).
		WithArgs("job-1").
		WillReturnRows(rows)

	s := NewJobStore(db, logger.NewNoOpLogger())
	job, err := s.GetByID(context.Background(), "job-1")
	require.NoError(t, err)

	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, []string{"Python", "SQL"}, job.RequiredSkills)
	require.NotNil(t, job.RequiredExperience)
	assert.Equal(t, 3.0, *job.RequiredExperience)
	assert.Equal(t, 0.6, job.SkillsWeight)
	assert.True(t, job.HasEmbedding())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobStoreGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM jobs WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s := NewJobStore(db, logger.NewNoOpLogger())
	_, err = s.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.False(t, errors.IsRetryable(err))
}

func TestJobStoreNullEmbedding(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "title", "required_skills", "required_experience", "required_certs",
		"skills_weight", "experience_weight", "certs_weight", "embedding",
		"created_at", "updated_at",
	}).AddRow("job-2", "Analyst", "{Excel}", nil, "{}",
		1.0, 0.0, 0.0, nil, now, now)

	mock.ExpectQuery(`SELECT (.+) FROM jobs WHERE id = \$1`).
		WithArgs("job-2").
		WillReturnRows(rows)

	s := NewJobStore(db, logger.NewNoOpLogger())
	job, err := s.GetByID(context.Background(), "job-2")
	require.NoError(t, err)
	assert.Nil(t, job.RequiredExperience)
	assert.False(t, job.HasEmbedding())
}
