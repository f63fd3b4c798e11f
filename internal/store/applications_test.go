// internal/store/applications_test.go
package store

import (
	"context"
	"fmt"
	"testing"

	"talent-workers/internal/common/logger"
	"talent-workers/internal/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScoreUpdate() ScoreUpdate {
	return ScoreUpdate{
		Overall:          72.5,
		Skills:           50,
		Experience:       100,
		Certs:            0,
		VectorSimilarity: 0.85,
		Breakdown: models.ScoringBreakdown{
			SkillMatch:  50,
			ExpMatch:    100,
			CertsMatch:  0,
			VectorMatch: 85,
		},
	}
}

func TestUpsertScoresReturnsApplicationID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO applications (.+) ON CONFLICT \(job_id, candidate_id\) DO UPDATE SET`).
		WithArgs(sqlmock.AnyArg(), "job-1", "cand-1", "APPLIED",
			72.5, 50.0, 100.0, 0.0, 0.85, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("app-1"))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	audit := NewAuditStore(db, logger.NewNoOpLogger())
	s := NewApplicationStore(db, audit, logger.NewNoOpLogger())

	appID, err := s.UpsertScores(context.Background(), "job-1", "cand-1", testScoreUpdate())
	require.NoError(t, err)
	assert.Equal(t, "app-1", appID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertScoresAuditFailureIsNonFatal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO applications`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("app-2"))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnError(fmt.Errorf("audit table missing"))

	audit := NewAuditStore(db, logger.NewNoOpLogger())
	s := NewApplicationStore(db, audit, logger.NewNoOpLogger())

	appID, err := s.UpsertScores(context.Background(), "job-1", "cand-2", testScoreUpdate())
	require.NoError(t, err)
	assert.Equal(t, "app-2", appID)
}

func TestUpsertScoresDatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO applications`).
		WillReturnError(fmt.Errorf("connection reset"))

	s := NewApplicationStore(db, nil, logger.NewNoOpLogger())
	_, err = s.UpsertScores(context.Background(), "job-1", "cand-3", testScoreUpdate())
	assert.Error(t, err)
}

func TestGetByPair(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "job_id", "candidate_id", "status",
		"overall_score", "skills_score", "experience_score", "certs_score",
		"vector_similarity", "scoring_breakdown",
	}).AddRow("app-1", "job-1", "cand-1", "SCREENING",
		72.5, 50.0, 100.0, 0.0, 0.85,
		[]byte(`{"skillMatch":50,"expMatch":100,"certsMatch":0,"vectorMatch":85}`))

	mock.ExpectQuery(`SELECT (.+) FROM applications WHERE job_id = \$1 AND candidate_id = \$2`).
		WithArgs("job-1", "cand-1").
		WillReturnRows(rows)

	s := NewApplicationStore(db, nil, logger.NewNoOpLogger())
	app, err := s.GetByPair(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationStatus("SCREENING"), app.Status)
	require.NotNil(t, app.OverallScore)
	assert.Equal(t, 72.5, *app.OverallScore)
	require.NotNil(t, app.ScoringBreakdown)
	assert.Equal(t, 85.0, app.ScoringBreakdown.VectorMatch)
}

func TestGetByPairScoresNullBeforeScoring(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "job_id", "candidate_id", "status",
		"overall_score", "skills_score", "experience_score", "certs_score",
		"vector_similarity", "scoring_breakdown",
	}).AddRow("app-9", "job-1", "cand-9", "APPLIED", nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT (.+) FROM applications`).
		WillReturnRows(rows)

	s := NewApplicationStore(db, nil, logger.NewNoOpLogger())
	app, err := s.GetByPair(context.Background(), "job-1", "cand-9")
	require.NoError(t, err)
	assert.Nil(t, app.OverallScore)
	assert.Nil(t, app.ScoringBreakdown)
	assert.Equal(t, models.StatusApplied, app.Status)
}
