// internal/store/candidates_test.go
package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"talent-workers/internal/common/logger"
	"talent-workers/internal/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	redismock "github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByIDCacheHit(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()

	cached := models.Candidate{ID: "cand-1", FirstName: "Jane", Skills: []models.Skill{{Name: "Python"}}}
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	rmock.ExpectGet("candidate:profile:cand-1").SetVal(string(data))

	// No SQL expectations: a cache hit must not touch Postgres.
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewCandidateStore(db, rdb, time.Minute, logger.NewNoOpLogger())
	c, err := s.GetByID(context.Background(), "cand-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", c.FirstName)
	assert.NoError(t, dbmock.ExpectationsWereMet())
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestGetByIDCacheMissFallsThrough(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	rmock.ExpectGet("candidate:profile:cand-2").RedisNil()

	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "skills", "experience",
		"certifications", "embedding", "created_at", "updated_at",
	}).AddRow("cand-2", "Sam", "Lee", "sam@example.com",
		[]byte(`["python",{"name":"Go","proficiency":4}]`), 5.0,
		"{CKA}", nil, now, now)
	dbmock.ExpectQuery(`SELECT (.+) FROM candidates WHERE id = \$1`).
		WithArgs("cand-2").
		WillReturnRows(rows)

	rmock.Regexp().ExpectSet("candidate:profile:cand-2", `.*`, time.Minute).SetVal("OK")

	s := NewCandidateStore(db, rdb, time.Minute, logger.NewNoOpLogger())
	c, err := s.GetByID(context.Background(), "cand-2")
	require.NoError(t, err)

	assert.Equal(t, []string{"python", "go"}, models.SkillNames(c.Skills))
	require.NotNil(t, c.Experience)
	assert.Equal(t, 5.0, *c.Experience)
	assert.Equal(t, []string{"CKA"}, c.Certifications)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestGetForProcessingIncludesResumeText(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "skills", "experience",
		"certifications", "embedding", "created_at", "updated_at", "resume_text",
	}).AddRow("cand-3", "Ana", "Cruz", "ana@example.com",
		[]byte(`[]`), nil, "{}", nil, now, now, "ciphertext==")
	dbmock.ExpectQuery(`SELECT (.+) FROM candidates WHERE id = \$1`).
		WithArgs("cand-3").
		WillReturnRows(rows)

	s := NewCandidateStore(db, nil, time.Minute, logger.NewNoOpLogger())
	c, err := s.GetForProcessing(context.Background(), "cand-3")
	require.NoError(t, err)
	assert.Equal(t, "ciphertext==", c.ResumeText)
	assert.Nil(t, c.Experience)
	assert.False(t, c.HasEmbedding())
}

func TestSetEmbeddingInvalidatesCache(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	rmock.ExpectDel("candidate:profile:cand-4").SetVal(1)

	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbmock.ExpectExec(`UPDATE candidates SET embedding = \$2`).
		WithArgs("cand-4", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewCandidateStore(db, rdb, time.Minute, logger.NewNoOpLogger())
	err = s.SetEmbedding(context.Background(), "cand-4", []float64{0.1, 0.2})
	require.NoError(t, err)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestSetEmbeddingUnknownCandidate(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbmock.ExpectExec(`UPDATE candidates SET embedding = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewCandidateStore(db, nil, time.Minute, logger.NewNoOpLogger())
	err = s.SetEmbedding(context.Background(), "ghost", []float64{0.1})
	assert.Error(t, err)
}

func TestListAll(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "skills", "experience",
		"certifications", "embedding", "created_at", "updated_at",
	}).
		AddRow("c1", "A", "A", "a@x.com", []byte(`["sql"]`), 2.0, "{}", nil, now, now).
		AddRow("c2", "B", "B", "b@x.com", []byte(`["go"]`), nil, "{}", nil, now, now)
	dbmock.ExpectQuery(`SELECT (.+) FROM candidates ORDER BY created_at`).
		WillReturnRows(rows)

	s := NewCandidateStore(db, nil, time.Minute, logger.NewNoOpLogger())
	out, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "c1", out[0].ID)
	assert.Equal(t, "c2", out[1].ID)
}
