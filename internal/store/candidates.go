// internal/store/candidates.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"talent-workers/internal/common/errors"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/models"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const candidateCachePrefix = "candidate:profile:"

// CandidateStore reads candidate profiles through a Redis cache. The cached
// form never includes resume text; the worker uses GetForProcessing for
// that, bypassing the cache entirely so encrypted text stays out of Redis.
type CandidateStore struct {
	db     *sql.DB
	cache  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCandidateStore(db *sql.DB, cache *redis.Client, ttl time.Duration, log logger.Logger) *CandidateStore {
	return &CandidateStore{db: db, cache: cache, ttl: ttl, logger: log}
}

// GetByID loads one candidate profile, preferring the cache.
func (s *CandidateStore) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, candidateCachePrefix+id).Result(); err == nil {
			var c models.Candidate
			if err := json.Unmarshal([]byte(val), &c); err == nil {
				return &c, nil
			}
		}
	}

	c, err := s.queryOne(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(c); err == nil {
			if err := s.cache.Set(ctx, candidateCachePrefix+id, data, s.ttl).Err(); err != nil {
				s.logger.Warn("candidate cache write failed", map[string]interface{}{
					"candidateId": id, "error": err,
				})
			}
		}
	}
	return c, nil
}

// GetForProcessing loads a candidate including the encrypted resume text,
// straight from Postgres.
func (s *CandidateStore) GetForProcessing(ctx context.Context, id string) (*models.Candidate, error) {
	return s.queryOne(ctx, id, true)
}

// ListAll is the bulk read used for keyword-only fallback ranking when a
// job has no embedding.
func (s *CandidateStore) ListAll(ctx context.Context) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, skills, experience,
		       certifications, embedding, created_at, updated_at
		FROM candidates ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "list candidates", true, err)
	}
	defer rows.Close()

	var out []models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows.Scan, false)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "list candidates", true, err)
	}
	return out, nil
}

// SetEmbedding persists a freshly generated embedding and invalidates the
// cached profile.
func (s *CandidateStore) SetEmbedding(ctx context.Context, id string, vector []float64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE candidates SET embedding = $2, updated_at = now() WHERE id = $1`,
		id, pq.Float64Array(vector))
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseUpsertFailed, "set candidate embedding", true, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound(errors.ErrCodeCandidateNotFound, "candidate", id)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, candidateCachePrefix+id).Err(); err != nil {
			s.logger.Warn("candidate cache invalidation failed", map[string]interface{}{
				"candidateId": id, "error": err,
			})
		}
	}
	return nil
}

func (s *CandidateStore) queryOne(ctx context.Context, id string, withResume bool) (*models.Candidate, error) {
	cols := `id, first_name, last_name, email, skills, experience,
	         certifications, embedding, created_at, updated_at`
	if withResume {
		cols += `, resume_text`
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+cols+` FROM candidates WHERE id = $1`, id)

	c, err := scanCandidate(row.Scan, withResume)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(errors.ErrCodeCandidateNotFound, "candidate", id)
	}
	return c, err
}

func scanCandidate(scan func(...interface{}) error, withResume bool) (*models.Candidate, error) {
	var (
		c          models.Candidate
		skillsJSON []byte
		experience sql.NullFloat64
		certs      pq.StringArray
		embedding  pq.Float64Array
		resumeText sql.NullString
		createdAt  time.Time
		updatedAt  time.Time
	)
	dest := []interface{}{&c.ID, &c.FirstName, &c.LastName, &c.Email, &skillsJSON,
		&experience, &certs, &embedding, &createdAt, &updatedAt}
	if withResume {
		dest = append(dest, &resumeText)
	}
	if err := scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "scan candidate", true, err)
	}

	// Skill entries tolerate both wire forms; a malformed list degrades to
	// no skills rather than failing the read.
	if len(skillsJSON) > 0 {
		if err := json.Unmarshal(skillsJSON, &c.Skills); err != nil {
			c.Skills = nil
		}
	}
	if experience.Valid {
		c.Experience = &experience.Float64
	}
	c.Certifications = certs
	c.Embedding = embedding
	c.ResumeText = resumeText.String
	c.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	c.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return &c, nil
}
