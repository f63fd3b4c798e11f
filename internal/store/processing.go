// internal/store/processing.go
package store

import (
	"context"
	"database/sql"

	"talent-workers/internal/common/errors"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/models"

	"github.com/google/uuid"
)

// ProcessingStore tracks the per-candidate resume pipeline record. Terminal
// rows (COMPLETED/FAILED) are retained and guarded at the SQL level: no
// update ever moves a record out of a terminal state.
type ProcessingStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewProcessingStore(db *sql.DB, log logger.Logger) *ProcessingStore {
	return &ProcessingStore{db: db, logger: log}
}

// Create inserts a fresh PENDING record at upload time, one per candidate.
func (s *ProcessingStore) Create(ctx context.Context, candidateID string) (*models.ResumeProcessing, error) {
	rec := &models.ResumeProcessing{
		ID:          uuid.New().String(),
		CandidateID: candidateID,
		Status:      models.ProcessingPending,
		Progress:    models.ProcessingPending.Progress(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resume_processing (id, candidate_id, status, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())`,
		rec.ID, rec.CandidateID, string(rec.Status), rec.Progress)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseUpsertFailed, "create processing record", true, err)
	}
	return rec, nil
}

// GetByCandidate loads the processing record for one candidate.
func (s *ProcessingStore) GetByCandidate(ctx context.Context, candidateID string) (*models.ResumeProcessing, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, candidate_id, status, progress, error_message, completed_at
		FROM resume_processing WHERE candidate_id = $1`, candidateID)

	var (
		rec         models.ResumeProcessing
		errMsg      sql.NullString
		completedAt sql.NullTime
	)
	err := row.Scan(&rec.ID, &rec.CandidateID, &rec.Status, &rec.Progress, &errMsg, &completedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(errors.ErrCodeProcessingNotFound, "processing record", candidateID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "load processing record", true, err)
	}
	rec.ErrorMessage = errMsg.String
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		rec.CompletedAt = &t
	}
	return &rec, nil
}

// SetStatus durably advances the record. The WHERE clause refuses to touch
// terminal rows, so a duplicate queue delivery racing a finished run cannot
// resurrect it.
func (s *ProcessingStore) SetStatus(ctx context.Context, candidateID string, status models.ProcessingStatus) error {
	var (
		res sql.Result
		err error
	)
	if status == models.ProcessingCompleted {
		res, err = s.db.ExecContext(ctx, `
			UPDATE resume_processing
			SET status = $2, progress = $3, completed_at = now(), updated_at = now()
			WHERE candidate_id = $1 AND status NOT IN ('COMPLETED', 'FAILED')`,
			candidateID, string(status), status.Progress())
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE resume_processing
			SET status = $2, progress = $3, updated_at = now()
			WHERE candidate_id = $1 AND status NOT IN ('COMPLETED', 'FAILED')`,
			candidateID, string(status), status.Progress())
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseUpsertFailed, "update processing status", true, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeInvalidTransition,
			"processing record missing or already terminal", false)
	}
	return nil
}

// SetFailed records the terminal FAILED state with the error message.
func (s *ProcessingStore) SetFailed(ctx context.Context, candidateID, message string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE resume_processing
		SET status = 'FAILED', progress = 0, error_message = $2, updated_at = now()
		WHERE candidate_id = $1 AND status NOT IN ('COMPLETED', 'FAILED')`,
		candidateID, truncate(message, 1024))
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseUpsertFailed, "mark processing failed", true, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeInvalidTransition,
			"processing record missing or already terminal", false)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
