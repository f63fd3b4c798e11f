// internal/store/audit.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"talent-workers/internal/common/logger"
)

// AuditStore appends audit_log rows for domain mutations. Audit writes are
// best-effort: a failure is logged and swallowed so it can never fail the
// mutation it describes.
type AuditStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewAuditStore(db *sql.DB, log logger.Logger) *AuditStore {
	return &AuditStore{db: db, logger: log}
}

func (s *AuditStore) Record(ctx context.Context, eventType, resourceType, resourceID string, details map[string]interface{}) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		eventType, resourceType, resourceID, detailsJSON)
	if err != nil {
		s.logger.Warn("audit log write failed", map[string]interface{}{
			"eventType":  eventType,
			"resourceId": resourceID,
			"error":      err,
		})
	}
}
