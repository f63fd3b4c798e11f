// internal/queue/queue.go

// Package queue implements the at-least-once resume-processing queue on a
// Redis list. Delivery can duplicate under crash/requeue, which is why the
// processing steps downstream are idempotent.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"talent-workers/internal/common/errors"
	"talent-workers/internal/common/logger"

	"github.com/redis/go-redis/v9"
	"github.com/xeipuuv/gojsonschema"
)

// WorkItem is one queued unit of resume processing. Current/Total position
// the candidate inside its upload batch; Attempts counts deliveries.
type WorkItem struct {
	CandidateID string `json:"candidateId"`
	JobID       string `json:"jobId"`
	Current     int    `json:"current"`
	Total       int    `json:"total"`
	Attempts    int    `json:"attempts"`
}

const workItemSchema = `{
	"type": "object",
	"properties": {
		"candidateId": {"type": "string", "minLength": 1},
		"jobId":       {"type": "string", "minLength": 1},
		"current":     {"type": "integer", "minimum": 0},
		"total":       {"type": "integer", "minimum": 1},
		"attempts":    {"type": "integer", "minimum": 0}
	},
	"required": ["candidateId", "jobId"]
}`

// Queue is the Redis-backed work queue. Items that keep failing past
// maxAttempts land on the dead-letter list for operator inspection instead
// of looping forever.
type Queue struct {
	rdb            *redis.Client
	name           string
	deadLetterName string
	maxAttempts    int
	dequeueTimeout time.Duration
	schema         *gojsonschema.Schema
	logger         logger.Logger
}

func New(rdb *redis.Client, name string, maxAttempts int, dequeueTimeout time.Duration, log logger.Logger) (*Queue, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(workItemSchema))
	if err != nil {
		return nil, fmt.Errorf("compile work item schema: %w", err)
	}
	return &Queue{
		rdb:            rdb,
		name:           name,
		deadLetterName: name + ":dead",
		maxAttempts:    maxAttempts,
		dequeueTimeout: dequeueTimeout,
		schema:         schema,
		logger:         log,
	}, nil
}

// Enqueue pushes one work item. Zero batch fields default to a singleton
// batch.
func (q *Queue) Enqueue(ctx context.Context, item WorkItem) error {
	if item.Current == 0 {
		item.Current = 1
	}
	if item.Total == 0 {
		item.Total = 1
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal work item: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.name, data).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "enqueue work item", true, err)
	}
	return nil
}

// Dequeue blocks up to the configured timeout for the next item. Returns
// (nil, nil) when the queue is idle. Payloads failing schema validation are
// dropped with a log entry, never retried.
func (q *Queue) Dequeue(ctx context.Context) (*WorkItem, error) {
	res, err := q.rdb.BRPop(ctx, q.dequeueTimeout, q.name).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "dequeue work item", true, err)
	}
	// BRPOP returns [key, value].
	payload := res[1]

	result, err := q.schema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil || !result.Valid() {
		q.logger.Warn("dropping invalid work item", map[string]interface{}{
			"payload": payload,
			"error":   validationDetail(result, err),
		})
		return nil, nil
	}

	var item WorkItem
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		q.logger.Warn("dropping undecodable work item", map[string]interface{}{"payload": payload})
		return nil, nil
	}
	return &item, nil
}

// Retry requeues a failed item, or moves it to the dead-letter list once
// it has burned through its attempts. Reports whether the item was
// dead-lettered, i.e. its failure is final.
func (q *Queue) Retry(ctx context.Context, item WorkItem) (bool, error) {
	item.Attempts++
	data, err := json.Marshal(item)
	if err != nil {
		return false, fmt.Errorf("marshal work item: %w", err)
	}

	if item.Attempts >= q.maxAttempts {
		q.logger.Error("work item exhausted retries, dead-lettering", map[string]interface{}{
			"candidateId": item.CandidateID,
			"jobId":       item.JobID,
			"attempts":    item.Attempts,
		})
		return true, q.rdb.LPush(ctx, q.deadLetterName, data).Err()
	}
	return false, q.rdb.LPush(ctx, q.name, data).Err()
}

// Len reports the number of pending items.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.name).Result()
}

func validationDetail(result *gojsonschema.Result, err error) string {
	if err != nil {
		return err.Error()
	}
	if result == nil || len(result.Errors()) == 0 {
		return "invalid payload"
	}
	return result.Errors()[0].String()
}
