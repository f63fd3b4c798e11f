// internal/queue/queue_test.go

package queue

import (
	"context"
	"testing"
	"time"

	"talent-workers/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) (*Queue, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	q, err := New(rdb, "resume-processing", 3, 50*time.Millisecond, logger.NewNoOpLogger())
	require.NoError(t, err)
	return q, rdb
}

func TestQueueRoundTrip(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	err := q.Enqueue(ctx, WorkItem{CandidateID: "cand-1", JobID: "job-1", Current: 2, Total: 5})
	require.NoError(t, err)

	item, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "cand-1", item.CandidateID)
	assert.Equal(t, "job-1", item.JobID)
	assert.Equal(t, 2, item.Current)
	assert.Equal(t, 5, item.Total)
	assert.Equal(t, 0, item.Attempts)
}

func TestQueueDefaultsSingletonBatch(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, WorkItem{CandidateID: "cand-1", JobID: "job-1"}))

	item, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 1, item.Current)
	assert.Equal(t, 1, item.Total)
}

func TestQueueIdleReturnsNil(t *testing.T) {
	q, _ := newTestQueue(t)

	item, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestQueueDropsInvalidPayloads(t *testing.T) {
	q, rdb := newTestQueue(t)
	ctx := context.Background()

	// Missing jobId, not JSON at all, and wrong type all get dropped.
	require.NoError(t, rdb.LPush(ctx, "resume-processing", `{"candidateId":"cand-1"}`).Err())
	require.NoError(t, rdb.LPush(ctx, "resume-processing", `not-json`).Err())
	require.NoError(t, rdb.LPush(ctx, "resume-processing", `{"candidateId":42,"jobId":"job-1"}`).Err())

	for i := 0; i < 3; i++ {
		item, err := q.Dequeue(ctx)
		require.NoError(t, err)
		assert.Nil(t, item)
	}

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestQueueRetryRequeues(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	dead, err := q.Retry(ctx, WorkItem{CandidateID: "cand-1", JobID: "job-1"})
	require.NoError(t, err)
	assert.False(t, dead)

	item, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 1, item.Attempts)
}

func TestQueueDeadLettersAfterMaxAttempts(t *testing.T) {
	q, rdb := newTestQueue(t)
	ctx := context.Background()

	dead, err := q.Retry(ctx, WorkItem{CandidateID: "cand-1", JobID: "job-1", Attempts: 2})
	require.NoError(t, err)
	assert.True(t, dead)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "exhausted item must not rejoin the work queue")

	deadLen, err := rdb.LLen(ctx, "resume-processing:dead").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), deadLen)
}
