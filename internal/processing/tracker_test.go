// internal/processing/tracker_test.go

package processing

import (
	"sync"
	"testing"

	"talent-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerEmitsWhenBatchDrains(t *testing.T) {
	tr := NewTracker()

	_, done := tr.Record("job-1", 3, models.CandidateResult{CandidateID: "cand-1", Success: true})
	assert.False(t, done)
	_, done = tr.Record("job-1", 3, models.CandidateResult{CandidateID: "cand-2", Success: false, Error: "boom"})
	assert.False(t, done)

	summary, done := tr.Record("job-1", 3, models.CandidateResult{CandidateID: "cand-3", Success: true})
	require.True(t, done)
	assert.Equal(t, 2, summary.TotalProcessed)
	assert.Equal(t, 1, summary.TotalFailed)
	assert.Len(t, summary.Results, 3)
}

func TestTrackerIsolatesJobs(t *testing.T) {
	tr := NewTracker()

	_, done := tr.Record("job-1", 2, models.CandidateResult{CandidateID: "a", Success: true})
	assert.False(t, done)

	summary, done := tr.Record("job-2", 1, models.CandidateResult{CandidateID: "b", Success: true})
	require.True(t, done)
	assert.Len(t, summary.Results, 1)
}

func TestTrackerForgetsCompletedBatch(t *testing.T) {
	tr := NewTracker()

	_, done := tr.Record("job-1", 1, models.CandidateResult{CandidateID: "a", Success: true})
	require.True(t, done)

	// A fresh upload for the same job starts a new batch.
	_, done = tr.Record("job-1", 2, models.CandidateResult{CandidateID: "b", Success: true})
	assert.False(t, done)
}

func TestTrackerConcurrentRecords(t *testing.T) {
	tr := NewTracker()
	const n = 50

	var wg sync.WaitGroup
	var mu sync.Mutex
	var summaries []models.CompletionSummary
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if s, done := tr.Record("job-1", n, models.CandidateResult{Success: true}); done {
				mu.Lock()
				summaries = append(summaries, s)
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	require.Len(t, summaries, 1, "exactly one goroutine observes the drained batch")
	assert.Equal(t, n, summaries[0].TotalProcessed)
}
