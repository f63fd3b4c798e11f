// internal/processing/tracker.go

package processing

import (
	"sync"

	"talent-workers/internal/models"
)

// Tracker accumulates per-candidate outcomes for each upload batch and
// hands back the completion summary once the batch drains. Batches are
// keyed by job ID; an item's Total tells the tracker how big its batch is.
type Tracker struct {
	mu      sync.Mutex
	batches map[string]*batch
}

type batch struct {
	total   int
	failed  int
	results []models.CandidateResult
}

func NewTracker() *Tracker {
	return &Tracker{batches: make(map[string]*batch)}
}

// Record notes one candidate's terminal outcome. When this was the last
// outstanding candidate of the batch it returns the summary and true, and
// forgets the batch.
func (t *Tracker) Record(jobID string, total int, result models.CandidateResult) (models.CompletionSummary, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.batches[jobID]
	if !ok {
		b = &batch{total: total}
		t.batches[jobID] = b
	}
	// A later item may carry a larger batch size when uploads trickle in.
	if total > b.total {
		b.total = total
	}
	b.results = append(b.results, result)
	if !result.Success {
		b.failed++
	}

	if len(b.results) < b.total {
		return models.CompletionSummary{}, false
	}

	delete(t.batches, jobID)
	return models.CompletionSummary{
		TotalProcessed: len(b.results) - b.failed,
		TotalFailed:    b.failed,
		Results:        b.results,
	}, true
}
