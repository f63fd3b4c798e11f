// internal/processing/pool.go

package processing

import (
	"context"
	"sync"
	"time"

	"talent-workers/internal/common/logger"
	"talent-workers/internal/models"
	"talent-workers/internal/queue"
)

// Source is the queue surface the pool consumes. Dequeue returning
// (nil, nil) means the queue was idle for one timeout window.
type Source interface {
	Dequeue(ctx context.Context) (*queue.WorkItem, error)
	Retry(ctx context.Context, item queue.WorkItem) (deadLettered bool, err error)
}

// Pool runs a fixed number of workers over the resume queue. The worker
// count is the system's only backpressure against the AI service and the
// search index.
type Pool struct {
	source      Source
	processor   *Processor
	notifier    Notifier
	tracker     *Tracker
	concurrency int
	logger      logger.Logger
}

func NewPool(source Source, processor *Processor, notifier Notifier, concurrency int, log logger.Logger) *Pool {
	if concurrency <= 0 {
		concurrency = 5
	}
	return &Pool{
		source:      source,
		processor:   processor,
		notifier:    notifier,
		tracker:     NewTracker(),
		concurrency: concurrency,
		logger:      log,
	}
}

// Run blocks until ctx is cancelled and every in-flight item has drained.
// Items already claimed when the cancel arrives still run to completion;
// only the dequeue loop observes the cancellation.
func (p *Pool) Run(ctx context.Context) {
	p.logger.Info("worker pool starting", map[string]interface{}{"concurrency": p.concurrency})

	var wg sync.WaitGroup
	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.work(ctx, id)
		}(i)
	}
	wg.Wait()
	p.logger.Info("worker pool stopped", nil)
}

func (p *Pool) work(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item, err := p.source.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.WithError(err).Warn("dequeue failed", map[string]interface{}{"worker": id})
			// Avoid hammering a broken broker.
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}
		if item == nil {
			continue
		}
		// An item claimed from the queue runs to completion even during
		// shutdown; cancellation only stops the dequeue loop. Aborting here
		// would mark the candidate FAILED and could lose the delivery.
		p.handle(context.WithoutCancel(ctx), *item)
	}
}

func (p *Pool) handle(ctx context.Context, item queue.WorkItem) {
	err := p.processor.Process(ctx, item)
	if err != nil {
		deadLettered, retryErr := p.source.Retry(ctx, item)
		if retryErr != nil {
			p.logger.WithError(retryErr).Error("could not requeue failed item", map[string]interface{}{
				"candidateId": item.CandidateID,
			})
		}
		// A requeued item is not terminal yet; it counts toward the batch
		// on a later attempt.
		if !deadLettered && retryErr == nil {
			return
		}
	}

	result := models.CandidateResult{CandidateID: item.CandidateID, Success: err == nil}
	if err != nil {
		result.Error = err.Error()
	}
	if summary, done := p.tracker.Record(item.JobID, item.Total, result); done {
		p.notifier.NotifyComplete(ctx, item.JobID, summary)
	}
}
