// internal/processing/processor.go

// Package processing drives one candidate through the resume pipeline:
// PENDING -> PARSING -> EMBEDDING -> SCORING -> COMPLETED, FAILED from any
// non-terminal step. Every transition is persisted before its progress
// event goes out, so a crash leaves durable state consistent even when the
// notification is lost.
package processing

import (
	"context"
	"time"

	"talent-workers/internal/common/crypto"
	"talent-workers/internal/common/errors"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/common/metrics"
	"talent-workers/internal/models"
	"talent-workers/internal/queue"
	"talent-workers/internal/ranking"
)

// CandidateStore is the candidate persistence the processor needs.
type CandidateStore interface {
	GetForProcessing(ctx context.Context, id string) (*models.Candidate, error)
	SetEmbedding(ctx context.Context, id string, vector []float64) error
}

// StateStore persists pipeline transitions. SetStatus must refuse to move
// a record out of a terminal state; Create opens a fresh record, which is
// how a queue retry re-processes a candidate whose previous record failed.
type StateStore interface {
	Create(ctx context.Context, candidateID string) (*models.ResumeProcessing, error)
	SetStatus(ctx context.Context, candidateID string, status models.ProcessingStatus) error
	SetFailed(ctx context.Context, candidateID, message string) error
}

// Embedder turns resume text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Indexer mirrors candidate vectors into the search index.
type Indexer interface {
	IndexCandidate(ctx context.Context, id string, vector []float64) error
}

// Ranker recomputes the job's candidate ranking once this candidate is
// embedded and scorable.
type Ranker interface {
	RankCandidates(ctx context.Context, jobID string, limit int) ([]ranking.ScoredCandidate, error)
}

// Notifier is the fire-and-forget progress feed.
type Notifier interface {
	NotifyProgress(ctx context.Context, jobID string, event models.ProgressEvent)
	NotifyComplete(ctx context.Context, jobID string, summary models.CompletionSummary)
}

// Processor runs the state machine for a single work item at a time. It is
// safe for concurrent use; the pool runs several in parallel.
type Processor struct {
	candidates CandidateStore
	state      StateStore
	embedder   Embedder
	indexer    Indexer
	ranker     Ranker
	notifier   Notifier
	decryptor  *crypto.Encryptor
	logger     logger.Logger
}

func NewProcessor(
	candidates CandidateStore,
	state StateStore,
	embedder Embedder,
	indexer Indexer,
	ranker Ranker,
	notifier Notifier,
	decryptor *crypto.Encryptor,
	log logger.Logger,
) *Processor {
	return &Processor{
		candidates: candidates,
		state:      state,
		embedder:   embedder,
		indexer:    indexer,
		ranker:     ranker,
		notifier:   notifier,
		decryptor:  decryptor,
		logger:     log,
	}
}

// Process runs the pipeline for one work item. The returned error has
// already been recorded as a FAILED transition; the caller hands it to the
// queue's retry policy.
func (p *Processor) Process(ctx context.Context, item queue.WorkItem) error {
	metrics.WorkersActive.Inc()
	defer metrics.WorkersActive.Dec()

	if err := p.run(ctx, item); err != nil {
		p.fail(ctx, item, err)
		metrics.ResumesProcessed.WithLabelValues(string(models.ProcessingFailed)).Inc()
		return err
	}
	metrics.ResumesProcessed.WithLabelValues(string(models.ProcessingCompleted)).Inc()
	return nil
}

func (p *Processor) run(ctx context.Context, item queue.WorkItem) error {
	// A redelivered item finds its previous record in a terminal state.
	// Terminal records never transition, so retries start a new one.
	if item.Attempts > 0 {
		if _, err := p.state.Create(ctx, item.CandidateID); err != nil {
			return err
		}
	}

	if err := p.advance(ctx, item, models.ProcessingParsing, ""); err != nil {
		return err
	}
	candidate, err := p.parse(ctx, item)
	if err != nil {
		return err
	}

	if err := p.advance(ctx, item, models.ProcessingEmbedding, ""); err != nil {
		return err
	}
	if err := p.embed(ctx, candidate); err != nil {
		return err
	}

	if err := p.advance(ctx, item, models.ProcessingScoring, ""); err != nil {
		return err
	}
	if err := p.score(ctx, item); err != nil {
		return err
	}

	return p.advance(ctx, item, models.ProcessingCompleted, "")
}

// parse loads the candidate with resume text and decrypts it in place.
func (p *Processor) parse(ctx context.Context, item queue.WorkItem) (*models.Candidate, error) {
	defer p.timeStep(models.ProcessingParsing)()

	candidate, err := p.candidates.GetForProcessing(ctx, item.CandidateID)
	if err != nil {
		return nil, err
	}
	if candidate.ResumeText != "" && p.decryptor != nil {
		text, err := p.decryptor.Decrypt(candidate.ResumeText)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeProcessingFailed, "decrypt resume text", false, err)
		}
		candidate.ResumeText = text
	}
	return candidate, nil
}

// embed is a no-op when the candidate already carries a vector, which is
// what makes duplicate queue delivery harmless.
func (p *Processor) embed(ctx context.Context, candidate *models.Candidate) error {
	defer p.timeStep(models.ProcessingEmbedding)()

	if candidate.HasEmbedding() {
		p.logger.Debug("embedding already present, skipping", map[string]interface{}{
			"candidateId": candidate.ID,
		})
		return nil
	}

	vector, err := p.embedder.Embed(ctx, candidate.ResumeText)
	if err != nil {
		return err
	}
	if err := p.candidates.SetEmbedding(ctx, candidate.ID, vector); err != nil {
		return err
	}
	return p.indexer.IndexCandidate(ctx, candidate.ID, vector)
}

func (p *Processor) score(ctx context.Context, item queue.WorkItem) error {
	defer p.timeStep(models.ProcessingScoring)()

	// limit 0 means the aggregator's configured default.
	_, err := p.ranker.RankCandidates(ctx, item.JobID, 0)
	return err
}

// advance persists the transition, then notifies. Never the other way
// around.
func (p *Processor) advance(ctx context.Context, item queue.WorkItem, status models.ProcessingStatus, message string) error {
	if err := p.state.SetStatus(ctx, item.CandidateID, status); err != nil {
		return err
	}
	p.notifier.NotifyProgress(ctx, item.JobID, models.ProgressEvent{
		CandidateID: item.CandidateID,
		Status:      status,
		Progress:    status.Progress(),
		Current:     item.Current,
		Total:       item.Total,
		Message:     message,
	})
	return nil
}

func (p *Processor) fail(ctx context.Context, item queue.WorkItem, cause error) {
	p.logger.WithError(cause).Error("resume processing failed", map[string]interface{}{
		"candidateId": item.CandidateID,
		"jobId":       item.JobID,
	})
	if err := p.state.SetFailed(ctx, item.CandidateID, cause.Error()); err != nil {
		// Terminal-state refusals are expected under duplicate delivery.
		p.logger.Warn("could not persist FAILED state", map[string]interface{}{
			"candidateId": item.CandidateID,
			"error":       err.Error(),
		})
	}
	p.notifier.NotifyProgress(ctx, item.JobID, models.ProgressEvent{
		CandidateID: item.CandidateID,
		Status:      models.ProcessingFailed,
		Progress:    models.ProcessingFailed.Progress(),
		Current:     item.Current,
		Total:       item.Total,
		Message:     cause.Error(),
	})
}

func (p *Processor) timeStep(status models.ProcessingStatus) func() {
	start := time.Now()
	return func() {
		metrics.ResumeStepDuration.WithLabelValues(string(status)).Observe(time.Since(start).Seconds())
	}
}
