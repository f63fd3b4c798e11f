// internal/broadcast/broadcast.go

// Package broadcast carries live processing updates to upload watchers over
// Redis pub/sub. Delivery is fire-and-forget: an event published while a job
// has no subscribers is dropped, and late joiners never see it.
package broadcast

import (
	"context"
	"encoding/json"

	"talent-workers/internal/common/logger"
	"talent-workers/internal/common/metrics"
	"talent-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	kindProgress = "progress"
	kindComplete = "complete"

	// Buffered so a briefly stalled reader does not cost events; a reader
	// stalled longer than the buffer loses them instead of blocking the hub.
	subscriberBuffer = 64
)

type envelope struct {
	Kind     string                    `json:"kind"`
	Progress *models.ProgressEvent     `json:"progress,omitempty"`
	Complete *models.CompletionSummary `json:"complete,omitempty"`
}

// Hub publishes and subscribes processing updates, one pub/sub channel per
// job so workers in other processes fan in transparently.
type Hub struct {
	rdb    *redis.Client
	logger logger.Logger
}

func NewHub(rdb *redis.Client, log logger.Logger) *Hub {
	return &Hub{rdb: rdb, logger: log}
}

func channelFor(jobID string) string {
	return "upload:" + jobID
}

// NotifyProgress publishes a per-candidate progress event for the job.
// Failures are logged and swallowed; notification must never fail a
// processing step.
func (h *Hub) NotifyProgress(ctx context.Context, jobID string, event models.ProgressEvent) {
	h.publish(ctx, jobID, envelope{Kind: kindProgress, Progress: &event})
}

// NotifyComplete publishes the batch completion summary for the job.
func (h *Hub) NotifyComplete(ctx context.Context, jobID string, summary models.CompletionSummary) {
	h.publish(ctx, jobID, envelope{Kind: kindComplete, Complete: &summary})
}

func (h *Hub) publish(ctx context.Context, jobID string, env envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("marshal broadcast payload", map[string]interface{}{"jobId": jobID, "error": err.Error()})
		return
	}
	receivers, err := h.rdb.Publish(ctx, channelFor(jobID), data).Result()
	if err != nil {
		h.logger.Warn("broadcast publish failed", map[string]interface{}{"jobId": jobID, "error": err.Error()})
		metrics.ProgressEventsDropped.Inc()
		return
	}
	if receivers == 0 {
		metrics.ProgressEventsDropped.Inc()
	}
}

// Subscription is one watcher's feed for a single job. Close it when done;
// the channels are closed once the underlying pub/sub connection drains.
type Subscription struct {
	pubsub   *redis.PubSub
	progress chan models.ProgressEvent
	complete chan models.CompletionSummary
}

// Progress streams per-candidate progress events.
func (s *Subscription) Progress() <-chan models.ProgressEvent { return s.progress }

// Complete streams batch completion summaries.
func (s *Subscription) Complete() <-chan models.CompletionSummary { return s.complete }

// Close tears down the subscription. Safe to call more than once.
func (s *Subscription) Close() error { return s.pubsub.Close() }

// Subscribe opens a feed for one job. The returned subscription only sees
// events published after this call returns.
func (h *Hub) Subscribe(ctx context.Context, jobID string) (*Subscription, error) {
	pubsub := h.rdb.Subscribe(ctx, channelFor(jobID))
	// Forces the SUBSCRIBE to complete before we return, so the caller's
	// happens-before expectation holds.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	sub := &Subscription{
		pubsub:   pubsub,
		progress: make(chan models.ProgressEvent, subscriberBuffer),
		complete: make(chan models.CompletionSummary, subscriberBuffer),
	}
	go h.pump(pubsub, sub)
	return sub, nil
}

func (h *Hub) pump(pubsub *redis.PubSub, sub *Subscription) {
	defer close(sub.progress)
	defer close(sub.complete)

	for msg := range pubsub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			h.logger.Warn("undecodable broadcast payload", map[string]interface{}{"channel": msg.Channel})
			continue
		}
		switch {
		case env.Kind == kindProgress && env.Progress != nil:
			select {
			case sub.progress <- *env.Progress:
			default:
				metrics.ProgressEventsDropped.Inc()
			}
		case env.Kind == kindComplete && env.Complete != nil:
			select {
			case sub.complete <- *env.Complete:
			default:
				metrics.ProgressEventsDropped.Inc()
			}
		}
	}
}
