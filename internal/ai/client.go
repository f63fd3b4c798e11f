// internal/ai/client.go

// Package ai is the adapter for the external AI microservice that parses,
// embeds and semantically scores resumes. The service is opaque; this
// client only knows its two JSON endpoints.
package ai

import (
	"context"

	"talent-workers/internal/common/errors"
	commonhttp "talent-workers/internal/common/http"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/common/ratelimit"
	"talent-workers/internal/models"
)

type Client struct {
	baseURL string
	http    *commonhttp.Client
	limiter *ratelimit.Limiter
	logger  logger.Logger
}

// NewClient builds the AI service client. limiter may be nil to disable
// outbound rate limiting (tests).
func NewClient(baseURL string, httpClient *commonhttp.Client, limiter *ratelimit.Limiter, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		limiter: limiter,
		logger:  log,
	}
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed returns a fixed-length vector for free text. Any failure is an
// EMBEDDING_SERVICE_FAILED error; during resume processing that is fatal to
// the attempt and handed to the queue's retry policy.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := c.checkLimit(ctx); err != nil {
		return nil, err
	}

	var resp embedResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/api/embed", embedRequest{Text: text}, &resp); err != nil {
		return nil, errors.ExternalServiceFailure(errors.ErrCodeEmbeddingFailed, "embedding service", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed, "embedding service returned empty vector", true)
	}
	return resp.Embedding, nil
}

// ScoreRequest mirrors the AI service's /api/score payload.
type ScoreRequest struct {
	Candidate ScoreCandidate `json:"candidate"`
	Job       ScoreJob       `json:"job"`
	Weights   ScoreWeights   `json:"weights"`
}

type ScoreCandidate struct {
	Skills         []string `json:"skills"`
	Experience     *float64 `json:"experience"`
	Certifications []string `json:"certifications"`
}

type ScoreJob struct {
	RequiredSkills     []string `json:"requiredSkills"`
	RequiredExperience *float64 `json:"requiredExperience"`
	RequiredCerts      []string `json:"requiredCerts"`
}

type ScoreWeights struct {
	Skills         float64 `json:"skills"`
	Experience     float64 `json:"experience"`
	Certifications float64 `json:"certifications"`
}

// ScoreSemantic asks the AI service for a semantic match score. Callers
// treat any error as a signal to fall back to deterministic keyword
// scoring.
func (c *Client) ScoreSemantic(ctx context.Context, req ScoreRequest) (*models.ScoreSet, error) {
	if err := c.checkLimit(ctx); err != nil {
		return nil, err
	}

	var scores models.ScoreSet
	if err := c.http.PostJSON(ctx, c.baseURL+"/api/score", req, &scores); err != nil {
		return nil, errors.ExternalServiceFailure(errors.ErrCodeSemanticScoreFailed, "semantic scoring service", err)
	}
	return &scores, nil
}

func (c *Client) checkLimit(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	ok, err := c.limiter.Allow(ctx)
	if err != nil {
		// A broken limiter backend should not take the AI service down
		// with it; log and proceed.
		c.logger.Warn("rate limiter unavailable, allowing request", map[string]interface{}{"error": err})
		return nil
	}
	if !ok {
		return errors.New(errors.ErrCodeRateLimited, "AI service rate limit exceeded", true)
	}
	return nil
}
