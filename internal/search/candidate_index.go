// internal/search/candidate_index.go

// Package search adapts the Elasticsearch candidate vector index to the
// similarity-oracle contract used by the ranking aggregator.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"talent-workers/internal/common/errors"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// CandidateIndex runs kNN queries against the candidate embedding index.
// With a cosine field mapping, Elasticsearch reports _score = (1+cos)/2,
// which is exactly the [-1,1] to [0,1] renormalization the aggregator
// requires, so scores pass through unchanged apart from a clamp.
type CandidateIndex struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewCandidateIndex(es *elasticsearch.Client, index string, log logger.Logger) *CandidateIndex {
	return &CandidateIndex{es: es, index: index, logger: log}
}

// IndexCandidate writes (or overwrites) one candidate's embedding document.
// Called by the worker right after the embedding is persisted to Postgres.
func (s *CandidateIndex) IndexCandidate(ctx context.Context, candidateID string, vector []float64) error {
	doc, err := json.Marshal(map[string]interface{}{"embedding": vector})
	if err != nil {
		return fmt.Errorf("marshal embedding doc: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: candidateID,
		Body:       bytes.NewReader(doc),
	}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return errors.ExternalServiceFailure(errors.ErrCodeVectorSearchFailed, "vector index", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.New(errors.ErrCodeVectorSearchFailed,
			fmt.Sprintf("index candidate embedding: %s", res.Status()), true)
	}
	return nil
}

// Nearest returns the k most similar candidates to the query vector,
// similarity normalized into [0,1], most similar first.
func (s *CandidateIndex) Nearest(ctx context.Context, vector []float64, k int) ([]models.Neighbor, error) {
	body, err := json.Marshal(map[string]interface{}{
		"knn": map[string]interface{}{
			"field":          "embedding",
			"query_vector":   vector,
			"k":              k,
			"num_candidates": k * 2,
		},
		"size":    k,
		"_source": false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal knn query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return nil, errors.ExternalServiceFailure(errors.ErrCodeVectorSearchFailed, "similarity oracle", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.New(errors.ErrCodeVectorSearchFailed,
			fmt.Sprintf("knn search: %s", res.Status()), true)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID    string  `json:"_id"`
				Score float64 `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(errors.ErrCodeVectorSearchFailed, "decode knn response", true, err)
	}

	neighbors := make([]models.Neighbor, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		neighbors = append(neighbors, models.Neighbor{
			CandidateID: hit.ID,
			Similarity:  clamp01(hit.Score),
		})
	}
	return neighbors, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
