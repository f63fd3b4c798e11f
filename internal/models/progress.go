// internal/models/progress.go
package models

// ProgressEvent is the wire payload emitted on every processing transition.
// Current/Total position the candidate within its upload batch.
type ProgressEvent struct {
	CandidateID string           `json:"candidateId"`
	Status      ProcessingStatus `json:"status"`
	Progress    int              `json:"progress"`
	Current     int              `json:"current"`
	Total       int              `json:"total"`
	Message     string           `json:"message,omitempty"`
}

// CandidateResult is one candidate's outcome inside a completion summary.
type CandidateResult struct {
	CandidateID string `json:"candidateId"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

// CompletionSummary is emitted once per upload batch when every candidate
// in the batch reaches a terminal state.
type CompletionSummary struct {
	TotalProcessed int               `json:"totalProcessed"`
	TotalFailed    int               `json:"totalFailed"`
	Results        []CandidateResult `json:"results"`
}

// Neighbor is one hit returned by the similarity oracle, with similarity
// already normalized into [0,1].
type Neighbor struct {
	CandidateID string  `json:"candidateId"`
	Similarity  float64 `json:"similarity"`
}
