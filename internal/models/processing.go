// internal/models/processing.go
package models

import "time"

// ProcessingStatus is a stage of the asynchronous resume pipeline.
// PENDING -> PARSING -> EMBEDDING -> SCORING -> COMPLETED, with FAILED
// reachable from any non-terminal stage. COMPLETED and FAILED are terminal;
// re-processing requires a new record, not a transition.
type ProcessingStatus string

const (
	ProcessingPending   ProcessingStatus = "PENDING"
	ProcessingParsing   ProcessingStatus = "PARSING"
	ProcessingEmbedding ProcessingStatus = "EMBEDDING"
	ProcessingScoring   ProcessingStatus = "SCORING"
	ProcessingCompleted ProcessingStatus = "COMPLETED"
	ProcessingFailed    ProcessingStatus = "FAILED"
)

// Terminal reports whether no further transition is allowed.
func (s ProcessingStatus) Terminal() bool {
	return s == ProcessingCompleted || s == ProcessingFailed
}

// Progress returns the progress percentage contractually paired with each
// stage. The broadcaster emits these values verbatim, so they are part of
// the wire contract with the dashboard.
func (s ProcessingStatus) Progress() int {
	switch s {
	case ProcessingParsing:
		return 10
	case ProcessingEmbedding:
		return 50
	case ProcessingScoring:
		return 80
	case ProcessingCompleted:
		return 100
	default: // PENDING, FAILED
		return 0
	}
}

// next maps each stage to the stages it may legally advance to.
var next = map[ProcessingStatus][]ProcessingStatus{
	ProcessingPending:   {ProcessingParsing, ProcessingFailed},
	ProcessingParsing:   {ProcessingEmbedding, ProcessingFailed},
	ProcessingEmbedding: {ProcessingScoring, ProcessingFailed},
	ProcessingScoring:   {ProcessingCompleted, ProcessingFailed},
}

// CanTransitionTo reports whether advancing from s to target is legal.
func (s ProcessingStatus) CanTransitionTo(target ProcessingStatus) bool {
	for _, t := range next[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ResumeProcessing tracks one candidate's pipeline run. Created at upload
// time, mutated only by the worker, retained after reaching a terminal
// state.
type ResumeProcessing struct {
	ID           string           `json:"id"`
	CandidateID  string           `json:"candidateId"`
	Status       ProcessingStatus `json:"status"`
	Progress     int              `json:"progress"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
	CompletedAt  *time.Time       `json:"completedAt,omitempty"`
	CreatedAt    string           `json:"createdAt"`
	UpdatedAt    string           `json:"updatedAt"`
}
