// internal/common/errors/errors.go

// Package errors provides standardized error handling for the resume
// processing and ranking pipeline. The Retryable flag is what the queue
// consumer consults when deciding whether to requeue a failed work item.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Lookup failures. Non-retryable; the caller decides how to surface them.
	ErrCodeJobNotFound         ErrorCode = "JOB_NOT_FOUND"
	ErrCodeCandidateNotFound   ErrorCode = "CANDIDATE_NOT_FOUND"
	ErrCodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeProcessingNotFound  ErrorCode = "PROCESSING_NOT_FOUND"

	// External collaborators.
	ErrCodeEmbeddingFailed      ErrorCode = "EMBEDDING_SERVICE_FAILED"
	ErrCodeSemanticScoreFailed  ErrorCode = "SEMANTIC_SCORE_FAILED"
	ErrCodeVectorSearchFailed   ErrorCode = "VECTOR_SEARCH_FAILED"
	ErrCodeRateLimited          ErrorCode = "RATE_LIMITED"

	// Persistence.
	ErrCodeDatabaseQueryFailed  ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeDatabaseUpsertFailed ErrorCode = "DATABASE_UPSERT_FAILED"

	// Queue / state machine.
	ErrCodeInvalidWorkItem     ErrorCode = "INVALID_WORK_ITEM"
	ErrCodeInvalidTransition   ErrorCode = "INVALID_STATE_TRANSITION"
	ErrCodeProcessingFailed    ErrorCode = "RESUME_PROCESSING_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// New creates a StandardError with an explicit code and retryability.
func New(code ErrorCode, message string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// Wrap attaches a cause to a StandardError, keeping errors.Is/As working
// across package boundaries.
func Wrap(code ErrorCode, message string, retryable bool, cause error) *StandardError {
	err := New(code, message, retryable)
	err.cause = cause
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NotFound builds a non-retryable lookup error for the given resource code.
func NotFound(code ErrorCode, resource, id string) *StandardError {
	e := New(code, fmt.Sprintf("%s not found", resource), false)
	e.Metadata = map[string]interface{}{"id": id}
	return e
}

// ExternalServiceFailure builds a retryable collaborator error. These fail
// the current processing attempt and are left to the queue's retry policy.
func ExternalServiceFailure(code ErrorCode, service string, cause error) *StandardError {
	return Wrap(code, fmt.Sprintf("%s unavailable", service), true, cause)
}

// IsNotFound reports whether err carries one of the lookup-failure codes.
func IsNotFound(err error) bool {
	var stdErr *StandardError
	if !errors.As(err, &stdErr) {
		return false
	}
	switch stdErr.Code {
	case ErrCodeJobNotFound, ErrCodeCandidateNotFound,
		ErrCodeApplicationNotFound, ErrCodeProcessingNotFound:
		return true
	}
	return false
}

// IsRetryable reports whether the queue should redeliver the work item that
// produced err. Unknown errors are treated as non-retryable so a poison
// message cannot loop forever.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// CodeOf extracts the error code, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}
