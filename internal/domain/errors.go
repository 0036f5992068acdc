package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Quiz pipeline errors
	ErrCodeInvalidVideoURL       ErrorCode = "INVALID_VIDEO_URL"
	ErrCodeTranscriptUnavailable ErrorCode = "TRANSCRIPT_UNAVAILABLE"
	ErrCodeQuizGenerationFailed  ErrorCode = "QUIZ_GENERATION_FAILED"
)

// ErrCacheMiss is returned by Cache implementations when a key is absent.
var ErrCacheMiss = errors.New("cache: key not found")

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrCodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrCodeInternal, message, err)
}

func NewInvalidVideoURLError(rawURL string) *DomainError {
	return NewError(ErrCodeInvalidVideoURL, "Invalid YouTube URL", fmt.Errorf("unrecognized video URL: %s", rawURL))
}

func NewTranscriptUnavailableError(err error) *DomainError {
	return NewError(ErrCodeTranscriptUnavailable, "Could not fetch transcript", err)
}

func NewQuizGenerationError(err error) *DomainError {
	return NewError(ErrCodeQuizGenerationFailed, "Failed to generate MCQs", err)
}
