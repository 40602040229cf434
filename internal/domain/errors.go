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
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrValidation   ErrorCode = "VALIDATION_ERROR"

	// Study workflow errors
	ErrClassificationFailed ErrorCode = "CLASSIFICATION_FAILED"
	ErrGenerationFailed     ErrorCode = "GENERATION_FAILED"
	ErrFileReadFailed       ErrorCode = "FILE_READ_FAILED"
	ErrNoQuestions          ErrorCode = "NO_QUESTIONS"
	ErrConfirmationRequired ErrorCode = "CONFIRMATION_REQUIRED"
)

// User-facing messages placed in the shared error slot.
const (
	MsgClassificationFallback = "Failed to analyze the syllabus. Please try again."
	MsgGenerationFailed       = "Failed to generate questions. Please check your connection and try again."
	MsgFileReadFailed         = "Could not read the selected file. Please choose another file."
)

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

// Unwrap exposes the underlying cause to errors.Is / errors.As.
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
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewTopicNotFoundError(topicID string) *DomainError {
	return NewError(ErrNotFound, fmt.Sprintf("Topic not found with ID: %s", topicID), nil)
}

func NewSyllabusNotFoundError(syllabusID string) *DomainError {
	return NewError(ErrNotFound, fmt.Sprintf("Syllabus not found with ID: %s", syllabusID), nil)
}

func NewClassificationError(message string, err error) *DomainError {
	if message == "" {
		message = MsgClassificationFallback
	}
	return NewError(ErrClassificationFailed, message, err)
}

func NewGenerationError(err error) *DomainError {
	return NewError(ErrGenerationFailed, MsgGenerationFailed, err)
}

func NewFileReadError(err error) *DomainError {
	return NewError(ErrFileReadFailed, MsgFileReadFailed, err)
}

func NewNoQuestionsError(topicName string) *DomainError {
	return NewError(ErrNoQuestions, fmt.Sprintf("No questions have been generated for %q yet", topicName), nil)
}

func NewAlreadyGeneratedError(topicName string) *DomainError {
	return NewError(ErrInvalidInput, fmt.Sprintf("Questions for %q are already generated. Reset them to generate new ones", topicName), nil)
}

func NewConfirmationRequiredError() *DomainError {
	return NewError(ErrConfirmationRequired, "Clearing all data requires explicit confirmation", nil)
}

// CodeOf returns the ErrorCode carried by err, or ErrInternal when err is not a DomainError.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ErrInternal
}

// ValidationError describes a single invalid field in a request.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field-level validation failures.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s (and %d more)", v[0].Error(), len(v)-1)
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field string, value any) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("has invalid format: %v", value)}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("value %d is out of range [%d, %d]", value, min, max)}
}
