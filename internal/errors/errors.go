package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	// ErrorTypeAPI represents errors returned by a cloud service API
	ErrorTypeAPI ErrorType = "api"
	// ErrorTypeMalformedRecord represents API records missing required fields
	ErrorTypeMalformedRecord ErrorType = "malformed_record"
	// ErrorTypeEmptyCandidates represents an empty candidate set where a choice is required
	ErrorTypeEmptyCandidates ErrorType = "empty_candidates"
	// ErrorTypeCancelled represents user cancellation of a prompt
	ErrorTypeCancelled ErrorType = "cancelled"
	// ErrorTypeValidation represents configuration or input validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeTimeout represents timeout errors
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeUnknown represents unknown errors
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError represents an application-specific error with context
type AppError struct {
	Type        ErrorType
	Message     string
	Cause       error
	Context     map[string]interface{}
	UserMessage string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// GetUserMessage returns a user-friendly error message
func (e *AppError) GetUserMessage() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	return e.Message
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewEmptyCandidatesError creates an error for an empty candidate set. The
// candidate kind (e.g. "instances", "keys") is recorded in the error context.
func NewEmptyCandidatesError(kind string) *AppError {
	err := NewAppError(ErrorTypeEmptyCandidates, fmt.Sprintf("no %s found", kind), nil)
	err.UserMessage = fmt.Sprintf("No %s were found in the target account and region.", kind)
	return err.WithContext("candidate_kind", kind)
}

// NewMalformedRecordError creates an error for an API record missing a required field
func NewMalformedRecordError(record, field string) *AppError {
	err := NewAppError(ErrorTypeMalformedRecord,
		fmt.Sprintf("%s record is missing required field %q", record, field), nil)
	err.UserMessage = fmt.Sprintf("The service returned a %s without a %s; refusing to continue.", record, field)
	return err.WithContext("record", record).WithContext("field", field)
}

// ErrPromptCancelled is returned when the operator cancels an interactive prompt.
var ErrPromptCancelled = errors.New("prompt cancelled by user")

// ErrorClassifier provides methods to classify errors from collaborators
type ErrorClassifier struct{}

// NewErrorClassifier creates a new error classifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// ClassifyError analyzes an error and returns an AppError with appropriate classification
func (ec *ErrorClassifier) ClassifyError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, ErrPromptCancelled) {
		classified := NewAppError(ErrorTypeCancelled, "resolution cancelled", err)
		classified.UserMessage = "Operation cancelled."
		return classified
	}

	if errors.Is(err, context.DeadlineExceeded) {
		classified := NewAppError(ErrorTypeTimeout, "operation timed out", err)
		classified.UserMessage = "The operation timed out. Increase --timeout or check connectivity."
		return classified
	}

	if errors.Is(err, context.Canceled) {
		classified := NewAppError(ErrorTypeCancelled, "operation cancelled", err)
		classified.UserMessage = "Operation cancelled."
		return classified
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		classified := NewAppError(ErrorTypeAPI,
			fmt.Sprintf("AWS API call failed: %s", apiErr.ErrorCode()), err)
		classified.UserMessage = fmt.Sprintf("AWS returned an error (%s): %s",
			apiErr.ErrorCode(), apiErr.ErrorMessage())
		return classified.WithContext("aws_error_code", apiErr.ErrorCode())
	}

	return NewAppError(ErrorTypeUnknown, err.Error(), err)
}
