package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	err := NewAppError(ErrorTypeAPI, "listing keys failed", errors.New("boom"))
	assert.Equal(t, "api: listing keys failed (caused by: boom)", err.Error())

	noCause := NewAppError(ErrorTypeValidation, "bad db-type", nil)
	assert.Equal(t, "validation: bad db-type", noCause.Error())
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewAppError(ErrorTypeAPI, "call failed", cause)

	assert.True(t, errors.Is(err, cause))
}

func TestGetUserMessage(t *testing.T) {
	err := NewAppError(ErrorTypeUnknown, "internal detail", nil)
	assert.Equal(t, "internal detail", err.GetUserMessage())

	err.UserMessage = "Something went wrong."
	assert.Equal(t, "Something went wrong.", err.GetUserMessage())
}

func TestNewEmptyCandidatesError(t *testing.T) {
	err := NewEmptyCandidatesError("cluster snapshots")

	assert.Equal(t, ErrorTypeEmptyCandidates, err.Type)
	assert.Equal(t, "no cluster snapshots found", err.Message)
	assert.Equal(t, "cluster snapshots", err.Context["candidate_kind"])
}

func TestNewMalformedRecordError(t *testing.T) {
	err := NewMalformedRecordError("snapshot", "creation time")

	assert.Equal(t, ErrorTypeMalformedRecord, err.Type)
	assert.Contains(t, err.Message, "snapshot")
	assert.Contains(t, err.Message, "creation time")
}

func TestClassifyError(t *testing.T) {
	classifier := NewErrorClassifier()

	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{
			name:     "prompt cancellation",
			err:      fmt.Errorf("choose resource: %w", ErrPromptCancelled),
			expected: ErrorTypeCancelled,
		},
		{
			name:     "deadline exceeded",
			err:      context.DeadlineExceeded,
			expected: ErrorTypeTimeout,
		},
		{
			name:     "context cancelled",
			err:      context.Canceled,
			expected: ErrorTypeCancelled,
		},
		{
			name: "aws api error",
			err: &smithy.GenericAPIError{
				Code:    "AccessDeniedException",
				Message: "not authorized",
			},
			expected: ErrorTypeAPI,
		},
		{
			name:     "unknown error",
			err:      errors.New("something odd"),
			expected: ErrorTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classifier.ClassifyError(tt.err)
			require.NotNil(t, classified)
			assert.Equal(t, tt.expected, classified.Type)
		})
	}
}

func TestClassifyErrorNil(t *testing.T) {
	classifier := NewErrorClassifier()
	assert.Nil(t, classifier.ClassifyError(nil))
}

func TestClassifyErrorPassesThroughAppError(t *testing.T) {
	classifier := NewErrorClassifier()
	original := NewEmptyCandidatesError("keys")

	classified := classifier.ClassifyError(fmt.Errorf("resolve key: %w", original))
	assert.Equal(t, original, classified)
}

func TestClassifyErrorRecordsAPICode(t *testing.T) {
	classifier := NewErrorClassifier()
	apiErr := &smithy.GenericAPIError{Code: "Throttling", Message: "slow down"}

	classified := classifier.ClassifyError(apiErr)
	assert.Equal(t, "Throttling", classified.Context["aws_error_code"])
	assert.Contains(t, classified.UserMessage, "Throttling")
}
