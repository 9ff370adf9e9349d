package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_Retryable(t *testing.T) {
	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		retryable bool
	}{
		{"rider not found", NewRiderNotFoundError("r-1"), ErrCodeRiderNotFound, false},
		{"venue not owned", NewVenueNotOwnedError("v-1", "u-1"), ErrCodeVenueNotOwned, false},
		{"duplicate", NewDuplicateAcceptanceError("r-1", "v-1"), ErrCodeDuplicateAcceptance, false},
		{"invalid input", NewInvalidInputError("riderId or rider is required"), ErrCodeInvalidInput, false},
		{"query failed", NewQueryExecutionFailedError("load_rider", sql.ErrConnDone), ErrCodeQueryExecutionFailed, true},
		{"search timeout", NewSearchTimeoutError("venues", errors.New("deadline")), ErrCodeSearchTimeout, true},
		{"notification", NewNotificationSendFailedError("email", errors.New("throttled")), ErrCodeNotificationSendFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestStandardError_Unwrap(t *testing.T) {
	stdErr := NewQueryExecutionFailedError("load_venue", sql.ErrConnDone)
	wrapped := fmt.Errorf("load venue: %w", stdErr)

	assert.ErrorIs(t, wrapped, sql.ErrConnDone)
	assert.True(t, HasCode(wrapped, ErrCodeQueryExecutionFailed))
	assert.False(t, HasCode(wrapped, ErrCodeRiderNotFound))
	assert.Same(t, stdErr, AsStandardError(wrapped))
}

func TestAsStandardError_Plain(t *testing.T) {
	stdErr := AsStandardError(errors.New("boom"))

	assert.Equal(t, ErrCodeInternal, stdErr.Code)
	assert.False(t, stdErr.Retryable)
	assert.Equal(t, "boom", stdErr.Details)
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("business error keeps metadata", func(t *testing.T) {
		stdErr := NewIncompatibleMatchError([]string{"Stage too small: 20x30ft vs 40x30ft required"})

		bpmnErr := ConvertToBPMNError(stdErr)

		assert.Equal(t, "INCOMPATIBLE_MATCH", bpmnErr.Code)
		assert.Equal(t, 0, bpmnErr.Retries)
		vars := bpmnErr.ToErrorVariables()
		assert.Equal(t, "INCOMPATIBLE_MATCH", vars["errorCode"])
		assert.Equal(t, "INCOMPATIBLE_MATCH", vars["originalErrorCode"])
		assert.Equal(t, []string{"Stage too small: 20x30ft vs 40x30ft required"}, vars["dealBreakers"])
	})

	t.Run("validation codes collapse", func(t *testing.T) {
		assert.Equal(t, "VALIDATION_FAILED", ConvertToBPMNError(NewInvalidInputError("x")).Code)
		assert.Equal(t, "VALIDATION_FAILED", ConvertToBPMNError(NewProfileValidationFailedError("x")).Code)
	})

	t.Run("technical error retries", func(t *testing.T) {
		bpmnErr := ConvertToBPMNError(NewDatabaseWriteFailedError("insert_acceptance", errors.New("deadlock")))
		assert.Equal(t, "DATABASE_WRITE_FAILED", bpmnErr.Code)
		assert.Equal(t, 3, bpmnErr.Retries)
		assert.True(t, bpmnErr.Retryable)
	})

	t.Run("non-retryable override", func(t *testing.T) {
		stdErr := NewSearchQueryFailedError("venues", errors.New("bad query"))
		stdErr.Retryable = false
		assert.Equal(t, 0, ConvertToBPMNError(stdErr).Retries)
	})
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeQueryTimeout:                  "DATABASE",
		ErrCodeDatabaseWriteFailed:           "DATABASE",
		ErrCodeElasticsearchConnectionFailed: "SEARCH",
		ErrCodeIndexNotFound:                 "SEARCH",
		ErrCodeNotificationSendFailed:        "NOTIFICATION",
		ErrCodeRecipientNotFound:             "NOTIFICATION",
		ErrCodeProfileValidationFailed:       "VALIDATION",
		ErrCodeInvalidInput:                  "VALIDATION",
		ErrCodeRiderNotPublished:             "BOOKING",
		ErrCodeIncompatibleMatch:             "BOOKING",
		ErrCodeInternal:                      "OTHER",
	}

	for code, want := range tests {
		assert.Equal(t, want, GetErrorCategory(code), code)
	}
}

func TestStandardError_Message(t *testing.T) {
	err := NewVenueNotFoundError("v-9")
	require.EqualError(t, err, "VENUE_NOT_FOUND: Venue not found (venueId: v-9)")
	assert.True(t, IsRetryableErrorCode(ErrCodeSearchQueryFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeVenueNotFound))
}
