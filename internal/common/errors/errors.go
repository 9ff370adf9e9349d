// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Business errors. These are thrown to the process as BPMN errors.
const (
	ErrCodeRiderNotFound           ErrorCode = "RIDER_NOT_FOUND"
	ErrCodeVenueNotFound           ErrorCode = "VENUE_NOT_FOUND"
	ErrCodeRiderNotPublished       ErrorCode = "RIDER_NOT_PUBLISHED"
	ErrCodeVenueNotOwned           ErrorCode = "VENUE_NOT_OWNED"
	ErrCodeDuplicateAcceptance     ErrorCode = "DUPLICATE_ACCEPTANCE"
	ErrCodeAcceptanceNotFound      ErrorCode = "ACCEPTANCE_NOT_FOUND"
	ErrCodeIncompatibleMatch       ErrorCode = "INCOMPATIBLE_MATCH"
	ErrCodeProfileValidationFailed ErrorCode = "PROFILE_VALIDATION_FAILED"
	ErrCodeInvalidInput            ErrorCode = "INVALID_INPUT"
	ErrCodeRecipientNotFound       ErrorCode = "RECIPIENT_NOT_FOUND"
	ErrCodeIndexNotFound           ErrorCode = "INDEX_NOT_FOUND"
)

// Technical errors. These fail the job and let the broker retry.
const (
	ErrCodeDatabaseConnectionFailed      ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed          ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout                  ErrorCode = "QUERY_TIMEOUT"
	ErrCodeDatabaseWriteFailed           ErrorCode = "DATABASE_WRITE_FAILED"
	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeNotificationSendFailed        ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeInternal                      ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: GetRetryCount(code) > 0,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns the variables attached to a thrown or failed job.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func NewRiderNotFoundError(riderID string) *StandardError {
	return newError(ErrCodeRiderNotFound, "Rider not found", "riderId: "+riderID, nil)
}

func NewVenueNotFoundError(venueID string) *StandardError {
	return newError(ErrCodeVenueNotFound, "Venue not found", "venueId: "+venueID, nil)
}

func NewRiderNotPublishedError(riderID, status string) *StandardError {
	return newError(ErrCodeRiderNotPublished, "Rider is not published",
		fmt.Sprintf("riderId: %s, status: %s", riderID, status), nil)
}

func NewVenueNotOwnedError(venueID, userID string) *StandardError {
	return newError(ErrCodeVenueNotOwned, "Venue is not claimed by user",
		fmt.Sprintf("venueId: %s, userId: %s", venueID, userID), nil)
}

func NewDuplicateAcceptanceError(riderID, venueID string) *StandardError {
	return newError(ErrCodeDuplicateAcceptance, "Venue has already accepted this rider",
		fmt.Sprintf("riderId: %s, venueId: %s", riderID, venueID), nil)
}

func NewAcceptanceNotFoundError(acceptanceID string) *StandardError {
	return newError(ErrCodeAcceptanceNotFound, "Active acceptance not found", "acceptanceId: "+acceptanceID, nil)
}

// NewIncompatibleMatchError carries the deal-breakers in the error metadata.
func NewIncompatibleMatchError(dealBreakers []string) *StandardError {
	return newError(ErrCodeIncompatibleMatch, "Rider and venue are incompatible",
		strings.Join(dealBreakers, "; "), nil).
		WithMetadata("dealBreakers", dealBreakers)
}

func NewProfileValidationFailedError(details string) *StandardError {
	return newError(ErrCodeProfileValidationFailed, "Profile payload failed validation", details, nil)
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", details, nil)
}

func NewRecipientNotFoundError(recipientType, recipientID string) *StandardError {
	return newError(ErrCodeRecipientNotFound, "Notification recipient not found",
		fmt.Sprintf("%s: %s", recipientType, recipientID), nil)
}

func NewIndexNotFoundError(indexName string) *StandardError {
	return newError(ErrCodeIndexNotFound, "Elasticsearch index not found", "indexName: "+indexName, nil)
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), err)
}

func NewQueryTimeoutError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout", "queryType: "+queryType, err)
}

func NewDatabaseWriteFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeDatabaseWriteFailed, "Database write failed",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), err)
}

func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeElasticsearchConnectionFailed, "Elasticsearch connection error", err.Error(), err)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Elasticsearch query error",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), err)
}

func NewSearchTimeoutError(index string, err error) *StandardError {
	return newError(ErrCodeSearchTimeout, "Elasticsearch query timeout", "index: "+index, err)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), err)
}

// BPMNErrorMapping maps internal error codes to BPMN error codes. Codes not
// listed are thrown as-is.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeRiderNotFound:           "RIDER_NOT_FOUND",
	ErrCodeVenueNotFound:           "VENUE_NOT_FOUND",
	ErrCodeRiderNotPublished:       "RIDER_NOT_PUBLISHED",
	ErrCodeVenueNotOwned:           "VENUE_NOT_OWNED",
	ErrCodeDuplicateAcceptance:     "DUPLICATE_ACCEPTANCE",
	ErrCodeAcceptanceNotFound:      "ACCEPTANCE_NOT_FOUND",
	ErrCodeIncompatibleMatch:       "INCOMPATIBLE_MATCH",
	ErrCodeProfileValidationFailed: "VALIDATION_FAILED",
	ErrCodeInvalidInput:            "VALIDATION_FAILED",
	ErrCodeRecipientNotFound:       "RECIPIENT_NOT_FOUND",
	ErrCodeIndexNotFound:           "SEARCH_UNAVAILABLE",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseWriteFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, ok := BPMNErrorMapping[stdErr.Code]
	if !ok {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// AsStandardError extracts a StandardError from err's chain, wrapping
// anything else as a non-retryable internal error.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return errors.As(err, &stdErr) && stdErr.Code == code
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns a coarse category used in logs and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	s := string(code)
	switch {
	case strings.Contains(s, "DATABASE") || strings.Contains(s, "QUERY"):
		return "DATABASE"
	case strings.Contains(s, "ELASTICSEARCH") || strings.Contains(s, "SEARCH") || strings.Contains(s, "INDEX"):
		return "SEARCH"
	case strings.Contains(s, "NOTIFICATION") || strings.Contains(s, "RECIPIENT"):
		return "NOTIFICATION"
	case strings.Contains(s, "INVALID") || strings.Contains(s, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(s, "RIDER") || strings.Contains(s, "VENUE") ||
		strings.Contains(s, "ACCEPTANCE") || strings.Contains(s, "MATCH"):
		return "BOOKING"
	default:
		return "OTHER"
	}
}
