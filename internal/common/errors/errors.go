// Package errors provides the error codes thrown to the workflow engine by the
// storefront admin workers.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode is an internal error code. Codes are thrown to Zeebe unchanged.
type ErrorCode string

const (
	ErrCodeAdminQueryInvalid ErrorCode = "ADMIN_QUERY_INVALID"
	ErrCodeStoreLoadFailed   ErrorCode = "STORE_LOAD_FAILED"
	ErrCodeStatsCacheFailed  ErrorCode = "STATS_CACHE_FAILED"

	ErrCodeActionValidationFailed ErrorCode = "ACTION_VALIDATION_FAILED"
	ErrCodeActionExecutionFailed  ErrorCode = "ACTION_EXECUTION_FAILED"
	ErrCodeActionNotConfirmed     ErrorCode = "ACTION_NOT_CONFIRMED"
	ErrCodeDiscountCodeExists     ErrorCode = "DISCOUNT_CODE_EXISTS"
	ErrCodeDiscountCodeNotFound   ErrorCode = "DISCOUNT_CODE_NOT_FOUND"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeExternalService  ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout          ErrorCode = "TIMEOUT_ERROR"
	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeBusinessRule     ErrorCode = "BUSINESS_RULE_VIOLATION"
	ErrCodeAuthentication   ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
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

// Is matches another *StandardError by code, so errors.Is(err, &StandardError{Code: c}) works.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

// WithMetadata returns e after adding key to its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// HasCode reports whether err wraps a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return errors.As(err, &stdErr) && stdErr.Code == code
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

// ToErrorVariables returns the variables set on the failed or thrown job.
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

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewAdminQueryInvalidError reports a query that cannot be answered, such as empty text.
func NewAdminQueryInvalidError(details string) *StandardError {
	return newError(ErrCodeAdminQueryInvalid, "Admin query is invalid", details, false, nil)
}

// NewStoreLoadFailedError wraps a failure to read one of the record collections.
func NewStoreLoadFailedError(collection string, err error) *StandardError {
	return newError(ErrCodeStoreLoadFailed, "Failed to load store records",
		fmt.Sprintf("collection: %s, error: %s", collection, err.Error()), true, err).
		WithMetadata("collection", collection)
}

func NewStatsCacheFailedError(err error) *StandardError {
	return newError(ErrCodeStatsCacheFailed, "Stats cache unavailable", err.Error(), true, err)
}

// NewActionValidationFailedError reports an action payload rejected by its schema.
func NewActionValidationFailedError(details string) *StandardError {
	return newError(ErrCodeActionValidationFailed, "Action payload validation failed", details, false, nil)
}

func NewActionExecutionFailedError(op string, err error) *StandardError {
	return newError(ErrCodeActionExecutionFailed, "Failed to apply admin action",
		fmt.Sprintf("op: %s, error: %s", op, err.Error()), true, err).
		WithMetadata("op", op)
}

func NewActionNotConfirmedError(op string) *StandardError {
	return newError(ErrCodeActionNotConfirmed, "Action was not confirmed", fmt.Sprintf("op: %s", op), false, nil)
}

func NewDiscountCodeExistsError(code string) *StandardError {
	return newError(ErrCodeDiscountCodeExists, "Discount code already exists", fmt.Sprintf("code: %s", code), false, nil)
}

func NewDiscountCodeNotFoundError(code string) *StandardError {
	return newError(ErrCodeDiscountCodeNotFound, "Discount code not found", fmt.Sprintf("code: %s", code), false, nil)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true, err)
}

func NewQueryExecutionFailedError(queryName string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("query: %s, error: %s", queryName, err.Error()), true, err)
}

func NewQueryTimeoutError(queryName string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout", fmt.Sprintf("query: %s", queryName), true, nil)
}

func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeElasticsearchConnectionFailed, "Elasticsearch connection error", err.Error(), true, err)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Search query execution error",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true, err)
}

func NewIndexNotFoundError(index string) *StandardError {
	return newError(ErrCodeIndexNotFound, "Search index not found", fmt.Sprintf("index: %s", index), false, nil)
}

func NewBusinessRuleError(message, details string) *StandardError {
	return newError(ErrCodeBusinessRule, message, details, false, nil)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), true, err)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true, err)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError(ErrCodeResourceNotFound, fmt.Sprintf("Resource not found in %s", service), details, false, nil)
}

func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeAuthentication, "Authentication failed", details, false, nil)
}

// GetRetryCount returns the job retries granted for a code. Business errors get none.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStoreLoadFailed,
		ErrCodeActionExecutionFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeStatsCacheFailed,
		ErrCodeTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
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
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups a code for log aggregation.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "ADMIN_QUERY"):
		return "QUERY"
	case strings.HasPrefix(codeStr, "ACTION") || strings.HasPrefix(codeStr, "DISCOUNT_CODE"):
		return "ACTION"
	case strings.Contains(codeStr, "STORE") || strings.Contains(codeStr, "CACHE"):
		return "STORE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "AUTHENTICATION"):
		return "AUTH"
	default:
		return "OTHER"
	}
}
