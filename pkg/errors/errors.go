package errors

import (
	"errors"
	"fmt"
)

// Error codes
const (
	CodeAppError        = "APP_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUpstream        = "UPSTREAM_ERROR"
	CodePaginationLimit = "PAGINATION_LIMIT_EXCEEDED"
	CodeMalformedRecord = "MALFORMED_RECORD"
	CodeCache           = "CACHE_ERROR"
	CodeValidation      = "VALIDATION_ERROR"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// SetContext attaches a diagnostic key to the error in place.
func (e *AppError) SetContext(key string, value any) {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
}

// NotFoundError signals that an identifier does not resolve upstream.
type NotFoundError struct {
	*AppError
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		AppError: &AppError{
			Message:    fmt.Sprintf("%s not found: %s", resource, id),
			Code:       CodeNotFound,
			StatusCode: 404,
			Context: map[string]any{
				"resource": resource,
				"id":       id,
			},
		},
		Resource: resource,
		ID:       id,
	}
}

// UpstreamError wraps transport or provider-level failures (HTTP error
// statuses, GraphQL error payloads).
type UpstreamError struct {
	*AppError
	Provider string
}

func NewUpstreamError(message, provider string, statusCode int, context map[string]any) *UpstreamError {
	if context == nil {
		context = map[string]any{}
	}
	context["provider"] = provider
	return &UpstreamError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeUpstream,
			StatusCode: statusCode,
			Context:    context,
		},
		Provider: provider,
	}
}

// WithCause keeps the concrete type so errors.As still matches.
func (e *UpstreamError) WithCause(cause error) *UpstreamError {
	e.Cause = cause
	return e
}

// PaginationLimitError is the fuse for upstreams that never return a
// terminating cursor.
type PaginationLimitError struct {
	*AppError
	Pages int
}

func NewPaginationLimitError(pages int) *PaginationLimitError {
	return &PaginationLimitError{
		AppError: &AppError{
			Message:    fmt.Sprintf("pagination did not terminate within %d pages", pages),
			Code:       CodePaginationLimit,
			StatusCode: 502,
			Context: map[string]any{
				"pages": pages,
			},
		},
		Pages: pages,
	}
}

// MalformedRecordError identifies a single upstream record that failed to
// parse. Builds fail loudly on these instead of skipping the record.
type MalformedRecordError struct {
	*AppError
	RecordID string
	Field    string
}

func NewMalformedRecordError(recordID, field string, cause error) *MalformedRecordError {
	return &MalformedRecordError{
		AppError: &AppError{
			Message:    fmt.Sprintf("malformed record %s: bad %s", recordID, field),
			Code:       CodeMalformedRecord,
			StatusCode: 502,
			Context: map[string]any{
				"record_id": recordID,
				"field":     field,
			},
			Cause: cause,
		},
		RecordID: recordID,
		Field:    field,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}

func IsPaginationLimit(err error) bool {
	var target *PaginationLimitError
	return errors.As(err, &target)
}

func IsMalformedRecord(err error) bool {
	var target *MalformedRecordError
	return errors.As(err, &target)
}
