// Package errors defines the structured API error envelope shared by
// every HTTP handler, plus the mapping from domain errors to responses.
package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents a single failed field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	ErrInvalidRequest    = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrValidationFailed  = New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	ErrMissingParameter  = New(http.StatusBadRequest, "MISSING_PARAMETER", "Required parameter is missing")
	ErrPayloadTooLarge   = New(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Uploaded file exceeds the size limit")
	ErrNotFound          = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
	ErrInternalServer    = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// ErrMissingColumns reports a spreadsheet that loaded but lacks required
// columns. 422: the upload was well-formed, its content was not usable.
func ErrMissingColumns(side string, columns []string) *APIError {
	return NewWithDetails(
		http.StatusUnprocessableEntity,
		"MISSING_COLUMNS",
		fmt.Sprintf("The %s file is missing required columns", side),
		map[string]interface{}{"side": side, "columns": columns},
	)
}

// ErrEmptyJoin reports that the two files loaded but share no tickers.
// Surfaced distinctly from "no opportunities": a disjoint join usually
// means the two uploads follow different symbol conventions.
func ErrEmptyJoin(localRecords, foreignRecords int) *APIError {
	return NewWithDetails(
		http.StatusUnprocessableEntity,
		"EMPTY_JOIN",
		"No tickers matched between the two files",
		map[string]int{
			"local_records":   localRecords,
			"foreign_records": foreignRecords,
		},
	)
}

// ErrUnreadableFile reports a file that could not be parsed as a workbook
func ErrUnreadableFile(err error) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, "UNREADABLE_FILE",
		"Uploaded file could not be read as a spreadsheet", err.Error())
}

// NewValidationErrors creates a validation error from multiple fields
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Request validation failed",
		map[string][]ValidationError{"errors": errors},
	)
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
	}
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}
