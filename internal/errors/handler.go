package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"mepscan/internal/arbitrage"
	"mepscan/internal/quotes"
)

// ErrorHandler provides centralized error handling for HTTP handlers.
// It maps domain errors to their API shapes, logs with request context,
// and renders the standard envelope.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to the API envelope and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))

	render.Render(w, r, NewErrorResponse(ToAPIError(err)))
}

// ToAPIError maps domain and transport errors onto API errors. Unknown
// errors become a generic 500 without leaking internals.
func ToAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, ValidationError{
				Field:   fe.Field(),
				Message: "failed validation rule: " + fe.Tag(),
			})
		}
		return NewValidationErrors(details)
	}

	var unreadable *quotes.UnreadableFileError
	if errors.As(err, &unreadable) {
		return ErrUnreadableFile(unreadable)
	}

	var missing *quotes.MissingColumnError
	if errors.As(err, &missing) {
		return ErrMissingColumns(missing.Side.String(), missing.Columns)
	}

	var emptyJoin *arbitrage.EmptyJoinError
	if errors.As(err, &emptyJoin) {
		return ErrEmptyJoin(emptyJoin.LocalRecords, emptyJoin.ForeignRecords)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return New(http.StatusGatewayTimeout, "TIMEOUT", "Request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return New(499, "CLIENT_CLOSED_REQUEST", "Client closed request")
	}

	return ErrInternalServer
}
