package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/shelfdesk/metrics-backend/internal/adapters/primary/http/middleware"
	apperrors "github.com/shelfdesk/metrics-backend/internal/core/errors"
)

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	return mw.GetRequestID(ctx)
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler with the given logger
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle processes an error and writes the appropriate HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	requestID := GetRequestID(r.Context())

	// Query-layer failures are always a 500 with a generic message so query
	// text and schema details stay server-side.
	var dataErr *apperrors.DataAccessError
	if errors.As(err, &dataErr) {
		h.logError(r, http.StatusInternalServerError, dataErr, requestID)
		WriteError(w, http.StatusInternalServerError, ErrorBody{
			Message: "Failed to compute metrics",
			Code:    "INTERNAL_ERROR",
		})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		h.logError(r, appErr.StatusCode, appErr.Err, requestID)
		WriteError(w, appErr.StatusCode, ErrorBody{
			Message: appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		})
		return
	}

	var validationErrs *apperrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.logError(r, http.StatusBadRequest, err, requestID)
		WriteError(w, http.StatusBadRequest, ErrorBody{
			Message: "Validation failed",
			Code:    "VALIDATION_ERROR",
			Fields:  validationErrs.Errors,
		})
		return
	}

	statusCode, body := h.mapDomainError(err)
	h.logError(r, statusCode, err, requestID)
	WriteError(w, statusCode, body)
}

// mapDomainError converts domain errors to HTTP status codes and responses
func (h *ErrorHandler) mapDomainError(err error) (int, ErrorBody) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorBody{
			Message: "Authentication required",
			Code:    "UNAUTHORIZED",
		}
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, ErrorBody{
			Message: "You do not have permission to view metrics",
			Code:    "FORBIDDEN",
		}

	case errors.Is(err, apperrors.ErrLibraryRequired),
		errors.Is(err, apperrors.ErrInvalidGroupBy),
		errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrInvalidDate):
		return http.StatusBadRequest, ErrorBody{
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		}

	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, ErrorBody{
			Message: "Resource not found",
			Code:    "NOT_FOUND",
		}

	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, ErrorBody{
			Message: "Too many requests. Please try again later.",
			Code:    "RATE_LIMITED",
		}

	default:
		return http.StatusInternalServerError, ErrorBody{
			Message: "An unexpected error occurred",
			Code:    "INTERNAL_ERROR",
		}
	}
}

// logError logs the error with appropriate context
func (h *ErrorHandler) logError(r *http.Request, statusCode int, err error, requestID string) {
	logAttrs := []any{
		"request_id", requestID,
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"error", err.Error(),
	}

	switch {
	case statusCode >= 500:
		h.logger.Error("server error", logAttrs...)
	case statusCode >= 400:
		h.logger.Warn("client error", logAttrs...)
	default:
		h.logger.Info("request error", logAttrs...)
	}
}
