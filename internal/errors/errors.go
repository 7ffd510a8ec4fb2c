// Package errors defines the engine's error taxonomy and the HTTP error
// handling middleware built on top of it.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
)

// ErrorCategory classifies an error for handling and reporting.
type ErrorCategory string

const (
	// CategoryInput: no usable text or URL was supplied; analysis did not run.
	CategoryInput ErrorCategory = "input"
	// CategoryConfiguration: signal names and weight entries disagree; a
	// deployment defect, never retried.
	CategoryConfiguration ErrorCategory = "configuration"
	// CategoryPersistence: weight or history load/save failed; the engine
	// continues on in-memory state.
	CategoryPersistence ErrorCategory = "persistence"
	// CategoryExternalAPI: an optional external signal provider failed.
	CategoryExternalAPI ErrorCategory = "external_api"
	// CategoryRateLimit: the caller exceeded the request budget.
	CategoryRateLimit ErrorCategory = "rate_limit"
	// CategoryInternal: anything else.
	CategoryInternal ErrorCategory = "internal"
)

// AppError wraps an errbuilder error with category and transport context.
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory `json:"category"`
	HTTPStatus int           `json:"http_status"`
	Timestamp  time.Time     `json:"timestamp"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Category, e.ErrBuilder.Msg)
}

func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

func newAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, status int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: status,
		Timestamp:  time.Now(),
	}
}

// NewInputError reports an unanalyzable submission.
func NewInputError(message string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)
	return newAppError(builder, CategoryInput, http.StatusBadRequest)
}

// NewConfigurationError reports a signal/weight mismatch or bad calibration.
func NewConfigurationError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategoryConfiguration, http.StatusInternalServerError)
}

// NewPersistenceError reports a storage failure. Callers treat it as a
// warning and continue on in-memory state.
func NewPersistenceError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategoryPersistence, http.StatusServiceUnavailable)
}

// NewExternalAPIError reports a failed external signal provider call.
func NewExternalAPIError(provider string, cause error) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("provider", errors.New(provider))
	builder := errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(fmt.Sprintf("%s provider error", provider)).
		WithDetails(errbuilder.NewErrDetails(errorMap))
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategoryExternalAPI, http.StatusBadGateway)
}

// NewRateLimitError reports an exhausted request budget.
func NewRateLimitError(retryAfter string) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("retry_after", errors.New(retryAfter))
	builder := errbuilder.New().
		WithCode(errbuilder.CodeResourceExhausted).
		WithMsg("Rate limit exceeded").
		WithDetails(errbuilder.NewErrDetails(errorMap))
	return newAppError(builder, CategoryRateLimit, http.StatusTooManyRequests)
}

// NewInternalError reports an unexpected failure.
func NewInternalError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategoryInternal, http.StatusInternalServerError)
}

// ToAppError converts any error into an AppError.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if ebErr, ok := err.(*errbuilder.ErrBuilder); ok {
		return newAppError(ebErr, CategoryInternal, http.StatusInternalServerError)
	}
	return NewInternalError(err.Error(), err)
}

// LogError writes the error through slog with request context.
func LogError(c *gin.Context, appErr *AppError) {
	attrs := []any{
		"category", appErr.Category,
		"status", appErr.HTTPStatus,
		"message", appErr.ErrBuilder.Msg,
	}
	if c != nil {
		attrs = append(attrs, "path", c.Request.URL.Path, "method", c.Request.Method)
	}
	if appErr.Category == CategoryPersistence || appErr.Category == CategoryRateLimit {
		slog.Warn("request degraded", attrs...)
		return
	}
	slog.Error("request failed", attrs...)
}

// ErrorHandler is the centralized gin error middleware: the last attached
// error becomes the structured response body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		appErr := ToAppError(c.Errors.Last().Err)
		LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, gin.H{
			"error":     appErr.ErrBuilder.Msg,
			"category":  appErr.Category,
			"timestamp": appErr.Timestamp.Format(time.RFC3339),
		})
	}
}

// RecoveryHandler converts panics into structured internal errors.
func RecoveryHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		appErr := NewInternalError(fmt.Sprintf("panic recovered: %v", err), fmt.Errorf("%v", err))
		LogError(c, appErr)
		c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
			"error":    "internal server error",
			"category": appErr.Category,
		})
	})
}
