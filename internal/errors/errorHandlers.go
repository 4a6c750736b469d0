package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeBadRequest          ErrorType = "BAD_REQUEST"
	ErrorTypeUnauthorized        ErrorType = "UNAUTHORIZED"
	ErrorTypeQuotaExceeded       ErrorType = "QUOTA_EXCEEDED"
	ErrorTypeRateLimited         ErrorType = "RATE_LIMITED"
	ErrorTypeInternalServerError ErrorType = "INTERNAL_SERVER_ERROR"
	ErrorTypeServiceUnavailable  ErrorType = "SERVICE_UNAVAILABLE"
)

// CustomError represents a custom error with associated HTTP status code and type.
// Message is safe to return to the caller; Internal is logged, never returned.
type CustomError struct {
	Type       ErrorType
	Label      string
	Message    string
	StatusCode int
	Internal   error
	Meta       gin.H
}

// Error implements the error interface
func (e *CustomError) Error() string {
	return e.Message
}

// WithMeta attaches extra response fields (e.g. creditsRemaining) to the error
func (e *CustomError) WithMeta(meta gin.H) *CustomError {
	e.Meta = meta
	return e
}

// newError creates a new CustomError
func newError(errType ErrorType, label, message string, statusCode int, internal error) *CustomError {
	return &CustomError{
		Type:       errType,
		Label:      label,
		Message:    message,
		StatusCode: statusCode,
		Internal:   internal,
	}
}

// New400Error creates a new bad request error
func New400Error(label, message string) *CustomError {
	return newError(ErrorTypeBadRequest, label, message, http.StatusBadRequest, nil)
}

// New401Error creates a new unauthorized error
func New401Error() *CustomError {
	return newError(ErrorTypeUnauthorized, "Unauthorized", "Unauthorized access", http.StatusUnauthorized, nil)
}

// New402Error creates a new quota exceeded error
func New402Error(message string) *CustomError {
	return newError(ErrorTypeQuotaExceeded, "Daily limit reached", message, http.StatusPaymentRequired, nil)
}

// New429Error creates a new upstream rate limit error
func New429Error(internal error) *CustomError {
	return newError(ErrorTypeRateLimited, "Rate limit exceeded", "Too many requests. Please wait a moment and try again.", http.StatusTooManyRequests, internal)
}

// New500Error creates a new internal server error
func New500Error(label, message string, internal error) *CustomError {
	return newError(ErrorTypeInternalServerError, label, message, http.StatusInternalServerError, internal)
}

// New503Error creates a new service unavailable error
func New503Error(internal error) *CustomError {
	return newError(ErrorTypeServiceUnavailable, "Service unavailable", "Cannot reach AI service. Please try again.", http.StatusServiceUnavailable, internal)
}

// HandleError handles the custom error and sends an appropriate JSON response
func HandleError(c *gin.Context, err error) {
	var customErr *CustomError
	var ok bool

	if customErr, ok = err.(*CustomError); !ok {
		customErr = New500Error("Server error", "An unexpected error occurred. Please try again.", err)
	}

	// Log internal detail; it is never sent to the caller
	if customErr.Internal != nil {
		log.Error().
			Err(customErr.Internal).
			Str("type", string(customErr.Type)).
			Str("url", c.Request.URL.String()).
			Msg("Request failed")
	}

	body := gin.H{
		"success": false,
		"error":   customErr.Label,
		"message": customErr.Message,
	}
	for k, v := range customErr.Meta {
		body[k] = v
	}

	c.JSON(customErr.StatusCode, body)
}
