package apierrors

import (
	"fmt"
	"net/http"
)

// Machine-readable error codes returned to API clients
const (
	CodeInvalidInput          = "INVALID_INPUT"
	CodeNotFound              = "NOT_FOUND"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeConflict              = "CONFLICT"
	CodeInternalError         = "INTERNAL_ERROR"
	CodeAccountNotFound       = "ACCOUNT_NOT_FOUND"
	CodeInvalidPhoneNumber    = "INVALID_PHONE_NUMBER"
	CodeInvalidResponseLength = "INVALID_RESPONSE_LENGTH"
	CodeConversationNotFound  = "CONVERSATION_NOT_FOUND"
	CodeConversationFinalized = "CONVERSATION_FINALIZED"
	CodeQuotaExceeded         = "QUOTA_EXCEEDED"
	CodeInvalidEvent          = "INVALID_EVENT"
	CodeInvalidSignature      = "INVALID_SIGNATURE"
	CodeInvalidToken          = "INVALID_TOKEN"
	CodeStorageUnavailable    = "STORAGE_UNAVAILABLE"
	CodePaymentProviderError  = "PAYMENT_PROVIDER_ERROR"
	CodeEmailServiceError     = "EMAIL_SERVICE_ERROR"
	CodeAIServiceError        = "AI_SERVICE_ERROR"
)

// APIError is an error that carries the HTTP status and the sanitized message
// shown to clients. Err holds the internal cause and is never serialized.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error
func NotFound(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Code: code, Message: message}
}

// BadRequest creates a 400 error
func BadRequest(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

// Unauthorized creates a 401 error
func Unauthorized(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

// Forbidden creates a 403 error
func Forbidden(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusForbidden, Code: code, Message: message}
}

// Conflict creates a 409 error
func Conflict(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, Code: code, Message: message}
}

// TooManyRequests creates a 429 error
func TooManyRequests(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusTooManyRequests, Code: code, Message: message}
}

// ServiceUnavailable creates a 503 error that keeps the internal cause for logging
func ServiceUnavailable(code, message string, err error) *APIError {
	return &APIError{StatusCode: http.StatusServiceUnavailable, Code: code, Message: message, Err: err}
}

// InternalError creates a sanitized 500 error - never exposes internal details
func InternalError(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    "An internal error occurred. Please try again later.",
		Err:        err,
	}
}
