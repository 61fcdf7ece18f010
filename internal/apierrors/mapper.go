package apierrors

import (
	"errors"
	"strings"

	accountsProcessor "callassist-server/internal/accounts/processor"
	aiProcessor "callassist-server/internal/ai-capabilities/processor"
	authProcessor "callassist-server/internal/auth/processor"
	conversationsProcessor "callassist-server/internal/conversations/processor"
	billingProcessor "callassist-server/internal/money/billing/processor"
	"callassist-server/internal/store"
	usageProcessor "callassist-server/internal/usage/processor"
	voicecallProcessor "callassist-server/internal/voicecall/processor"
)

// MapError converts domain/processor errors to APIErrors.
// This function centralizes all error mapping logic to ensure consistent
// error responses across the entire API.
//
// If the error is already an APIError, it returns it as-is.
// If the error is a known domain error, it maps it to an appropriate APIError.
// If the error is unknown, it returns a sanitized InternalError (500).
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	// Map accounts processor errors
	case errors.Is(err, accountsProcessor.ErrUserNotFound):
		return NotFound(CodeAccountNotFound, "Account not found")

	case errors.Is(err, accountsProcessor.ErrInvalidPhoneNumber):
		return BadRequest(CodeInvalidPhoneNumber, "Invalid phone number")

	case errors.Is(err, accountsProcessor.ErrInvalidResponseLength):
		return BadRequest(CodeInvalidResponseLength, "Invalid response length. Valid values: short, medium, long")

	// Map conversations processor errors
	case errors.Is(err, conversationsProcessor.ErrConversationNotFound):
		return NotFound(CodeConversationNotFound, "Conversation not found")

	case errors.Is(err, conversationsProcessor.ErrConversationFinalized):
		return Conflict(CodeConversationFinalized, "Conversation already finalized")

	case errors.Is(err, conversationsProcessor.ErrPersistenceFailed):
		return ServiceUnavailable(CodeStorageUnavailable, "Storage is temporarily unavailable. Please try again later.", err)

	// Map usage processor errors
	case errors.Is(err, usageProcessor.ErrQuotaExceeded):
		return TooManyRequests(CodeQuotaExceeded, "Monthly plan limit reached")

	// Map voice call processor errors
	case errors.Is(err, voicecallProcessor.ErrInvalidEvent):
		return BadRequest(CodeInvalidEvent, "Invalid call event")

	case errors.Is(err, voicecallProcessor.ErrShuttingDown):
		return ServiceUnavailable(CodeInternalError, "Service is shutting down. Please retry.", err)

	// Map auth processor errors
	case errors.Is(err, authProcessor.ErrExpiredToken):
		return Unauthorized("Token expired")

	case errors.Is(err, authProcessor.ErrInvalidJWTToken), errors.Is(err, authProcessor.ErrParseJWTToken):
		return Unauthorized("Invalid token")

	// Map AI errors
	case errors.Is(err, aiProcessor.ErrGenerationUnavailable):
		return ServiceUnavailable(CodeAIServiceError, "AI service is temporarily unavailable. Please try again later.", err)

	// Map billing errors
	case errors.Is(err, billingProcessor.ErrInvalidSignature):
		return BadRequest(CodeInvalidSignature, "Invalid webhook signature")

	case errors.Is(err, billingProcessor.ErrInvalidSubscription):
		return BadRequest(CodeInvalidInput, "Invalid subscription payload")

	// Map store errors
	case errors.Is(err, store.ErrNotFound):
		return NotFound(CodeNotFound, "Resource not found")

	// Check for common external service errors by message content
	default:
		return mapExternalServiceError(err)
	}
}

// mapExternalServiceError attempts to identify external service errors
// and map them to appropriate service-specific error responses.
func mapExternalServiceError(err error) *APIError {
	errMsg := strings.ToLower(err.Error())

	// Stripe/payment errors
	if strings.Contains(errMsg, "stripe") || strings.Contains(errMsg, "payment") {
		return ServiceUnavailable(
			CodePaymentProviderError,
			"Payment provider is temporarily unavailable. Please try again later.",
			err,
		)
	}

	// Email service errors (Resend)
	if strings.Contains(errMsg, "resend") || strings.Contains(errMsg, "email service") {
		return ServiceUnavailable(
			CodeEmailServiceError,
			"Email service is temporarily unavailable. Please try again later.",
			err,
		)
	}

	// AI service errors (OpenAI, Gemini)
	if strings.Contains(errMsg, "openai") || strings.Contains(errMsg, "gemini") || strings.Contains(errMsg, "ai service") {
		return ServiceUnavailable(
			CodeAIServiceError,
			"AI service is temporarily unavailable. Please try again later.",
			err,
		)
	}

	// Default: Unknown error - return sanitized 500
	return InternalError(err)
}
