package telegram

import "fmt"

// APIError represents an error returned by the Telegram Bot API
type APIError struct {
	Description string
	ErrorCode   int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Telegram API error: %s (code: %d)", e.Description, e.ErrorCode)
}

// RateLimitedError represents a 429 response with a retry hint
type RateLimitedError struct {
	Description string
	RetryAfter  int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("Telegram rate limited: %s (retry after %ds)", e.Description, e.RetryAfter)
}

// ConfigurationError represents a client misconfiguration
type ConfigurationError struct {
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Telegram configuration error: %s", e.Message)
}

// NewAPIError creates a new API error
func NewAPIError(description string, code int) *APIError {
	return &APIError{Description: description, ErrorCode: code}
}

// NewRateLimitedError creates a new rate-limited error
func NewRateLimitedError(description string, retryAfter int) *RateLimitedError {
	return &RateLimitedError{Description: description, RetryAfter: retryAfter}
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string, cause error) *ConfigurationError {
	return &ConfigurationError{Message: message, Cause: cause}
}
