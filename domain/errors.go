package domain

import (
	"fmt"
	"strings"
)

// ErrorCode represents the type of domain error
type ErrorCode string

const (
	// ErrCodeNotFound indicates that a requested resource was not found
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidInput indicates that the input provided is invalid
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeInvalidState indicates an invalid state transition
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"

	// ErrCodeConfig indicates a configuration error
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeAuth indicates an authentication or token error
	ErrCodeAuth ErrorCode = "AUTH_ERROR"

	// ErrCodeIdentity indicates that the monitored identity could not be resolved
	ErrCodeIdentity ErrorCode = "IDENTITY_NOT_FOUND"

	// ErrCodeXboxAPI indicates an Xbox Live API communication error
	ErrCodeXboxAPI ErrorCode = "XBOX_API_ERROR"

	// ErrCodePresence indicates that no usable presence status was returned
	ErrCodePresence ErrorCode = "PRESENCE_UNAVAILABLE"

	// ErrCodePersistence indicates a state file read/write error
	ErrCodePersistence ErrorCode = "PERSISTENCE_ERROR"

	// ErrCodeNotification indicates a notification delivery error
	ErrCodeNotification ErrorCode = "NOTIFICATION_ERROR"

	// ErrCodeMetrics indicates a metrics publishing error
	ErrCodeMetrics ErrorCode = "METRICS_ERROR"

	// ErrCodeTimezone indicates a timezone-related error
	ErrCodeTimezone ErrorCode = "TIMEZONE_ERROR"

	// ErrCodeInternal indicates an unexpected internal error
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error
func (e *DomainError) WithDetails(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// NewDomainErrorWithCause creates a new domain error with an underlying cause
func NewDomainErrorWithCause(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// Common domain errors

// ErrNotFound creates a not found error
func ErrNotFound(resource string, id string) *DomainError {
	return NewDomainError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetails("resource", resource).
		WithDetails("id", id)
}

// ErrInvalidInput creates an invalid input error
func ErrInvalidInput(field string, reason string) *DomainError {
	return NewDomainError(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithDetails("field", field).
		WithDetails("reason", reason)
}

// ErrInvalidState creates an invalid state error
func ErrInvalidState(entity string, currentState string, attemptedAction string) *DomainError {
	return NewDomainError(ErrCodeInvalidState,
		fmt.Sprintf("invalid state transition for %s: cannot %s in state %s", entity, attemptedAction, currentState)).
		WithDetails("entity", entity).
		WithDetails("currentState", currentState).
		WithDetails("attemptedAction", attemptedAction)
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr.Code
	}
	return ""
}

// Configuration errors

// ErrConfig creates a configuration error
func ErrConfig(section string, reason string) *DomainError {
	return NewDomainError(ErrCodeConfig, fmt.Sprintf("configuration error in %s: %s", section, reason)).
		WithDetails("section", section).
		WithDetails("reason", reason)
}

// ErrConfigWithCause creates a configuration error with cause
func ErrConfigWithCause(section string, reason string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeConfig, fmt.Sprintf("configuration error in %s: %s", section, reason), err).
		WithDetails("section", section).
		WithDetails("reason", reason)
}

// Authentication errors

// ErrAuth creates an authentication error
func ErrAuth(reason string) *DomainError {
	return NewDomainError(ErrCodeAuth, fmt.Sprintf("authentication error: %s", reason)).
		WithDetails("reason", reason)
}

// ErrAuthWithCause creates an authentication error with cause
func ErrAuthWithCause(reason string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeAuth, fmt.Sprintf("authentication error: %s", reason), err).
		WithDetails("reason", reason)
}

// Identity errors

// ErrIdentityNotFound creates an identity resolution error for a gamertag
func ErrIdentityNotFound(gamertag string) *DomainError {
	return NewDomainError(ErrCodeIdentity, fmt.Sprintf("cannot resolve identity for gamertag %s", gamertag)).
		WithDetails("gamertag", gamertag)
}

// ErrIdentityNotFoundWithCause creates an identity resolution error with cause
func ErrIdentityNotFoundWithCause(gamertag string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeIdentity, fmt.Sprintf("cannot resolve identity for gamertag %s", gamertag), err).
		WithDetails("gamertag", gamertag)
}

// Xbox Live API errors

// ErrXboxAPI creates an Xbox Live API error
func ErrXboxAPI(operation string, statusCode int, response string) *DomainError {
	return NewDomainError(ErrCodeXboxAPI, fmt.Sprintf("xbox API error in %s", operation)).
		WithDetails("operation", operation).
		WithDetails("statusCode", statusCode).
		WithDetails("response", response)
}

// ErrXboxAPIWithCause creates an Xbox Live API error with cause
func ErrXboxAPIWithCause(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeXboxAPI, fmt.Sprintf("xbox API error in %s", operation), err).
		WithDetails("operation", operation)
}

// ErrPresenceUnavailable creates an error for a poll that returned no usable status
func ErrPresenceUnavailable(gamertag string, reason string) *DomainError {
	return NewDomainError(ErrCodePresence, fmt.Sprintf("presence unavailable for %s: %s", gamertag, reason)).
		WithDetails("gamertag", gamertag).
		WithDetails("reason", reason)
}

// Persistence errors

// ErrPersistence creates a state file persistence error
func ErrPersistence(operation string, path string, reason string) *DomainError {
	return NewDomainError(ErrCodePersistence, fmt.Sprintf("persistence error in %s: %s", operation, reason)).
		WithDetails("operation", operation).
		WithDetails("path", path).
		WithDetails("reason", reason)
}

// ErrPersistenceWithCause creates a state file persistence error with cause
func ErrPersistenceWithCause(operation string, path string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodePersistence, fmt.Sprintf("persistence error in %s", operation), err).
		WithDetails("operation", operation).
		WithDetails("path", path)
}

// ErrPathTraversal creates a path traversal error
func ErrPathTraversal(path string) *DomainError {
	return NewDomainError(ErrCodePersistence, "path contains directory traversal").
		WithDetails("path", path).
		WithDetails("securityViolation", "directory_traversal")
}

// Notification errors

// ErrNotification creates a notification delivery error
func ErrNotification(channel string, reason string) *DomainError {
	return NewDomainError(ErrCodeNotification, fmt.Sprintf("notification error on %s: %s", channel, reason)).
		WithDetails("channel", channel).
		WithDetails("reason", reason)
}

// ErrNotificationWithCause creates a notification delivery error with cause
func ErrNotificationWithCause(channel string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeNotification, fmt.Sprintf("notification error on %s", channel), err).
		WithDetails("channel", channel)
}

// Metrics errors

// ErrMetrics creates a metrics publishing error
func ErrMetrics(operation string, reason string) *DomainError {
	return NewDomainError(ErrCodeMetrics, fmt.Sprintf("metrics error in %s: %s", operation, reason)).
		WithDetails("operation", operation).
		WithDetails("reason", reason)
}

// ErrMetricsWithCause creates a metrics publishing error with cause
func ErrMetricsWithCause(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeMetrics, fmt.Sprintf("metrics error in %s", operation), err).
		WithDetails("operation", operation)
}

// Timezone-specific errors

// ErrTimezone creates a timezone error
func ErrTimezone(operation string, reason string) *DomainError {
	return NewDomainError(ErrCodeTimezone, fmt.Sprintf("timezone error in %s: %s", operation, reason)).
		WithDetails("operation", operation).
		WithDetails("reason", reason)
}

// ErrTimezoneWithCause creates a timezone error with cause
func ErrTimezoneWithCause(operation string, reason string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeTimezone, fmt.Sprintf("timezone error in %s: %s", operation, reason), err).
		WithDetails("operation", operation).
		WithDetails("reason", reason)
}

// ErrTimezoneDetection creates a timezone detection error
func ErrTimezoneDetection(fallbackLocation string) *DomainError {
	return NewDomainError(ErrCodeTimezone, "failed to detect system timezone, using fallback").
		WithDetails("fallback", fallbackLocation)
}

// ErrTimezoneParse creates a timezone parsing error
func ErrTimezoneParse(timezoneName string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeTimezone, fmt.Sprintf("failed to parse timezone: %s", timezoneName), err).
		WithDetails("timezoneName", timezoneName)
}

// LooksAuthRelated reports whether an error's text suggests an expired or
// invalid credential rather than an ordinary transient failure. Used to
// decide whether a poll failure warrants the one-time auth alert.
func LooksAuthRelated(err error) bool {
	if err == nil {
		return false
	}
	if IsErrorCode(err, ErrCodeAuth) {
		return true
	}
	text := strings.ToLower(err.Error())
	for _, marker := range []string{"auth", "token", "validation"} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
