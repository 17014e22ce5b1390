package errors

import "fmt"

// Application error types organized by category for better error handling

type ErrorType string

// Domain/Business Logic Errors - errors related to business rules and validation
const (
	ValidationError     ErrorType = "VALIDATION_ERROR"
	NoLocationError     ErrorType = "NO_LOCATION_AVAILABLE"
	InvalidWeatherError ErrorType = "INVALID_WEATHER_INPUT"
)

// Infrastructure Errors - errors related to external systems and services
const (
	WeatherUnavailableError   ErrorType = "WEATHER_UNAVAILABLE"
	WeatherMisconfiguredError ErrorType = "WEATHER_SERVICE_MISCONFIGURED"
	WeatherUntrustedError     ErrorType = "WEATHER_PROVIDER_UNTRUSTED"
	StoreError                ErrorType = "STORE_ERROR"
)

// System/Configuration Errors - errors related to system setup and configuration
const (
	ConfigurationError ErrorType = "CONFIGURATION_ERROR"
)

type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

func Wrap(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// Domain/Business Logic Error Constructors
func NewValidationError(message string) *AppError {
	return New(ValidationError, message)
}

// NewNoLocationError signals that every location source has been exhausted.
// Callers must not substitute a default location in its place.
func NewNoLocationError(message string) *AppError {
	return New(NoLocationError, message)
}

func NewInvalidWeatherError(message string) *AppError {
	return New(InvalidWeatherError, message)
}

// Infrastructure Error Constructors
func NewWeatherUnavailableError(message string, cause error) *AppError {
	return Wrap(WeatherUnavailableError, message, cause)
}

func NewWeatherMisconfiguredError(message string, cause error) *AppError {
	return Wrap(WeatherMisconfiguredError, message, cause)
}

// NewWeatherUntrustedError marks a weather response whose source tag does not
// identify the expected upstream provider.
func NewWeatherUntrustedError(message string) *AppError {
	return New(WeatherUntrustedError, message)
}

func NewStoreError(message string, cause error) *AppError {
	return Wrap(StoreError, message, cause)
}

// System/Configuration Error Constructors
func NewConfigurationError(message string, cause error) *AppError {
	return Wrap(ConfigurationError, message, cause)
}

// Helper functions for error type checking
func IsNoLocationError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == NoLocationError
	}
	return false
}

func IsValidationError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ValidationError
	}
	return false
}

func IsWeatherUnavailableError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == WeatherUnavailableError
	}
	return false
}

func IsWeatherUntrustedError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == WeatherUntrustedError
	}
	return false
}

func IsWeatherMisconfiguredError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == WeatherMisconfiguredError
	}
	return false
}

func IsInvalidWeatherError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == InvalidWeatherError
	}
	return false
}

func IsStoreError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == StoreError
	}
	return false
}

func IsConfigurationError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ConfigurationError
	}
	return false
}
